package query

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Node is a ConditionNode or a RuleNode.
type Node interface {
	isNode()
}

// ConditionNode combines its children with AND or OR.
type ConditionNode struct {
	Combinator Combinator
	Children   []Node
}

// RuleNode compares one field with a literal value. Value is ignored for
// unary operators.
type RuleNode struct {
	Field    string
	Type     ValueType
	Operator Operator
	Value    string
}

func (*ConditionNode) isNode() {}
func (*RuleNode) isNode()      {}

// AndOf and OrOf build condition nodes in code.
func AndOf(children ...Node) *ConditionNode {
	return &ConditionNode{Combinator: And, Children: children}
}

func OrOf(children ...Node) *ConditionNode {
	return &ConditionNode{Combinator: Or, Children: children}
}

// PolygonMap maps polygon display names to backend data ids.
type PolygonMap map[string]string

type wireNode struct {
	Condition *string           `json:"condition"`
	Rules     []json.RawMessage `json:"rules"`
	Field     string            `json:"field"`
	Type      string            `json:"type"`
	Operator  string            `json:"operator"`
	Value     json.RawMessage   `json:"value"`
}

// DecodeNode parses the JSON tree emitted by the query builder. An object
// with a "condition" key is a condition, anything else is a rule.
func DecodeNode(data []byte) (Node, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "decode query")
	}
	if w.Condition != nil {
		c, err := ParseCombinator(*w.Condition)
		if err != nil {
			return nil, err
		}
		cond := &ConditionNode{Combinator: c, Children: make([]Node, 0, len(w.Rules))}
		for _, raw := range w.Rules {
			child, err := DecodeNode(raw)
			if err != nil {
				return nil, err
			}
			cond.Children = append(cond.Children, child)
		}
		return cond, nil
	}

	op, err := ParseOperator(w.Operator)
	if err != nil {
		return nil, err
	}
	rule := &RuleNode{Field: w.Field, Operator: op}
	if w.Type != "" || !op.Unary() {
		if rule.Type, err = ParseValueType(w.Type); err != nil {
			return nil, err
		}
	}
	if rule.Value, err = literal(w.Value); err != nil {
		return nil, err
	}
	return rule, nil
}

// literal keeps numbers and booleans in their JSON spelling.
func literal(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errors.Wrap(err, "decode rule value")
		}
		return s, nil
	case '[', '{':
		return "", &CompileError{Reason: "unsupported rule value", Value: strings.TrimSpace(string(raw))}
	}
	return string(raw), nil
}
