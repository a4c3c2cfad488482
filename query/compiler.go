package query

import (
	"strings"

	"github.com/pivolan/sheet_analyzer/stats"
)

// Compiler translates query trees into filter expressions.
type Compiler struct {
	// DateColumns are compared by age.
	DateColumns []string
	// PolygonField is the virtual column for polygon membership.
	PolygonField string
}

func NewCompiler(conv stats.Conventions) *Compiler {
	conv = conv.WithDefaults()
	return &Compiler{
		DateColumns:  conv.DateColumns,
		PolygonField: conv.PolygonField,
	}
}

// Compile uses the default conventions.
func Compile(n Node, polygons PolygonMap) (string, error) {
	return NewCompiler(stats.DefaultConventions()).Compile(n, polygons)
}

// Compile returns the filter expression for n. A polygon rule whose name is
// missing from polygons compiles to false instead of failing.
func (c *Compiler) Compile(n Node, polygons PolygonMap) (string, error) {
	switch n := n.(type) {
	case *ConditionNode:
		return c.condition(n, polygons)
	case *RuleNode:
		return c.rule(n, polygons)
	case nil:
		return "", &CompileError{Reason: "empty query", Value: "nil"}
	}
	return "", &CompileError{Reason: "unsupported node", Value: "unknown"}
}

func (c *Compiler) condition(n *ConditionNode, polygons PolygonMap) (string, error) {
	var sep string
	switch n.Combinator {
	case And:
		sep = " && "
	case Or:
		sep = " || "
	default:
		return "", &CompileError{Reason: "unsupported combinator", Value: n.Combinator.String()}
	}

	parts := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		s, err := c.Compile(child, polygons)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func (c *Compiler) rule(r *RuleNode, polygons PolygonMap) (string, error) {
	switch r.Operator {
	case IsEmpty:
		return "IsBlank(" + r.Field + ")", nil
	case IsNotEmpty:
		return "(!IsBlank(" + r.Field + "))", nil
	}

	var value string
	switch r.Type {
	case Boolean:
		if r.Value == TrueValue {
			return "(IsTrue(" + r.Field + "))", nil
		}
		return "(IsFalse(" + r.Field + "))", nil
	case String:
		// the filter language has no escape for quotes inside literals
		if strings.Contains(r.Value, "'") && r.Field != c.PolygonField {
			return "", &CompileError{Reason: "quote in string value", Value: r.Value}
		}
		value = "'" + r.Value + "'"
	case Double:
		value = r.Value
	default:
		return "", &CompileError{Reason: "unhandled value type", Value: r.Type.String()}
	}

	if r.Field == c.PolygonField {
		return c.polygon(r, polygons)
	}

	symbol, ok := operatorSymbols[r.Operator]
	if !ok {
		return "", &CompileError{Reason: "unhandled operator type", Value: r.Operator.String()}
	}

	field := r.Field
	if c.isDate(field) {
		field = "(Age(" + field + "))"
	}
	return "(" + field + " " + symbol + " " + value + ")", nil
}

func (c *Compiler) polygon(r *RuleNode, polygons PolygonMap) (string, error) {
	id, ok := polygons[r.Value]
	if !ok || id == "" {
		return "false", nil
	}
	switch r.Operator {
	case Equal:
		return "(" + PolygonFilter(id) + ")", nil
	case NotEqual:
		return "(!" + PolygonFilter(id) + ")", nil
	}
	return "", &CompileError{Reason: "unsupported polygon operator", Value: r.Operator.String()}
}

func (c *Compiler) isDate(field string) bool {
	for _, d := range c.DateColumns {
		if d == field {
			return true
		}
	}
	return false
}
