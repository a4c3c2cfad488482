// Package query turns the rule tree produced by a visual query builder into
// the filter expression language of the sheet service.
//
// The builder emits a recursive tree of conditions and rules:
//
//	{"condition": "AND", "rules": [
//	    {"field": "Age", "type": "double", "operator": "greater_or_equal", "value": 5},
//	    {"field": "Called", "type": "boolean", "operator": "equal", "value": "true"}
//	]}
//
// which compiles to
//
//	((Age >= 5) && (IsTrue(Called)))
//
// Compilation only produces text. Evaluating the filter is the job of the
// sheet service.
package query

import "fmt"

// Combinator joins the children of a condition.
type Combinator int

const (
	And Combinator = iota
	Or
)

func (c Combinator) String() string {
	switch c {
	case And:
		return "AND"
	case Or:
		return "OR"
	}
	return fmt.Sprintf("Combinator(%d)", int(c))
}

func ParseCombinator(s string) (Combinator, error) {
	switch s {
	case "AND":
		return And, nil
	case "OR":
		return Or, nil
	}
	return 0, &CompileError{Reason: "unsupported combinator", Value: s}
}

// ValueType is the declared type of a rule value.
type ValueType int

const (
	String ValueType = iota
	Double
	Boolean
)

func (t ValueType) String() string {
	switch t {
	case String:
		return "string"
	case Double:
		return "double"
	case Boolean:
		return "boolean"
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}

func ParseValueType(s string) (ValueType, error) {
	switch s {
	case "string":
		return String, nil
	case "double":
		return Double, nil
	case "boolean":
		return Boolean, nil
	}
	return 0, &CompileError{Reason: "unhandled value type", Value: s}
}

// Operator is a rule comparison.
type Operator int

const (
	Equal Operator = iota
	NotEqual
	IsEmpty
	IsNotEmpty
	Less
	LessOrEqual
	Greater
	GreaterOrEqual
)

var operatorNames = [...]string{
	Equal:          "equal",
	NotEqual:       "not_equal",
	IsEmpty:        "is_empty",
	IsNotEmpty:     "is_not_empty",
	Less:           "less",
	LessOrEqual:    "less_or_equal",
	Greater:        "greater",
	GreaterOrEqual: "greater_or_equal",
}

var operatorSymbols = map[Operator]string{
	Equal:          "==",
	NotEqual:       "!=",
	Less:           "<",
	LessOrEqual:    "<=",
	Greater:        ">",
	GreaterOrEqual: ">=",
}

func (o Operator) String() string {
	if o >= 0 && int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Unary operators take no value.
func (o Operator) Unary() bool {
	return o == IsEmpty || o == IsNotEmpty
}

func ParseOperator(s string) (Operator, error) {
	for i, name := range operatorNames {
		if name == s {
			return Operator(i), nil
		}
	}
	return 0, &CompileError{Reason: "unhandled operator type", Value: s}
}

// Input is the widget the builder shows for a field.
type Input int

const (
	Text Input = iota
	Number
	Select
	Radio
)

func (i Input) String() string {
	switch i {
	case Text:
		return "text"
	case Number:
		return "number"
	case Select:
		return "select"
	case Radio:
		return "radio"
	}
	return fmt.Sprintf("Input(%d)", int(i))
}

// Literal values of boolean rules.
const (
	TrueValue  = "true"
	FalseValue = "false"
)

// CompileError reports a tree the compiler cannot translate.
type CompileError struct {
	Reason string
	Value  string
}

func (e *CompileError) Error() string {
	return e.Reason + ": " + e.Value
}
