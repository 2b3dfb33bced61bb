// Package exprfunc binds an externally-supplied, already-parsed arithmetic
// expression to a fixed-order list of input chunks. It touches the
// expression only through the Parser/ValueSource interfaces below — never
// any concrete parser — so a caller can swap in any expression language
// without this package changing.
package exprfunc

import "github.com/phollemans/gridcore/src/chunk"

// ResultType is the type an expression's evaluation produces.
type ResultType uint8

const (
	ResultInvalid ResultType = iota
	ResultBool
	ResultByte
	ResultShort
	ResultInt
	ResultLong
	ResultFloat
	ResultDouble
)

// Parser is the external collaborator interface: an already-parsed
// expression that declares its variables' types and can evaluate itself
// against a ValueSource.
type Parser interface {
	// Variables returns the expression's variable names, in the order its
	// evaluate_to_T calls expect get_T_property's var_index to match.
	Variables() []string
	// VariableType returns the declared primitive type of a variable.
	VariableType(name string) chunk.Dtype
	// ResultType returns the type evaluation produces.
	ResultType() ResultType

	EvaluateToBool(src ValueSource) (bool, error)
	EvaluateToByte(src ValueSource) (int8, error)
	EvaluateToShort(src ValueSource) (int16, error)
	EvaluateToInt(src ValueSource) (int32, error)
	EvaluateToLong(src ValueSource) (int64, error)
	EvaluateToFloat(src ValueSource) (float32, error)
	EvaluateToDouble(src ValueSource) (float64, error)
}

// ValueSource exposes one element's worth of each variable's value to a
// Parser mid-evaluation, addressed by the variable's position in
// Parser.Variables().
type ValueSource interface {
	GetByteProperty(varIndex int) int8
	GetShortProperty(varIndex int) int16
	GetIntProperty(varIndex int) int32
	GetLongProperty(varIndex int) int64
	GetFloatProperty(varIndex int) float32
	GetDoubleProperty(varIndex int) float64
}
