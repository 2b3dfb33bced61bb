package exprlang

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/phollemans/gridcore/src/chunk"
	"github.com/phollemans/gridcore/src/exprfunc"
)

var errUnknownVariable = errors.New("exprlang: variable has no declared type")
var errTypeMismatch = errors.New("exprlang: type mismatch in expression")

// Parser is a from-scratch reference implementation of exprfunc.Parser:
// tokenise, build a small precedence-climbing AST, type-check it once
// against the caller-declared variable types, and evaluate it per element
// against an exprfunc.ValueSource.
type Parser struct {
	root       node
	vars       []string
	varIndex   map[string]int
	varTypes   map[string]chunk.Dtype
	resultType exprfunc.ResultType
}

// NewParser parses expr and type-checks it against varTypes (one entry per
// variable the expression may reference). Variables() is returned in
// first-occurrence order within expr — the order callers must bind input
// chunks in.
func NewParser(expr string, varTypes map[string]chunk.Dtype) (*Parser, error) {
	sc := newScanner(expr)
	tokens, err := sc.tokenise()
	if err != nil {
		return nil, err
	}
	root, err := parseTokens(tokens)
	if err != nil {
		return nil, err
	}

	p := &Parser{root: root, varTypes: varTypes, varIndex: map[string]int{}}
	collectVariables(root, p)
	for _, name := range p.vars {
		if _, ok := varTypes[name]; !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownVariable, name)
		}
	}
	rt, err := inferType(root, varTypes)
	if err != nil {
		return nil, err
	}
	p.resultType = rt
	return p, nil
}

func collectVariables(n node, p *Parser) {
	switch v := n.(type) {
	case identNode:
		if _, seen := p.varIndex[v.name]; !seen {
			p.varIndex[v.name] = len(p.vars)
			p.vars = append(p.vars, v.name)
		}
	case unaryNode:
		collectVariables(v.operand, p)
	case binaryNode:
		collectVariables(v.left, p)
		collectVariables(v.right, p)
	}
}

func dtypeToResult(dt chunk.Dtype) exprfunc.ResultType {
	switch dt {
	case chunk.DtypeByte:
		return exprfunc.ResultByte
	case chunk.DtypeShort:
		return exprfunc.ResultShort
	case chunk.DtypeInt:
		return exprfunc.ResultInt
	case chunk.DtypeLong:
		return exprfunc.ResultLong
	case chunk.DtypeFloat:
		return exprfunc.ResultFloat
	case chunk.DtypeDouble:
		return exprfunc.ResultDouble
	default:
		return exprfunc.ResultInvalid
	}
}

func resultRank(rt exprfunc.ResultType) int {
	switch rt {
	case exprfunc.ResultByte:
		return 1
	case exprfunc.ResultShort:
		return 2
	case exprfunc.ResultInt:
		return 3
	case exprfunc.ResultLong:
		return 4
	case exprfunc.ResultFloat:
		return 5
	case exprfunc.ResultDouble:
		return 6
	default:
		return 0
	}
}

func widerResult(a, b exprfunc.ResultType) exprfunc.ResultType {
	if resultRank(a) >= resultRank(b) {
		return a
	}
	return b
}

func isNumeric(rt exprfunc.ResultType) bool { return rt != exprfunc.ResultBool && rt != exprfunc.ResultInvalid }

func inferType(n node, varTypes map[string]chunk.Dtype) (exprfunc.ResultType, error) {
	switch v := n.(type) {
	case identNode:
		return dtypeToResult(varTypes[v.name]), nil
	case numberNode:
		if v.isFloat {
			return exprfunc.ResultDouble, nil
		}
		return exprfunc.ResultLong, nil
	case boolNode:
		return exprfunc.ResultBool, nil
	case unaryNode:
		t, err := inferType(v.operand, varTypes)
		if err != nil {
			return 0, err
		}
		switch v.op {
		case tokenSub:
			if !isNumeric(t) {
				return 0, fmt.Errorf("%w: unary - requires a numeric operand", errTypeMismatch)
			}
			return t, nil
		case tokenNot:
			if t != exprfunc.ResultBool {
				return 0, fmt.Errorf("%w: ! requires a boolean operand", errTypeMismatch)
			}
			return exprfunc.ResultBool, nil
		default:
			return 0, fmt.Errorf("%w: unknown unary operator", errTypeMismatch)
		}
	case binaryNode:
		lt, err := inferType(v.left, varTypes)
		if err != nil {
			return 0, err
		}
		rt, err := inferType(v.right, varTypes)
		if err != nil {
			return 0, err
		}
		switch v.op {
		case tokenAdd, tokenSub, tokenMul, tokenQuo:
			if !isNumeric(lt) || !isNumeric(rt) {
				return 0, fmt.Errorf("%w: arithmetic requires numeric operands", errTypeMismatch)
			}
			return widerResult(lt, rt), nil
		case tokenGt, tokenGte, tokenLt, tokenLte:
			if !isNumeric(lt) || !isNumeric(rt) {
				return 0, fmt.Errorf("%w: comparison requires numeric operands", errTypeMismatch)
			}
			return exprfunc.ResultBool, nil
		case tokenEq, tokenNeq:
			if isNumeric(lt) != isNumeric(rt) {
				return 0, fmt.Errorf("%w: == and != require operands of the same kind", errTypeMismatch)
			}
			return exprfunc.ResultBool, nil
		case tokenAnd, tokenOr:
			if lt != exprfunc.ResultBool || rt != exprfunc.ResultBool {
				return 0, fmt.Errorf("%w: && and || require boolean operands", errTypeMismatch)
			}
			return exprfunc.ResultBool, nil
		default:
			return 0, fmt.Errorf("%w: unknown binary operator", errTypeMismatch)
		}
	default:
		return 0, fmt.Errorf("%w: unknown AST node %T", errTypeMismatch, n)
	}
}

// Variables returns the expression's variable names in first-occurrence
// order; ExpressionFunction binds input chunks to this same order.
func (p *Parser) Variables() []string { return p.vars }

func (p *Parser) VariableType(name string) chunk.Dtype { return p.varTypes[name] }

func (p *Parser) ResultType() exprfunc.ResultType { return p.resultType }

func (p *Parser) EvaluateToBool(src exprfunc.ValueSource) (bool, error) {
	return p.evalBool(p.root, src)
}

func (p *Parser) EvaluateToByte(src exprfunc.ValueSource) (int8, error) {
	v, err := p.evalNumeric(p.root, src)
	return int8(v), err
}

func (p *Parser) EvaluateToShort(src exprfunc.ValueSource) (int16, error) {
	v, err := p.evalNumeric(p.root, src)
	return int16(v), err
}

func (p *Parser) EvaluateToInt(src exprfunc.ValueSource) (int32, error) {
	v, err := p.evalNumeric(p.root, src)
	return int32(v), err
}

func (p *Parser) EvaluateToLong(src exprfunc.ValueSource) (int64, error) {
	v, err := p.evalNumeric(p.root, src)
	return int64(v), err
}

func (p *Parser) EvaluateToFloat(src exprfunc.ValueSource) (float32, error) {
	v, err := p.evalNumeric(p.root, src)
	return float32(v), err
}

func (p *Parser) EvaluateToDouble(src exprfunc.ValueSource) (float64, error) {
	return p.evalNumeric(p.root, src)
}

func (p *Parser) evalNumeric(n node, src exprfunc.ValueSource) (float64, error) {
	switch v := n.(type) {
	case identNode:
		return p.getVariable(v.name, src), nil
	case numberNode:
		f, err := strconv.ParseFloat(v.text, 64)
		if err != nil {
			return 0, fmt.Errorf("exprlang: invalid numeric literal %q: %w", v.text, err)
		}
		return f, nil
	case unaryNode:
		operand, err := p.evalNumeric(v.operand, src)
		if err != nil {
			return 0, err
		}
		return -operand, nil
	case binaryNode:
		l, err := p.evalNumeric(v.left, src)
		if err != nil {
			return 0, err
		}
		r, err := p.evalNumeric(v.right, src)
		if err != nil {
			return 0, err
		}
		switch v.op {
		case tokenAdd:
			return l + r, nil
		case tokenSub:
			return l - r, nil
		case tokenMul:
			return l * r, nil
		case tokenQuo:
			return l / r, nil
		default:
			return 0, fmt.Errorf("exprlang: %q is not a numeric operator", opSymbol(v.op))
		}
	default:
		return 0, fmt.Errorf("exprlang: %T is not a numeric expression", n)
	}
}

func (p *Parser) evalBool(n node, src exprfunc.ValueSource) (bool, error) {
	switch v := n.(type) {
	case boolNode:
		return v.value, nil
	case unaryNode:
		if v.op != tokenNot {
			return false, fmt.Errorf("exprlang: %q is not a boolean operator", opSymbol(v.op))
		}
		operand, err := p.evalBool(v.operand, src)
		if err != nil {
			return false, err
		}
		return !operand, nil
	case binaryNode:
		switch v.op {
		case tokenAnd:
			l, err := p.evalBool(v.left, src)
			if err != nil {
				return false, err
			}
			r, err := p.evalBool(v.right, src)
			if err != nil {
				return false, err
			}
			return l && r, nil
		case tokenOr:
			l, err := p.evalBool(v.left, src)
			if err != nil {
				return false, err
			}
			r, err := p.evalBool(v.right, src)
			if err != nil {
				return false, err
			}
			return l || r, nil
		case tokenGt, tokenGte, tokenLt, tokenLte, tokenEq, tokenNeq:
			l, err := p.evalNumeric(v.left, src)
			if err != nil {
				return false, err
			}
			r, err := p.evalNumeric(v.right, src)
			if err != nil {
				return false, err
			}
			switch v.op {
			case tokenGt:
				return l > r, nil
			case tokenGte:
				return l >= r, nil
			case tokenLt:
				return l < r, nil
			case tokenLte:
				return l <= r, nil
			case tokenEq:
				return l == r, nil
			default: // tokenNeq
				return l != r, nil
			}
		default:
			return false, fmt.Errorf("exprlang: %q is not a boolean operator", opSymbol(v.op))
		}
	default:
		return false, fmt.Errorf("exprlang: %T is not a boolean expression", n)
	}
}

func (p *Parser) getVariable(name string, src exprfunc.ValueSource) float64 {
	idx := p.varIndex[name]
	switch p.varTypes[name] {
	case chunk.DtypeByte:
		return float64(src.GetByteProperty(idx))
	case chunk.DtypeShort:
		return float64(src.GetShortProperty(idx))
	case chunk.DtypeInt:
		return float64(src.GetIntProperty(idx))
	case chunk.DtypeLong:
		return float64(src.GetLongProperty(idx))
	case chunk.DtypeFloat:
		return float64(src.GetFloatProperty(idx))
	case chunk.DtypeDouble:
		return src.GetDoubleProperty(idx)
	default:
		return 0
	}
}
