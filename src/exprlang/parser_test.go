package exprlang

import (
	"testing"

	"github.com/phollemans/gridcore/src/chunk"
	"github.com/phollemans/gridcore/src/exprfunc"
)

type fixedSource struct {
	shorts []int16
}

func (s fixedSource) GetByteProperty(int) int8     { return 0 }
func (s fixedSource) GetShortProperty(i int) int16 { return s.shorts[i] }
func (s fixedSource) GetIntProperty(int) int32     { return 0 }
func (s fixedSource) GetLongProperty(int) int64    { return 0 }
func (s fixedSource) GetFloatProperty(int) float32 { return 0 }
func (s fixedSource) GetDoubleProperty(int) float64 { return 0 }

func TestParserVariableOrderAndArithmetic(t *testing.T) {
	p, err := NewParser("a + b * 2", map[string]chunk.Dtype{"a": chunk.DtypeShort, "b": chunk.DtypeShort})
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Variables(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Variables() = %v, want [a b] in first-occurrence order", got)
	}
	if p.ResultType() != exprfunc.ResultLong { // the integer literal 2 widens to long
		t.Fatalf("ResultType() = %v, want ResultLong", p.ResultType())
	}
	got, err := p.EvaluateToShort(fixedSource{shorts: []int16{3, 4}})
	if err != nil {
		t.Fatal(err)
	}
	if got != 11 { // 3 + 4*2
		t.Errorf("a + b*2 with a=3,b=4 = %v, want 11", got)
	}
}

func TestParserComparisonProducesBool(t *testing.T) {
	p, err := NewParser("a > b", map[string]chunk.Dtype{"a": chunk.DtypeShort, "b": chunk.DtypeShort})
	if err != nil {
		t.Fatal(err)
	}
	if p.ResultType() != exprfunc.ResultBool {
		t.Fatalf("ResultType() = %v, want ResultBool", p.ResultType())
	}
	got, err := p.EvaluateToBool(fixedSource{shorts: []int16{5, 3}})
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("5 > 3 should be true")
	}
}

func TestParserLogicalAndUnary(t *testing.T) {
	p, err := NewParser("!(a > b) && true", map[string]chunk.Dtype{"a": chunk.DtypeShort, "b": chunk.DtypeShort})
	if err != nil {
		t.Fatal(err)
	}
	got, err := p.EvaluateToBool(fixedSource{shorts: []int16{1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("!(1 > 2) && true should be true")
	}
}

func TestParserRejectsUnknownVariable(t *testing.T) {
	if _, err := NewParser("a + c", map[string]chunk.Dtype{"a": chunk.DtypeShort}); err == nil {
		t.Error("expected an error for an undeclared variable")
	}
}

func TestParserRejectsTypeMismatch(t *testing.T) {
	if _, err := NewParser("a && b", map[string]chunk.Dtype{"a": chunk.DtypeShort, "b": chunk.DtypeShort}); err == nil {
		t.Error("expected an error applying && to numeric operands")
	}
}

func TestParserUnaryMinus(t *testing.T) {
	p, err := NewParser("-a", map[string]chunk.Dtype{"a": chunk.DtypeShort})
	if err != nil {
		t.Fatal(err)
	}
	got, err := p.EvaluateToShort(fixedSource{shorts: []int16{5}})
	if err != nil {
		t.Fatal(err)
	}
	if got != -5 {
		t.Errorf("-a with a=5 = %v, want -5", got)
	}
}

func TestParserS2ShortSum(t *testing.T) {
	parser, err := NewParser("a + b", map[string]chunk.Dtype{"a": chunk.DtypeShort, "b": chunk.DtypeShort})
	if err != nil {
		t.Fatal(err)
	}
	if parser.ResultType() != exprfunc.ResultShort {
		t.Fatalf("ResultType() = %v, want ResultShort", parser.ResultType())
	}
	got, err := parser.EvaluateToShort(fixedSource{shorts: []int16{1, 10}})
	if err != nil {
		t.Fatal(err)
	}
	if got != 11 {
		t.Errorf("a+b with a=1,b=10 = %v, want 11", got)
	}
}
