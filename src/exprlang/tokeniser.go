// Package exprlang is a from-scratch, deliberately scoped-down arithmetic
// expression language: named numeric/boolean variables, the usual
// arithmetic/comparison/logical operators and unary -/!, nothing more. It
// implements exprfunc.Parser and exists to exercise that interface with a
// concrete, testable reference implementation — not as a general SQL
// expression surface.
package exprlang

import (
	"errors"
	"fmt"
)

var errUnknownToken = errors.New("exprlang: unknown token")
var errUnterminatedExpr = errors.New("exprlang: unexpected end of expression")

type tokenType uint8

const (
	tokenInvalid tokenType = iota
	tokenIdent
	tokenNumber
	tokenTrue
	tokenFalse
	tokenAdd
	tokenSub
	tokenMul
	tokenQuo
	tokenEq
	tokenNeq
	tokenGt
	tokenGte
	tokenLt
	tokenLte
	tokenAnd
	tokenOr
	tokenNot
	tokenLparen
	tokenRparen
	tokenEOF
)

type token struct {
	ttype tokenType
	value string
}

var keywords = map[string]tokenType{
	"true":  tokenTrue,
	"false": tokenFalse,
}

type scanner struct {
	src []byte
	pos int
}

func newScanner(s string) *scanner { return &scanner{src: []byte(s)} }

func (s *scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

func (s *scanner) tokenise() ([]token, error) {
	var tokens []token
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		if tok.ttype == tokenEOF {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func (s *scanner) next() (token, error) {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.src) {
		return token{ttype: tokenEOF}, nil
	}
	c := s.src[s.pos]
	switch {
	case isDigit(c):
		return s.scanNumber(), nil
	case isAlpha(c):
		return s.scanIdent(), nil
	}
	two := string(c) + string(s.peekAt(1))
	switch two {
	case "==":
		s.pos += 2
		return token{ttype: tokenEq}, nil
	case "!=":
		s.pos += 2
		return token{ttype: tokenNeq}, nil
	case ">=":
		s.pos += 2
		return token{ttype: tokenGte}, nil
	case "<=":
		s.pos += 2
		return token{ttype: tokenLte}, nil
	case "&&":
		s.pos += 2
		return token{ttype: tokenAnd}, nil
	case "||":
		s.pos += 2
		return token{ttype: tokenOr}, nil
	}
	s.pos++
	switch c {
	case '+':
		return token{ttype: tokenAdd}, nil
	case '-':
		return token{ttype: tokenSub}, nil
	case '*':
		return token{ttype: tokenMul}, nil
	case '/':
		return token{ttype: tokenQuo}, nil
	case '>':
		return token{ttype: tokenGt}, nil
	case '<':
		return token{ttype: tokenLt}, nil
	case '!':
		return token{ttype: tokenNot}, nil
	case '(':
		return token{ttype: tokenLparen}, nil
	case ')':
		return token{ttype: tokenRparen}, nil
	default:
		return token{}, fmt.Errorf("%w: %q at position %d", errUnknownToken, c, s.pos-1)
	}
}

func (s *scanner) scanNumber() token {
	start := s.pos
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		s.pos++
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
	}
	return token{ttype: tokenNumber, value: string(s.src[start:s.pos])}
}

func (s *scanner) scanIdent() token {
	start := s.pos
	for s.pos < len(s.src) && (isAlpha(s.src[s.pos]) || isDigit(s.src[s.pos])) {
		s.pos++
	}
	text := string(s.src[start:s.pos])
	if kw, ok := keywords[text]; ok {
		return token{ttype: kw, value: text}
	}
	return token{ttype: tokenIdent, value: text}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
