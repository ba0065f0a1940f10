// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrParse matches every [*ParseError] via errors.Is.
var ErrParse = errors.New("expression parse error")

// ParseError describes malformed expression text. Offset is the byte
// offset of the offending token in Text.
//
// Editors treat a ParseError as recoverable: the new text is rejected
// and the previous valid value is kept.
type ParseError struct {
	Text   string
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing expression %q at offset %d: %s", e.Text, e.Offset, e.Reason)
}

// Is reports whether target is [ErrParse].
func (e *ParseError) Is(target error) bool { return target == ErrParse }

type tokenKind uint8

const (
	tokenEnd tokenKind = iota
	tokenPlus
	tokenMinus
	tokenTimes
	tokenNumber
	tokenName
)

func (kind tokenKind) String() string {
	switch kind {
	case tokenEnd:
		return "end of input"
	case tokenPlus:
		return "'+'"
	case tokenMinus:
		return "'-'"
	case tokenTimes:
		return "'*'"
	case tokenNumber:
		return "number"
	case tokenName:
		return "variable"
	default:
		return fmt.Sprintf("token(%d)", kind)
	}
}

type token struct {
	kind   tokenKind
	text   string
	offset int
}

// scanner splits expression text into tokens. Whitespace separates
// tokens and is otherwise ignored.
type scanner struct {
	text   string
	offset int
}

func (s *scanner) next() (token, error) {
	for s.offset < len(s.text) && isSpace(s.text[s.offset]) {
		s.offset++
	}
	start := s.offset
	if start >= len(s.text) {
		return token{kind: tokenEnd, offset: start}, nil
	}

	switch c := s.text[start]; {
	case c == '+':
		s.offset++
		return token{kind: tokenPlus, text: "+", offset: start}, nil
	case c == '-':
		s.offset++
		return token{kind: tokenMinus, text: "-", offset: start}, nil
	case c == '*':
		s.offset++
		return token{kind: tokenTimes, text: "*", offset: start}, nil
	case isDigit(c) || c == '.':
		s.scanNumber()
		return token{kind: tokenNumber, text: s.text[start:s.offset], offset: start}, nil
	case isIdentifierRune(rune(c), true):
		for s.offset < len(s.text) && isIdentifierRune(rune(s.text[s.offset]), false) {
			s.offset++
		}
		return token{kind: tokenName, text: s.text[start:s.offset], offset: start}, nil
	default:
		return token{}, &ParseError{Text: s.text, Offset: start, Reason: fmt.Sprintf("unexpected character %q", c)}
	}
}

// scanNumber consumes a decimal literal with optional fraction and
// exponent. Validation is left to strconv.ParseFloat.
func (s *scanner) scanNumber() {
	for s.offset < len(s.text) && (isDigit(s.text[s.offset]) || s.text[s.offset] == '.') {
		s.offset++
	}
	if s.offset < len(s.text) && (s.text[s.offset] == 'e' || s.text[s.offset] == 'E') {
		s.offset++
		if s.offset < len(s.text) && (s.text[s.offset] == '+' || s.text[s.offset] == '-') {
			s.offset++
		}
		for s.offset < len(s.text) && isDigit(s.text[s.offset]) {
			s.offset++
		}
	}
	// A trailing identifier character glued to a number ("2x1") is
	// malformed; swallow it so the number parse reports it.
	for s.offset < len(s.text) && isIdentifierRune(rune(s.text[s.offset]), false) {
		s.offset++
	}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Parse parses expression text into a coefficient vector over b.
// Empty or all-whitespace text is the zero expression.
func (b *Basis) Parse(text string) ([]float64, error) {
	coefficients := b.Zero()
	if err := b.ParseInto(text, coefficients); err != nil {
		return nil, err
	}
	return coefficients, nil
}

// ParseInto parses text into dst, which must have length b.Len(). dst
// is zeroed first. On error dst is left zeroed.
func (b *Basis) ParseInto(text string, dst []float64) error {
	if len(dst) != len(b.names) {
		panic(fmt.Sprintf("expr.ParseInto: vector length %d, basis length %d", len(dst), len(b.names)))
	}
	clear(dst)
	if err := b.parse(text, dst); err != nil {
		clear(dst)
		return err
	}
	for i, value := range dst {
		if value == 0 {
			dst[i] = 0 // normalize -0
		}
	}
	return nil
}

// Check reports whether text parses over b, returning the parse error
// if not.
func (b *Basis) Check(text string) error {
	return b.ParseInto(text, b.Zero())
}

func (b *Basis) parse(text string, dst []float64) error {
	s := &scanner{text: text}
	current, err := s.next()
	if err != nil {
		return err
	}
	if current.kind == tokenEnd {
		return nil
	}

	fail := func(at token, format string, args ...any) error {
		return &ParseError{Text: text, Offset: at.offset, Reason: fmt.Sprintf(format, args...)}
	}

	first := true
	for current.kind != tokenEnd {
		sign := 1.0
		switch current.kind {
		case tokenPlus, tokenMinus:
			if current.kind == tokenMinus {
				sign = -1
			}
			if current, err = s.next(); err != nil {
				return err
			}
		default:
			if !first {
				return fail(current, "expected '+' or '-' before %s", current.kind)
			}
		}
		first = false

		coefficient := sign
		variable := -1
		for {
			switch current.kind {
			case tokenNumber:
				value, parseErr := strconv.ParseFloat(current.text, 64)
				if parseErr != nil {
					return fail(current, "invalid number %q", current.text)
				}
				coefficient *= value
				if math.IsInf(coefficient, 0) {
					return fail(current, "coefficient overflows")
				}
			case tokenName:
				index, known := b.index[current.text]
				if !known {
					return fail(current, "unknown variable %q", current.text)
				}
				if variable >= 0 {
					return fail(current, "term has more than one variable (%s and %s)", b.names[variable], current.text)
				}
				variable = index
			default:
				return fail(current, "expected number or variable, got %s", current.kind)
			}

			if current, err = s.next(); err != nil {
				return err
			}
			if current.kind != tokenTimes {
				break
			}
			if current, err = s.next(); err != nil {
				return err
			}
		}

		if variable < 0 {
			if b.constant < 0 {
				return fail(current, "numeric term but basis has no constant %q", ConstantName)
			}
			variable = b.constant
		}
		dst[variable] += coefficient
		if math.IsInf(dst[variable], 0) {
			return fail(current, "coefficient of %s overflows", b.names[variable])
		}
	}
	return nil
}
