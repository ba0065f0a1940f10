// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package expr

import "fmt"

// ConstantName is the variable name of the constant term. A numeric
// term with no variable factor contributes to this variable.
const ConstantName = "c"

// Basis is an ordered set of variable names spanning one family of
// expressions. The order is canonical: it fixes the vector layout and
// the term order produced by [Basis.Format].
//
// A Basis is immutable after construction and safe for concurrent use.
type Basis struct {
	names    []string
	index    map[string]int
	constant int // index of ConstantName, or -1
}

// NewBasis creates a basis from the given variable names in canonical
// order. Panics on an empty or duplicate name: bases are declared once
// at package level, so a bad name is a programming error.
func NewBasis(names ...string) *Basis {
	basis := &Basis{
		names:    make([]string, len(names)),
		index:    make(map[string]int, len(names)),
		constant: -1,
	}
	copy(basis.names, names)
	for i, name := range names {
		if name == "" || !isIdentifier(name) {
			panic(fmt.Sprintf("expr.NewBasis: invalid variable name %q", name))
		}
		if _, exists := basis.index[name]; exists {
			panic(fmt.Sprintf("expr.NewBasis: duplicate variable name %q", name))
		}
		basis.index[name] = i
		if name == ConstantName {
			basis.constant = i
		}
	}
	return basis
}

// Len returns the number of variables in the basis.
func (b *Basis) Len() int { return len(b.names) }

// Name returns the variable name at index i.
func (b *Basis) Name(i int) string { return b.names[i] }

// Names returns a copy of the variable names in canonical order.
func (b *Basis) Names() []string {
	names := make([]string, len(b.names))
	copy(names, b.names)
	return names
}

// Index returns the position of the named variable.
func (b *Basis) Index(name string) (int, bool) {
	i, ok := b.index[name]
	return i, ok
}

// Constant returns the index of the constant term, or -1 when the basis
// has none.
func (b *Basis) Constant() int { return b.constant }

// Zero returns a zero coefficient vector sized for this basis.
func (b *Basis) Zero() []float64 { return make([]float64, len(b.names)) }

func isIdentifier(name string) bool {
	for i, r := range name {
		if !isIdentifierRune(r, i == 0) {
			return false
		}
	}
	return true
}

func isIdentifierRune(r rune, first bool) bool {
	switch {
	case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return !first
	}
	return false
}
