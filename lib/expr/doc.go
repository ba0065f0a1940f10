// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package expr implements the linear expressions used by particle
// properties and sprite/effect transforms.
//
// An expression is a linear combination of the variables of a fixed
// [Basis]. Internally it is a dense coefficient vector indexed by the
// variable's position in the basis; variable names appear only at the
// text and JSON boundaries. Two bases are predefined:
//
//   - [PropertyBasis]: the constant c plus eight random triples
//     (r1, sinr1, cosr1 ... r8, sinr8, cosr8), 25 variables. Used by
//     the animated x/y/w/h/r/a properties of a particle sprite.
//   - [TransformBasis]: the constant c plus the eight corner
//     coordinates x1..x4, y1..y4, 9 variables. Used by skin sprite and
//     particle effect transforms.
//
// The text form is a sum of signed terms, each a product of numeric
// factors with at most one variable:
//
//	2*r1 - 0.5*cosr3 + 1
//
// [Basis.Format] is the inverse of [Basis.Parse]: formatting never emits
// a token the parser rejects, and parsing the formatted text reproduces
// the coefficient vector exactly. Formatting is canonical (basis order,
// zero terms dropped), so format(parse(s)) is semantically but not
// textually equal to s.
package expr
