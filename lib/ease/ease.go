// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ease enumerates the easing curves a particle property may
// animate with and evaluates them.
//
// The identifiers are the strings stored in particle data documents:
// "linear", "none" (a step that holds the start value), and the
// in/out/inOut/outIn variants of sine, quad, cubic, quart, quint, expo,
// circ, back and elastic (e.g. "outInCirc"). Curves are evaluated with
// github.com/tanema/gween/ease.
package ease

import (
	"fmt"
	"slices"

	gween "github.com/tanema/gween/ease"
)

// Type is an easing curve identifier.
type Type string

// Curves without a direction.
const (
	Linear Type = "linear"
	None   Type = "none"
)

type curve struct {
	name                  string
	in, out, inOut, outIn gween.TweenFunc
}

var curves = []curve{
	{"Sine", gween.InSine, gween.OutSine, gween.InOutSine, gween.OutInSine},
	{"Quad", gween.InQuad, gween.OutQuad, gween.InOutQuad, gween.OutInQuad},
	{"Cubic", gween.InCubic, gween.OutCubic, gween.InOutCubic, gween.OutInCubic},
	{"Quart", gween.InQuart, gween.OutQuart, gween.InOutQuart, gween.OutInQuart},
	{"Quint", gween.InQuint, gween.OutQuint, gween.InOutQuint, gween.OutInQuint},
	{"Expo", gween.InExpo, gween.OutExpo, gween.InOutExpo, gween.OutInExpo},
	{"Circ", gween.InCirc, gween.OutCirc, gween.InOutCirc, gween.OutInCirc},
	{"Back", gween.InBack, gween.OutBack, gween.InOutBack, gween.OutInBack},
	{"Elastic", gween.InElastic, gween.OutElastic, gween.InOutElastic, gween.OutInElastic},
}

// functions maps every type except None to its curve.
var functions = func() map[Type]gween.TweenFunc {
	table := map[Type]gween.TweenFunc{Linear: gween.Linear}
	for _, c := range curves {
		table[Type("in"+c.name)] = c.in
		table[Type("out"+c.name)] = c.out
		table[Type("inOut"+c.name)] = c.inOut
		table[Type("outIn"+c.name)] = c.outIn
	}
	return table
}()

// All returns every valid type: Linear, None, then each curve's in,
// out, inOut and outIn variants.
func All() []Type {
	types := []Type{Linear, None}
	for _, c := range curves {
		types = append(types, Type("in"+c.name), Type("out"+c.name), Type("inOut"+c.name), Type("outIn"+c.name))
	}
	return types
}

// Valid reports whether t is a known identifier.
func (t Type) Valid() bool {
	if t == None {
		return true
	}
	_, ok := functions[t]
	return ok
}

// Validate returns an error naming t if it is not a known identifier.
func (t Type) Validate() error {
	if !t.Valid() {
		return fmt.Errorf("unknown ease %q", string(t))
	}
	return nil
}

// Interpolate returns the value between from and to at progress
// (clamped to [0, 1]) along curve t. None holds from until progress
// reaches 1. Unknown types interpolate linearly. Progress 0 and 1
// return from and to exactly.
func (t Type) Interpolate(from, to, progress float64) float64 {
	progress = min(max(progress, 0), 1)
	switch {
	case progress <= 0:
		return from
	case progress >= 1:
		return to
	case t == None:
		return from
	}
	return from + (to-from)*t.Curve(progress)
}

// Curve returns the eased fraction of the way from 0 to 1 at progress,
// which must lie in (0, 1). The curves are single precision; Linear is
// exact.
func (t Type) Curve(progress float64) float64 {
	function, ok := functions[t]
	if !ok || t == Linear {
		return progress
	}
	return float64(function(float32(progress), 0, 1, 1))
}

// Sorted returns the types in lexical order, for help output.
func Sorted() []Type {
	types := All()
	slices.Sort(types)
	return types
}
