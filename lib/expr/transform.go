// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"encoding/json"
	"fmt"
)

// Indices into [TransformBasis].
const (
	TransformConstant = iota
	TransformX1
	TransformX2
	TransformX3
	TransformX4
	TransformY1
	TransformY2
	TransformY3
	TransformY4

	// TransformVarCount is the size of [TransformBasis].
	TransformVarCount
)

// TransformBasis spans transform expressions: each output corner
// coordinate is a linear combination of the input quad's corners.
var TransformBasis = NewBasis("c", "x1", "x2", "x3", "x4", "y1", "y2", "y3", "y4")

// CornerNames lists the eight corner coordinates a transform defines,
// in the order used by transform arrays: x1..x4 then y1..y4.
var CornerNames = [8]string{"x1", "x2", "x3", "x4", "y1", "y2", "y3", "y4"}

// TransformExpression is a dense coefficient vector over [TransformBasis].
type TransformExpression [TransformVarCount]float64

// ParseTransform parses transform expression text.
func ParseTransform(text string) (TransformExpression, error) {
	var expression TransformExpression
	err := TransformBasis.ParseInto(text, expression[:])
	return expression, err
}

// ValidateTransform reports whether text is a valid transform
// expression.
func ValidateTransform(text string) error {
	return TransformBasis.Check(text)
}

// String formats the expression in canonical form.
func (e TransformExpression) String() string {
	return TransformBasis.Format(e[:])
}

// Evaluate computes the expression for a quad whose corner coordinates
// are given as x1..x4, y1..y4.
func (e TransformExpression) Evaluate(corners [8]float64) float64 {
	sum := e[TransformConstant]
	for i, value := range corners {
		sum += e[TransformX1+i] * value
	}
	return sum
}

// MarshalJSON encodes the expression as a name-keyed coefficient map.
func (e TransformExpression) MarshalJSON() ([]byte, error) {
	return json.Marshal(TransformBasis.Coefficients(e[:]))
}

// UnmarshalJSON decodes a name-keyed coefficient map.
func (e *TransformExpression) UnmarshalJSON(data []byte) error {
	var coefficients map[string]float64
	if err := json.Unmarshal(data, &coefficients); err != nil {
		return err
	}
	return TransformBasis.FromCoefficients(coefficients, e[:])
}

// Transform maps a source quad to a destination quad: one expression
// per destination corner coordinate, ordered x1..x4, y1..y4.
type Transform [8]TransformExpression

// IdentityTransform maps every corner to itself.
func IdentityTransform() Transform {
	var transform Transform
	for i := range transform {
		transform[i][TransformX1+i] = 1
	}
	return transform
}

// Apply evaluates every corner expression against the source corners.
func (t *Transform) Apply(corners [8]float64) [8]float64 {
	var result [8]float64
	for i := range t {
		result[i] = t[i].Evaluate(corners)
	}
	return result
}

// MarshalJSON encodes the transform as {"x1": {...}, ..., "y4": {...}}.
func (t Transform) MarshalJSON() ([]byte, error) {
	object := make(map[string]TransformExpression, len(CornerNames))
	for i, name := range CornerNames {
		object[name] = t[i]
	}
	return json.Marshal(object)
}

// UnmarshalJSON decodes the corner-keyed object form. Missing corners
// decode as the zero expression.
func (t *Transform) UnmarshalJSON(data []byte) error {
	var object map[string]TransformExpression
	if err := json.Unmarshal(data, &object); err != nil {
		return err
	}
	*t = Transform{}
	for name, expression := range object {
		index := cornerIndex(name)
		if index < 0 {
			return fmt.Errorf("unknown transform corner %q", name)
		}
		t[index] = expression
	}
	return nil
}

func cornerIndex(name string) int {
	for i, corner := range CornerNames {
		if corner == name {
			return i
		}
	}
	return -1
}
