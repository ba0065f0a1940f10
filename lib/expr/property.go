// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"encoding/json"
	"math"
	"strconv"
)

// RandomCount is the number of independent random values available to
// a particle property expression.
const RandomCount = 8

// PropertyVarCount is the size of [PropertyBasis]: the constant plus
// one (r, sinr, cosr) triple per random value.
const PropertyVarCount = 1 + 3*RandomCount

// PropertyConstant is the index of c in [PropertyBasis].
const PropertyConstant = 0

// PropertyR returns the index of r<i> (1-based) in [PropertyBasis].
func PropertyR(i int) int { return 1 + 3*(i-1) }

// PropertySinR returns the index of sinr<i> (1-based).
func PropertySinR(i int) int { return 2 + 3*(i-1) }

// PropertyCosR returns the index of cosr<i> (1-based).
func PropertyCosR(i int) int { return 3 + 3*(i-1) }

// PropertyBasis spans particle property expressions.
var PropertyBasis = NewBasis(propertyNames()...)

func propertyNames() []string {
	names := make([]string, 0, PropertyVarCount)
	names = append(names, ConstantName)
	for i := 1; i <= RandomCount; i++ {
		suffix := strconv.Itoa(i)
		names = append(names, "r"+suffix, "sinr"+suffix, "cosr"+suffix)
	}
	return names
}

// PropertyExpression is a dense coefficient vector over [PropertyBasis].
type PropertyExpression [PropertyVarCount]float64

// ParseProperty parses property expression text.
func ParseProperty(text string) (PropertyExpression, error) {
	var expression PropertyExpression
	err := PropertyBasis.ParseInto(text, expression[:])
	return expression, err
}

// ValidateProperty reports whether text is a valid property expression.
// Editors call it on every keystroke and keep the previous value on
// error.
func ValidateProperty(text string) error {
	return PropertyBasis.Check(text)
}

// String formats the expression in canonical form.
func (e PropertyExpression) String() string {
	return PropertyBasis.Format(e[:])
}

// IsZero reports whether every coefficient is zero.
func (e PropertyExpression) IsZero() bool {
	return e == PropertyExpression{}
}

// Evaluate computes the expression for the given inputs.
func (e PropertyExpression) Evaluate(inputs *PropertyInputs) float64 {
	var sum float64
	for i, coefficient := range e {
		sum += coefficient * inputs[i]
	}
	return sum
}

// MarshalJSON encodes the expression as a name-keyed coefficient map.
func (e PropertyExpression) MarshalJSON() ([]byte, error) {
	return json.Marshal(PropertyBasis.Coefficients(e[:]))
}

// UnmarshalJSON decodes a name-keyed coefficient map.
func (e *PropertyExpression) UnmarshalJSON(data []byte) error {
	var coefficients map[string]float64
	if err := json.Unmarshal(data, &coefficients); err != nil {
		return err
	}
	return PropertyBasis.FromCoefficients(coefficients, e[:])
}

// PropertyInputs is the input vector a property expression is
// evaluated against: c is 1, r<i> is a random value in [0, 1), and
// sinr<i>/cosr<i> are the sine and cosine of the full-turn angle
// 2π·r<i>.
type PropertyInputs [PropertyVarCount]float64

// NewPropertyInputs builds the input vector from eight random values.
func NewPropertyInputs(random [RandomCount]float64) *PropertyInputs {
	var inputs PropertyInputs
	inputs[PropertyConstant] = 1
	for i, r := range random {
		angle := 2 * math.Pi * r
		inputs[PropertyR(i+1)] = r
		inputs[PropertySinR(i+1)] = math.Sin(angle)
		inputs[PropertyCosR(i+1)] = math.Cos(angle)
	}
	return &inputs
}
