// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"fmt"

	"github.com/bureau-foundation/contentpack/lib/ease"
	"github.com/bureau-foundation/contentpack/lib/expr"
)

// Transform holds the display equations for the eight quad corner
// coordinates x1 x2 x3 x4 y1 y2 y3 y4, each over the transform basis.
// An empty string is the zero expression.
type Transform [8]string

// IdentityTransform maps every corner to itself.
func IdentityTransform() Transform {
	var transform Transform
	for i, name := range expr.CornerNames {
		transform[i] = "1*" + name
	}
	return transform
}

// Parse converts the display equations to coefficient vectors.
func (t Transform) Parse() (expr.Transform, error) {
	var parsed expr.Transform
	for i, text := range t {
		expression, err := expr.ParseTransform(text)
		if err != nil {
			return expr.Transform{}, fmt.Errorf("transform %s: %w", expr.CornerNames[i], err)
		}
		parsed[i] = expression
	}
	return parsed, nil
}

// FormatTransform converts coefficient vectors to display equations.
func FormatTransform(t expr.Transform) Transform {
	var transform Transform
	for i, expression := range t {
		transform[i] = expression.String()
	}
	return transform
}

// ParsedProperty is a Property with its equations parsed.
type ParsedProperty struct {
	From expr.PropertyExpression
	To   expr.PropertyExpression
	Ease ease.Type
}

// Parse converts the property's equations to coefficient vectors.
func (p Property) Parse() (ParsedProperty, error) {
	from, err := expr.ParseProperty(p.From)
	if err != nil {
		return ParsedProperty{}, fmt.Errorf("from: %w", err)
	}
	to, err := expr.ParseProperty(p.To)
	if err != nil {
		return ParsedProperty{}, fmt.Errorf("to: %w", err)
	}
	return ParsedProperty{From: from, To: to, Ease: p.Ease}, nil
}

// Format converts a parsed property back to display equations.
func (p ParsedProperty) Format() Property {
	return Property{From: p.From.String(), To: p.To.String(), Ease: p.Ease}
}

// Evaluate returns the property value at progress for one set of
// random inputs.
func (p ParsedProperty) Evaluate(inputs *expr.PropertyInputs, progress float64) float64 {
	return p.Ease.Interpolate(p.From.Evaluate(inputs), p.To.Evaluate(inputs), progress)
}
