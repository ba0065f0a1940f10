// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format renders a coefficient vector as expression text in canonical
// basis order. Zero coefficients are omitted; the zero vector formats
// as "". Every term is written as coef*name, the constant term
// included. Numbers use the shortest representation that parses back
// to the same float64.
func (b *Basis) Format(coefficients []float64) string {
	if len(coefficients) != len(b.names) {
		panic(fmt.Sprintf("expr.Format: vector length %d, basis length %d", len(coefficients), len(b.names)))
	}
	var builder strings.Builder
	for i, value := range coefficients {
		if value == 0 {
			continue
		}
		switch {
		case value < 0:
			builder.WriteByte('-')
		case builder.Len() > 0:
			builder.WriteByte('+')
		}
		builder.WriteString(strconv.FormatFloat(math.Abs(value), 'g', -1, 64))
		builder.WriteByte('*')
		builder.WriteString(b.names[i])
	}
	return builder.String()
}
