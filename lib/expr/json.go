// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"fmt"
	"math"
)

// Coefficients converts a coefficient vector to the name-keyed form
// used in archive documents. Zero coefficients are omitted, so an
// absent key and a zero coefficient are the same thing.
func (b *Basis) Coefficients(vector []float64) map[string]float64 {
	result := make(map[string]float64)
	for i, value := range vector {
		if value != 0 {
			result[b.names[i]] = value
		}
	}
	return result
}

// FromCoefficients fills dst from a name-keyed coefficient map. Names
// outside the basis and non-finite values are rejected.
func (b *Basis) FromCoefficients(coefficients map[string]float64, dst []float64) error {
	if len(dst) != len(b.names) {
		panic(fmt.Sprintf("expr.FromCoefficients: vector length %d, basis length %d", len(dst), len(b.names)))
	}
	clear(dst)
	for name, value := range coefficients {
		index, ok := b.index[name]
		if !ok {
			clear(dst)
			return fmt.Errorf("unknown expression variable %q", name)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			clear(dst)
			return fmt.Errorf("expression variable %q has non-finite coefficient", name)
		}
		dst[index] = value
	}
	return nil
}
