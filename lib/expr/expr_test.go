// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

func TestFormatExample(t *testing.T) {
	basis := NewBasis("c", "x1", "x2")
	vector := []float64{0, 2, -1}

	text := basis.Format(vector)
	if text != "2*x1-1*x2" {
		t.Fatalf("Format = %q, want %q", text, "2*x1-1*x2")
	}

	parsed, err := basis.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	if !slices.Equal(parsed, vector) {
		t.Errorf("Parse(%q) = %v, want %v", text, parsed, vector)
	}
}

func TestParse(t *testing.T) {
	basis := NewBasis("c", "x1", "x2")

	tests := []struct {
		name string
		text string
		want []float64
	}{
		{"empty", "", []float64{0, 0, 0}},
		{"whitespace", "   \t", []float64{0, 0, 0}},
		{"constant", "3", []float64{3, 0, 0}},
		{"explicit constant", "3*c", []float64{3, 0, 0}},
		{"bare variable", "x1", []float64{0, 1, 0}},
		{"leading minus", "-x2", []float64{0, 0, -1}},
		{"leading plus", "+x2", []float64{0, 0, 1}},
		{"numeric product", "2*3*x1", []float64{0, 6, 0}},
		{"variable first", "x1*2*0.5", []float64{0, 1, 0}},
		{"repeated variable sums", "x1+2*x1-0.5*x1", []float64{0, 2.5, 0}},
		{"cancelling terms", "x1-x1", []float64{0, 0, 0}},
		{"zero coefficient", "0*x2+1", []float64{1, 0, 0}},
		{"spaces", " 2 * x1 - 1 * x2 + 4 ", []float64{4, 2, -1}},
		{"decimal without integer", ".5*x1", []float64{0, 0.5, 0}},
		{"exponent", "1e+21*x1-2.5e-3", []float64{-0.0025, 1e21, 0}},
		{"negative zero normalized", "-0*x1", []float64{0, 0, 0}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := basis.Parse(test.text)
			if err != nil {
				t.Fatalf("Parse(%q): %v", test.text, err)
			}
			if !slices.Equal(got, test.want) {
				t.Errorf("Parse(%q) = %v, want %v", test.text, got, test.want)
			}
			for i, value := range got {
				if value == 0 && math.Signbit(value) {
					t.Errorf("Parse(%q)[%d] is negative zero", test.text, i)
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	basis := NewBasis("c", "x1", "x2")

	tests := []struct {
		name   string
		text   string
		offset int
	}{
		{"unknown variable", "2*y1", 2},
		{"unknown character", "x1/2", 2},
		{"two variables", "x1*x2", 3},
		{"dangling plus", "x1+", 3},
		{"dangling times", "2*", 2},
		{"double sign", "--x1", 1},
		{"missing operator", "x1 x2", 3},
		{"malformed number", "1.2.3*x1", 0},
		{"number glued to name", "2x1", 0},
		{"bare exponent", "1e*x1", 0},
		{"overflow", "1e200*1e200*x1", 6},
		{"sign inside product", "2*-x1", 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := basis.Parse(test.text)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", test.text)
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error %v does not match ErrParse", err)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error %T is not *ParseError", err)
			}
			if parseErr.Offset != test.offset {
				t.Errorf("offset = %d, want %d (%v)", parseErr.Offset, test.offset, err)
			}
		})
	}
}

func TestParseNumericTermWithoutConstant(t *testing.T) {
	basis := NewBasis("x", "y")
	if _, err := basis.Parse("x+1"); !errors.Is(err, ErrParse) {
		t.Errorf("Parse with no constant term: got %v, want ErrParse", err)
	}
}

func TestParseIntoClearsOnError(t *testing.T) {
	dst := PropertyBasis.Zero()
	dst[3] = 7
	if err := PropertyBasis.ParseInto("r1+bogus", dst); err == nil {
		t.Fatal("expected error")
	}
	for i, value := range dst {
		if value != 0 {
			t.Errorf("dst[%d] = %v after failed parse, want 0", i, value)
		}
	}
}

func TestFormatConstantTerm(t *testing.T) {
	basis := NewBasis("c", "x1", "x2")
	tests := []struct {
		vector []float64
		want   string
	}{
		{[]float64{5, 0, 0}, "5*c"},
		{[]float64{-0.5, 0, 0}, "-0.5*c"},
		{[]float64{-1, 0.5, 2}, "-1*c+0.5*x1+2*x2"},
	}
	for _, test := range tests {
		text := basis.Format(test.vector)
		if text != test.want {
			t.Errorf("Format(%v) = %q, want %q", test.vector, text, test.want)
		}
		parsed, err := basis.Parse(text)
		if err != nil || !slices.Equal(parsed, test.vector) {
			t.Errorf("Parse(%q) = %v, %v", text, parsed, err)
		}
	}
}

func TestFormatEmpty(t *testing.T) {
	if text := TransformBasis.Format(TransformBasis.Zero()); text != "" {
		t.Errorf("Format(zero) = %q, want empty", text)
	}
}

func TestFormatConstantIsBareNumber(t *testing.T) {
	var expression PropertyExpression
	expression[PropertyConstant] = -1.5
	expression[PropertyCosR(2)] = 0.25
	if got, want := expression.String(), "-1.5+0.25*cosr2"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRoundTripRandomVectors(t *testing.T) {
	random := rand.New(rand.NewPCG(1, 2))
	values := []float64{0, 1, -1, 0.1, -2.5, 1e-9, 123456789.125, 1e21, -3e-12, math.Pi}

	for iteration := range 500 {
		var expression PropertyExpression
		for i := range expression {
			if random.IntN(3) == 0 {
				expression[i] = values[random.IntN(len(values))] * float64(random.IntN(7)-3)
			}
		}
		for i := range expression {
			if expression[i] == 0 {
				expression[i] = 0
			}
		}

		text := expression.String()
		parsed, err := ParseProperty(text)
		if err != nil {
			t.Fatalf("iteration %d: ParseProperty(%q): %v", iteration, text, err)
		}
		if parsed != expression {
			t.Fatalf("iteration %d: round trip of %q\n got %v\nwant %v", iteration, text, parsed, expression)
		}
	}
}

func TestPropertyBasisLayout(t *testing.T) {
	if PropertyBasis.Len() != 25 {
		t.Fatalf("PropertyBasis has %d variables, want 25", PropertyBasis.Len())
	}
	checks := map[int]string{
		PropertyConstant: "c",
		PropertyR(1):     "r1",
		PropertySinR(1):  "sinr1",
		PropertyCosR(1):  "cosr1",
		PropertyR(8):     "r8",
		PropertyCosR(8):  "cosr8",
	}
	for index, name := range checks {
		if got := PropertyBasis.Name(index); got != name {
			t.Errorf("PropertyBasis.Name(%d) = %q, want %q", index, got, name)
		}
	}
}

func TestPropertyEvaluate(t *testing.T) {
	expression, err := ParseProperty("2 + 3*r1 - sinr2 + cosr2")
	if err != nil {
		t.Fatal(err)
	}
	inputs := NewPropertyInputs([RandomCount]float64{0.5, 0.25})
	// r1=0.5, sinr2=sin(π/2)=1, cosr2=cos(π/2)≈0.
	got := expression.Evaluate(inputs)
	if math.Abs(got-2.5) > 1e-12 {
		t.Errorf("Evaluate = %v, want 2.5", got)
	}
}

func TestPropertyJSON(t *testing.T) {
	expression, err := ParseProperty("0.5*r1-2*cosr8+1")
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(expression)
	if err != nil {
		t.Fatal(err)
	}
	var object map[string]float64
	if err := json.Unmarshal(data, &object); err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{"c": 1, "r1": 0.5, "cosr8": -2}
	if len(object) != len(want) {
		t.Fatalf("JSON = %s, want keys %v", data, want)
	}
	for name, value := range want {
		if object[name] != value {
			t.Errorf("JSON[%s] = %v, want %v", name, object[name], value)
		}
	}

	var decoded PropertyExpression
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != expression {
		t.Errorf("decoded %v, want %v", decoded, expression)
	}

	if err := json.Unmarshal([]byte(`{"r9": 1}`), &decoded); err == nil {
		t.Error("decoding unknown variable r9 succeeded")
	}
}

func TestTransformIdentity(t *testing.T) {
	identity := IdentityTransform()
	corners := [8]float64{-1, -1, 1, 1, -1, 1, 1, -1}
	if got := identity.Apply(corners); got != corners {
		t.Errorf("identity.Apply = %v, want %v", got, corners)
	}
	for i, expression := range identity {
		if got, want := expression.String(), "1*"+CornerNames[i]; got != want {
			t.Errorf("identity[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestTransformJSON(t *testing.T) {
	transform := IdentityTransform()
	transform[0][TransformConstant] = 0.5
	data, err := json.Marshal(transform)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Transform
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != transform {
		t.Errorf("decoded %v, want %v", decoded, transform)
	}
	if err := json.Unmarshal([]byte(`{"x5": {}}`), &decoded); err == nil {
		t.Error("decoding unknown corner x5 succeeded")
	}
}

func TestNewBasisPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewBasis with duplicate names did not panic")
		}
	}()
	NewBasis("c", "x", "x")
}
