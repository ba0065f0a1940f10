// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"testing"
)

func TestEmitJSON(t *testing.T) {
	type row struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name     string
		enabled  bool
		value    any
		wantDone bool
		want     string
	}{
		{"disabled", false, []row{{Name: "a"}}, false, ""},
		{"value", true, []row{{Name: "a<b"}}, true, "[\n  {\n    \"name\": \"a<b\"\n  }\n]\n"},
		{"nil slice", true, []row(nil), true, "[]\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buffer bytes.Buffer
			output := JSONOutput{OutputJSON: test.enabled}
			done, err := output.EmitJSON(&buffer, test.value)
			if err != nil {
				t.Fatal(err)
			}
			if done != test.wantDone {
				t.Errorf("done = %v, want %v", done, test.wantDone)
			}
			if buffer.String() != test.want {
				t.Errorf("output = %q, want %q", buffer.String(), test.want)
			}
		})
	}
}
