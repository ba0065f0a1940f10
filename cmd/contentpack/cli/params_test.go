// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Name     string        `flag:"name" desc:"item name"`
		Check    bool          `flag:"check" desc:"verify after packing"`
		Frames   int           `flag:"frames" desc:"frame count"`
		Offset   int64         `flag:"offset" desc:"byte offset"`
		Seed     uint64        `flag:"seed" desc:"random seed"`
		Progress float64       `flag:"progress" desc:"effect progress"`
		Timeout  time.Duration `flag:"timeout" desc:"deadline"`
		Tags     []string      `flag:"tags" desc:"item tags"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	err := flagSet.Parse([]string{
		"--name", "sparks",
		"--check",
		"--frames", "8",
		"--offset", "-12",
		"--seed", "18446744073709551615",
		"--progress", "0.25",
		"--timeout", "90s",
		"--tags", "fx,hit",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Name != "sparks" {
		t.Errorf("Name = %q, want %q", p.Name, "sparks")
	}
	if !p.Check {
		t.Error("Check = false, want true")
	}
	if p.Frames != 8 {
		t.Errorf("Frames = %d, want 8", p.Frames)
	}
	if p.Offset != -12 {
		t.Errorf("Offset = %d, want -12", p.Offset)
	}
	if p.Seed != 18446744073709551615 {
		t.Errorf("Seed = %d, want max uint64", p.Seed)
	}
	if p.Progress != 0.25 {
		t.Errorf("Progress = %v, want 0.25", p.Progress)
	}
	if p.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", p.Timeout)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "fx" || p.Tags[1] != "hit" {
		t.Errorf("Tags = %v, want [fx hit]", p.Tags)
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		Out      string        `flag:"out" default:"preview.png"`
		Check    bool          `flag:"check" default:"true"`
		Frames   int           `flag:"frames" default:"4"`
		Seed     uint64        `flag:"seed" default:"7"`
		Progress float64       `flag:"progress" default:"0.5"`
		Timeout  time.Duration `flag:"timeout" default:"5m"`
		Tags     []string      `flag:"tags" default:"a,b"`
		Plain    string        `flag:"plain"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Out != "preview.png" {
		t.Errorf("Out = %q", p.Out)
	}
	if !p.Check {
		t.Error("Check = false, want default true")
	}
	if p.Frames != 4 {
		t.Errorf("Frames = %d, want 4", p.Frames)
	}
	if p.Seed != 7 {
		t.Errorf("Seed = %d, want 7", p.Seed)
	}
	if p.Progress != 0.5 {
		t.Errorf("Progress = %v, want 0.5", p.Progress)
	}
	if p.Timeout != 5*time.Minute {
		t.Errorf("Timeout = %v, want 5m", p.Timeout)
	}
	if len(p.Tags) != 2 {
		t.Errorf("Tags = %v, want [a b]", p.Tags)
	}
	if p.Plain != "" {
		t.Errorf("Plain = %q, want empty", p.Plain)
	}
}

func TestBindFlags_DefaultsOverriddenByCLI(t *testing.T) {
	type params struct {
		Frames int  `flag:"frames" default:"4"`
		Check  bool `flag:"check" default:"true"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse([]string{"--frames=12", "--check=false"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Frames != 12 {
		t.Errorf("Frames = %d, want 12", p.Frames)
	}
	if p.Check {
		t.Error("Check = true, want false")
	}
}

type SharedParams struct {
	Config  string `flag:"config,c" desc:"config file"`
	Verbose bool   `flag:"verbose,v" desc:"debug logging"`
}

type LayeredParams struct {
	SharedParams
	Format string `flag:"log-format" default:"auto"`
}

func TestBindFlags_EmbeddedStructRecursion(t *testing.T) {
	var p struct {
		LayeredParams
		Out string `flag:"out,o"`
	}

	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse([]string{"-c", "cfg.yaml", "-v", "--log-format", "json", "-o", "pack.zip"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Config != "cfg.yaml" {
		t.Errorf("Config = %q", p.Config)
	}
	if !p.Verbose {
		t.Error("Verbose = false")
	}
	if p.Format != "json" {
		t.Errorf("Format = %q", p.Format)
	}
	if p.Out != "pack.zip" {
		t.Errorf("Out = %q", p.Out)
	}
}

func TestBindFlags_UnexportedEmbeddedStruct(t *testing.T) {
	type hidden struct {
		Value string `flag:"value"`
	}
	var p struct {
		hidden
	}
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	err := BindFlags(&p, flagSet)
	if err == nil || !strings.Contains(err.Error(), "not settable") {
		t.Errorf("BindFlags error = %v, want not settable", err)
	}
}

func TestBindFlags_Shorthand(t *testing.T) {
	var p struct {
		Out string `flag:"out,o" desc:"output path"`
	}

	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if flag := flagSet.Lookup("out"); flag == nil || flag.Shorthand != "o" {
		t.Fatalf("flag out missing or lacks shorthand: %+v", flag)
	}
	if err := flagSet.Parse([]string{"-o", "strip.png"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Out != "strip.png" {
		t.Errorf("Out = %q", p.Out)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	tests := []struct {
		name    string
		params  any
		wantErr string
	}{
		{
			name:    "not a pointer",
			params:  struct{}{},
			wantErr: "pointer to a struct",
		},
		{
			name:    "pointer to non-struct",
			params:  new(int),
			wantErr: "pointer to a struct",
		},
		{
			name: "bad int default",
			params: &struct {
				Frames int `flag:"frames" default:"many"`
			}{},
			wantErr: "default for --frames",
		},
		{
			name: "bad bool default",
			params: &struct {
				Check bool `flag:"check" default:"maybe"`
			}{},
			wantErr: "default for --check",
		},
		{
			name: "bad duration default",
			params: &struct {
				Timeout time.Duration `flag:"timeout" default:"soon"`
			}{},
			wantErr: "default for --timeout",
		},
		{
			name: "unsupported type",
			params: &struct {
				Sizes map[string]int `flag:"sizes"`
			}{},
			wantErr: "unsupported type",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
			err := BindFlags(test.params, flagSet)
			if err == nil {
				t.Fatal("BindFlags succeeded, want error")
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), test.wantErr)
			}
		})
	}
}

func TestFlagsFromParams(t *testing.T) {
	var p struct {
		Frames int `flag:"frames" default:"3"`
	}
	flagSet := FlagsFromParams("preview", &p)
	if flagSet.Name() != "preview" {
		t.Errorf("Name() = %q", flagSet.Name())
	}
	if err := flagSet.Parse([]string{"--frames", "5"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Frames != 5 {
		t.Errorf("Frames = %d, want 5", p.Frames)
	}
}

func TestFlagsFromParams_DefaultUsedWhenNotParsed(t *testing.T) {
	var p struct {
		Frames int `flag:"frames" default:"3"`
	}
	FlagsFromParams("preview", &p)
	if p.Frames != 3 {
		t.Errorf("Frames = %d, want default 3 after binding", p.Frames)
	}
}

func TestFlagsFromParams_Panics(t *testing.T) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			t.Fatal("FlagsFromParams did not panic on a non-pointer")
		}
		if message, ok := recovered.(string); !ok || !strings.Contains(message, "cli.FlagsFromParams(\"bad\")") {
			t.Errorf("panic = %v, want message naming the flag set", recovered)
		}
	}()
	FlagsFromParams("bad", 42)
}

func TestFlagsFromParams_FieldsWithoutTagSkipped(t *testing.T) {
	var p struct {
		Bound    string `flag:"bound"`
		Internal string
	}
	flagSet := FlagsFromParams("test", &p)
	count := 0
	flagSet.VisitAll(func(*pflag.Flag) { count++ })
	if count != 1 {
		t.Errorf("registered %d flags, want 1", count)
	}
}

func TestFlagsFromParams_PositionalArgsRemain(t *testing.T) {
	var p struct {
		Check bool `flag:"check"`
	}
	flagSet := FlagsFromParams("inspect", &p)
	if err := flagSet.Parse([]string{"pack.zip", "--check", "extra"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.Check {
		t.Error("Check = false")
	}
	args := flagSet.Args()
	if len(args) != 2 || args[0] != "pack.zip" || args[1] != "extra" {
		t.Errorf("Args() = %v, want [pack.zip extra]", args)
	}
}
