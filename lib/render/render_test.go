// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"errors"
	"image"
	"image/color"
	"math"
	"slices"
	"strconv"
	"testing"
	"time"

	"github.com/bureau-foundation/contentpack/lib/clock"
	"github.com/bureau-foundation/contentpack/lib/geom"
	"github.com/bureau-foundation/contentpack/lib/handle"
	"github.com/bureau-foundation/contentpack/lib/imagecodec"
	"github.com/bureau-foundation/contentpack/lib/project"
	"github.com/bureau-foundation/contentpack/lib/testutil"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func newRegistry() *handle.Registry {
	return handle.NewRegistry(clock.Fake(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func constant(v float64) project.Property {
	return project.Constant(strconv.FormatFloat(v, 'g', -1, 64))
}

// still returns an opaque white sprite fixed at (x, y) with size w×h,
// visible for the whole effect.
func still(sprite handle.Handle, x, y, w, h float64) project.ParticleSprite {
	return project.ParticleSprite{
		Sprite:   sprite,
		Color:    "#ffffff",
		Duration: 1,
		X:        constant(x),
		Y:        constant(y),
		W:        constant(w),
		H:        constant(h),
		R:        constant(0),
		A:        constant(1),
	}
}

func single(sprite project.ParticleSprite) project.ParticleEffect {
	return project.ParticleEffect{
		Name:      "hit",
		Transform: project.IdentityTransform(),
		Groups:    []project.ParticleGroup{{Count: 1, Particles: []project.ParticleSprite{sprite}}},
	}
}

func nearQuad(a, b geom.Quad) bool {
	for i := range a {
		if math.Abs(a[i].X-b[i].X) > 1e-9 || math.Abs(a[i].Y-b[i].Y) > 1e-9 {
			return false
		}
	}
	return true
}

func TestInstanceGeometry(t *testing.T) {
	shifted := project.IdentityTransform()
	for i := range 4 {
		shifted[i] = "0.1+2*" + shifted[i][len("1*"):]
	}

	tests := []struct {
		name      string
		sprite    project.ParticleSprite
		transform project.Transform
		want      geom.Quad
	}{
		{
			name:      "axis aligned",
			sprite:    still("s", 0.5, 0, 0.4, 0.2),
			transform: project.IdentityTransform(),
			want:      geom.Quad{{X: 0.3, Y: -0.1}, {X: 0.3, Y: 0.1}, {X: 0.7, Y: 0.1}, {X: 0.7, Y: -0.1}},
		},
		{
			name: "rotated quarter turn",
			sprite: func() project.ParticleSprite {
				sprite := still("s", 0, 0, 0.4, 0.2)
				sprite.R = constant(math.Pi / 2)
				return sprite
			}(),
			transform: project.IdentityTransform(),
			want:      geom.Quad{{X: 0.1, Y: -0.2}, {X: -0.1, Y: -0.2}, {X: -0.1, Y: 0.2}, {X: 0.1, Y: 0.2}},
		},
		{
			name:      "effect transform",
			sprite:    still("s", 0, 0, 0.4, 0.2),
			transform: shifted,
			want:      geom.Quad{{X: -0.3, Y: -0.1}, {X: -0.3, Y: 0.1}, {X: 0.5, Y: 0.1}, {X: 0.5, Y: -0.1}},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			effect := single(test.sprite)
			effect.Transform = test.transform
			instances, err := Instances(effect, 0.5, 1)
			if err != nil {
				t.Fatal(err)
			}
			if len(instances) != 1 {
				t.Fatalf("got %d instances, want 1", len(instances))
			}
			if !nearQuad(instances[0].Quad, test.want) {
				t.Errorf("quad = %v, want %v", instances[0].Quad, test.want)
			}
			if instances[0].Sprite != "s" || instances[0].Tint != white {
				t.Errorf("instance = %+v", instances[0])
			}
		})
	}
}

func TestInstanceVisibility(t *testing.T) {
	windowed := still("s", 0, 0, 1, 1)
	windowed.Start, windowed.Duration = 0.25, 0.5

	for _, test := range []struct {
		progress float64
		visible  bool
	}{
		{0, false},
		{0.2, false},
		{0.25, true},
		{0.5, true},
		{0.75, true},
		{0.8, false},
		{1, false},
	} {
		instances, err := Instances(single(windowed), test.progress, 1)
		if err != nil {
			t.Fatal(err)
		}
		if visible := len(instances) == 1; visible != test.visible {
			t.Errorf("progress %v: visible = %v, want %v", test.progress, visible, test.visible)
		}
	}

	instant := still("s", 0, 0, 1, 1)
	instant.Duration = 0
	if instances, _ := Instances(single(instant), 0, 1); len(instances) != 0 {
		t.Error("zero-duration sprite was drawn")
	}

	transparent := still("s", 0, 0, 1, 1)
	transparent.A = constant(0)
	if instances, _ := Instances(single(transparent), 0.5, 1); len(instances) != 0 {
		t.Error("fully transparent sprite was drawn")
	}
}

func TestInstanceTint(t *testing.T) {
	sprite := still("s", 0, 0, 1, 1)
	sprite.Color = "#ff000080"
	sprite.A = constant(0.5)
	instances, err := Instances(single(sprite), 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}
	if want := (color.NRGBA{R: 255, A: 64}); instances[0].Tint != want {
		t.Errorf("tint = %v, want %v", instances[0].Tint, want)
	}
}

func TestInstancesRandomInputs(t *testing.T) {
	effect := project.ParticleEffect{
		Name:      "burst",
		Transform: project.IdentityTransform(),
		Groups: []project.ParticleGroup{{Count: 3, Particles: []project.ParticleSprite{
			testutil.Leaf("a"),
			testutil.Leaf("b"),
		}}},
	}
	first, err := Instances(effect, 0.25, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 6 {
		t.Fatalf("got %d instances, want 6", len(first))
	}
	// Sprites of one group instance share their random inputs.
	if first[0].Quad != first[1].Quad {
		t.Error("sprites of one group instance drew different inputs")
	}
	if first[0].Quad == first[2].Quad {
		t.Error("two group instances drew the same inputs")
	}

	again, err := Instances(effect, 0.25, 7)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(first, again) {
		t.Error("same seed produced different instances")
	}
	other, err := Instances(effect, 0.25, 8)
	if err != nil {
		t.Fatal(err)
	}
	if slices.Equal(first, other) {
		t.Error("different seeds produced identical instances")
	}
}

func TestInstancesInvalidEffect(t *testing.T) {
	badExpression := still("s", 0, 0, 1, 1)
	badExpression.X.From = "2*q"
	badColor := still("s", 0, 0, 1, 1)
	badColor.Color = "white"
	badTransform := single(still("s", 0, 0, 1, 1))
	badTransform.Transform[0] = "x1*x2"

	for name, effect := range map[string]project.ParticleEffect{
		"expression": single(badExpression),
		"colour":     single(badColor),
		"transform":  badTransform,
	} {
		if _, err := Instances(effect, 0.5, 1); err == nil {
			t.Errorf("%s: Instances accepted an invalid effect", name)
		}
	}
}

func TestRenderFillsQuad(t *testing.T) {
	registry := newRegistry()
	sprite := registry.Issue(testutil.SolidPNG(t, 4, 4, white))
	renderer := New(Options{Registry: registry, Size: 64, Background: black})

	frame, err := renderer.Render(single(still(sprite, 0, 0, 1, 1)), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Rect != image.Rect(0, 0, 64, 64) {
		t.Fatalf("frame bounds = %v", frame.Rect)
	}
	// The sprite covers world [-0.5, 0.5]², pixels 16 through 47.
	for _, check := range []struct {
		x, y int
		want color.NRGBA
	}{
		{32, 32, white},
		{16, 16, white},
		{47, 47, white},
		{15, 32, black},
		{48, 32, black},
		{32, 15, black},
		{0, 0, black},
	} {
		if got := frame.NRGBAAt(check.x, check.y); got != check.want {
			t.Errorf("pixel (%d, %d) = %v, want %v", check.x, check.y, got, check.want)
		}
	}
}

func TestRenderTextureOrientation(t *testing.T) {
	quadrants := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	quadrants.SetNRGBA(0, 0, red)
	quadrants.SetNRGBA(1, 0, green)
	quadrants.SetNRGBA(0, 1, blue)
	quadrants.SetNRGBA(1, 1, white)
	data, err := imagecodec.EncodePNG(quadrants)
	if err != nil {
		t.Fatal(err)
	}
	registry := newRegistry()
	renderer := New(Options{Registry: registry, Size: 64})

	frame, err := renderer.Render(single(still(registry.Issue(data), 0, 0, 2, 2)), 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, check := range []struct {
		x, y int
		want color.NRGBA
	}{
		{8, 8, red},
		{56, 8, green},
		{8, 56, blue},
		{56, 56, white},
	} {
		if got := frame.NRGBAAt(check.x, check.y); got != check.want {
			t.Errorf("pixel (%d, %d) = %v, want %v", check.x, check.y, got, check.want)
		}
	}
}

func TestRenderBlendsTint(t *testing.T) {
	registry := newRegistry()
	sprite := still(registry.Issue(testutil.SolidPNG(t, 1, 1, white)), 0, 0, 2, 2)
	sprite.Color = "#00ff00"
	sprite.A = constant(0.5)

	frame, err := New(Options{Registry: registry, Size: 8, Background: black}).Render(single(sprite), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := frame.NRGBAAt(4, 4), (color.NRGBA{G: 128, A: 255}); got != want {
		t.Errorf("blended pixel = %v, want %v", got, want)
	}
}

func TestRenderUnknownSprite(t *testing.T) {
	registry := newRegistry()
	_, err := New(Options{Registry: registry}).Render(single(still("missing", 0, 0, 1, 1)), 0.5)
	if !errors.Is(err, handle.ErrUnknownHandle) {
		t.Errorf("Render error = %v, want ErrUnknownHandle", err)
	}
}

func TestStrip(t *testing.T) {
	registry := newRegistry()
	early := still(registry.Issue(testutil.SolidPNG(t, 1, 1, white)), 0, 0, 2, 2)
	early.Duration = 0.4
	renderer := New(Options{Registry: registry, Size: 16, Background: black})

	strip, err := renderer.Strip(single(early), 3)
	if err != nil {
		t.Fatal(err)
	}
	if strip.Rect != image.Rect(0, 0, 48, 16) {
		t.Fatalf("strip bounds = %v, want 48x16", strip.Rect)
	}
	// Frames are at progress 0, 0.5 and 1; the sprite is gone after 0.4.
	for frame, want := range []color.NRGBA{white, black, black} {
		if got := strip.NRGBAAt(frame*16+8, 8); got != want {
			t.Errorf("frame %d centre = %v, want %v", frame, got, want)
		}
	}

	if _, err := renderer.Strip(single(early), 0); err == nil {
		t.Error("Strip accepted zero frames")
	}
}

func TestFindEffect(t *testing.T) {
	particle := project.Particle{Data: project.ParticleData{Effects: []project.ParticleEffect{
		{Name: "hit"},
		{Name: "miss"},
	}}}
	effect, err := FindEffect(particle, "miss")
	if err != nil || effect.Name != "miss" {
		t.Errorf("FindEffect(miss) = %q, %v", effect.Name, err)
	}
	if _, err := FindEffect(particle, "perfect"); !errors.Is(err, ErrEffectNotFound) {
		t.Errorf("FindEffect(perfect) error = %v, want ErrEffectNotFound", err)
	}
}

func TestOver(t *testing.T) {
	tests := []struct {
		name     string
		src, dst color.NRGBA
		want     color.NRGBA
	}{
		{"opaque source", red, blue, red},
		{"transparent source", color.NRGBA{R: 9}, blue, blue},
		{"empty destination", color.NRGBA{R: 200, A: 10}, color.NRGBA{}, color.NRGBA{R: 200, A: 10}},
		{"half over opaque", color.NRGBA{R: 255, A: 51}, black, color.NRGBA{R: 51, A: 255}},
	}
	for _, test := range tests {
		if got := over(test.src, test.dst); got != test.want {
			t.Errorf("%s: over = %v, want %v", test.name, got, test.want)
		}
	}
}
