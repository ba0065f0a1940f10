// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles colours human-readable output. The renderer detects the
// writer's colour profile, so output to a pipe or file is plain text.
type styles struct {
	heading lipgloss.Style
	faint   lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	renderer := lipgloss.NewRenderer(w)
	return styles{
		heading: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		faint:   renderer.NewStyle().Foreground(lipgloss.Color("245")),
		good:    renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		bad:     renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}
