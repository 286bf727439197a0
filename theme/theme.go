package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type RGB [3]uint8

// Theme maps color roles to a built-in palette. Everything is compiled in;
// there is nothing to load from disk.
type Theme struct {
	colors map[Role]RGB
}

// Role is a named slot in the palette.
type Role int

const (
	RoleBG Role = iota
	RoleMuted
	RoleFG
	RoleAccent
	RoleBass
	RoleDrums
	RoleLead
	RolePad
	RoleSamples
	RoleWarning
)

// New returns the default acid palette (deep purples into hot magenta).
func New() *Theme {
	return &Theme{
		colors: map[Role]RGB{
			RoleBG:      {24, 10, 40},
			RoleMuted:   {96, 70, 130},
			RoleFG:      {222, 200, 255},
			RoleAccent:  {235, 60, 200},
			RoleBass:    {80, 250, 123},
			RoleDrums:   {255, 184, 108},
			RoleLead:    {139, 233, 253},
			RolePad:     {189, 147, 249},
			RoleSamples: {255, 121, 198},
			RoleWarning: {255, 85, 85},
		},
	}
}

// Color returns the lipgloss color for a role.
func (t *Theme) Color(r Role) lipgloss.Color {
	c := t.colors[r]
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

// Style returns a foreground style for a role.
func (t *Theme) Style(r Role) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Color(r))
}

// TrackRole picks the role used to color a track's output.
func TrackRole(track string) Role {
	switch track {
	case "TB303", "BassSub":
		return RoleBass
	case "BP909":
		return RoleDrums
	case "LeadSynth", "ArpSynth":
		return RoleLead
	case "PadSynth":
		return RolePad
	}
	return RoleSamples
}
