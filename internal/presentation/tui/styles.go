package tui

import (
	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/charmbracelet/lipgloss"
)

// Theme names accepted by WithTheme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// palette holds the colors that change with the theme.
type palette struct {
	idle   lipgloss.Color
	text   lipgloss.Color
	dim    lipgloss.Color
	border lipgloss.Color
	accent lipgloss.Color
}

var palettes = map[string]palette{
	ThemeDark: {
		idle:   lipgloss.Color("#95a5a6"),
		text:   lipgloss.Color("255"),
		dim:    lipgloss.Color("240"),
		border: lipgloss.Color("238"),
		accent: lipgloss.Color("36"),
	},
	ThemeLight: {
		idle:   lipgloss.Color("#34495e"),
		text:   lipgloss.Color("235"),
		dim:    lipgloss.Color("245"),
		border: lipgloss.Color("250"),
		accent: lipgloss.Color("25"),
	},
}

// Highlight colors are shared by both themes.
var roleColors = map[domain.Role]lipgloss.Color{
	domain.RoleComparing: lipgloss.Color("#e74c3c"),
	domain.RoleSelected:  lipgloss.Color("#3498db"),
	domain.RoleSwapping:  lipgloss.Color("#f1c40f"),
	domain.RoleSorted:    lipgloss.Color("#2ecc71"),
}

// styles is the set of lipgloss styles derived from a theme.
type styles struct {
	title lipgloss.Style
	text  lipgloss.Style
	dim   lipgloss.Style
	err   lipgloss.Style
	panel lipgloss.Style
	label lipgloss.Style
	bars  map[domain.Role]lipgloss.Style
	idle  lipgloss.Style
}

func newStyles(theme string) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[ThemeDark]
	}
	s := styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		text:  lipgloss.NewStyle().Foreground(p.text),
		dim:   lipgloss.NewStyle().Foreground(p.dim),
		err:   lipgloss.NewStyle().Foreground(roleColors[domain.RoleComparing]),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		label: lipgloss.NewStyle().Bold(true).Foreground(p.text),
		bars:  make(map[domain.Role]lipgloss.Style, len(roleColors)),
		idle:  lipgloss.NewStyle().Foreground(p.idle),
	}
	for role, c := range roleColors {
		s.bars[role] = lipgloss.NewStyle().Foreground(c)
	}
	return s
}

// bar returns the style for a bar with the given role.
func (s styles) bar(role domain.Role) lipgloss.Style {
	if st, ok := s.bars[role]; ok {
		return st
	}
	return s.idle
}
