// Package viewer drives a mounted gallery from the terminal.
package viewer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tstromberg/lightbox/pkg/gallery"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	lightboxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// keyCodes maps terminal keys to the browser key codes the widget expects.
var keyCodes = map[string]string{
	"esc":   gallery.KeyEscape,
	"left":  gallery.KeyArrowLeft,
	"right": gallery.KeyArrowRight,
}

// Model is a bubbletea model over a gallery widget.
type Model struct {
	w      *gallery.Widget
	title  string
	cursor int
}

// New returns a model for w.
func New(w *gallery.Widget, title string) Model {
	return Model{w: w, title: title}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := km.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	if code, ok := keyCodes[key]; ok {
		m.w.Keydown(code)
		return m, nil
	}

	if m.w.Lightbox().IsOpen() {
		switch key {
		case "c":
			m.w.Click(m.w.Handles().Close)
		case "o":
			m.w.Click(m.w.Handles().Overlay)
		}
		return m, nil
	}

	thumbs := m.w.Thumbnails()
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(thumbs)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(thumbs) {
			m.w.Click(thumbs[m.cursor])
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n\n")

	thumbs := m.w.Thumbnails()
	if len(thumbs) == 0 {
		b.WriteString(dimStyle.Render("(no images)") + "\n")
	}

	for i, t := range thumbs {
		line := fmt.Sprintf("%s  %s", gallery.Attr(t, "alt"), dimStyle.Render(gallery.Attr(t, gallery.SourceAttr)))
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + line + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}

	lb := m.w.Lightbox()
	if lb.IsOpen() {
		desc := ""
		if cur, ok := lb.Current(); ok {
			desc = cur.Description
		}
		b.WriteString("\n" + lightboxStyle.Render(fmt.Sprintf("%s\n%s", lb.Source(), dimStyle.Render(desc))) + "\n")
		b.WriteString(dimStyle.Render("←/→ navigate • esc/c/o close • q quit") + "\n")
	} else {
		b.WriteString("\n" + dimStyle.Render("↑/↓ select • enter open • q quit") + "\n")
	}

	return b.String()
}
