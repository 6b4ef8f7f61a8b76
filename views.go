package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mfield/skim/internal/extract"
	"github.com/mfield/skim/internal/tokenize"
)

var (
	focusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	flashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(1, 2)
)

const helpText = `SPACE play/pause · ←/→ sentence · g/G start/end · r restart
↑/↓ or +/- speed · [/] chunk width · f focus letter
1 citations · 2 captions · 3 references · 4 page numbers
(/) top margin · 9/0 bottom margin · {/} word spacing (PDF)
t contents · p pins · m pin here · ? help · q quit`

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenOpen:
		return m.viewOpen()
	case screenOutline:
		return m.viewPicker(m.outlineList, "ENTER: jump · ESC: back")
	case screenPins:
		return m.viewPicker(m.pinList, "ENTER: jump · ESC: back")
	}
	return m.viewReading()
}

func (m *model) viewOpen() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("skim"))
	sb.WriteString("\n\n")
	if m.extracting {
		sb.WriteString(m.spin.View())
		sb.WriteString(" extracting...\n")
		return sb.String()
	}
	sb.WriteString("Open a document:\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")
	sb.WriteString(controlsStyle.Render("Formats: " + strings.Join(extract.SupportedFormats(), ", ")))
	sb.WriteString("\n")
	sb.WriteString(controlsStyle.Render("ENTER: open · ESC: quit"))
	if m.flash != "" {
		sb.WriteString("\n\n")
		sb.WriteString(flashStyle.Render(m.flash))
	}
	return sb.String()
}

func (m *model) viewPicker(l list.Model, controls string) string {
	return l.View() + "\n" + controlsStyle.Render(controls)
}

func (m *model) viewReading() string {
	if m.sess == nil {
		return "No document loaded."
	}

	status := m.statusLine()
	bottom := m.bottomLine()

	var center string
	switch {
	case m.extracting:
		center = m.spin.View() + " extracting..."
	case m.help:
		center = helpStyle.Render(wordwrap.String(helpText, m.width-4))
	case m.sess.Total() == 0:
		center = statusStyle.Render("Nothing to read after filtering.")
	default:
		center = renderChunk(m.sess.Chunk(), m.settings.ShowFocus, m.width)
	}

	// Status on the first row, controls on the last, chunk centered between.
	avail := m.height - 2
	if avail < 1 {
		avail = 1
	}
	centerLines := strings.Count(center, "\n") + 1
	vPad := (avail - centerLines) / 2
	if vPad < 0 {
		vPad = 0
	}

	var sb strings.Builder
	sb.WriteString(status)
	sb.WriteString("\n")
	for i := 0; i < vPad; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString(center)

	if m.resume != nil && !m.help {
		sb.WriteString("\n\n")
		label := fmt.Sprintf("Resume at word %d?", m.resume.Ordinal+1)
		if m.resume.Approximate {
			label = fmt.Sprintf("Resume near word %d? (text changed)", m.resume.Ordinal+1)
		}
		sb.WriteString(centerText(promptStyle.Render(label)+controlsStyle.Render("  y: resume · n: start over"), m.width, lipgloss.Width(label)+28))
	}

	remaining := avail - vPad - centerLines
	for i := 0; i < remaining; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString(bottom)
	return sb.String()
}

func (m *model) statusLine() string {
	title := m.sess.Doc.Title
	if title == "" {
		title = "untitled"
	}

	pause := ""
	if !m.sess.Playing {
		pause = pausedStyle.Render(" [PAUSED]")
	}

	return statusStyle.Render(fmt.Sprintf("%s | Word %d/%d | Unit %d | %d WPM | ~%d min left",
		title,
		m.sess.Ordinal+1,
		m.sess.Total(),
		m.sess.CurrentUnit(),
		m.sess.WPM,
		m.sess.RemainingMinutes(),
	)) + pause
}

func (m *model) bottomLine() string {
	if m.flash != "" {
		return flashStyle.Render(" " + m.flash)
	}
	return controlsStyle.Render("SPACE: pause/play  ←/→: sentence  t: contents  p: pins  m: pin  ?: help  q: quit")
}

// renderChunk renders the visible chunk with the middle word's optimal
// recognition point anchored at the horizontal center of the screen.
func renderChunk(chunk []string, showFocus bool, width int) string {
	if len(chunk) == 0 {
		return ""
	}

	mid := len(chunk) / 2
	left := strings.Join(chunk[:mid], " ")
	if left != "" {
		left += " "
	}
	right := ""
	if mid+1 < len(chunk) {
		right = " " + strings.Join(chunk[mid+1:], " ")
	}

	word := chunk[mid]
	runes := []rune(word)
	orp := tokenize.ORPPosition(word)
	if orp >= len(runes) {
		orp = len(runes) - 1
	}
	if orp < 0 {
		orp = 0
	}

	anchor := width / 2
	pad := anchor - utf8.RuneCountInString(left) - orp
	if pad < 0 {
		pad = 0
	}
	indent := strings.Repeat(" ", pad)

	if !showFocus || len(runes) == 0 {
		return indent + wordStyle.Render(left+word+right)
	}

	before := left + string(runes[:orp])
	focus := string(runes[orp])
	after := ""
	if orp+1 < len(runes) {
		after = string(runes[orp+1:])
	}
	return indent + wordStyle.Render(before) + focusStyle.Render(focus) + wordStyle.Render(after+right)
}

// centerText left-pads a rendered line of the given visible width so it
// sits roughly centered.
func centerText(s string, width, visible int) string {
	pad := (width - visible) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
