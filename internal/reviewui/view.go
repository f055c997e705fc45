package reviewui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yalev/strokelab/internal/model"
	"github.com/yalev/strokelab/internal/stats"
	"github.com/yalev/strokelab/internal/stroke"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	eventStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Underline(true)
	letterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6FA8DC"))
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

const strokeCellWidth = 6

// View implements tea.Model.
func (m *Model) View() string {
	w := m.current()
	if w == nil {
		return "No words loaded.\n"
	}
	ref := m.words[m.wordIdx]

	var b strings.Builder
	b.WriteString(m.renderTitle(ref, w))
	b.WriteString("\n")
	b.WriteString(m.renderEventLine(w))
	b.WriteString("\n\n")
	b.WriteString(m.renderStrokeLane(w))
	b.WriteString("\n")
	b.WriteString(renderLetterRow(w.Letters, strokeCount(w), strokeCellWidth))
	b.WriteString("\n\n")
	b.WriteString(m.renderVerdict(w))
	b.WriteString("\n")
	if m.mode != modeNormal {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render(
		"↑/↓ word · ←/→ event · [/] stroke · space select · a/enter assign · u unassign · x slice · t trainability · s save · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderTitle(ref wordRef, w *model.Word) string {
	title := fmt.Sprintf("Word %d/%d: %q  (participant %s, cell %d, group %s)",
		m.wordIdx+1, len(m.words), w.Word, ref.p.ParticipantNumber, w.Cell, w.Group)
	if w.AudioStartTime != nil && w.AudioEndTime != nil {
		title += fmt.Sprintf("  reading 00:00.000 – %s", stats.FormatTime(*w.AudioEndTime-*w.AudioStartTime))
	}
	return titleStyle.Render(title)
}

func (m *Model) renderEventLine(w *model.Word) string {
	if len(w.Events) == 0 {
		return eventStyle.Render("no pen events")
	}
	e := w.Events[m.eventIdx]
	rel := e.AbsoluteTime - w.AudioStart()
	minX, minY, maxX, maxY := stroke.Bounds(w.Events)
	return eventStyle.Render(fmt.Sprintf(
		"Event %d/%d · %s · %s · (%.1f, %.1f) · pressure %.2f · %.1f px/s · canvas %.0fx%.0f",
		m.eventIdx+1, len(w.Events), stats.FormatTime(rel), e.Type, e.X, e.Y, e.Pressure, e.Speed,
		maxX-minX, maxY-minY))
}

// renderStrokeLane draws one fixed-width cell per stroke, marking the stroke
// under the cursor and any selected strokes.
func (m *Model) renderStrokeLane(w *model.Word) string {
	starts, _ := stroke.Indices(w.Events)
	if len(starts) == 0 {
		return eventStyle.Render("(no strokes)")
	}
	cursorID := stroke.IDForEvent(m.eventIdx, starts)

	cells := make([]string, 0, len(starts))
	for id := range starts {
		label := fmt.Sprintf("#%d", id)
		if _, ok := m.selected[id]; ok {
			label = "*" + label
		}
		cell := padCell(label, strokeCellWidth)
		switch {
		case id == cursorID:
			cell = cursorStyle.Render(cell)
		case isSelected(m.selected, id):
			cell = selectedStyle.Render(cell)
		default:
			cell = eventStyle.Render(cell)
		}
		cells = append(cells, cell)
	}
	return strings.Join(cells, "")
}

func isSelected(selected map[int]struct{}, id int) bool {
	_, ok := selected[id]
	return ok
}

// renderLetterRow lines each letter character up under its first stroke's
// lane cell. Blockers render as "|"; strokes without a letter stay blank.
func renderLetterRow(ls []model.Letter, strokes, cellWidth int) string {
	if strokes == 0 {
		return ""
	}
	byStroke := make(map[int]string, len(ls))
	for _, l := range ls {
		first := l.FirstStroke()
		if first < 0 {
			continue
		}
		char := l.Char
		if l.IsBlocker() {
			char = "|"
		}
		byStroke[first] = char
	}

	var b strings.Builder
	for id := 0; id < strokes; id++ {
		char, ok := byStroke[id]
		if !ok {
			b.WriteString(strings.Repeat(" ", cellWidth))
			continue
		}
		b.WriteString(letterStyle.Render(padCell(char, cellWidth)))
	}
	return strings.TrimRight(b.String(), " ")
}

func (m *Model) renderVerdict(w *model.Word) string {
	verdict := wrongStyle.Render("incorrect")
	if w.IsCorrect {
		verdict = correctStyle.Render("correct")
	}
	return fmt.Sprintf("%s · written %q · %s", verdict, w.WrittenWord, w.Trainability.Display())
}

func strokeCount(w *model.Word) int {
	starts, _ := stroke.Indices(w.Events)
	return len(starts)
}

// padCell pads by display width so Hebrew letters and markers line up.
func padCell(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
