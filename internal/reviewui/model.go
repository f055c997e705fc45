// Package reviewui provides the Bubble Tea annotation interface.
package reviewui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yalev/strokelab/internal/hebrew"
	"github.com/yalev/strokelab/internal/letters"
	"github.com/yalev/strokelab/internal/model"
	"github.com/yalev/strokelab/internal/participant"
	"github.com/yalev/strokelab/internal/store"
	"github.com/yalev/strokelab/internal/stroke"
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeAssign
	modeSave
)

// wordRef ties a flattened word back to its participant.
type wordRef struct {
	p *model.Participant
	w *model.Word
}

// Model implements the Bubble Tea review UI.
type Model struct {
	participants []*model.Participant
	words        []wordRef
	store        *store.Store
	cfg          model.ReviewConfig

	wordIdx  int
	eventIdx int
	selected map[int]struct{}

	mode  inputMode
	input textinput.Model

	status string

	width  int
	height int
}

// NewModel constructs a review UI model over the loaded participants.
func NewModel(participants []*model.Participant, st *store.Store, cfg model.ReviewConfig) *Model {
	m := &Model{
		participants: participants,
		store:        st,
		cfg:          cfg,
		selected:     map[int]struct{}{},
	}
	for _, p := range participants {
		for _, w := range p.Words {
			m.words = append(m.words, wordRef{p: p, w: w})
		}
	}
	m.input = textinput.New()
	m.input.CharLimit = 64
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.updateInput(msg)
		}
		return m.updateNormal(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "down":
		m.gotoWord(m.wordIdx + 1)
	case "up":
		m.gotoWord(m.wordIdx - 1)
	case "right":
		m.gotoEvent(m.eventIdx + 1)
	case "left":
		m.gotoEvent(m.eventIdx - 1)
	case "]":
		m.gotoStroke(1)
	case "[":
		m.gotoStroke(-1)
	case " ":
		m.toggleStroke()
	case "enter", "a":
		m.beginAssign()
	case "u":
		m.unassignSelection()
	case "x":
		m.sliceAtCurrent()
	case "t":
		m.cycleTrainability()
	case "s":
		m.beginSave()
	case "esc":
		m.selected = map[int]struct{}{}
		m.status = ""
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEscape:
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		mode := m.mode
		m.mode = modeNormal
		m.input.Blur()
		if mode == modeAssign {
			m.finishAssign(value)
		} else {
			m.finishSave(value)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) current() *model.Word {
	if m.wordIdx < 0 || m.wordIdx >= len(m.words) {
		return nil
	}
	return m.words[m.wordIdx].w
}

func (m *Model) gotoWord(idx int) {
	if idx < 0 || idx >= len(m.words) {
		return
	}
	m.wordIdx = idx
	m.eventIdx = 0
	m.selected = map[int]struct{}{}
	m.status = ""
}

func (m *Model) gotoEvent(idx int) {
	w := m.current()
	if w == nil {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(w.Events)-1 {
		idx = len(w.Events) - 1
	}
	if idx < 0 {
		idx = 0
	}
	m.eventIdx = idx
}

// gotoStroke jumps to the start of the next (+1) or previous (-1) stroke.
func (m *Model) gotoStroke(direction int) {
	w := m.current()
	if w == nil {
		return
	}
	starts, _ := stroke.Indices(w.Events)
	if len(starts) == 0 {
		return
	}
	if direction > 0 {
		for _, s := range starts {
			if s > m.eventIdx {
				m.eventIdx = s
				return
			}
		}
		m.eventIdx = len(w.Events) - 1
		return
	}
	for i := len(starts) - 1; i >= 0; i-- {
		if starts[i] < m.eventIdx {
			m.eventIdx = starts[i]
			return
		}
	}
	m.eventIdx = starts[0]
}

func (m *Model) currentStrokeID() (int, bool) {
	w := m.current()
	if w == nil {
		return 0, false
	}
	starts, _ := stroke.Indices(w.Events)
	if len(starts) == 0 {
		return 0, false
	}
	return stroke.IDForEvent(m.eventIdx, starts), true
}

func (m *Model) toggleStroke() {
	id, ok := m.currentStrokeID()
	if !ok {
		return
	}
	if _, selected := m.selected[id]; selected {
		delete(m.selected, id)
	} else {
		m.selected[id] = struct{}{}
	}
}

func (m *Model) selectedIDs() []int {
	ids := make([]int, 0, len(m.selected))
	for id := range m.selected {
		ids = append(ids, id)
	}
	return ids
}

func (m *Model) beginAssign() {
	w := m.current()
	if w == nil {
		return
	}
	if len(m.selected) == 0 {
		// No explicit selection: assign to the stroke under the cursor.
		id, ok := m.currentStrokeID()
		if !ok {
			m.status = "no strokes in this word"
			return
		}
		m.selected[id] = struct{}{}
	}
	m.mode = modeAssign
	m.input.Placeholder = "letter (empty = blocker)"
	m.input.SetValue("")
	m.input.Focus()
}

func (m *Model) finishAssign(value string) {
	w := m.current()
	if w == nil {
		return
	}
	char := ""
	if value != "" {
		r := []rune(value)[0]
		if m.cfg.HebrewKeys {
			r = hebrew.MapKey(r)
		}
		char = string(r)
	}
	ids := m.selectedIDs()
	letters.Assign(w, ids, char)
	participant.Recompute(w)
	participant.PromoteLowQuality(w)
	m.recordAnnotation(w)
	m.selected = map[int]struct{}{}
	if char == "" {
		m.status = fmt.Sprintf("blocker on strokes %v", ids)
	} else {
		m.status = fmt.Sprintf("assigned %q to strokes %v", char, ids)
	}
}

func (m *Model) unassignSelection() {
	w := m.current()
	if w == nil || len(m.selected) == 0 {
		m.status = "select strokes first (space)"
		return
	}
	ids := m.selectedIDs()
	letters.Unassign(w, ids)
	participant.Recompute(w)
	m.recordAnnotation(w)
	m.selected = map[int]struct{}{}
	m.status = fmt.Sprintf("unassigned strokes %v", ids)
}

func (m *Model) sliceAtCurrent() {
	w := m.current()
	if w == nil {
		return
	}
	id, err := stroke.Split(w, m.eventIdx)
	if err != nil {
		m.status = err.Error()
		return
	}
	participant.Recompute(w)
	m.selected = map[int]struct{}{}
	m.status = fmt.Sprintf("sliced stroke %d at event %d", id, m.eventIdx)
	m.eventIdx++
}

func (m *Model) cycleTrainability() {
	w := m.current()
	if w == nil {
		return
	}
	switch w.Trainability {
	case model.Trainable:
		w.Trainability = model.LowQualityTrainable
	case model.LowQualityTrainable:
		w.Trainability = model.Untrainable
	default:
		w.Trainability = model.Trainable
	}
	m.recordAnnotation(w)
	m.status = fmt.Sprintf("trainability: %s", w.Trainability.Display())
}

func (m *Model) recordAnnotation(w *model.Word) {
	if m.store == nil {
		return
	}
	ref := m.words[m.wordIdx]
	err := m.store.RecordAnnotation(context.Background(), model.Annotation{
		Participant:  ref.p.ParticipantNumber,
		Cell:         w.Cell,
		Word:         w.Word,
		WrittenWord:  w.WrittenWord,
		IsCorrect:    w.IsCorrect,
		Trainability: w.Trainability,
	})
	if err != nil {
		logErrf("failed to record annotation: %v\n", err)
	}
}

func (m *Model) beginSave() {
	if m.current() == nil {
		return
	}
	m.mode = modeSave
	m.input.Placeholder = "output path"
	m.input.SetValue(m.defaultSavePath())
	m.input.Focus()
}

func (m *Model) defaultSavePath() string {
	src := m.words[m.wordIdx].p.FilePath
	if src == "" {
		return "annotated.json"
	}
	base := strings.TrimSuffix(src, filepath.Ext(src))
	return base + ".annotated.json"
}

// finishSave writes the current word's participant with all annotations to
// a new file; the source recording is never overwritten.
func (m *Model) finishSave(path string) {
	if path == "" {
		m.status = "save cancelled"
		return
	}
	ref := m.words[m.wordIdx]
	if path == ref.p.FilePath {
		m.status = "refusing to overwrite the source file"
		return
	}
	for _, w := range ref.p.Words {
		participant.Recompute(w)
	}
	if err := participant.Save(path, ref.p); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %s", path)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
