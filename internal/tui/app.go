package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"shoplist-cli/internal/model"
	"shoplist-cli/internal/mutate"
	"shoplist-cli/internal/session"
	"shoplist-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirm
)

type confirmKind int

const (
	confirmRemoveDefault confirmKind = iota
	confirmReset
)

type savedAckDoneMsg struct{ seq int }

type snapshotDoneMsg struct {
	path string
	err  error
}

type appModel struct {
	ctx context.Context
	s   *session.Session
	kv  store.KV
	dir string

	keys keyMap
	help help.Model

	rows        []row
	cursor      int
	offset      int
	hideCrossed bool

	width  int
	height int

	mode mode

	input        textinput.Model
	addCat       model.CategoryID
	addToDefault bool

	confirm      confirmKind
	confirmFocus confirmModalFocus
	confirmCat   model.CategoryID
	confirmText  string

	showSaved bool
	ackSeq    int
	notice    string

	now func() time.Time
}

func newAppModel(ctx context.Context, s *session.Session, opts Options, ts *store.TUIState) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	m := appModel{
		ctx:  ctx,
		s:    s,
		kv:   opts.KV,
		dir:  opts.Dir,
		keys: defaultKeyMap(),
		help: help.New(),
		now:  time.Now,
	}

	m.input = textinput.New()
	m.input.Placeholder = "Item name"
	m.input.CharLimit = 200
	m.input.Width = 40

	focusCat := model.CategoryID("")
	focusID := ""
	if ts != nil {
		m.hideCrossed = ts.HideCrossed
		focusCat = model.CategoryID(ts.Category)
		focusID = ts.ItemID
	}
	m.rebuild(focusCat, focusID)
	if indexOfItem(m.rows, focusCat, focusID) < 0 {
		if i := indexOfHeader(m.rows, focusCat); i >= 0 {
			m.cursor = i
		}
	}
	m.notice = loadNotice(s)
	return m
}

// loadNotice summarizes anything unusual that happened while loading.
func loadNotice(s *session.Session) string {
	tl, sl := s.TemplateLoad(), s.StateLoad()
	switch {
	case tl.SaveErr != nil || sl.SaveErr != nil:
		return "Could not save; changes are kept in memory only"
	case tl.Outcome == store.OutcomeRecovered:
		return "Default list was unreadable and has been restored"
	case sl.Outcome == store.OutcomeRecovered:
		return "Current list was unreadable and has been rebuilt from the defaults"
	case sl.Outcome == store.OutcomeMigrated:
		return "Imported your previous list"
	default:
		return ""
	}
}

func (m appModel) Init() tea.Cmd {
	return m.snapshotCmd()
}

// snapshotCmd backs up storage in the background. It only reads from the KV.
func (m appModel) snapshotCmd() tea.Cmd {
	if m.kv == nil || strings.TrimSpace(m.dir) == "" {
		return nil
	}
	ctx, kv, dir, now := m.ctx, m.kv, filepath.Join(m.dir, "backups"), m.now()
	return func() tea.Msg {
		path, err := store.WriteSnapshot(ctx, kv, dir, now)
		return snapshotDoneMsg{path: path, err: err}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = modalBodyWidth(msg.Width) - 4
		m.ensureVisible()
		return m, nil

	case savedAckDoneMsg:
		// Only the latest save clears the flash.
		if msg.seq == m.ackSeq {
			m.showSaved = false
		}
		return m, nil

	case snapshotDoneMsg:
		if msg.err != nil {
			m.notice = "Backup failed: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	cur, ok := m.current()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.NextCat):
		m.jumpCategory(1)
	case key.Matches(msg, m.keys.PrevCat):
		m.jumpCategory(-1)

	case key.Matches(msg, m.keys.Toggle):
		if !ok || cur.kind != rowItem {
			return m, nil
		}
		res, err := m.s.Toggle(m.ctx, cur.cat, cur.item.ID)
		return m, m.afterMutation(res, err, cur.cat, cur.item.ID)

	case key.Matches(msg, m.keys.Delete):
		if !ok || cur.kind != rowItem {
			return m, nil
		}
		res, err := m.s.Delete(m.ctx, cur.cat, cur.item.ID)
		return m, m.afterMutation(res, err, cur.cat, "")

	case key.Matches(msg, m.keys.Add), key.Matches(msg, m.keys.AddDefault):
		if !ok {
			return m, nil
		}
		m.mode = modeAdd
		m.addCat = cur.cat
		m.addToDefault = key.Matches(msg, m.keys.AddDefault)
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.RemoveDef):
		if !ok || cur.kind != rowItem {
			return m, nil
		}
		if !m.s.IsInTemplate(cur.cat, cur.item.Text) {
			m.notice = fmt.Sprintf("%q is not on the default list", cur.item.Text)
			return m, nil
		}
		m.openConfirm(confirmRemoveDefault, cur.cat, cur.item.Text)

	case key.Matches(msg, m.keys.Reset):
		m.openConfirm(confirmReset, "", "")

	case key.Matches(msg, m.keys.Uncross):
		res, err := m.s.UncrossAll(m.ctx)
		focusCat, focusID := model.CategoryID(""), ""
		if ok {
			focusCat, focusID = cur.cat, cur.item.ID
		}
		return m, m.afterMutation(res, err, focusCat, focusID)

	case key.Matches(msg, m.keys.HideCrossed):
		m.hideCrossed = !m.hideCrossed
		if ok {
			m.rebuild(cur.cat, cur.item.ID)
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m appModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.closeAdd()
		return m, nil
	case "enter":
		text := model.CleanInput(m.input.Value())
		c, toDefault := m.addCat, m.addToDefault
		m.closeAdd()
		if text == "" {
			return m, nil
		}
		add := m.s.AddToCurrent
		if toDefault {
			add = m.s.AddToDefault
		}
		res, err := add(m.ctx, c, text)
		focusID := ""
		if res.Item != nil {
			focusID = res.Item.ID
		}
		return m, m.afterMutation(res, err, c, focusID)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) closeAdd() {
	m.mode = modeList
	m.input.Blur()
	m.input.Reset()
}

func (m *appModel) openConfirm(kind confirmKind, c model.CategoryID, text string) {
	m.mode = modeConfirm
	m.confirm = kind
	m.confirmCat = c
	m.confirmText = text
	// Destructive: cancel has focus first.
	m.confirmFocus = confirmFocusCancel
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g", "n", "q":
		m.mode = modeList
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggle()
		return m, nil
	case "y":
		return m.runConfirmed()
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.runConfirmed()
		}
		m.mode = modeList
		return m, nil
	}
	return m, nil
}

func (m appModel) runConfirmed() (tea.Model, tea.Cmd) {
	m.mode = modeList
	switch m.confirm {
	case confirmRemoveDefault:
		res, err := m.s.RemoveFromDefault(m.ctx, m.confirmCat, m.confirmText)
		return m, m.afterMutation(res, err, m.confirmCat, "")
	default:
		res, err := m.s.Reset(m.ctx)
		return m, m.afterMutation(res, err, "", "")
	}
}

// afterMutation rebuilds the rows from the session and starts the "Saved"
// flash. The session keeps an in-memory change even when saving failed.
func (m *appModel) afterMutation(res mutate.Result, err error, focusCat model.CategoryID, focusID string) tea.Cmd {
	m.rebuild(focusCat, focusID)
	if err != nil {
		m.notice = noticeFor(err)
		return nil
	}
	if !res.Changed() {
		return nil
	}
	m.showSaved = true
	m.ackSeq++
	seq := m.ackSeq
	return tea.Tick(m.s.AckFor(), func(time.Time) tea.Msg { return savedAckDoneMsg{seq: seq} })
}

func noticeFor(err error) string {
	var we *store.WriteError
	if errors.As(err, &we) {
		return "Could not save; changes are kept in memory only"
	}
	var nf mutate.NotFoundError
	if errors.As(err, &nf) {
		return "Not found: " + nf.ID
	}
	return err.Error()
}

// rebuild regenerates rows from a fresh session snapshot and restores the
// cursor: to focusID when it is still shown, else to the same position.
func (m *appModel) rebuild(focusCat model.CategoryID, focusID string) {
	m.rows = buildRows(m.s.State(), m.s.Template(), m.hideCrossed)
	if focusID != "" {
		if i := indexOfItem(m.rows, focusCat, focusID); i >= 0 {
			m.cursor = i
			m.ensureVisible()
			return
		}
	}
	m.clampCursor()
	// A removed last item leaves the cursor on the next category; step back.
	if focusCat != "" && m.cursor > 0 && m.rows[m.cursor].cat != focusCat && m.rows[m.cursor-1].cat == focusCat {
		m.cursor--
	}
	m.ensureVisible()
}

func (m *appModel) current() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *appModel) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *appModel) move(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.ensureVisible()
}

func (m *appModel) jumpCategory(dir int) {
	for i := m.cursor + dir; i >= 0 && i < len(m.rows); i += dir {
		if m.rows[i].kind == rowHeader {
			m.cursor = i
			break
		}
	}
	m.ensureVisible()
}

func (m *appModel) listHeight() int {
	if m.height <= 0 {
		return len(m.rows)
	}
	h := m.height - 4 // title, rule, blank, footer
	if m.help.ShowAll {
		h -= 4
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *appModel) ensureVisible() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// tuiState captures where the view was left.
func (m appModel) tuiState() *store.TUIState {
	st := &store.TUIState{Version: 1, HideCrossed: m.hideCrossed}
	if cur, ok := m.current(); ok {
		st.Category = string(cur.cat)
		st.ItemID = cur.item.ID
	}
	return st
}

func (m appModel) View() string {
	switch m.mode {
	case modeAdd:
		return m.place(m.viewAdd())
	case modeConfirm:
		return m.place(m.viewConfirm())
	}

	w := m.width
	if w <= 0 {
		w = 80
	}

	title := styleHeading().Render("Shopping list")
	if m.showSaved && m.s.Saved(m.now()) {
		saved := styleSaved().Render("Saved")
		gap := w - lipgloss.Width(title) - lipgloss.Width(saved)
		if gap < 1 {
			gap = 1
		}
		title += strings.Repeat(" ", gap) + saved
	}

	lines := []string{title, styleMuted().Render(strings.Repeat(glyphHRule(), w))}

	end := m.offset + m.listHeight()
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor, w))
	}

	lines = append(lines, "")
	if m.notice != "" {
		lines = append(lines, truncateLine(styleNotice().Render(m.notice), w))
	} else {
		lines = append(lines, m.help.View(m.keys))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderRow(r row, selected bool, w int) string {
	cursor := " "
	if selected {
		cursor = glyphCursor()
	}

	var line string
	switch r.kind {
	case rowHeader:
		line = cursor + " " + styleHeading().Render(model.Label(r.cat))
		if r.hidden > 0 {
			line += styleMuted().Render(fmt.Sprintf("  (%d crossed hidden)", r.hidden))
		}
		if len(m.s.Items(r.cat)) == 0 {
			line += styleMuted().Render("  (empty)")
		}
	default:
		box := glyphUnchecked()
		text := r.item.Text
		if r.item.Crossed {
			box = glyphChecked()
			text = styleCrossed().Render(text)
		}
		line = cursor + "   " + box + " " + text
		if r.isDefault {
			line += " " + styleMuted().Render(glyphDefault())
		}
	}

	line = truncateLine(line, w)
	if selected {
		return styleSelected().Width(w).Render(line)
	}
	return line
}

func (m appModel) viewAdd() string {
	title := "Add to " + model.Label(m.addCat)
	if m.addToDefault {
		title += " (and defaults)"
	}
	body := renderInputLine(modalBodyWidth(m.width), m.input.View())
	hint := styleMuted().Render("enter: add   esc: cancel")
	return renderModalBox(m.width, title, body+"\n\n"+hint)
}

func (m appModel) viewConfirm() string {
	switch m.confirm {
	case confirmRemoveDefault:
		body := fmt.Sprintf("Remove %q from the default list and the current list of %s?\nThis cannot be undone.",
			m.confirmText, model.Label(m.confirmCat))
		return renderConfirmModal(m.width, "Remove from defaults", body, "Remove", "Cancel", m.confirmFocus)
	default:
		body := "Replace the current list with the default list?\nItems you added only to this list are lost."
		return renderConfirmModal(m.width, "Reset list", body, "Reset", "Cancel", m.confirmFocus)
	}
}

func (m appModel) place(s string) string {
	if m.width <= 0 || m.height <= 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}
