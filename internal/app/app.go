// Package app contains the root application model: a multi-section
// registration form that autosaves a draft, gates submission on validity,
// and renders the outcome.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"pestle/internal/config"
	"pestle/internal/draft"
	"pestle/internal/keys"
	"pestle/internal/log"
	"pestle/internal/notify"
	"pestle/internal/roster"
	"pestle/internal/schema"
	"pestle/internal/submit"
	"pestle/internal/ui/codelist"
	"pestle/internal/ui/fieldgroup"
	"pestle/internal/ui/help"
	"pestle/internal/ui/markdown"
	"pestle/internal/ui/modal"
	"pestle/internal/ui/rosterlist"
	"pestle/internal/ui/styles"
	"pestle/internal/ui/toaster"
	"pestle/internal/ui/typeselect"
)

// State is the form lifecycle state.
type State int

const (
	// StateEditing is the normal interactive state.
	StateEditing State = iota
	// StateSubmitting means a submission is in flight; the form is read-only.
	StateSubmitting
	// StateSubmitted is terminal for the session.
	StateSubmitted
)

// Section identifies one focusable region of the form, in tab order.
type Section int

const (
	SectionType Section = iota
	SectionBusiness
	SectionContact
	SectionCodes
	SectionRoster
	sectionCount
)

// Submission gate messages, surfaced as warning toasts.
const (
	msgSelectType   = "Please select a business type"
	msgNeedODS      = "Please add at least one pharmacy ODS code"
	msgInvalidODS   = "Please fix the invalid pharmacy ODS codes"
	msgNoPharmacist = "No pharmacists to export"
)

type autosaveMsg struct{ gen int }

type resultMsg struct{ result submit.Result }

type draftChangedMsg struct{}

// reloader is implemented by stores that cache reads.
type reloader interface{ Invalidate() }

// Model is the root application state.
type Model struct {
	state State
	cfg   config.Config
	keys  keys.KeyMap

	store     draft.Store
	submitter submit.Submitter
	notifier  notify.Notifier

	focus      Section
	typeSelect typeselect.Model
	business   fieldgroup.Model
	contact    fieldgroup.Model
	codeList   codelist.Model
	rosterList rosterlist.Model

	toaster  toaster.Model
	helpView help.Model
	confirm  *modal.Model

	spin        spinner.Model
	successView string

	// saveGen invalidates stale debounce timers: only the tick carrying the
	// latest generation writes the draft.
	saveGen int

	width  int
	height int

	notifyCancel   context.CancelFunc
	notifyListener *notify.Listener

	// reload signals that the draft database changed on disk.
	reload <-chan struct{}
}

// New creates the application model and hydrates it from the draft store.
// A nil bus discards notifications; reload may be nil when auto-reload is
// disabled.
func New(cfg config.Config, store draft.Store, submitter submit.Submitter, bus *notify.Bus, reload <-chan struct{}) Model {
	m := Model{
		cfg:        cfg,
		keys:       keys.DefaultKeyMap(),
		store:      store,
		submitter:  submitter,
		notifier:   notify.Discard,
		typeSelect: typeselect.New(),
		business:   fieldgroup.New(nil),
		contact:    fieldgroup.New(schema.ContactFields()),
		codeList:   codelist.New(),
		rosterList: rosterlist.New(),
		toaster:    toaster.New(),
		helpView:   help.New(),
		spin:       newSpinner(),
		reload:     reload,
	}

	if bus != nil {
		m.notifier = bus
		ctx, cancel := context.WithCancel(context.Background())
		m.notifyCancel = cancel
		m.notifyListener = bus.NewListener(ctx)
	}

	if snap, ok, err := store.Load(); err != nil {
		log.Warn(log.CatDraft, "Failed to load draft", "error", err)
	} else if ok {
		m = m.hydrate(snap)
	}

	return m.focusSection(SectionType, 1)
}

func newSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.SpinnerColor)),
	)
}

// hydrate restores component state from a saved snapshot.
func (m Model) hydrate(snap draft.Snapshot) Model {
	m.typeSelect = m.typeSelect.SetSelectedID(snap.BusinessType)
	if bt, ok := m.typeSelect.Selected(); ok {
		m.business = m.business.SetFields(bt.Fields).SetValues(snap.Business)
	}
	m.contact = m.contact.SetValues(snap.Contact)
	m.codeList = m.codeList.SetCodes(snap.ODS)
	m.rosterList = m.rosterList.SetRecords(snap.Pharmacists)
	log.Info(log.CatDraft, "Draft hydrated",
		"businessType", snap.BusinessType,
		"ods", len(snap.ODS),
		"pharmacists", len(snap.Pharmacists))
	return m
}

// Init implements tea.Model. It starts the notification listener and the
// draft file watcher listener when they are wired.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.notifyListener != nil {
		cmds = append(cmds, m.notifyListener.Listen())
	}
	if m.reload != nil {
		cmds = append(cmds, listenForReload(m.reload))
	}
	return tea.Batch(cmds...)
}

func listenForReload(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return draftChangedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.applySizes(), nil

	case notify.Event:
		m.toaster = m.toaster.Show(msg.Payload.Message, msg.Payload.Severity)
		cmds := []tea.Cmd{toaster.ScheduleDismiss(m.toastDelay())}
		if m.notifyListener != nil {
			cmds = append(cmds, m.notifyListener.Listen())
		}
		return m, tea.Batch(cmds...)

	case toaster.DismissMsg:
		m.toaster = m.toaster.Hide()
		return m, nil

	case draftChangedMsg:
		return m.reloadDraft()

	case autosaveMsg:
		if msg.gen == m.saveGen && m.state == StateEditing {
			m.persist()
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != StateSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case resultMsg:
		return m.handleResult(msg.result)

	case typeselect.ChangedMsg:
		return m.handleTypeChanged(msg)

	case rosterlist.EditRevertedMsg:
		m.notifier.Warn(msg.Reason)
		return m, m.scheduleSave()

	case modal.ConfirmMsg:
		if m.confirm == nil {
			return m, nil
		}
		m.confirm = nil
		return m.clearForm()

	case modal.CancelMsg:
		m.confirm = nil
		return m, nil

	case tea.MouseMsg:
		if m.state != StateEditing || m.confirm != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.rosterList, cmd = m.rosterList.Update(msg)
		return m, tea.Batch(cmd, m.scheduleSave())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// The confirmation dialog captures all input while open.
	if m.confirm != nil {
		updated, cmd := m.confirm.Update(msg)
		m.confirm = &updated
		return m, cmd
	}

	if m.helpView.Visible() {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) {
			m.helpView.Hide()
		}
		return m, nil
	}

	if m.state == StateSubmitted {
		return m, nil
	}

	// The form is read-only while a submission is in flight: no edits,
	// no clearing, no re-entrant submits.
	if m.state == StateSubmitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.beginSubmit()
	case key.Matches(msg, m.keys.Export):
		return m.exportRoster()
	case key.Matches(msg, m.keys.ClearForm):
		c := modal.New(modal.Config{
			Title:          "Clear form?",
			Message:        "All entered data and the saved draft will be removed.",
			ConfirmVariant: modal.ButtonDanger,
		})
		c.SetSize(m.width, m.height)
		m.confirm = &c
		return m, nil
	}

	// "?" toggles help only from the type selector; every other section
	// owns free text input.
	if m.focus == SectionType && key.Matches(msg, m.keys.Help) {
		m.helpView.Toggle()
		return m, nil
	}

	if key.Matches(msg, m.keys.NextField) {
		return m.cycleFocus(1), nil
	}
	if key.Matches(msg, m.keys.PrevField) {
		return m.cycleFocus(-1), nil
	}

	return m.routeKey(msg)
}

// cycleFocus advances focus one field at a time through field groups, then
// section by section in tab order.
func (m Model) cycleFocus(dir int) Model {
	switch m.focus {
	case SectionBusiness:
		next, ok := stepGroup(m.business, dir)
		m.business = next
		if ok {
			return m
		}
	case SectionContact:
		next, ok := stepGroup(m.contact, dir)
		m.contact = next
		if ok {
			return m
		}
	}
	return m.focusSection(m.nextSection(dir), dir)
}

func stepGroup(g fieldgroup.Model, dir int) (fieldgroup.Model, bool) {
	if dir > 0 {
		return g.Next()
	}
	return g.Prev()
}

// nextSection returns the next focusable section, skipping the business
// group until a type is selected.
func (m Model) nextSection(dir int) Section {
	s := m.focus
	for {
		s = Section((int(s) + dir + int(sectionCount)) % int(sectionCount))
		if s == SectionBusiness {
			if _, ok := m.typeSelect.Selected(); !ok {
				continue
			}
		}
		return s
	}
}

func (m Model) focusSection(s Section, dir int) Model {
	m = m.blurAll()
	m.focus = s
	switch s {
	case SectionType:
		m.typeSelect = m.typeSelect.Focus()
	case SectionBusiness:
		if dir < 0 {
			m.business = m.business.FocusLast()
		} else {
			m.business = m.business.Focus()
		}
	case SectionContact:
		if dir < 0 {
			m.contact = m.contact.FocusLast()
		} else {
			m.contact = m.contact.Focus()
		}
	case SectionCodes:
		m.codeList = m.codeList.Focus()
	case SectionRoster:
		m.rosterList = m.rosterList.Focus()
	}
	return m
}

func (m Model) blurAll() Model {
	m.typeSelect = m.typeSelect.Blur()
	m.business = m.business.Blur()
	m.contact = m.contact.Blur()
	m.codeList = m.codeList.Blur()
	m.rosterList = m.rosterList.Blur()
	return m
}

func (m Model) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case SectionType:
		m.typeSelect, cmd = m.typeSelect.Update(msg)
	case SectionBusiness:
		m.business, cmd = m.business.Update(msg)
	case SectionContact:
		m.contact, cmd = m.contact.Update(msg)
	case SectionCodes:
		m.codeList, cmd = m.codeList.Update(msg)
	case SectionRoster:
		m.rosterList, cmd = m.rosterList.Update(msg)
	}
	return m, tea.Batch(cmd, m.scheduleSave())
}

// scheduleSave bumps the save generation and arms the debounce timer. Only
// the timer carrying the latest generation writes.
func (m *Model) scheduleSave() tea.Cmd {
	m.saveGen++
	gen := m.saveGen
	return tea.Tick(m.debounce(), func(time.Time) tea.Msg {
		return autosaveMsg{gen: gen}
	})
}

func (m Model) debounce() time.Duration {
	return time.Duration(m.cfg.DebounceDelay()) * time.Millisecond
}

func (m Model) toastDelay() time.Duration {
	return time.Duration(m.cfg.ToastDismissDelay()) * time.Millisecond
}

// persist writes the current form state to the draft store. Failures are
// logged and swallowed; persistence must never interrupt editing.
func (m Model) persist() {
	snap := m.snapshot()
	if snap.Empty() {
		if err := m.store.Clear(); err != nil {
			log.Warn(log.CatDraft, "Failed to clear empty draft", "error", err)
		}
		return
	}
	if err := m.store.Save(snap); err != nil {
		log.Warn(log.CatDraft, "Failed to save draft", "error", err)
	}
}

func (m Model) snapshot() draft.Snapshot {
	snap := draft.Snapshot{
		Business:    m.business.Values(),
		Contact:     m.contact.Values(),
		ODS:         m.codeList.Codes(),
		Pharmacists: m.rosterList.Records(),
	}
	if bt, ok := m.typeSelect.Selected(); ok {
		snap.BusinessType = bt.ID
	}
	return snap
}

// handleTypeChanged swaps the business field group for the newly selected
// type. Values for keys shared between the old and new sets carry over.
func (m Model) handleTypeChanged(msg typeselect.ChangedMsg) (tea.Model, tea.Cmd) {
	bt, ok := schema.BusinessTypeByID(msg.ID)
	if !ok {
		return m, nil
	}
	m.business = m.business.SetFields(bt.Fields)
	log.Info(log.CatForm, "Business type selected", "type", bt.ID)
	return m, m.scheduleSave()
}

// beginSubmit runs the submission gate in order and, if every check passes,
// assembles the payload and fires it off. The first failing check warns and
// moves focus to the offending section.
func (m Model) beginSubmit() (tea.Model, tea.Cmd) {
	if m.state == StateSubmitting {
		return m, nil
	}

	bt, ok := m.typeSelect.Selected()
	if !ok {
		m.typeSelect = m.typeSelect.SetError(msgSelectType)
		m.notifier.Warn(msgSelectType)
		return m.focusSection(SectionType, 1), nil
	}

	var firstErr string
	m.business, firstErr = m.business.Validate()
	if firstErr != "" {
		m.notifier.Warn(firstErr)
		return m.focusSection(SectionBusiness, 1), nil
	}

	m.contact, firstErr = m.contact.Validate()
	if firstErr != "" {
		m.notifier.Warn(firstErr)
		return m.focusSection(SectionContact, 1), nil
	}

	if len(m.codeList.Codes()) == 0 {
		m.notifier.Warn(msgNeedODS)
		return m.focusSection(SectionCodes, 1), nil
	}
	if !m.codeList.AllValid() {
		m.notifier.Warn(msgInvalidODS)
		return m.focusSection(SectionCodes, 1), nil
	}

	req, err := submit.Assemble(
		"",
		bt.Fields.Keys(), m.business.Values(),
		schema.ContactFields().Keys(), m.contact.Values(),
		m.codeList.Codes(),
		m.rosterList.Records(),
	)
	if err != nil {
		m.notifier.Danger(err.Error())
		return m, nil
	}

	log.Info(log.CatSubmit, "Submitting application",
		"submissionID", req.SubmissionID.String(),
		"type", string(req.Type),
		"fields", len(req.Fields))

	m = m.blurAll()
	m.state = StateSubmitting
	m.spin = newSpinner()
	return m, tea.Batch(m.spin.Tick, m.submitCmd(req))
}

func (m Model) submitCmd(req submit.Request) tea.Cmd {
	submitter := m.submitter
	return func() tea.Msg {
		return resultMsg{result: submitter.Submit(context.Background(), req)}
	}
}

func (m Model) handleResult(res submit.Result) (tea.Model, tea.Cmd) {
	// Duplicate or stale result signals must not corrupt state.
	if m.state != StateSubmitting {
		return m, nil
	}

	// An empty reply is a failure even without an error message: the
	// journal acknowledges an application by echoing at least one line.
	if res.Err != "" || len(res.Reply) == 0 {
		errMsg := res.Err
		if errMsg == "" {
			errMsg = "Submission failed. Please try again."
		}
		log.Warn(log.CatSubmit, "Submission failed", "error", errMsg)
		m.state = StateEditing
		m.notifier.Danger(errMsg)
		return m.focusSection(SectionType, 1), nil
	}

	log.Info(log.CatSubmit, "Submission accepted", "reply", len(res.Reply))
	m.state = StateSubmitted
	m.successView = m.renderSuccess(res.Reply)
	if err := m.store.Clear(); err != nil {
		log.Warn(log.CatDraft, "Failed to clear draft after submission", "error", err)
	}
	m.rosterList = m.rosterList.Clear()
	m.notifier.Success("Application submitted")
	return m, nil
}

func (m Model) renderSuccess(reply []string) string {
	var b strings.Builder
	b.WriteString("# Application submitted\n\n")
	b.WriteString("Your pharmacy business registration has been received.\n")
	if len(reply) > 0 {
		b.WriteString("\n")
		for _, line := range reply {
			b.WriteString("- " + line + "\n")
		}
	}
	b.WriteString("\nPress ctrl+c to exit.\n")

	width := m.width - 4
	if width < 40 {
		width = 40
	}
	if width > 80 {
		width = 80
	}
	r, err := markdown.New(width, m.cfg.UI.MarkdownStyle)
	if err != nil {
		return b.String()
	}
	out, err := r.Render(b.String())
	if err != nil {
		return b.String()
	}
	return out
}

// clearForm wipes the draft and resets every component.
func (m Model) clearForm() (tea.Model, tea.Cmd) {
	if err := m.store.Clear(); err != nil {
		log.Warn(log.CatDraft, "Failed to clear draft", "error", err)
	}

	m.typeSelect = typeselect.New()
	m.business = fieldgroup.New(nil)
	m.contact = fieldgroup.New(schema.ContactFields())
	m.codeList = m.codeList.Clear()
	m.rosterList = m.rosterList.Clear()
	m = m.applySizes()
	m = m.focusSection(SectionType, 1)

	// Invalidate any debounce timer armed before the clear.
	m.saveGen++

	log.Info(log.CatForm, "Form cleared")
	m.notifier.Success("Form cleared")
	return m, nil
}

func (m Model) exportRoster() (tea.Model, tea.Cmd) {
	if len(m.rosterList.Records()) == 0 {
		m.notifier.Warn(msgNoPharmacist)
		return m, nil
	}

	dir := m.cfg.Export.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.notifier.Danger(fmt.Sprintf("Export failed: %v", err))
		return m, nil
	}

	path := filepath.Join(dir, roster.ExportFilename(time.Now()))
	f, err := os.Create(path)
	if err != nil {
		m.notifier.Danger(fmt.Sprintf("Export failed: %v", err))
		return m, nil
	}
	defer f.Close()

	if err := m.rosterList.Roster().ExportCSV(f); err != nil {
		m.notifier.Danger(fmt.Sprintf("Export failed: %v", err))
		return m, nil
	}

	log.Info(log.CatRoster, "Roster exported", "path", path, "rows", len(m.rosterList.Records()))
	m.notifier.Success("Exported " + path)
	return m, nil
}

// reloadDraft re-hydrates the form after the draft database changed on
// disk, e.g. another process wrote it.
func (m Model) reloadDraft() (tea.Model, tea.Cmd) {
	if r, ok := m.store.(reloader); ok {
		r.Invalidate()
	}

	var rearm tea.Cmd
	if m.reload != nil {
		rearm = listenForReload(m.reload)
	}

	if m.state != StateEditing {
		return m, rearm
	}

	snap, ok, err := m.store.Load()
	if err != nil {
		log.Warn(log.CatDraft, "Failed to reload draft", "error", err)
		return m, rearm
	}
	if !ok {
		return m, rearm
	}

	m = m.hydrate(snap)
	m = m.applySizes()
	m = m.focusSection(SectionType, 1)
	log.Info(log.CatDraft, "Draft reloaded after external change")
	m.notifier.Info("Draft reloaded from disk")
	return m, rearm
}

func (m Model) applySizes() Model {
	w := m.formWidth()
	m.typeSelect = m.typeSelect.SetWidth(w)
	m.business = m.business.SetWidth(w)
	m.contact = m.contact.SetWidth(w)
	m.codeList = m.codeList.SetWidth(w)
	m.rosterList = m.rosterList.SetWidth(w)
	m.toaster = m.toaster.SetSize(m.width, m.height)
	m.helpView.SetSize(m.width, m.height)
	if m.confirm != nil {
		m.confirm.SetSize(m.width, m.height)
	}
	return m
}

func (m Model) formWidth() int {
	w := m.width - 2
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

// View implements tea.Model.
func (m Model) View() string {
	if m.state == StateSubmitted {
		view := lipgloss.NewStyle().Padding(1, 2).Render(m.successView)
		if m.toaster.Visible() {
			view = m.toaster.Overlay(view, m.width, m.height)
		}
		return view
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.TextPrimaryColor).
		Padding(0, 1).
		Render("Pharmacy Business Registration")

	sections := []string{title, m.typeSelect.View()}
	if _, ok := m.typeSelect.Selected(); ok {
		sections = append(sections, m.business.View())
	}
	sections = append(sections,
		m.contact.View(),
		m.codeList.View(),
		m.rosterList.View(),
		m.statusBar(),
	)

	view := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.confirm != nil {
		view = m.confirm.Overlay(view)
	}
	view = m.helpView.Overlay(view)
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}

	return zone.Scan(view)
}

func (m Model) statusBar() string {
	if m.state == StateSubmitting {
		return styles.StatusBarStyle.Render(m.spin.View() + " Submitting application...")
	}
	return styles.StatusBarStyle.Render(
		"tab: next section • ctrl+s: submit • ctrl+e: export • ctrl+x: clear • ?: help • ctrl+c: quit")
}

// State returns the current lifecycle state.
func (m Model) State() State {
	return m.state
}

// Focus returns the currently focused section.
func (m Model) Focus() Section {
	return m.focus
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	if m.notifyCancel != nil {
		m.notifyCancel()
	}
	return nil
}
