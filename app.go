package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/mfield/skim/internal/config"
	"github.com/mfield/skim/internal/extract"
	"github.com/mfield/skim/internal/outline"
	"github.com/mfield/skim/internal/session"
	"github.com/mfield/skim/internal/store"
)

// wpmStep is the speed change per keypress.
const wpmStep = 50

// watchDebounce coalesces bursts of file events (editors often write a
// file several times per save) into one reload.
const watchDebounce = 300 * time.Millisecond

// sourceRef identifies where the current document came from, so parameter
// changes and file reloads can re-run the same extraction.
type sourceRef struct {
	kind     string
	location string // file path or URL
	text     string // paste content
	title    string
}

type screen int

const (
	screenOpen screen = iota
	screenReading
	screenOutline
	screenPins
)

// loadMode distinguishes why an extraction ran: it decides what happens to
// the reading position when the result lands.
type loadMode int

const (
	loadNew    loadMode = iota // fresh document: new session, resume offer
	loadParams                 // user changed a parameter: position resets
	loadReload                 // file changed on disk: position is kept, clamped
)

type extractedMsg struct {
	gen  int
	mode loadMode
	src  *sourceRef
	fp   string
	res  *extract.Result
	err  error
}

// tickMsg is a playback wake-up. It carries the generation it was armed
// with; a stale generation means the wake-up was cancelled or superseded.
type tickMsg struct {
	gen int
}

type fileChangedMsg struct{}

type model struct {
	cfg      *config.Config
	st       *store.Store
	logger   *slog.Logger
	settings store.Settings

	screen screen
	width  int
	height int

	src        *sourceRef
	sess       *session.Session
	lastResult *extract.Result
	fp         string

	// extractGen tags the in-flight extraction; a result carrying an older
	// generation is discarded. Superseded work is wasted, never visible.
	extractGen int
	extracting bool

	resume *session.ResumeOffer
	flash  string
	help   bool

	input       textinput.Model
	spin        spinner.Model
	outlineList list.Model
	pinList     list.Model

	watcher *fsnotify.Watcher
	changes chan struct{}

	quitting bool
}

func newModel(cfg *config.Config, st *store.Store, logger *slog.Logger, settings store.Settings, src *sourceRef) *model {
	ti := textinput.New()
	ti.Placeholder = "path to a file, or a URL"
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ol := newPickerList("Contents")
	pl := newPickerList("Pins")

	return &model{
		cfg:         cfg,
		st:          st,
		logger:      logger,
		settings:    settings,
		screen:      screenOpen,
		width:       80,
		height:      24,
		src:         src,
		input:       ti,
		spin:        sp,
		outlineList: ol,
		pinList:     pl,
		changes:     make(chan struct{}, 1),
	}
}

func newPickerList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func (m *model) Init() tea.Cmd {
	if m.src != nil {
		return tea.Batch(m.extractCmd(m.src, loadNew), m.spin.Tick)
	}
	return textinput.Blink
}

// extractCmd runs an extraction off the UI loop. It bumps the extraction
// generation first, so any result still in flight becomes stale.
func (m *model) extractCmd(src *sourceRef, mode loadMode) tea.Cmd {
	m.extractGen++
	gen := m.extractGen
	m.extracting = true

	p := extract.Params{
		TopMargin:    m.settings.TopMargin,
		BottomMargin: m.settings.BottomMargin,
		SpacingScale: m.settings.SpacingScale,
	}

	return func() tea.Msg {
		msg := extractedMsg{gen: gen, mode: mode, src: src}
		switch src.kind {
		case extract.KindURL:
			msg.fp = store.URLFingerprint(src.location)
			msg.res, msg.err = extract.FromURL(src.location)
		case extract.KindPaste:
			msg.fp = store.PasteFingerprint(src.text)
			msg.res = extract.FromString(src.title, src.text)
		default:
			msg.res, msg.err = extract.FromFile(src.location, p)
			if msg.err == nil {
				msg.fp, msg.err = store.FileFingerprint(src.location)
			}
		}
		return msg
	}
}

func tickCmd(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// waitForChange blocks on the watcher's debounced change channel.
func (m *model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return fileChangedMsg{}
	}
}

// startWatch begins watching the loaded file for on-disk changes. Watch
// failures are logged and ignored; live reload is a convenience.
func (m *model) startWatch(path string) tea.Cmd {
	m.stopWatch()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		m.logger.Warn("watch: create failed", slog.String("error", err.Error()))
		return nil
	}
	if err := w.Add(path); err != nil {
		m.logger.Warn("watch: add failed", slog.String("path", path), slog.String("error", err.Error()))
		w.Close()
		return nil
	}
	m.watcher = w

	go func() {
		var timer *time.Timer
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if timer == nil {
					timer = time.AfterFunc(watchDebounce, func() {
						select {
						case m.changes <- struct{}{}:
						default:
						}
					})
				} else {
					timer.Reset(watchDebounce)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				m.logger.Warn("watch: error", slog.String("error", err.Error()))
			}
		}
	}()

	return m.waitForChange()
}

func (m *model) stopWatch() {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.outlineList.SetSize(msg.Width-4, msg.Height-4)
		m.pinList.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.extracting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case extractedMsg:
		return m.handleExtracted(msg)

	case tickMsg:
		return m.handleTick(msg)

	case fileChangedMsg:
		if m.src == nil || m.src.kind != extract.KindFile {
			return m, nil
		}
		m.logger.Info("reloading changed file", slog.String("path", m.src.location))
		return m, tea.Batch(m.extractCmd(m.src, loadReload), m.waitForChange())
	}

	return m, nil
}

func (m *model) handleExtracted(msg extractedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.extractGen {
		return m, nil
	}
	m.extracting = false

	if msg.err != nil {
		m.logger.Warn("extraction failed", slog.String("error", msg.err.Error()))
		m.flash = fmt.Sprintf("Could not open: %v", msg.err)
		if m.sess == nil {
			m.screen = screenOpen
			m.src = nil
			return m, textinput.Blink
		}
		return m, nil
	}

	m.src = msg.src
	m.fp = msg.fp
	m.lastResult = msg.res
	doc := session.BuildDocument(msg.fp, msg.res, m.settings.Filters)

	switch msg.mode {
	case loadReload:
		m.sess.ReplaceDocument(doc, true)
		m.flash = "Reloaded"
	case loadParams:
		m.sess.ReplaceDocument(doc, false)
	default:
		m.sess = session.New(doc, m.settings)
		m.resume = nil
		if b, ok := m.st.Bookmark(msg.fp); ok {
			if offer, ok := m.sess.Resumable(b); ok {
				m.resume = &offer
			}
		}
		m.screen = screenReading
		m.logger.Info("document loaded",
			slog.String("title", doc.Title),
			slog.Int("tokens", doc.Total()),
			slog.Int("outline", len(doc.Outline)))
		m.refreshOutlineItems()
		if msg.src.kind == extract.KindFile {
			return m, m.startWatch(msg.src.location)
		}
		return m, nil
	}
	m.refreshOutlineItems()
	return m, nil
}

func (m *model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if m.sess == nil || msg.gen != m.sess.Generation() || !m.sess.Playing {
		return m, nil
	}
	if !m.sess.Advance() {
		// Finished: the document reads as done, so the bookmark goes away.
		m.st.ClearBookmark(m.fp)
		return m, nil
	}
	m.st.QueueBookmark(m.fp, m.sess.Snapshot())
	gen := m.sess.Arm()
	return m, tickCmd(gen, m.sess.Delay())
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m.quit()
	}

	switch m.screen {
	case screenOpen:
		return m.handleOpenKey(msg, key)
	case screenOutline:
		return m.handlePickerKey(msg, key, &m.outlineList)
	case screenPins:
		return m.handlePickerKey(msg, key, &m.pinList)
	}
	return m.handleReadingKey(key)
}

func (m *model) handleOpenKey(msg tea.KeyMsg, key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter":
		loc := strings.TrimSpace(m.input.Value())
		if loc == "" {
			return m, nil
		}
		m.flash = ""
		src := &sourceRef{kind: extract.KindFile, location: loc}
		if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
			src.kind = extract.KindURL
		}
		return m, tea.Batch(m.extractCmd(src, loadNew), m.spin.Tick)
	case "esc":
		return m.quit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handlePickerKey(msg tea.KeyMsg, key string, l *list.Model) (tea.Model, tea.Cmd) {
	// The list's own filter input swallows plain keys while active.
	if l.FilterState() != list.Filtering {
		switch key {
		case "enter":
			if item, ok := l.SelectedItem().(seekItem); ok {
				m.sess.Seek(item.ordinal())
				m.st.QueueBookmark(m.fp, m.sess.Snapshot())
			}
			m.screen = screenReading
			return m, nil
		case "esc", "q", "t", "p":
			m.screen = screenReading
			return m, nil
		}
	}
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func (m *model) handleReadingKey(key string) (tea.Model, tea.Cmd) {
	if m.sess == nil {
		if key == "q" {
			return m.quit()
		}
		return m, nil
	}

	m.flash = ""

	// A pending resume offer captures y/n/d until answered or dismissed.
	if m.resume != nil {
		switch key {
		case "y", "enter":
			m.sess.Seek(m.resume.Ordinal)
			m.resume = nil
			return m, nil
		case "n", "esc":
			// Declining is a statement that the old position is wrong.
			m.st.ClearBookmark(m.fp)
			m.resume = nil
			return m, nil
		}
	}

	if m.help {
		m.help = false
		if key == "?" {
			return m, nil
		}
	}

	switch key {
	case " ":
		if m.sess.TogglePlay() {
			m.resume = nil
			gen := m.sess.Arm()
			return m, tickCmd(gen, m.sess.Delay())
		}
		m.st.QueueBookmark(m.fp, m.sess.Snapshot())
		return m, nil

	case "up", "+", "=":
		return m.adjustSettings(func(s *store.Settings) { s.WPM += wpmStep })
	case "down", "-":
		return m.adjustSettings(func(s *store.Settings) { s.WPM -= wpmStep })
	case "]":
		return m.adjustSettings(func(s *store.Settings) {
			if s.ChunkWidth < 9 {
				s.ChunkWidth += 2
			}
		})
	case "[":
		return m.adjustSettings(func(s *store.Settings) { s.ChunkWidth -= 2 })

	case "f":
		m.settings.ShowFocus = !m.settings.ShowFocus
		m.st.SaveSettings(m.settings)
		return m, nil

	case "1":
		return m.toggleFilter(func(s *store.Settings) { s.Filters.Citations = !s.Filters.Citations }, "citations")
	case "2":
		return m.toggleFilter(func(s *store.Settings) { s.Filters.Captions = !s.Filters.Captions }, "captions")
	case "3":
		return m.toggleFilter(func(s *store.Settings) { s.Filters.References = !s.Filters.References }, "references")
	case "4":
		return m.toggleFilter(func(s *store.Settings) { s.Filters.PageNumbers = !s.Filters.PageNumbers }, "page numbers")

	case ")":
		return m.adjustExtraction(func(s *store.Settings) { s.TopMargin += 0.05 })
	case "(":
		return m.adjustExtraction(func(s *store.Settings) { s.TopMargin -= 0.05 })
	case "0":
		return m.adjustExtraction(func(s *store.Settings) { s.BottomMargin += 0.05 })
	case "9":
		return m.adjustExtraction(func(s *store.Settings) { s.BottomMargin -= 0.05 })
	case "}":
		return m.adjustExtraction(func(s *store.Settings) { s.SpacingScale += 0.1 })
	case "{":
		return m.adjustExtraction(func(s *store.Settings) { s.SpacingScale -= 0.1 })

	case "left":
		m.sess.JumpToPrevSentence()
		m.st.QueueBookmark(m.fp, m.sess.Snapshot())
		return m, nil
	case "right":
		m.sess.JumpToNextSentence()
		m.st.QueueBookmark(m.fp, m.sess.Snapshot())
		return m, nil
	case "g", "home":
		m.sess.Seek(0)
		return m, nil
	case "G", "end":
		m.sess.Seek(m.sess.Total() - 1)
		return m, nil

	case "r":
		m.sess.Seek(0)
		m.st.ClearBookmark(m.fp)
		return m, nil

	case "t":
		if len(m.sess.Doc.Outline) == 0 {
			m.flash = "No outline for this document"
			return m, nil
		}
		m.sess.Pause()
		m.screen = screenOutline
		return m, nil

	case "p":
		m.sess.Pause()
		m.refreshPinItems()
		m.screen = screenPins
		return m, nil

	case "m":
		pin := store.Pin{
			Ordinal:   m.sess.Ordinal,
			Context:   m.sess.Doc.Context(m.sess.Ordinal, 8),
			CreatedAt: time.Now(),
		}
		if m.st.AddPin(m.fp, pin) {
			m.flash = "Pinned"
		} else {
			m.flash = "Too close to an existing pin"
		}
		return m, nil

	case "?":
		m.sess.Pause()
		m.help = true
		return m, nil

	case "q":
		return m.quit()
	}
	return m, nil
}

// adjustSettings applies a playback preference change: saved, applied to
// the live session, no re-extraction needed.
func (m *model) adjustSettings(change func(*store.Settings)) (tea.Model, tea.Cmd) {
	change(&m.settings)
	m.settings.Normalize()
	m.st.SaveSettings(m.settings)
	m.sess.ApplySettings(m.settings)
	return m, nil
}

// toggleFilter flips a content filter and rebuilds the token sequence from
// the cached extraction result. The old position is meaningless in the new
// sequence, so the session resets to the start.
func (m *model) toggleFilter(change func(*store.Settings), name string) (tea.Model, tea.Cmd) {
	change(&m.settings)
	m.st.SaveSettings(m.settings)
	if m.lastResult != nil {
		doc := session.BuildDocument(m.fp, m.lastResult, m.settings.Filters)
		m.sess.ReplaceDocument(doc, false)
		m.refreshOutlineItems()
	}
	m.flash = "Filter toggled: " + name
	return m, nil
}

// adjustExtraction applies an extraction parameter change, which requires
// re-running the extractor against the source.
func (m *model) adjustExtraction(change func(*store.Settings)) (tea.Model, tea.Cmd) {
	change(&m.settings)
	m.settings.Normalize()
	m.st.SaveSettings(m.settings)
	if m.src == nil || m.src.kind != extract.KindFile {
		return m, nil
	}
	return m, tea.Batch(m.extractCmd(m.src, loadParams), m.spin.Tick)
}

func (m *model) quit() (tea.Model, tea.Cmd) {
	if m.sess != nil && m.fp != "" && m.sess.Ordinal > 0 {
		m.st.QueueBookmark(m.fp, m.sess.Snapshot())
	}
	m.st.Flush()
	m.stopWatch()
	m.quitting = true
	return m, tea.Quit
}

// seekItem is a picker row that can move the session somewhere.
type seekItem interface {
	list.Item
	ordinal() int
}

type outlineItem struct {
	entry outline.Entry
}

func (i outlineItem) Title() string {
	return strings.Repeat("  ", i.entry.Depth) + i.entry.Title
}

func (i outlineItem) Description() string {
	return fmt.Sprintf("unit %d · word %d", i.entry.Unit, i.entry.Token+1)
}

func (i outlineItem) FilterValue() string { return i.entry.Title }
func (i outlineItem) ordinal() int        { return i.entry.Token }

type pinItem struct {
	pin store.Pin
}

func (i pinItem) Title() string { return i.pin.Context }

func (i pinItem) Description() string {
	return fmt.Sprintf("word %d · %s", i.pin.Ordinal+1, i.pin.CreatedAt.Format("Jan 2 15:04"))
}

func (i pinItem) FilterValue() string { return i.pin.Context }
func (i pinItem) ordinal() int        { return i.pin.Ordinal }

func (m *model) refreshOutlineItems() {
	if m.sess == nil {
		return
	}
	items := make([]list.Item, 0, len(m.sess.Doc.Outline))
	for _, e := range m.sess.Doc.Outline {
		items = append(items, outlineItem{entry: e})
	}
	m.outlineList.SetItems(items)
}

func (m *model) refreshPinItems() {
	pins := m.st.Pins(m.fp)
	items := make([]list.Item, 0, len(pins))
	for _, p := range pins {
		items = append(items, pinItem{pin: p})
	}
	m.pinList.SetItems(items)
}
