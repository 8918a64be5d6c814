package tui

import (
	"context"
	"fmt"
	"time"

	"tasky-cli/internal/board"
	"tasky-cli/internal/config"
	"tasky-cli/internal/model"
	"tasky-cli/internal/notify"
	"tasky-cli/internal/store"
	"tasky-cli/internal/summary"
	"tasky-cli/internal/view"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type mode int

const (
	modeBoard mode = iota
	modeMove
	modeSearch
	modeSummary
)

const bannerTimeout = notify.DefaultTimeout

var (
	groupByCycle = []string{"status", "category", "priority", "customer"}
	sortByCycle  = []string{"follow_up_date", "priority", "title", "created_date", "status"}
)

type (
	tasksLoadedMsg  struct{ err error }
	configLoadedMsg struct{ cfg model.Config }
	moveDoneMsg     struct {
		out board.Outcome
		err error
	}
	notificationMsg notify.Notification
	summaryMsg      struct {
		view summary.View
		err  error
	}
	configChangedMsg config.Config
	pollerMsg        struct {
		perm notify.Permission
		err  error
	}
	pollerStoppedMsg struct{}
	tickMsg          time.Time
)

type appModel struct {
	ctx  context.Context
	deps Deps
	log  logrus.FieldLogger
	cfg  config.Config

	tasks    *store.TaskCache
	options  *store.ConfigCache
	rec      *board.Reconciler
	poller   *notify.Poller
	banner   *notify.ChannelNotifier
	summary  *summary.Service
	configCh chan config.Config
	sumCh    chan summaryMsg

	cancelBackground context.CancelFunc
	cancelSummary    context.CancelFunc

	width, height int
	mode          mode
	loading       bool
	keys          keyMap
	help          help.Model
	spinner       spinner.Model
	search        textinput.Model
	pane          viewport.Model

	groupBy    string
	sortBy     string
	showClosed bool
	board      view.Board[model.Task]
	sel        selection
	dragID     string
	dropCol    int
	moving     bool

	muted        bool
	notification string
	notifyUntil  time.Time
	notifyTask   string // task the banner announces, "" for none

	summaryView  summary.View
	summaryErr   error
	summaryBusy  bool
	summaryReady bool

	status string
	err    error
	now    func() time.Time
}

func newModel(ctx context.Context, deps Deps) *appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	log := deps.Log
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	prefs := deps.Prefs
	if prefs == nil {
		prefs = store.NewPrefs(nil)
	}
	deps.Prefs = prefs

	m := &appModel{
		ctx:      ctx,
		deps:     deps,
		log:      log.WithField("component", "tui"),
		cfg:      deps.Config,
		tasks:    store.NewTaskCache(deps.API),
		options:  store.NewConfigCache(deps.API, log),
		banner:   notify.NewChannelNotifier(8),
		configCh: make(chan config.Config, 1),
		sumCh:    make(chan summaryMsg, 1),
		loading:  true,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		pane:     viewport.New(0, 0),
		now:      time.Now,
	}
	m.rec = board.NewReconciler(m.tasks, deps.API, log)
	m.summary = summary.NewService(deps.API, prefs,
		summary.WithFormatter(summary.Formatter{Sanitize: summary.StrictSanitizer()}),
		summary.WithLogger(log))

	m.poller = notify.NewPoller(deps.API, m.pollerNotifier(), log, pollerOptions(m.cfg))

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search title, description, customer"
	ti.CharLimit = 120
	m.search = ti

	m.restoreBoardState()
	return m
}

func pollerOptions(c config.Config) notify.Options {
	return notify.Options{
		Interval:         c.Notifications.Interval.Duration,
		ReminderInterval: c.Notifications.ReminderInterval.Duration,
	}
}

// restoreBoardState applies the persisted board state over the config defaults.
func (m *appModel) restoreBoardState() {
	m.groupBy = m.cfg.Board.GroupBy
	m.sortBy = m.cfg.Board.SortBy
	m.showClosed = m.cfg.Board.ShowClosed
	if m.groupBy == "" {
		m.groupBy = "status"
	}

	st := m.deps.Prefs.BoardState(m.ctx)
	if st.GroupBy != "" {
		m.groupBy = st.GroupBy
	}
	if st.SortBy != "" {
		m.sortBy = st.SortBy
	}
	if st.ShowClosed {
		m.showClosed = true
	}
	m.sel.TaskID = st.SelectedTaskID
}

func (m *appModel) saveBoardState() {
	st := store.BoardState{
		GroupBy:        m.groupBy,
		SortBy:         m.sortBy,
		ShowClosed:     m.showClosed,
		SelectedTaskID: m.sel.TaskID,
	}
	if err := m.deps.Prefs.SaveBoardState(m.ctx, st); err != nil {
		m.log.WithError(err).Warn("saving board state failed")
	}
}

// startBackground launches the config watcher and the summary loop. Both only
// talk to the model through channels drained by wait commands.
func (m *appModel) startBackground() {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelBackground = cancel
	if m.deps.Path != "" {
		go func() {
			err := config.Watch(ctx, m.deps.Path, m.log, func(c config.Config) {
				select {
				case m.configCh <- c:
				default:
					// Drop the stale pending reload for the newer one.
					select {
					case <-m.configCh:
					default:
					}
					m.configCh <- c
				}
			})
			if err != nil && ctx.Err() == nil {
				m.log.WithError(err).Warn("config watch stopped")
			}
		}()
	}
	m.startSummaryLoop()
}

func (m *appModel) startSummaryLoop() {
	if m.cancelSummary != nil {
		m.cancelSummary()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelSummary = cancel
	every := m.cfg.Summary.AutoInterval.Duration
	include := m.cfg.Summary.IncludeClosed
	go m.summary.Run(ctx, every, include, func(v summary.View, err error) {
		select {
		case m.sumCh <- summaryMsg{view: v, err: err}:
		case <-ctx.Done():
		}
	})
}

func (m *appModel) shutdown() {
	if m.cancelSummary != nil {
		m.cancelSummary()
	}
	if m.cancelBackground != nil {
		m.cancelBackground()
	}
	m.poller.Stop()
	m.saveBoardState()
}

func (m *appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadTasks(),
		m.loadOptions(),
		m.spinner.Tick,
		m.waitForNotification(),
		m.waitForConfig(),
		m.waitForSummary(),
		tick(),
	}
	if m.cfg.Notifications.Enabled {
		cmds = append(cmds, m.startPoller())
	} else {
		m.muted = true
	}
	return tea.Batch(cmds...)
}

func (m *appModel) loadTasks() tea.Cmd {
	return func() tea.Msg {
		return tasksLoadedMsg{err: m.tasks.Load(m.ctx)}
	}
}

func (m *appModel) loadOptions() tea.Cmd {
	return func() tea.Msg {
		return configLoadedMsg{cfg: m.options.Load(m.ctx)}
	}
}

func (m *appModel) startPoller() tea.Cmd {
	p := m.poller
	return func() tea.Msg {
		perm, err := p.Start(m.ctx)
		return pollerMsg{perm: perm, err: err}
	}
}

func (m *appModel) stopPoller() tea.Cmd {
	p := m.poller
	return func() tea.Msg {
		p.Stop()
		return pollerStoppedMsg{}
	}
}

func (m *appModel) waitForNotification() tea.Cmd {
	ch := m.banner.C()
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}

func (m *appModel) waitForConfig() tea.Cmd {
	return func() tea.Msg {
		select {
		case c := <-m.configCh:
			return configChangedMsg(c)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *appModel) waitForSummary() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.sumCh:
			return s
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *appModel) generateSummary(force bool) tea.Cmd {
	req := summary.Request{Force: force, IncludeClosed: m.cfg.Summary.IncludeClosed}
	return func() tea.Msg {
		v, err := m.summary.Generate(m.ctx, req)
		return summaryMsg{view: v, err: err}
	}
}

func (m *appModel) drop(target board.Target) tea.Cmd {
	return func() tea.Msg {
		out, err := m.rec.Drop(m.ctx, target)
		return moveDoneMsg{out: out, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// rebuild regroups the live cache; counts always come from the cache itself.
func (m *appModel) rebuild() {
	fs := view.FilterState{Search: m.search.Value(), ShowClosed: m.showClosed}
	visible := view.Filter(m.tasks.Snapshot(), fs)
	if spec, ok := view.SortSpecFor(m.sortBy); ok {
		visible = view.Sort(visible, spec)
	}
	opts, configured := m.options.Get().OptionsFor(m.groupBy)
	m.board = view.Group(visible, m.groupBy, opts, configured)
	m.sel = clampSelection(m.board, m.sel)
}

func (m *appModel) selectedTask() (model.Task, bool) {
	if m.sel.Col < 0 || m.sel.Col >= len(m.board.Columns) {
		return model.Task{}, false
	}
	items := m.board.Columns[m.sel.Col].Items
	if m.sel.Item < 0 || m.sel.Item >= len(items) {
		return model.Task{}, false
	}
	return items[m.sel.Item], true
}

func (m *appModel) showBanner(text string, d time.Duration) {
	if d <= 0 {
		d = bannerTimeout
	}
	m.notification = text
	m.notifyUntil = m.now().Add(d)
	m.notifyTask = ""
}

func (m *appModel) bannerActive() bool {
	return m.notification != "" && m.now().Before(m.notifyUntil)
}

// openAnnounced selects the card the banner announced, clearing a search
// or revealing closed cards when either hides it.
func (m *appModel) openAnnounced() {
	id := m.notifyTask
	if id == "" || !m.bannerActive() {
		return
	}
	t, ok := m.tasks.Get(id)
	if !ok {
		m.status = "announced task is no longer on the board"
		return
	}
	if m.search.Value() != "" {
		m.search.SetValue("")
	}
	if t.IsClosed() && !m.showClosed {
		m.showClosed = true
		m.saveBoardState()
	}
	m.sel = selection{TaskID: id}
	m.rebuild()
	m.notification = ""
	m.notifyTask = ""
	m.status = fmt.Sprintf("opened %q", t.Title)
}

func nextIn(cycle []string, cur string) string {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}
