package tui

import (
	"errors"
	"fmt"
	"time"

	"tasky-cli/internal/board"
	"tasky-cli/internal/config"
	"tasky-cli/internal/notify"
	"tasky-cli/internal/summary"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resizePane()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		if m.notification != "" && !m.bannerActive() {
			m.notification = ""
			m.notifyTask = ""
		}
		return m, tick()

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.log.WithError(msg.err).Warn("loading tasks failed")
		} else {
			m.err = nil
		}
		m.rebuild()
		return m, nil

	case configLoadedMsg:
		m.rebuild()
		return m, nil

	case moveDoneMsg:
		return m, m.handleMoveDone(msg)

	case notificationMsg:
		n := notify.Notification(msg)
		text := n.Title + "  " + n.Body
		if n.TaskID != "" {
			text += "  (o: open)"
		}
		m.showBanner(text, n.Timeout)
		m.notifyTask = n.TaskID
		return m, m.waitForNotification()

	case summaryMsg:
		m.handleSummary(msg)
		return m, m.waitForSummary()

	case configChangedMsg:
		return m, tea.Batch(m.applyConfig(config.Config(msg)), m.waitForConfig())

	case pollerMsg:
		if msg.err != nil && !errors.Is(msg.err, notify.ErrAlreadyRunning) {
			m.status = "notifications: " + msg.err.Error()
			return m, nil
		}
		if msg.perm != notify.Granted {
			m.muted = true
			m.status = "notifications " + msg.perm.String()
			return m, nil
		}
		m.muted = false
		return m, nil

	case pollerStoppedMsg:
		m.muted = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeMove:
		return m.handleMoveKey(msg)
	case modeSummary:
		return m.handleSummaryKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Grab):
		m.pickUp()
	case key.Matches(msg, m.keys.Open):
		m.openAnnounced()
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.GroupBy):
		m.groupBy = nextIn(groupByCycle, m.groupBy)
		m.rebuild()
		m.saveBoardState()
	case key.Matches(msg, m.keys.SortBy):
		m.sortBy = nextIn(sortByCycle, m.sortBy)
		m.rebuild()
		m.saveBoardState()
	case key.Matches(msg, m.keys.Closed):
		m.showClosed = !m.showClosed
		m.rebuild()
		m.saveBoardState()
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.status = ""
		return m, tea.Batch(m.loadTasks(), m.loadOptions(), m.spinner.Tick)
	case key.Matches(msg, m.keys.Summary):
		m.mode = modeSummary
		m.resizePane()
		m.renderSummary()
		if !m.summaryReady && !m.summaryBusy {
			m.summaryBusy = true
			return m, m.generateSummary(false)
		}
	case key.Matches(msg, m.keys.Mute):
		if m.muted {
			m.status = "notifications on"
			return m, m.startPoller()
		}
		m.status = "notifications muted"
		return m, m.stopPoller()
	case key.Matches(msg, m.keys.Cancel):
		m.status = ""
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.rebuild()
		}
	}
	return m, nil
}

func (m *appModel) moveCursor(dc, di int) {
	if len(m.board.Columns) == 0 {
		return
	}
	if dc != 0 {
		m.sel.Col = min(max(m.sel.Col+dc, 0), len(m.board.Columns)-1)
		m.sel.Item = 0
		m.sel.TaskID = ""
	}
	if di != 0 {
		m.sel.Item += di
		m.sel.TaskID = ""
	}
	m.sel = clampSelection(m.board, m.sel)
}

func (m *appModel) pickUp() {
	if m.moving {
		m.status = board.ErrDragInProgress.Error()
		return
	}
	t, ok := m.selectedTask()
	if !ok {
		return
	}
	if err := m.rec.Start(t.ID, m.groupBy); err != nil {
		m.status = err.Error()
		return
	}
	m.mode = modeMove
	m.dragID = t.ID
	m.dropCol = m.sel.Col
	m.status = fmt.Sprintf("moving %q: ←/→ choose column, enter drop, esc cancel", t.Title)
}

func (m *appModel) handleMoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.dropCol = max(m.dropCol-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.dropCol = min(m.dropCol+1, len(m.board.Columns)-1)
	case key.Matches(msg, m.keys.Cancel):
		m.rec.Cancel()
		m.mode = modeBoard
		m.dragID = ""
		m.status = "move cancelled"
	case key.Matches(msg, m.keys.Drop), key.Matches(msg, m.keys.Grab):
		if m.dropCol < 0 || m.dropCol >= len(m.board.Columns) {
			return m, nil
		}
		// Missing columns ("No Status", "Unassigned") clear the field.
		col := m.board.Columns[m.dropCol]
		opts, configured := m.options.Get().OptionsFor(m.groupBy)
		m.mode = modeBoard
		m.moving = true
		m.status = "saving…"
		return m, m.drop(board.Target{Value: col.Value, Missing: col.Missing, Configured: configured, Options: opts})
	case key.Matches(msg, m.keys.Quit):
		m.rec.Cancel()
		return m, tea.Quit
	}
	return m, nil
}

func (m *appModel) handleMoveDone(msg moveDoneMsg) tea.Cmd {
	m.moving = false
	m.dragID = ""
	if msg.err != nil {
		m.status = msg.err.Error()
		m.rebuild()
		return nil
	}
	out := msg.out
	switch out.Kind {
	case board.NoOp:
		m.status = "no change"
	case board.Saved:
		m.status = fmt.Sprintf("moved %q", out.Task.Title)
		m.sel.TaskID = out.Task.ID
	case board.Reverted:
		m.status = "move reverted: " + out.Err.Error()
		m.showBanner("⚠️ Move failed, board restored", bannerTimeout)
		if out.ReloadErr != nil {
			m.log.WithError(out.ReloadErr).Warn("reload after failed move")
		}
	}
	m.rebuild()
	return nil
}

func (m *appModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeBoard
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.mode = modeBoard
		m.search.Blur()
		m.search.SetValue("")
		m.rebuild()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.rebuild()
	return m, cmd
}

func (m *appModel) handleSummaryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Summary):
		m.mode = modeBoard
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Regen):
		if m.summaryBusy {
			m.status = summary.ErrInFlight.Error()
			return m, nil
		}
		m.summaryBusy = true
		m.renderSummary()
		return m, m.generateSummary(true)
	}
	var cmd tea.Cmd
	m.pane, cmd = m.pane.Update(msg)
	return m, cmd
}

func (m *appModel) handleSummary(msg summaryMsg) {
	if errors.Is(msg.err, summary.ErrInFlight) {
		return
	}
	m.summaryBusy = false
	m.summaryReady = true
	m.summaryView = msg.view
	m.summaryErr = msg.err
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("summary failed")
	}
	m.renderSummary()
}

// applyConfig takes a reloaded config file: notification and summary settings
// apply immediately; the board keeps its current grouping.
func (m *appModel) applyConfig(c config.Config) tea.Cmd {
	prev := m.cfg
	m.cfg = c
	m.showBanner("Config reloaded", 3*time.Second)

	var cmds []tea.Cmd
	if prev.Summary != c.Summary {
		m.startSummaryLoop()
	}

	intervalChanged := prev.Notifications.Interval != c.Notifications.Interval ||
		prev.Notifications.ReminderInterval != c.Notifications.ReminderInterval
	switch {
	case !c.Notifications.Enabled:
		if !m.muted {
			cmds = append(cmds, m.stopPoller())
		}
	case intervalChanged:
		old := m.poller
		m.poller = notify.NewPoller(m.deps.API, m.pollerNotifier(), m.log, pollerOptions(c))
		next := m.poller
		cmds = append(cmds, func() tea.Msg {
			old.Stop()
			perm, err := next.Start(m.ctx)
			return pollerMsg{perm: perm, err: err}
		})
	case m.muted && !prev.Notifications.Enabled:
		cmds = append(cmds, m.startPoller())
	}
	return tea.Batch(cmds...)
}

func (m *appModel) pollerNotifier() notify.Notifier {
	if m.deps.Notifier != nil {
		return notify.Multi{m.banner, m.deps.Notifier}
	}
	return m.banner
}
