package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"habitline/internal/engine"
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	profile  string
	progress *engine.Progress
	statuses []engine.HabitStatus

	selected int
	lastLog  string
	loading  bool
	err      error
}

type loadedMsg struct {
	profile  string
	progress *engine.Progress
	statuses []engine.HabitStatus
	err      error
}

type loggedMsg struct {
	res *engine.LogResult
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		p, err := m.svc.ActiveProfile(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		if p == nil {
			return loadedMsg{err: engine.ErrNoActiveProfile}
		}
		progress, err := m.svc.Progress(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		statuses, err := m.svc.HabitStatuses(m.ctx, time.Now())
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{profile: p.Username, progress: progress, statuses: statuses}
	}
}

func (m boardModel) logCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.LogEvent(m.ctx, id, time.Now())
		return loggedMsg{res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.profile = msg.profile
		m.progress = msg.progress
		m.statuses = msg.statuses
		if m.selected >= len(m.statuses) {
			m.selected = len(m.statuses) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case loggedMsg:
		if msg.err != nil {
			m.lastLog = "Log failed: " + msg.err.Error()
			return m, nil
		}
		line := fmt.Sprintf("Logged %q: +%d XP, streak %d", msg.res.HabitName, msg.res.XPAwarded, msg.res.Streak.Current)
		if len(msg.res.NewMilestones) > 0 {
			line += fmt.Sprintf(", %d milestone(s)!", len(msg.res.NewMilestones))
		}
		if msg.res.LevelUp {
			line += fmt.Sprintf(" LEVEL UP → %d", msg.res.LevelAfter)
		}
		m.lastLog = line
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.statuses)-1 {
				m.selected++
			}
			return m, nil
		case "c", " ", "enter":
			if m.selected < 0 || m.selected >= len(m.statuses) {
				return m, nil
			}
			st := m.statuses[m.selected]
			if st.Habit.Polarity == string(engine.PolarityNegative) {
				m.lastLog = fmt.Sprintf("%q is a negative habit; log slips with 'hb slip'.", st.Habit.Name)
				return m, nil
			}
			if !st.Due {
				m.lastLog = fmt.Sprintf("%q is already done for this period.", st.Habit.Name)
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Logging %q…", st.Habit.Name)
			return m, m.logCmd(st.Habit.ID)
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderHabits())
	b.WriteString("\n")
	b.WriteString(m.renderKeys())
	b.WriteString("\n\n")
	b.WriteString(m.lastLog)
	b.WriteString("\n")
	return b.String()
}

func (m boardModel) renderHeader() string {
	if m.progress == nil {
		return "Habitline — loading…"
	}
	curve := m.svc.Curve()
	span := curve.XPRequiredForLevel(m.progress.Level+1) - curve.XPRequiredForLevel(m.progress.Level)
	bar := progressBar(m.progress.IntoLevel, span, 30)
	return fmt.Sprintf("Habitline | Profile: %s | Level %d | XP %d %s",
		m.profile, m.progress.Level, m.progress.TotalXP, bar)
}

func (m boardModel) renderHabits() string {
	if m.loading {
		return "Loading…"
	}
	if len(m.statuses) == 0 {
		return "(no habits yet — 'hb add <name>' to start)"
	}
	var out []string
	out = append(out, "Habits")
	for i, st := range m.statuses {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		kind := "[+]"
		if st.Habit.Polarity == string(engine.PolarityNegative) {
			kind = "[-]"
		}
		due := ""
		if st.Due {
			due = " !due"
		}
		out = append(out, fmt.Sprintf("%s%s %s (%s) streak=%d longest=%d%s",
			cursor, kind, st.Habit.Name, st.Rule.String(), st.Streak.Current, st.Streak.Longest, due))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderKeys() string {
	keys := []string{
		"Keys",
		"- ↑/↓ or j/k: move",
		"- c/space: log completion",
		"- r: refresh",
		"- q: quit",
	}
	return strings.Join(keys, "\n")
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	ratio := float64(value) / float64(total)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
