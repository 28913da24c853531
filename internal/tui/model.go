// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progression"
	"github.com/verte-zerg/typemaster/internal/session"
)

// Standing is the progression summary shown after a test.
type Standing interface {
	Level() int
	Rank() string
	XPForNextLevel() int
	XPToNext() int
}

// SessionFunc builds the next test session.
type SessionFunc func() (*session.Session, error)

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctx      context.Context
	next     SessionFunc
	standing Standing
	logger   *slog.Logger

	width  int
	height int

	sess   *session.Session
	target []rune
	input  []rune

	timed bool
	timer timer.Model
	bar   progress.Model

	outcome *session.Outcome
	err     error

	lastWPM float64
	lastAcc float64
	hasLast bool
}

// NewModel constructs a typing TUI model and its first session.
func NewModel(ctx context.Context, next SessionFunc, standing Standing, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		ctx:      ctx,
		next:     next,
		standing: standing,
		logger:   logger,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Outcome returns the result of the last finished test.
func (m *Model) Outcome() *session.Outcome {
	return m.outcome
}

func (m *Model) reset() error {
	sess, err := m.next()
	if err != nil {
		return err
	}
	p := sess.Prompt()
	m.sess = sess
	m.target = []rune(p.Text)
	m.input = nil
	m.outcome = nil
	m.timed = p.Mode == model.ModeTimer && p.TimeLimit > 0
	if m.timed {
		m.timer = timer.NewWithInterval(p.TimeLimit, time.Second)
	}
	return nil
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
		m.bar.Width = max(10, msg.Width/3)
		return m, nil
	case timer.TickMsg, timer.StartStopMsg:
		if !m.timed {
			return m, nil
		}
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd
	case timer.TimeoutMsg:
		if m.timed && msg.ID == m.timer.ID() && m.sess.Running() {
			return m, m.finish(true)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.outcome != nil {
		switch msg.Type {
		case tea.KeyTab:
			if err := m.reset(); err != nil {
				m.err = err
				return m, tea.Quit
			}
			return m, nil
		case tea.KeyEnter, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyRunes:
			if string(msg.Runes) == "q" {
				return m, tea.Quit
			}
		}
		return m, nil
	}
	if msg.Type == tea.KeyEsc {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.input) == 0 {
			return m, nil
		}
		cmd = m.begin()
		m.sess.OnKeystroke()
		m.input = m.input[:len(m.input)-1]
	case tea.KeySpace:
		cmd = m.begin()
		m.sess.OnKeystroke()
		m.appendRunes([]rune{' '})
	case tea.KeyRunes:
		cmd = m.begin()
		if msg.Paste {
			m.sess.OnPaste()
		} else {
			m.sess.OnKeystroke()
		}
		m.appendRunes(msg.Runes)
	default:
		return m, nil
	}

	m.sess.OnTextChanged(string(m.input))
	if m.sess.TextDone() {
		return m, tea.Batch(cmd, m.finish(false))
	}
	return m, cmd
}

// begin starts the session on the first input event.
func (m *Model) begin() tea.Cmd {
	if m.sess.Running() {
		return nil
	}
	m.sess.Start()
	if m.timed {
		return m.timer.Init()
	}
	return nil
}

func (m *Model) appendRunes(runes []rune) {
	room := len(m.target) - len(m.input)
	if room <= 0 {
		return
	}
	if len(runes) > room {
		runes = runes[:room]
	}
	m.input = append(m.input, runes...)
}

func (m *Model) finish(timedOut bool) tea.Cmd {
	out, err := m.sess.Finish(m.ctx, timedOut)
	if err != nil {
		m.logger.Error("failed to complete test", slog.String("error", err.Error()))
		m.err = err
		return tea.Quit
	}
	m.outcome = &out
	if out.Verdict.Valid {
		m.lastWPM = out.Result.WPM
		m.lastAcc = out.Result.Accuracy
		m.hasLast = true
	}
	if m.timed && m.timer.Running() {
		return m.timer.Stop()
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.outcome != nil {
		content = m.renderOutcome()
	} else {
		content = m.renderPrompt()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(1, m.width*7/10)
}

func (m *Model) renderPrompt() string {
	if len(m.target) == 0 {
		return ""
	}
	cursor := -1
	if len(m.input) < len(m.target) {
		cursor = len(m.input)
	}
	cells := buildCells(m.target, m.input, cursor, m.sess.Flagged())
	width := m.contentWidth()
	text := strings.Join(wrapCells(cells, width), "\n")

	var lines []string
	if header := m.renderHeader(); header != "" {
		lines = append(lines, header, "")
	}
	if width > 0 {
		text = lipgloss.NewStyle().Width(width).Render(text)
	}
	lines = append(lines, text, "", m.bar.ViewAs(m.typedFraction()))
	return strings.Join(lines, "\n")
}

func (m *Model) renderHeader() string {
	p := m.sess.Prompt()
	switch {
	case p.Lesson != nil:
		return titleStyle.Render(fmt.Sprintf("Lesson: %s", p.Lesson.Title)) +
			footerStyle.Render(fmt.Sprintf("  target %d WPM", p.Lesson.TargetWPM))
	case p.Challenge != nil:
		return titleStyle.Render("Daily challenge "+p.Challenge.Date) +
			footerStyle.Render(fmt.Sprintf("  %d WPM · %d%% accuracy", p.Challenge.TargetWPM, p.Challenge.TargetAccuracy))
	case m.timed:
		return titleStyle.Render(fmt.Sprintf("Timed test · %ds", int(p.TimeLimit/time.Second)))
	default:
		return ""
	}
}

func (m *Model) typedFraction() float64 {
	if len(m.target) == 0 {
		return 0
	}
	return float64(len(m.input)) / float64(len(m.target))
}

func (m *Model) renderOutcome() string {
	out := m.outcome
	res := out.Result
	var lines []string

	if !out.Verdict.Valid {
		lines = append(lines,
			warnStyle.Render("Result rejected"),
			out.Verdict.Reason,
			footerStyle.Render(fmt.Sprintf("suspicion score %d", out.Verdict.Score)),
		)
	} else {
		title := "Test complete"
		if !res.Completed {
			title = "Time's up"
		}
		lines = append(lines,
			titleStyle.Render(title),
			fmt.Sprintf("%.0f WPM · %.0f%% accuracy · %d errors · %.1fs", res.WPM, res.Accuracy, res.Errors, res.DurationSec),
			fmt.Sprintf("+%d XP", out.XPEarned),
		)
		if p := m.sess.Prompt(); p.Challenge != nil {
			if out.Passed {
				lines = append(lines, correctStyle.Render("Challenge passed"))
			} else {
				lines = append(lines, incorrectStyle.Render("Challenge not passed"))
			}
		}
		if out.LessonCompleted {
			lines = append(lines, correctStyle.Render("Lesson completed"))
		}
		if out.LeveledUp {
			lines = append(lines, titleStyle.Render(fmt.Sprintf("Level up! Now level %d", out.Level)))
		}
		for _, id := range out.Achievements {
			if a, ok := progression.FindAchievement(id); ok {
				lines = append(lines, fmt.Sprintf("Achievement unlocked: %s (+%d XP)", a.Name, a.XP))
			}
		}
		for _, u := range out.XP.Unlocked {
			lines = append(lines, fmt.Sprintf("Unlocked: %s", u))
		}
	}

	if m.standing != nil {
		need := m.standing.XPForNextLevel()
		pct := 0.0
		if need > 0 {
			pct = float64(need-m.standing.XPToNext()) / float64(need)
		}
		lines = append(lines, "",
			fmt.Sprintf("Level %d · %s", m.standing.Level(), m.standing.Rank()),
			m.bar.ViewAs(pct),
			footerStyle.Render(fmt.Sprintf("%d XP to next level", m.standing.XPToNext())),
		)
	}
	lines = append(lines, "", footerStyle.Render("tab next test · enter quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	if len(m.target) == 0 {
		return ""
	}
	segments := []string{fmt.Sprintf("Progress %d%%", int(m.typedFraction()*100))}
	if m.sess.Running() {
		wpm, acc := m.sess.Live()
		segments = append(segments, fmt.Sprintf("%.0f WPM · %.0f%%", wpm, acc))
	}
	if m.timed {
		segments = append(segments, fmt.Sprintf("%s left", m.timer.View()))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.0f WPM · %.0f%%", m.lastWPM, m.lastAcc))
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.sess.Flagged() {
		footer += "  " + warnStyle.Render("suspicious input")
	}
	return footer
}
