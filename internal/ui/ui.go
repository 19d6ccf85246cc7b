// package ui implements the terminal now-playing view behind `now --watch`.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/services"
)

const defaultPollInterval = 5 * time.Second

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1DB954"))
	songStyle   = lipgloss.NewStyle().Bold(true)
	artistStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1DB954")).
			Padding(1, 3)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type tickMsg time.Time

type stateMsg models.PlaybackState

type errMsg struct{ err error }

// WatchModel is the bubbletea model for the polling now-playing view.
type WatchModel struct {
	service  services.Service
	interval time.Duration
	spinner  spinner.Model
	state    models.PlaybackState
	err      error
	loaded   bool
}

// NewWatchModel creates a WatchModel polling the given service.
func NewWatchModel(service services.Service, interval time.Duration) WatchModel {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))

	return WatchModel{
		service:  service,
		interval: interval,
		spinner:  sp,
	}
}

func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll(), m.tick())
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.poll()
		}

	case tickMsg:
		return m, tea.Batch(m.poll(), m.tick())

	case stateMsg:
		m.state = models.PlaybackState(msg)
		m.err = nil
		m.loaded = true
		return m, nil

	case errMsg:
		m.err = msg.err
		m.loaded = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m WatchModel) View() string {
	title := titleStyle.Render("♪ Spotify")

	var body string
	switch {
	case !m.loaded:
		body = m.spinner.View() + " loading playback state..."
	case m.err != nil:
		body = errStyle.Render("error: " + m.err.Error())
	case !m.state.HasTrack():
		body = artistStyle.Render("Nothing playing right now")
	default:
		status := "last played"
		if m.state.IsPlaying {
			status = "now playing"
		}
		body = lipgloss.JoinVertical(lipgloss.Left,
			artistStyle.Render(status),
			songStyle.Render(m.state.TrackName),
			artistStyle.Render(m.state.ArtistName),
		)
	}

	help := helpStyle.Render("r: refresh • q: quit")

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", help)) + "\n"
}

// poll fetches the playback state once.
func (m WatchModel) poll() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		state, err := m.service.NowPlaying(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		return stateMsg(state)
	}
}

func (m WatchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
