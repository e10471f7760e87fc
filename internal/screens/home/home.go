package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ethiq/internal/router"
	"github.com/abhisek/ethiq/internal/screen"
	"github.com/abhisek/ethiq/internal/screens/history"
	"github.com/abhisek/ethiq/internal/screens/identity"
	"github.com/abhisek/ethiq/internal/ui/components"
	"github.com/abhisek/ethiq/internal/ui/layout"
	"github.com/abhisek/ethiq/internal/ui/theme"
)

const banner = ` ███████╗████████╗██╗  ██╗██╗ ██████╗
 ██╔════╝╚══██╔══╝██║  ██║██║██╔═══██╗
 █████╗     ██║   ███████║██║██║   ██║
 ██╔══╝     ██║   ██╔══██║██║██║▄▄ ██║
 ███████╗   ██║   ██║  ██║██║╚██████╔╝
 ╚══════╝   ╚═╝   ╚═╝  ╚═╝╚═╝ ╚══▀▀═╝`

const compactBanner = "E · T · H · I · Q"

// HomeScreen is the entry menu.
type HomeScreen struct {
	env  *screen.Env
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. History is disabled when no store is
// configured.
func New(env *screen.Env) *HomeScreen {
	items := []components.MenuItem{
		{Label: "Start evaluation", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: identity.New(env)}
			}
		}},
		{Label: "History", Disabled: env.Evaluations == nil, Detail: historyDetail(env), Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(env)}
			}
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return &HomeScreen{env: env, menu: components.NewMenu(items)}
}

func historyDetail(env *screen.Env) string {
	if env.Evaluations == nil {
		return "no database"
	}
	return ""
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	title := banner
	if layout.IsCompactWidth(width) || layout.IsCompactHeight(height) {
		title = compactBanner
	}

	var sections []string
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(title))
	sections = append(sections, theme.Subtitle.Render(
		fmt.Sprintf("Behavioural screening · %d questions", h.env.Bank.Len())))
	sections = append(sections, theme.Card.Render(strings.TrimRight(h.menu.View(), "\n")))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}

func (h *HomeScreen) Title() string {
	return "Home"
}
