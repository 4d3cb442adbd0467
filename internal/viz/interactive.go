package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gaslaw/internal/config"
	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/thermo"
)

var scenarioInfo = map[string]string{
	engine.Explore:   "one box, two species, open lid",
	engine.Ideal:     "hold V, T or P and watch PV=NkT",
	engine.Energy:    "speed and energy histograms",
	engine.Diffusion: "two chambers and a divider",
}

const (
	stateScenario = iota
	statePreset
	stateSim
)

// App picks a scenario and preset, then runs the live view.
type App struct {
	state         int
	cursor        int
	scenario      string
	presets       []string
	message       string
	stepsPerFrame int
	live          Model
}

func NewApp(stepsPerFrame int) *App {
	return &App{state: stateScenario, stepsPerFrame: stepsPerFrame}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateSim {
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc":
		if a.state == statePreset {
			a.state, a.cursor = stateScenario, 0
		}
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < a.items()-1 {
			a.cursor++
		}
	case "enter", " ":
		return a.choose()
	}
	return a, nil
}

func (a App) items() int {
	if a.state == stateScenario {
		return len(engine.Scenarios)
	}
	return len(a.presets) + 1
}

func (a App) choose() (tea.Model, tea.Cmd) {
	if a.state == stateScenario {
		a.scenario = engine.Scenarios[a.cursor]
		a.presets = config.ListPresets(a.scenario)
		a.state, a.cursor = statePreset, 0
		return a, nil
	}

	var cfg *config.Config
	title := a.scenario
	if a.cursor == 0 {
		cfg = config.DefaultConfig()
		cfg.Scenario = a.scenario
	} else {
		name := a.presets[a.cursor-1]
		cfg = config.GetPreset(a.scenario, name)
		title += " / " + name
	}
	e, err := cfg.Build()
	if err != nil {
		a.message = err.Error()
		return a, nil
	}
	a.live = NewModel(e, cfg.Dt, a.stepsPerFrame, title).WithReset(cfg.Apply)
	a.state = stateSim
	return a, a.live.Init()
}

func (a App) View() string {
	if a.state == stateSim {
		return a.live.View()
	}
	th := CurrentTheme
	h := lipgloss.NewStyle().Foreground(th.Accent).Bold(true)
	sub := lipgloss.NewStyle().Foreground(th.Muted)
	sel := lipgloss.NewStyle().Foreground(th.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(th.Second)

	var b strings.Builder
	b.WriteString("\n\n    " + h.Render("GASLAW") + "\n    " + sub.Render("kinetic theory of gases") + "\n    " + sub.Render("───────────────────────") + "\n\n")

	var names, info []string
	if a.state == stateScenario {
		names = engine.Scenarios
		for _, n := range names {
			info = append(info, scenarioInfo[n])
		}
	} else {
		names = append([]string{"(empty)"}, a.presets...)
		info = append(info, "start with no particles")
		for _, p := range a.presets {
			cfg := config.GetPreset(a.scenario, p)
			info = append(info, presetSummary(cfg))
		}
	}
	for i, name := range names {
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", h.Render("▸"), sel.Render(fmt.Sprintf("%-12s", name)), desc.Render(info[i])))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(fmt.Sprintf("%-12s", name)), sub.Render(info[i])))
		}
	}
	if a.message != "" {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(th.Error).Render(a.message) + "\n")
	}
	b.WriteString("\n    " + sub.Render("j/k navigate  enter select  esc back  q quit") + "\n")
	return b.String()
}

func presetSummary(cfg *config.Config) string {
	var parts []string
	for _, name := range []string{"heavy", "light", "particle1", "particle2"} {
		if n := cfg.Particles.Counts[name]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, name))
		}
	}
	s := strings.Join(parts, ", ")
	if cfg.HoldConstant != thermo.HoldNothing {
		s += ", hold " + cfg.HoldConstant.String()
	}
	return s
}

// RunInteractive starts the menu in the alternate screen.
func RunInteractive(stepsPerFrame int) error {
	_, err := tea.NewProgram(NewApp(stepsPerFrame), tea.WithAltScreen()).Run()
	return err
}
