package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/infodiff/internal/config"
	"github.com/san-kum/infodiff/internal/diffusion"
)

type tunable struct {
	name  string
	label string
	step  float64
}

var tunables = []tunable{
	{"beta", "β transmission", 0.01},
	{"gamma", "γ forgetting", 0.01},
	{"theta", "θ persuasion", 0.05},
	{"rho", "ρ re-entry", 0.01},
	{"horizon", "days", 1},
}

func value(cfg *config.Config, name string) float64 {
	switch name {
	case "beta":
		return cfg.Beta
	case "gamma":
		return cfg.Gamma
	case "theta":
		return cfg.Theta
	case "rho":
		return cfg.Rho
	default:
		return cfg.Horizon
	}
}

func setValue(cfg *config.Config, name string, v float64) {
	switch name {
	case "beta":
		cfg.Beta = v
	case "gamma":
		cfg.Gamma = v
	case "theta":
		cfg.Theta = v
	case "rho":
		cfg.Rho = v
	default:
		cfg.Horizon = v
	}
}

type Model struct {
	cfg     config.Config
	cursor  int
	presets []string
	preset  int
	cache   *runCache
	current run
	err     error
	width   int
	height  int
}

func NewModel(cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m := Model{
		cfg:     *cfg,
		presets: config.ListPresets(),
		preset:  -1,
		cache:   newRunCache(defaultCacheSize),
		width:   80,
		height:  24,
	}
	m.recompute()
	return m
}

// recompute runs the whole simulation for the current parameters.
func (m *Model) recompute() {
	k := keyOf(&m.cfg)
	if r, ok := m.cache.get(k); ok {
		m.current, m.err = r, nil
		return
	}

	tr, err := m.cfg.Simulate()
	if err != nil {
		m.current, m.err = run{}, err
		return
	}
	summary, err := diffusion.Summarize(tr)
	if err != nil {
		m.current, m.err = run{}, err
		return
	}

	m.current = run{traj: tr, summary: summary}
	m.err = nil
	m.cache.put(k, m.current)
}

func (m *Model) adjust(direction float64) {
	t := tunables[m.cursor]
	bounds := config.Bounds[t.name]
	v := value(&m.cfg, t.name) + direction*t.step
	v = math.Round(v/t.step) * t.step
	setValue(&m.cfg, t.name, bounds.Clamp(v))
	m.recompute()
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(tunables)-1 {
				m.cursor++
			}
		case "left", "h":
			m.adjust(-1)
		case "right", "l":
			m.adjust(1)
		case "shift+left", "H":
			m.adjust(-10)
		case "shift+right", "L":
			m.adjust(10)
		case "p":
			m.preset = (m.preset + 1) % len(m.presets)
			m.cfg = *config.GetPreset(m.presets[m.preset])
			m.recompute()
		case "r":
			m.cfg = *config.DefaultConfig()
			m.preset = -1
			m.recompute()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(GradientTitle.Render("extended SIR information diffusion"))
	if m.preset >= 0 {
		sb.WriteString(Subtle.Render("  preset: " + m.presets[m.preset]))
	}
	sb.WriteString("\n\n")

	var params strings.Builder
	for i, t := range tunables {
		bounds := config.Bounds[t.name]
		v := value(&m.cfg, t.name)
		pct := 0.0
		if bounds.Max > bounds.Min {
			pct = (v - bounds.Min) / (bounds.Max - bounds.Min)
		}

		marker := "  "
		label := MetricLabel.Render(fmt.Sprintf("%-16s", t.label))
		if i == m.cursor {
			marker = NeonGlow.Render("▸ ")
			label = NeonGlow.Render(fmt.Sprintf("%-16s", t.label))
		}
		params.WriteString(fmt.Sprintf("%s%s %s %s\n", marker, label, MetricValue.Render(fmt.Sprintf("%7.2f", v)), ProgressBar(pct, 20)))
	}
	sb.WriteString(GlassPanel.Render(strings.TrimRight(params.String(), "\n")))
	sb.WriteString("\n")

	if m.err != nil {
		sb.WriteString(ErrorText.Render("error: " + m.err.Error()))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(m.chart())
	sb.WriteString("\n")
	sb.WriteString(SeriesS.Render("■ S susceptible") + "  " + SeriesI.Render("■ I spreading") + "  " + SeriesR.Render("■ R forgotten"))
	sb.WriteString("\n")
	sb.WriteString(Separator(max(m.width-2, 20)))
	sb.WriteString("\n")

	f := m.current.summary.Format()
	sb.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n",
		MetricLabel.Render("peak I"), MetricValue.Render(f.PeakI),
		MetricLabel.Render("peak day"), MetricValue.Render(f.PeakTime),
		MetricLabel.Render("final R"), MetricValue.Render(f.TerminalR),
		MetricLabel.Render("R0"), MetricValue.Render(fmt.Sprintf("%.2f", m.cfg.Params().R0())),
	))

	for _, adv := range diffusion.CheckStability(m.cfg.Params(), m.cfg.Step) {
		sb.WriteString(Warning.Render("⚠ " + adv.String()))
		sb.WriteString("\n")
	}

	sb.WriteString(KeyHint.Render("↑/↓ select  ←/→ adjust  shift+←/→ coarse  p preset  r reset  q quit"))
	return sb.String()
}

func (m Model) chart() string {
	tr := m.current.traj
	if tr.Len() == 0 {
		return ""
	}

	width := m.width - 12
	if width < 20 {
		width = 20
	}
	height := m.height - 20
	if height < 6 {
		height = 6
	}

	return asciigraph.PlotMany(
		[][]float64{tr.Series(diffusion.ColumnS), tr.Series(diffusion.ColumnI), tr.Series(diffusion.ColumnR)},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
		asciigraph.Caption(fmt.Sprintf("population fraction over %.0f days", m.cfg.Horizon)),
	)
}

// Config returns the parameters currently shown.
func (m Model) Config() config.Config { return m.cfg }

// Run starts the interactive program on the terminal.
func Run(cfg *config.Config) error {
	p := tea.NewProgram(NewModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
