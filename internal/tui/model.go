// Package tui is a terminal front-end for a local simulation session.
package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ndrandal/price-simulator/internal/engine"
	"github.com/ndrandal/price-simulator/internal/format"
	"github.com/ndrandal/price-simulator/internal/market"
	"github.com/ndrandal/price-simulator/internal/simulation"
)

const (
	barWidth   = 40
	graphStep  = 10.0
	priceLimit = 6 // characters accepted by the price input
)

// Model is the terminal application model.
type Model struct {
	ctrl    *simulation.Controller
	printer *format.Formatter
	keys    keyMap

	state simulation.State
	check *simulation.Check

	input     textinput.Model
	editing   bool
	showGraph bool

	status    string
	statusErr bool
	width     int
}

// NewModel creates a model over ctrl. f may be nil for the default locale.
func NewModel(ctrl *simulation.Controller, f *format.Formatter) *Model {
	if f == nil {
		f = format.New(format.DefaultTag)
	}

	input := textinput.New()
	input.Placeholder = "1-100"
	input.Prompt = "$"
	input.CharLimit = priceLimit
	input.Width = priceLimit + 1

	return &Model{
		ctrl:    ctrl,
		printer: f,
		keys:    defaultKeys(),
		state:   ctrl.Snapshot(),
		input:   input,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// State returns the last state the model rendered.
func (m *Model) State() simulation.State {
	return m.state
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.nudge(-1)
	case key.Matches(msg, m.keys.Up):
		m.nudge(1)
	case key.Matches(msg, m.keys.DownFast):
		m.nudge(-10)
	case key.Matches(msg, m.keys.UpFast):
		m.nudge(10)

	case key.Matches(msg, m.keys.Edit):
		m.editing = true
		m.input.SetValue("")
		m.setStatus("", false)
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Event):
		ev, s := m.ctrl.TriggerRandomEvent()
		m.apply(s)
		m.setStatus("Market event: "+ev.Name, false)

	case key.Matches(msg, m.keys.Reset):
		m.apply(m.ctrl.ResetMarket())
		m.setStatus("Market reset to normal conditions", false)

	case key.Matches(msg, m.keys.Check):
		chk := m.ctrl.CheckProfitMaximization()
		m.check = &chk
		m.showGraph = true

	case key.Matches(msg, m.keys.Graph):
		m.showGraph = !m.showGraph
	}
	return m, nil
}

func (m *Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		p, err := parsePrice(m.input.Value())
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.stopEditing()
		m.apply(m.ctrl.SetPrice(p))
		m.setStatus("", false)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.input.Blur()
}

// nudge moves the price by delta, clamped to the slider range.
func (m *Model) nudge(delta float64) {
	p := market.ClampPrice(m.state.Price + delta)
	if p == m.state.Price {
		return
	}
	m.apply(m.ctrl.SetPrice(p))
}

// apply records a new controller state. Any earlier check result is stale.
func (m *Model) apply(s simulation.State) {
	m.state = s
	m.check = nil
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// parsePrice accepts the same values as the price box: a number in [1, 100].
func parsePrice(raw string) (float64, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "$")
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || !market.PriceInRange(p) {
		return 0, fmt.Errorf("price must be a number between %g and %g", market.PriceMin, market.PriceMax)
	}
	return p, nil
}

// View renders the UI.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Price-it-Right Market Simulator"))
	b.WriteString("\n\n")
	b.WriteString(m.viewPrice())
	b.WriteString("\n")
	b.WriteString(m.viewMetrics())
	b.WriteString("\n")
	b.WriteString(m.viewMarket())

	if m.check != nil {
		b.WriteString("\n")
		b.WriteString(m.viewCheck())
	}
	if m.showGraph {
		b.WriteString("\n")
		b.WriteString(m.viewGraph())
	}
	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(labelStyle.Render(m.status))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.viewHelp())

	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}

func (m *Model) viewPrice() string {
	head := labelStyle.Render("Set Your Price  ") + valueStyle.Render(m.printer.Price(m.state.Price))
	if m.editing {
		head += "  " + m.input.View()
	}

	pos := (m.state.Price - market.PriceMin) / (market.PriceMax - market.PriceMin)
	slider := trackStyle.Render("$1 ") + sliderBar(pos, barWidth) + trackStyle.Render(" $100")
	return panelStyle.Render(head + "\n" + slider)
}

func (m *Model) viewMetrics() string {
	demand := labelStyle.Render("Estimated Demand") + "\n" +
		valueStyle.Render(m.printer.Units(m.state.Demand)) + "\n" +
		gaugeBar(engine.DemandGauge(m.state.Demand), barWidth/2, demandColor)

	profit := labelStyle.Render("Estimated Profit") + "\n" +
		valueStyle.Render(m.printer.Money(m.state.Profit)) + "\n" +
		gaugeBar(engine.ProfitGauge(m.state.Profit), barWidth/2, profitColor)

	return lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(demand), panelStyle.Render(profit))
}

func (m *Model) viewMarket() string {
	c := m.state.Condition
	lines := []string{
		labelStyle.Render("Market Events"),
		fmt.Sprintf("max demand %s · sensitivity %.2f · unit cost %s",
			m.printer.Units(c.MaxDemand), c.DemandSensitivity, m.printer.Price(c.CostPerUnit)),
	}
	if ev := m.state.CurrentEvent; ev != nil {
		lines = append(lines, eventStyle.Render(valueStyle.Render(ev.Name)+"\n"+ev.Description))
	} else {
		lines = append(lines, labelStyle.Render(c.Description))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewCheck() string {
	msg := m.printer.Verdict(m.check.IsMaximized, m.check.MaxPrice)
	if m.check.IsMaximized {
		return goodStyle.Render("🎯 " + msg)
	}
	return warnStyle.Render("📈 " + msg)
}

// viewGraph tabulates demand and profit from the unit cost to the price ceiling.
func (m *Model) viewGraph() string {
	c := m.state.Condition
	pts, err := engine.Curve(c, c.CostPerUnit, market.SearchCeiling, graphStep)
	if err != nil {
		return panelStyle.Render(labelStyle.Render("Market Analysis") + "\n" + errorStyle.Render(err.Error()))
	}

	lines := []string{labelStyle.Render("Market Analysis")}
	for _, p := range pts {
		lines = append(lines, fmt.Sprintf("%9s %12s %10s %s",
			m.printer.Price(p.Price), m.printer.Units(p.Demand), m.printer.Money(p.Profit),
			gaugeBar(engine.ProfitGauge(p.Profit), barWidth/2, profitColor)))
	}
	best := engine.FindMaximumProfit(c)
	lines = append(lines, labelStyle.Render(fmt.Sprintf("maximum profit %s at %s",
		m.printer.Money(best.Profit), m.printer.Price(best.Price))))
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewHelp() string {
	parts := make([]string, 0, len(m.keys.shortHelp()))
	for _, k := range m.keys.shortHelp() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	if m.editing {
		parts = []string{"enter confirm", "esc cancel"}
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

// gaugeBar renders pct (0-100) as a filled bar.
func gaugeBar(pct float64, width int, color lipgloss.Color) string {
	filled := int(math.Round(pct / 100 * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		trackStyle.Render(strings.Repeat("░", width-filled))
}

// sliderBar renders a track with a thumb at pos (0-1).
func sliderBar(pos float64, width int) string {
	i := int(math.Round(pos * float64(width-1)))
	if i < 0 {
		i = 0
	}
	if i > width-1 {
		i = width - 1
	}
	return trackStyle.Render(strings.Repeat("─", i)) +
		titleStyle.Render("●") +
		trackStyle.Render(strings.Repeat("─", width-1-i))
}
