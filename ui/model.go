// Package ui is a terminal booking widget: pick a route and a time, then read
// the captain's advisory.
package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skipper-service/api"
	"skipper-service/models"
)

// DateLayout is the format the user types the trip time in
const DateLayout = "2006-01-02 15:04"

// AppState represents the current state of the widget
type AppState int

const (
	StateLoadingRoutes AppState = iota // Fetching the route catalog
	StateRouteList                     // Choosing a route
	StateDateInput                     // Typing the trip date and time
	StateAnalyzing                     // Waiting for the captain
	StateResult                        // Showing the advisory
	StateError                         // Error state
)

// Model represents the widget's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	client SkipperClient
	now    func() time.Time
	loc    *time.Location

	routes        []api.RouteSummary
	routeList     list.Model
	selectedRoute *api.RouteSummary

	dateInput textinput.Model
	inputErr  string
	targetTs  int64

	spinner spinner.Model
	result  *models.AnalysisResult
}

// NewModel creates a widget backed by the given client. Times are entered in
// the local zone and sent as UTC epoch seconds.
func NewModel(client SkipperClient) Model {
	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD HH:MM (e.g. 2026-07-20 10:00)"
	ti.CharLimit = len(DateLayout)
	ti.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		state:     StateLoadingRoutes,
		client:    client,
		now:       time.Now,
		loc:       time.Local,
		dateInput: ti,
		spinner:   s,
		width:     80,
		height:    24,
	}
}

// Init starts loading the routes
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadRoutes(m.client))
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.routes != nil {
			m.routeList.SetSize(msg.Width-4, msg.Height-6)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case routesLoadedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("loading routes failed: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		if len(msg.routes) == 0 {
			m.err = errors.New("no routes are configured yet")
			m.state = StateError
			return m, nil
		}
		m.routes = msg.routes
		m.routeList = createRouteList(msg.routes, m.width-4, m.height-6)
		m.state = StateRouteList
		return m, nil

	case analysisDoneMsg:
		if m.state != StateAnalyzing {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.state = StateError
			return m, nil
		}
		m.result = msg.result
		m.state = StateResult
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoadingRoutes && m.state != StateAnalyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateRouteList:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			item, ok := m.routeList.SelectedItem().(routeItem)
			if !ok {
				return m, nil
			}
			route := item.route
			m.selectedRoute = &route
			m.inputErr = ""
			m.state = StateDateInput
			m.dateInput.SetValue("")
			m.dateInput.Focus()
			return m, textinput.Blink
		}
		var cmd tea.Cmd
		m.routeList, cmd = m.routeList.Update(msg)
		return m, cmd

	case StateDateInput:
		switch msg.Type {
		case tea.KeyEsc:
			m.dateInput.Blur()
			m.state = StateRouteList
			return m, nil
		case tea.KeyEnter:
			ts, err := m.parseTarget(m.dateInput.Value())
			if err != nil {
				m.inputErr = err.Error()
				return m, nil
			}
			m.inputErr = ""
			m.targetTs = ts
			m.dateInput.Blur()
			m.state = StateAnalyzing
			return m, tea.Batch(m.spinner.Tick, runAnalysis(m.client, m.selectedRoute.ID, ts))
		}
		var cmd tea.Cmd
		m.dateInput, cmd = m.dateInput.Update(msg)
		return m, cmd

	case StateResult, StateError:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "enter", "n":
			if m.routes == nil {
				return m, tea.Quit
			}
			m.err = nil
			m.result = nil
			m.state = StateRouteList
			return m, nil
		}
	}

	return m, nil
}

// parseTarget reads a local wall-clock time and converts it once to UTC epoch seconds.
// Past times are refused.
func (m Model) parseTarget(value string) (int64, error) {
	t, err := time.ParseInLocation(DateLayout, value, m.loc)
	if err != nil {
		return 0, fmt.Errorf("use the format %s", "YYYY-MM-DD HH:MM")
	}
	if t.Before(m.now()) {
		return 0, errors.New("that time has already passed; pick a future trip")
	}
	return t.Unix(), nil
}

// errorText returns the message to show for an error
func errorText(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
