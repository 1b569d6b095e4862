package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"skipper-service/api"
	"skipper-service/models"
)

// SkipperClient is the subset of the API client the widget needs
type SkipperClient interface {
	ListRoutes(ctx context.Context) ([]api.RouteSummary, error)
	Analyze(ctx context.Context, routeID, targetTs int64) (*models.AnalysisResult, error)
}

// routesLoadedMsg is sent when the route catalog has been fetched
type routesLoadedMsg struct {
	routes []api.RouteSummary
	err    error
}

// analysisDoneMsg is sent when the captain has answered
type analysisDoneMsg struct {
	result *models.AnalysisResult
	err    error
}

func loadRoutes(client SkipperClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		routes, err := client.ListRoutes(ctx)
		return routesLoadedMsg{routes: routes, err: err}
	}
}

func runAnalysis(client SkipperClient, routeID, targetTs int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()

		result, err := client.Analyze(ctx, routeID, targetTs)
		return analysisDoneMsg{result: result, err: err}
	}
}
