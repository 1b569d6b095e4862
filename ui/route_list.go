package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"skipper-service/api"
)

// routeItem wraps a route summary for use in a list
type routeItem struct {
	route api.RouteSummary
}

// FilterValue implements list.Item
func (r routeItem) FilterValue() string {
	return r.route.Name
}

// Title implements list.DefaultItem
func (r routeItem) Title() string {
	return r.route.Name
}

// Description implements list.DefaultItem
func (r routeItem) Description() string {
	return fmt.Sprintf("Route #%d", r.route.ID)
}

// createRouteList creates a list.Model from route summaries
func createRouteList(routes []api.RouteSummary, width, height int) list.Model {
	items := make([]list.Item, len(routes))
	for i, route := range routes {
		items[i] = routeItem{route: route}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Choose Your Trip"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)

	return l
}
