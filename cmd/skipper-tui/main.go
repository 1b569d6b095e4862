package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"skipper-service/api"
	"skipper-service/ui"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "Base URL of the skipper API")
	flag.Parse()

	p := tea.NewProgram(ui.NewModel(api.NewClient(*server)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
