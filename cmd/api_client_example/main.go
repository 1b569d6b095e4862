package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"skipper-service/api"
)

func main() {
	fmt.Println("Skipper API Client Example")
	fmt.Println("==========================")

	baseURL := flag.String("server", "http://localhost:8080", "Base URL of the skipper API")
	hoursAhead := flag.Int("hours", 24, "How many hours from now to plan the trip")
	flag.Parse()

	client := api.NewClient(*baseURL)
	ctx := context.Background()

	fmt.Println("\nFetching available routes...")
	routes, err := client.ListRoutes(ctx)
	if err != nil {
		fmt.Printf("Error fetching routes: %v\n", err)
		os.Exit(1)
	}

	if len(routes) == 0 {
		fmt.Println("No routes configured yet. Seed the catalog with routes-import first.")
		return
	}
	for _, r := range routes {
		fmt.Printf("  #%d %s\n", r.ID, r.Name)
	}

	route := routes[0]
	target := time.Now().Add(time.Duration(*hoursAhead) * time.Hour).UTC()
	fmt.Printf("\nAsking the captain about %s on %s...\n", route.Name, target.Format(time.RFC1123))

	result, err := client.Analyze(ctx, route.ID, target.Unix())
	if err != nil {
		fmt.Printf("Error requesting analysis: %v\n", err)
		os.Exit(1)
	}

	prettyJSON, _ := json.MarshalIndent(result, "", "  ")
	fmt.Printf("\nAnalysis for %s:\n%s\n", route.Name, string(prettyJSON))
}
