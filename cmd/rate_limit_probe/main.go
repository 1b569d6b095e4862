package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"skipper-service/api"
)

// Sends a burst of concurrent analysis requests and reports how many were
// served and how many the server's inbound limiter turned away.
func main() {
	baseURL := flag.String("server", "http://localhost:8080", "Base URL of the skipper API")
	routeID := flag.Int64("route", 1, "Route id to analyse")
	requests := flag.Int("n", 10, "Number of concurrent requests")
	flag.Parse()

	client := api.NewClient(*baseURL)
	target := time.Now().Add(24 * time.Hour).Unix()

	var (
		wg      sync.WaitGroup
		mutex   sync.Mutex
		results = make(map[int]int)
	)

	start := time.Now()
	for i := 0; i < *requests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
			defer cancel()

			status := 200
			_, err := client.Analyze(ctx, *routeID, target)
			var apiErr *api.APIError
			switch {
			case errors.As(err, &apiErr):
				status = apiErr.Status
			case err != nil:
				status = 0
			}

			fmt.Printf("%s - request #%d -> %d\n", time.Now().Format("15:04:05.000"), n+1, status)

			mutex.Lock()
			results[status]++
			mutex.Unlock()
		}(i)
	}
	wg.Wait()

	fmt.Printf("\nCompleted %d requests in %s\n", *requests, time.Since(start).Round(time.Millisecond))
	for status, count := range results {
		label := fmt.Sprintf("HTTP %d", status)
		if status == 0 {
			label = "transport error"
		}
		fmt.Printf("  %-16s %d\n", label, count)
	}

	if results[0] == *requests {
		os.Exit(1)
	}
}
