package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"skipper-service/catalog"
	"skipper-service/datasource"
)

func main() {
	_ = godotenv.Load()

	configFile := flag.String("config", "config.json", "Path to configuration file")
	dbPath := flag.String("db", "", "Path to the route catalog database (overrides config)")
	nameField := flag.String("name-field", "NAME", "Shapefile attribute holding the route name")
	list := flag.Bool("list", false, "List the catalog after importing")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] routes.json|routes.shp ...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	config, err := datasource.LoadConfigOrDefault(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		config.DatabasePath = *dbPath
	}

	store, err := catalog.Open(config.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open catalog: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	for _, path := range flag.Args() {
		n, err := importFile(ctx, store, path, *nameField)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Import of %s failed after %d routes: %v\n", path, n, err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d routes from %s\n", n, path)
	}

	if *list || flag.NArg() == 0 {
		routes, err := store.ListRoutes(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list routes: %v\n", err)
			os.Exit(1)
		}
		for _, r := range routes {
			coords := "no coordinates"
			if r.HasCoordinates() {
				coords = fmt.Sprintf("%.4f, %.4f", r.Coordinates.Lat, r.Coordinates.Lon)
			}
			fmt.Printf("%4d  %-32s %s\n", r.ID, r.Name, coords)
		}
	}
}

func importFile(ctx context.Context, store *catalog.Store, path, nameField string) (int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return store.ImportShapefile(ctx, path, nameField)
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		return store.ImportJSON(ctx, f)
	default:
		return 0, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}
