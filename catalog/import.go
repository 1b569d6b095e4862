package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jonas-p/go-shp"

	"skipper-service/models"
)

// seedRoute is one entry of a JSON seed file. Either coordinate may be omitted.
type seedRoute struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ImportJSON loads routes from a JSON array of {name, latitude, longitude}
// and returns how many were saved.
func (s *Store) ImportJSON(ctx context.Context, r io.Reader) (int, error) {
	var seeds []seedRoute
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return 0, fmt.Errorf("decoding route seed: %w", err)
	}

	count := 0
	for _, seed := range seeds {
		route := models.Route{Name: strings.TrimSpace(seed.Name)}
		if seed.Latitude != nil && seed.Longitude != nil {
			route.Coordinates = &models.Coordinates{Lat: *seed.Latitude, Lon: *seed.Longitude}
		}
		if err := s.SaveRoute(ctx, &route); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ImportShapefile loads routes from a shapefile layer. Each record becomes a
// route named after the nameField attribute, placed at the centre of its
// bounding box. Null shapes are saved without coordinates.
func (s *Store) ImportShapefile(ctx context.Context, path, nameField string) (int, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening shapefile: %w", err)
	}
	defer reader.Close()

	// go-shp leaves the field list empty when the .dbf cannot be opened
	fields := reader.Fields()
	if len(fields) == 0 {
		return 0, fmt.Errorf("shapefile %s has no attribute table", path)
	}

	nameIdx := -1
	for i, f := range fields {
		if strings.EqualFold(fieldName(f), nameField) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return 0, fmt.Errorf("shapefile %s has no %q attribute", path, nameField)
	}

	count := 0
	for reader.Next() {
		n, shape := reader.Shape()

		name := strings.Trim(reader.ReadAttribute(n, nameIdx), " \x00")
		if name == "" {
			continue
		}

		route := models.Route{Name: name}
		if _, isNull := shape.(*shp.Null); !isNull && shape != nil {
			route.Coordinates = center(shape.BBox())
		}

		if err := s.SaveRoute(ctx, &route); err != nil {
			return count, err
		}
		count++
	}
	if err := reader.Err(); err != nil {
		return count, fmt.Errorf("reading shapefile: %w", err)
	}

	return count, nil
}

func fieldName(f shp.Field) string {
	return strings.TrimRight(string(f.Name[:]), "\x00")
}

func center(box shp.Box) *models.Coordinates {
	return &models.Coordinates{
		Lat: (box.MinY + box.MaxY) / 2,
		Lon: (box.MinX + box.MaxX) / 2,
	}
}
