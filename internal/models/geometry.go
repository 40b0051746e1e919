package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Polygon represents a paddock boundary drawn on the map.
// It stores coordinates in GeoJSON format: [rings][points][lon,lat]
// SRID 4326 (WGS84) is used for lat/lng coordinates.
type Polygon struct {
	Coordinates [][][2]float64 // GeoJSON coordinate structure
	SRID        int            // Spatial Reference ID (default: 4326)
}

// Scan implements sql.Scanner interface for reading polygon geometry from the database.
// Boundaries are stored as GeoJSON in a jsonb column and come back as []byte.
func (p *Polygon) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan Polygon: expected []byte, got %T", value)
	}

	// Parse GeoJSON geometry structure
	var geom struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}

	if err := json.Unmarshal(bytes, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal polygon geometry: %w", err)
	}

	if geom.Type != "Polygon" {
		return fmt.Errorf("expected Polygon type, got %s", geom.Type)
	}

	p.Coordinates = geom.Coordinates
	p.SRID = 4326 // Default to WGS84

	return nil
}

// Value implements driver.Valuer interface for writing polygon geometry to the database.
// Returns a GeoJSON string suitable for a jsonb column.
func (p Polygon) Value() (driver.Value, error) {
	if len(p.Coordinates) == 0 {
		return nil, nil
	}

	geom := map[string]interface{}{
		"type":        "Polygon",
		"coordinates": p.Coordinates,
	}

	geoJSON, err := json.Marshal(geom)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal polygon to GeoJSON: %w", err)
	}

	return string(geoJSON), nil
}

// MarshalJSON implements json.Marshaler for API responses.
// Returns GeoJSON-compliant format for frontend consumption.
func (p Polygon) MarshalJSON() ([]byte, error) {
	geom := struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}{
		Type:        "Polygon",
		Coordinates: p.Coordinates,
	}
	return json.Marshal(geom)
}

// UnmarshalJSON implements json.Unmarshaler for parsing GeoJSON input.
// Used when a paddock boundary is created or edited from the map drawing tool.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var geom struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}

	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal polygon: %w", err)
	}

	if geom.Type != "" && geom.Type != "Polygon" {
		return fmt.Errorf("expected Polygon type, got %s", geom.Type)
	}

	p.Coordinates = geom.Coordinates
	p.SRID = 4326

	return nil
}
