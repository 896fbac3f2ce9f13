package domain

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Point is a single track point (WGS 84). It encodes to JSON as [lat, lon].
type Point struct {
	Lat float64
	Lon float64
}

// MarshalJSON encodes the point as a two-element array.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lat, p.Lon})
}

// UnmarshalJSON decodes a [lat, lon] array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("point: expected [lat, lon], got %d values", len(pair))
	}
	p.Lat, p.Lon = pair[0], pair[1]
	return nil
}

// Sequence is the ordered list of points that makes up a route.
type Sequence []Point

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}
