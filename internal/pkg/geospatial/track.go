package geospatial

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/ridemap/internal/core/domain"
)

// LineString converts a sequence to an orb line string. orb points are [lon, lat].
func LineString(seq domain.Sequence) orb.LineString {
	ls := make(orb.LineString, len(seq))
	for i, p := range seq {
		ls[i] = orb.Point{p.Lon, p.Lat}
	}
	return ls
}

// BoundsOf returns the bounding box of the sequence.
func BoundsOf(seq domain.Sequence) domain.Bounds {
	if len(seq) == 0 {
		return domain.Bounds{}
	}
	b := LineString(seq).Bound()
	return domain.Bounds{
		MinLat: b.Min.Lat(),
		MinLon: b.Min.Lon(),
		MaxLat: b.Max.Lat(),
		MaxLon: b.Max.Lon(),
	}
}

// LengthMeters returns the great-circle length of the path in meters.
func LengthMeters(seq domain.Sequence) float64 {
	if len(seq) < 2 {
		return 0
	}
	return geo.LengthHaversine(LineString(seq))
}

// Summarize builds the route summary for a non-empty sequence.
func Summarize(rd domain.RouteDescriptor, seq domain.Sequence) domain.RouteSummary {
	s := domain.RouteSummary{
		Route:        rd,
		Points:       len(seq),
		Bounds:       BoundsOf(seq),
		LengthMeters: LengthMeters(seq),
	}
	if len(seq) > 0 {
		s.Start = seq[0]
		s.End = seq[len(seq)-1]
	}
	return s
}

// Feature wraps the route as a GeoJSON LineString feature.
func Feature(rd domain.RouteDescriptor, seq domain.Sequence) *geojson.Feature {
	f := geojson.NewFeature(LineString(seq))
	f.ID = rd.ID
	f.Properties["name"] = rd.Name
	if rd.Description != "" {
		f.Properties["description"] = rd.Description
	}
	if rd.Color != "" {
		f.Properties["color"] = rd.Color
	}
	return f
}
