package geospatial

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/samirrijal/ridemap/internal/core/domain"
)

func TestBoundsOf(t *testing.T) {
	seq := domain.Sequence{{Lat: 1, Lon: 2}, {Lat: 3.5, Lon: -4.25}, {Lat: 0, Lon: 0}}

	b := BoundsOf(seq)
	want := domain.Bounds{MinLat: 0, MinLon: -4.25, MaxLat: 3.5, MaxLon: 2}
	if b != want {
		t.Errorf("expected %+v, got %+v", want, b)
	}
}

func TestBoundsOf_Empty(t *testing.T) {
	if b := BoundsOf(nil); b != (domain.Bounds{}) {
		t.Errorf("expected zero bounds, got %+v", b)
	}
}

func TestLengthMeters(t *testing.T) {
	// One degree of latitude is roughly 111.2 km.
	seq := domain.Sequence{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}}
	got := LengthMeters(seq)
	if math.Abs(got-111195) > 500 {
		t.Errorf("expected ~111195m, got %.0f", got)
	}

	if got := LengthMeters(seq[:1]); got != 0 {
		t.Errorf("single point should have zero length, got %f", got)
	}
}

func TestFeature_LonLatOrder(t *testing.T) {
	rd := domain.RouteDescriptor{ID: "ramble", Name: "Ramble", Color: "purple"}
	seq := domain.Sequence{{Lat: 43.26, Lon: -2.93}, {Lat: 43.27, Lon: -2.94}}

	f := Feature(rd, seq)
	ls, ok := f.Geometry.(orb.LineString)
	if !ok {
		t.Fatalf("expected LineString geometry, got %T", f.Geometry)
	}
	if ls[0][0] != -2.93 || ls[0][1] != 43.26 {
		t.Errorf("expected [lon, lat] order, got %v", ls[0])
	}
	if f.Properties["color"] != "purple" {
		t.Errorf("expected color property, got %v", f.Properties["color"])
	}
}

func TestSummarize(t *testing.T) {
	rd := domain.RouteDescriptor{ID: "r1"}
	seq := domain.Sequence{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}}

	s := Summarize(rd, seq)
	if s.Points != 2 {
		t.Errorf("expected 2 points, got %d", s.Points)
	}
	if s.Start != seq[0] || s.End != seq[1] {
		t.Errorf("unexpected start/end: %+v %+v", s.Start, s.End)
	}
}
