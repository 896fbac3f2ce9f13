package gpx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strings"

	gpxgo "github.com/tkrajina/gpxgo/gpx"

	"github.com/samirrijal/ridemap/internal/core/domain"
)

var (
	errNoTrack   = errors.New("document has no <trk>")
	errNoSegment = errors.New("first track has no <trkseg>")
)

// Parser implements ports.TrackParser for GPX 1.0/1.1 documents.
// Only the first segment of the first track is read.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

// Parse decodes data and returns the track points in document order.
func (p *Parser) Parse(data []byte) (domain.Sequence, error) {
	// gpxgo decodes absent or blank coordinates as 0.
	if err := checkPointAttrs(data); err != nil {
		return nil, err
	}

	doc, err := gpxgo.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode gpx: %w", err)
	}
	if len(doc.Tracks) == 0 {
		return nil, errNoTrack
	}
	if len(doc.Tracks[0].Segments) == 0 {
		return nil, errNoSegment
	}

	pts := doc.Tracks[0].Segments[0].Points
	seq := make(domain.Sequence, 0, len(pts))
	for i, pt := range pts {
		if err := validate(pt.Latitude, pt.Longitude); err != nil {
			return nil, fmt.Errorf("trkpt %d: %w", i, err)
		}
		seq = append(seq, domain.Point{Lat: pt.Latitude, Lon: pt.Longitude})
	}
	return seq, nil
}

func validate(lat, lon float64) error {
	switch {
	case math.IsNaN(lat) || math.IsInf(lat, 0):
		return fmt.Errorf("latitude is not a finite number")
	case math.IsNaN(lon) || math.IsInf(lon, 0):
		return fmt.Errorf("longitude is not a finite number")
	case lat < -90 || lat > 90:
		return fmt.Errorf("latitude %v out of range", lat)
	case lon < -180 || lon > 180:
		return fmt.Errorf("longitude %v out of range", lon)
	}
	return nil
}

// checkPointAttrs requires non-blank lat and lon on every <trkpt> of the first
// segment of the first track. Syntax errors are left to gpxgo.
func checkPointAttrs(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var inTrk, inSeg bool
	n := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "trk":
				inTrk = true
			case "trkseg":
				inSeg = inTrk
			case "trkpt":
				if !inSeg {
					continue
				}
				for _, name := range []string{"lat", "lon"} {
					if !hasAttr(t.Attr, name) {
						return fmt.Errorf("trkpt %d: missing %s", n, name)
					}
				}
				n++
			}
		case xml.EndElement:
			// Only the first segment of the first track is read.
			if (t.Name.Local == "trkseg" && inSeg) || (t.Name.Local == "trk" && inTrk) {
				return nil
			}
		}
	}
}

func hasAttr(attrs []xml.Attr, name string) bool {
	for _, a := range attrs {
		if a.Name.Local == name && a.Name.Space == "" {
			return strings.TrimSpace(a.Value) != ""
		}
	}
	return false
}
