package gpx

import (
	"strings"
	"testing"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="ridemap-test" xmlns="http://www.topografix.com/GPX/1/1">`

func doc(body string) []byte {
	return []byte(header + body + "</gpx>")
}

func TestParse_PreservesOrder(t *testing.T) {
	data := doc(`<trk><name>Afternoon Ride</name><trkseg>
		<trkpt lat="1.0" lon="2.0"><ele>10</ele></trkpt>
		<trkpt lat="3.5" lon="-4.25"></trkpt>
		<trkpt lat="0" lon="0"></trkpt>
	</trkseg></trk>`)

	seq, err := NewParser().Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][2]float64{{1.0, 2.0}, {3.5, -4.25}, {0, 0}}
	if len(seq) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(seq))
	}
	for i, w := range want {
		if seq[i].Lat != w[0] || seq[i].Lon != w[1] {
			t.Errorf("point %d: expected %v, got %+v", i, w, seq[i])
		}
	}
}

func TestParse_OnlyFirstTrackAndSegment(t *testing.T) {
	data := doc(`
		<trk>
			<trkseg><trkpt lat="10" lon="20"></trkpt></trkseg>
			<trkseg><trkpt lat="11" lon="21"></trkpt></trkseg>
		</trk>
		<trk><trkseg><trkpt lat="12" lon="22"></trkpt></trkseg></trk>`)

	seq, err := NewParser().Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq) != 1 || seq[0].Lat != 10 || seq[0].Lon != 20 {
		t.Errorf("expected only the first segment's point, got %+v", seq)
	}
}

func TestParse_EmptySegment(t *testing.T) {
	seq, err := NewParser().Parse(doc(`<trk><trkseg></trkseg></trk>`))
	if err != nil {
		t.Fatalf("empty segment should parse, got %v", err)
	}
	if len(seq) != 0 {
		t.Errorf("expected zero points, got %d", len(seq))
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"not xml", []byte("this is not a gpx file"), ""},
		{"no track", doc(``), "no <trk>"},
		{"no segment", doc(`<trk><name>x</name></trk>`), "no <trkseg>"},
		{"non-numeric latitude", doc(`<trk><trkseg><trkpt lat="north" lon="2"></trkpt></trkseg></trk>`), ""},
		{"non-numeric longitude", doc(`<trk><trkseg><trkpt lat="1" lon="east"></trkpt></trkseg></trk>`), ""},
		{"nan latitude", doc(`<trk><trkseg><trkpt lat="NaN" lon="2"></trkpt></trkseg></trk>`), "finite"},
		{"missing lat attr", doc(`<trk><trkseg><trkpt lon="2"></trkpt></trkseg></trk>`), "trkpt 0: missing lat"},
		{"empty lat", doc(`<trk><trkseg><trkpt lat="" lon="2"></trkpt></trkseg></trk>`), "missing lat"},
		{"blank lon", doc(`<trk><trkseg><trkpt lat="1" lon="  "></trkpt></trkseg></trk>`), "missing lon"},
		{"bare trkpt", doc(`<trk><trkseg><trkpt lat="1" lon="2"/><trkpt/></trkseg></trk>`), "trkpt 1: missing lat"},
		{"latitude out of range", doc(`<trk><trkseg><trkpt lat="91" lon="2"></trkpt></trkseg></trk>`), "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := NewParser().Parse(tt.data)
			if err == nil {
				t.Fatalf("expected error, got %d points", len(seq))
			}
			if seq != nil {
				t.Errorf("expected no partial sequence, got %+v", seq)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParse_LaterSegmentsNotChecked(t *testing.T) {
	data := doc(`<trk>
		<trkseg><trkpt lat="10" lon="20"></trkpt></trkseg>
		<trkseg><trkpt lon="21"></trkpt></trkseg>
	</trk>`)

	seq, err := NewParser().Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq) != 1 {
		t.Errorf("expected 1 point, got %d", len(seq))
	}
}
