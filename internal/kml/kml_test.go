package kml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse_GxCoords(t *testing.T) {
	text := `<kml><Placemark>
<gx:coord>73.98 18.58 560</gx:coord>
<gx:coord>74.01 18.55</gx:coord>
</Placemark></kml>`
	wps, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(wps) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(wps))
	}
	if wps[0].Lat != 18.58 || wps[0].Lon != 73.98 {
		t.Errorf("waypoint 0 = %+v, want lat=18.58 lon=73.98", wps[0])
	}
}

func TestParse_CoordinatesBlock(t *testing.T) {
	text := `<kml><coordinates>
	73.98,18.58,0 74.00,18.57,0
	74.01,18.55
</coordinates></kml>`
	wps, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(wps) != 3 {
		t.Fatalf("expected 3 waypoints, got %d", len(wps))
	}
	if wps[2].Lat != 18.55 || wps[2].Lon != 74.01 {
		t.Errorf("waypoint 2 = %+v, want lat=18.55 lon=74.01", wps[2])
	}
}

func TestParse_GxCoordsTakePrecedence(t *testing.T) {
	text := `<kml>
<gx:coord>74.0 18.5</gx:coord>
<coordinates>1.0,2.0 3.0,4.0</coordinates>
</kml>`
	wps, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(wps) != 1 || wps[0].Lon != 74.0 {
		t.Errorf("expected only the gx:coord waypoint, got %+v", wps)
	}
}

func TestParse_SkipsMalformedTokens(t *testing.T) {
	text := `<coordinates>not-a-coord 74.0,xyz 74.01,18.55,12</coordinates>`
	wps, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(wps) != 1 {
		t.Fatalf("expected 1 waypoint, got %d", len(wps))
	}
}

func TestParse_NoCoordinates(t *testing.T) {
	if _, err := Parse("<kml><Placemark/></kml>"); !errors.Is(err, ErrNoCoordinates) {
		t.Errorf("expected ErrNoCoordinates, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.kml")
	if err := os.WriteFile(path, []byte(`<coordinates>74.0,18.5 74.1,18.4</coordinates>`), 0o644); err != nil {
		t.Fatalf("write temp kml: %v", err)
	}
	wps, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(wps) != 2 {
		t.Errorf("expected 2 waypoints, got %d", len(wps))
	}
}

func TestParseFile_Missing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.kml")); err == nil {
		t.Error("expected error for missing file")
	}
}
