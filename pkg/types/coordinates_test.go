package types

import "testing"

func TestParseCoordinatesAcceptsSpacedInput(t *testing.T) {
	coords, err := ParseCoordinates("40,  -73")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coords == nil {
		t.Fatal("expected coordinates")
	}
	if coords.Latitude != 40 || coords.Longitude != -73 {
		t.Fatalf("unexpected coordinates %+v", coords)
	}
}

func TestParseCoordinatesRejectsOutOfRange(t *testing.T) {
	if _, err := ParseCoordinates("100, 0"); err == nil {
		t.Fatal("latitude 100 must be rejected")
	}
	if _, err := ParseCoordinates("0, 181"); err == nil {
		t.Fatal("longitude 181 must be rejected")
	}
	if _, err := ParseCoordinates("-90.5, 0"); err == nil {
		t.Fatal("latitude -90.5 must be rejected")
	}
}

func TestParseCoordinatesEmptyClears(t *testing.T) {
	coords, err := ParseCoordinates("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coords != nil {
		t.Fatalf("empty input should clear, got %+v", coords)
	}
}

func TestParseCoordinatesRejectsGarbage(t *testing.T) {
	for _, input := range []string{"abc", "1", "1,2,3", "abc, def"} {
		if _, err := ParseCoordinates(input); err == nil {
			t.Fatalf("input %q should be rejected", input)
		}
	}
}
