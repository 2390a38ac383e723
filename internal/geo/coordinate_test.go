package geo

import (
	"errors"
	"math"
	"testing"
)

func TestToDMS(t *testing.T) {
	dms := ToDMS(-9.1393)
	if dms[0] != (Rational{Num: 9, Den: 1}) {
		t.Fatalf("unexpected degrees: %+v", dms[0])
	}
	if dms[1] != (Rational{Num: 8, Den: 1}) {
		t.Fatalf("unexpected minutes: %+v", dms[1])
	}
	if dms[2].Den != 1000 {
		t.Fatalf("unexpected seconds denominator: %d", dms[2].Den)
	}
	if got := dms.Decimal(); math.Abs(got-9.1393) > 1e-5 {
		t.Fatalf("round trip drifted: got %v want 9.1393", got)
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		input string
		want  Coordinate
	}{
		{input: "38.7223,-9.1393", want: Coordinate{Lat: 38.7223, Lon: -9.1393}},
		{input: " 38.7223 , -9.1393 ", want: Coordinate{Lat: 38.7223, Lon: -9.1393}},
		{input: "+38.0000-009.0000/", want: Coordinate{Lat: 38, Lon: -9}},
		{input: "-33.8688+151.2093+012.500/", want: Coordinate{Lat: -33.8688, Lon: 151.2093}},
		{input: "+40.7128-074.0060", want: Coordinate{Lat: 40.7128, Lon: -74.006}},
	}
	for _, tc := range tests {
		got, err := ParseLocation(tc.input)
		if err != nil {
			t.Fatalf("ParseLocation(%q) returned error: %v", tc.input, err)
		}
		if math.Abs(got.Lat-tc.want.Lat) > 1e-9 || math.Abs(got.Lon-tc.want.Lon) > 1e-9 {
			t.Fatalf("ParseLocation(%q) = %+v want %+v", tc.input, got, tc.want)
		}
	}
}

func TestParseLocationRejectsInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "91,0", "0,181", "1,2,3", "+95.0000+010.0000/"} {
		if _, err := ParseLocation(input); !errors.Is(err, ErrInvalidLocation) {
			t.Fatalf("ParseLocation(%q) error = %v, want ErrInvalidLocation", input, err)
		}
	}
}

func TestFormatLocation(t *testing.T) {
	if got := FormatLocation(Coordinate{Lat: 38.7223, Lon: -9.1393}); got != "38.7223,-9.1393" {
		t.Fatalf("unexpected location: %q", got)
	}
}

func TestCoordinateRefsAndNullIsland(t *testing.T) {
	c := Coordinate{Lat: -1, Lon: -2}
	if c.LatRef() != "S" || c.LonRef() != "W" {
		t.Fatalf("unexpected refs: %s %s", c.LatRef(), c.LonRef())
	}
	if !(Coordinate{Lat: 0.00001, Lon: -0.00002}).IsNullIsland() {
		t.Fatal("expected near-zero coordinate to be null island")
	}
	if (Coordinate{Lat: 0.5, Lon: 0}).IsNullIsland() {
		t.Fatal("expected 0.5,0 to be a real coordinate")
	}
}

func TestHumanString(t *testing.T) {
	got := Coordinate{Lat: 48.5, Lon: -2.25}.HumanString()
	want := `48°30'0.000" N, 2°15'0.000" W`
	if got != want {
		t.Fatalf("HumanString() = %q want %q", got, want)
	}
}
