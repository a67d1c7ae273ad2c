package product

import (
	"math"
	"testing"
)

func TestBandsPartitionNonNegativeReals(t *testing.T) {
	bands := DefaultThcBands()

	// Contiguity: each band starts where the previous one ends.
	if bands[0].Min != 0 {
		t.Fatalf("first band must start at 0, got %f", bands[0].Min)
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Min != bands[i-1].Max {
			t.Fatalf("gap between band %d and %d: %f != %f", i-1, i, bands[i-1].Max, bands[i].Min)
		}
	}
	if !math.IsInf(bands[len(bands)-1].Max, 1) {
		t.Fatal("top band must be unbounded")
	}

	// Exactly one band matches a set of probe percents, including edges.
	for _, pct := range []float64{0, 9.99, 10, 14.9, 15, 19.5, 20, 24.9, 25, 29.9, 30, 42, 99} {
		matches := 0
		for _, b := range bands {
			if pct >= b.Min && pct < b.Max {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("pct %.2f matched %d bands, expected exactly 1", pct, matches)
		}
	}
}

func TestBandForCoercesBadInput(t *testing.T) {
	bands := DefaultThcBands()
	if got := BandFor(bands, -3); got.Min != 0 {
		t.Fatalf("negative percent should land in the lowest band, got [%f,%f)", got.Min, got.Max)
	}
	if got := BandFor(bands, math.NaN()); got.Min != 0 {
		t.Fatalf("NaN should land in the lowest band, got [%f,%f)", got.Min, got.Max)
	}
	if got := BandFor(bands, 72.6); !math.IsInf(got.Max, 1) {
		t.Fatalf("high percent should land in the top band, got [%f,%f)", got.Min, got.Max)
	}
}

func TestNormalizeForm(t *testing.T) {
	cases := []struct {
		raw  string
		want FormKey
	}{
		{"Flower", FormFlower},
		{"Live Badder", FormLiveResin},
		{"Live Resin Cart", FormLiveResin},
		{"Rosin", FormConcentrate},
		{"Wax", FormConcentrate},
		{"Crumble", FormConcentrate},
		{"510 Cartridge", FormVape},
		{"Gummies 10mg", FormEdible},
		{"Topical Balm", FormTopical},
		{"", ""},
		{"Mystery Product", ""},
	}
	for _, c := range cases {
		if got := NormalizeForm(c.raw); got != c.want {
			t.Fatalf("NormalizeForm(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestProfileForUnknownFallsBackToFlower(t *testing.T) {
	profiles := DefaultFormProfiles()
	got := ProfileFor(profiles, "")
	if got != profiles[FormFlower] {
		t.Fatalf("unknown form should use the flower profile, got %+v", got)
	}
}

func TestTopicalProfileZeroIntensity(t *testing.T) {
	p := DefaultFormProfiles()[FormTopical]
	if p.IntensityMod != 0 {
		t.Fatalf("topical intensity must be 0, got %f", p.IntensityMod)
	}
}

func TestTerpenePct(t *testing.T) {
	p := Product{Terpenes: []Terpene{{Name: "myrcene", Pct: 0.6}, {Name: "limonene", Pct: 0.4}}}
	if got := p.TerpenePct("myrcene"); got != 0.6 {
		t.Fatalf("expected 0.6, got %f", got)
	}
	if got := p.TerpenePct("pinene"); got != 0 {
		t.Fatalf("absent terpene should read 0, got %f", got)
	}
}
