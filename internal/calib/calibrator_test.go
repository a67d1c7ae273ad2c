package calib

import (
	"testing"

	"github.com/jmorrow/coalens/internal/engine"
	"github.com/jmorrow/coalens/internal/product"
	"github.com/jmorrow/coalens/internal/score"
)

// #region fakes

type fakeProducts map[string]product.Product

func (f fakeProducts) Get(id string) (product.Product, bool, error) {
	p, ok := f[id]
	return p, ok, nil
}

type fakeSessions []product.SessionLogEntry

func (f fakeSessions) List() ([]product.SessionLogEntry, error) {
	return f, nil
}

// #endregion fakes

func newTestCalibrator() *Calibrator {
	return New(engine.New(engine.DefaultConfig()), score.New(score.DefaultConfig()), DefaultConfig())
}

func flowerProduct(id string) product.Product {
	return product.Product{
		ID:      id,
		FormKey: product.FormFlower,
		Metrics: product.Metrics{
			TotalThcPct:      product.FloatPtr(22),
			TotalTerpenesPct: product.FloatPtr(2),
		},
	}
}

func sessionsWithDelta(productID string, n int, dim string, delta float64, base map[string]float64) fakeSessions {
	var out fakeSessions
	for i := 0; i < n; i++ {
		out = append(out, product.SessionLogEntry{
			ID:        "s",
			ProductID: productID,
			Actuals:   map[string]float64{dim: base[dim] + delta},
		})
	}
	return out
}

func TestConfidenceScaling(t *testing.T) {
	c := newTestCalibrator()
	prod := flowerProduct("p1")
	repo := fakeProducts{"p1": prod}
	base := c.Baseline(prod)

	cases := []struct {
		samples int
		want    float64
	}{
		{0, 0},
		{5, 0.5},
		{10, 0.8},
		{25, 0.8},
	}
	for _, tc := range cases {
		cals, err := c.Calibrations(repo, sessionsWithDelta("p1", tc.samples, "sedation", 1.0, base))
		if err != nil {
			t.Fatalf("calibrations: %v", err)
		}
		if tc.samples == 0 {
			if _, ok := cals["sedation"]; ok {
				t.Fatal("zero samples must yield no calibration")
			}
			continue
		}
		if got := cals["sedation"].Confidence; got != tc.want {
			t.Fatalf("%d samples: confidence %f, want %f", tc.samples, got, tc.want)
		}
		if cals["sedation"].SampleCount != tc.samples {
			t.Fatalf("sample count %d, want %d", cals["sedation"].SampleCount, tc.samples)
		}
	}
}

func TestConfidenceMonotone(t *testing.T) {
	c := newTestCalibrator()
	prod := flowerProduct("p1")
	repo := fakeProducts{"p1": prod}
	base := c.Baseline(prod)

	prev := -1.0
	for n := 1; n <= 15; n++ {
		cals, err := c.Calibrations(repo, sessionsWithDelta("p1", n, "head", 0.5, base))
		if err != nil {
			t.Fatalf("calibrations: %v", err)
		}
		conf := cals["head"].Confidence
		if conf < prev {
			t.Fatalf("confidence decreased at n=%d: %f < %f", n, conf, prev)
		}
		if conf > 0.8 {
			t.Fatalf("confidence exceeded ceiling at n=%d: %f", n, conf)
		}
		prev = conf
	}
}

func TestAdjustmentIsMeanDelta(t *testing.T) {
	c := newTestCalibrator()
	prod := flowerProduct("p1")
	repo := fakeProducts{"p1": prod}
	base := c.Baseline(prod)

	sessions := fakeSessions{
		{ProductID: "p1", Actuals: map[string]float64{"pain": base["pain"] + 2.0}},
		{ProductID: "p1", Actuals: map[string]float64{"pain": base["pain"] + 1.0}},
	}
	cals, err := c.Calibrations(repo, sessions)
	if err != nil {
		t.Fatalf("calibrations: %v", err)
	}
	if got := cals["pain"].Adjustment; got != 1.5 {
		t.Fatalf("adjustment should be the mean delta 1.5, got %f", got)
	}
}

func TestPersonalizeAppliesConfidenceWeightedAdjustment(t *testing.T) {
	c := newTestCalibrator()
	base := map[string]float64{"sedation": 2.0, "head": 3.0}
	cals := map[string]Calibration{
		"sedation": {Adjustment: 1.0, Confidence: 0.5, SampleCount: 5},
	}
	got := c.Personalize(base, cals)

	// 2.0 + 0.5·1.0 = 2.5, already on the half-point grid.
	if got["sedation"] != 2.5 {
		t.Fatalf("expected 2.5, got %f", got["sedation"])
	}
	// Uncalibrated dimension passes through.
	if got["head"] != 3.0 {
		t.Fatalf("uncalibrated dimension must be unchanged, got %f", got["head"])
	}
}

func TestPersonalizeClampsToScale(t *testing.T) {
	c := newTestCalibrator()
	base := map[string]float64{"couch": 4.5, "clarity": 0.5}
	cals := map[string]Calibration{
		"couch":   {Adjustment: 3.0, Confidence: 0.8},
		"clarity": {Adjustment: -3.0, Confidence: 0.8},
	}
	got := c.Personalize(base, cals)
	if got["couch"] != 5 {
		t.Fatalf("expected ceiling clamp to 5, got %f", got["couch"])
	}
	if got["clarity"] != 0 {
		t.Fatalf("expected floor clamp to 0, got %f", got["clarity"])
	}
}

func TestMissingProductEntriesSkipped(t *testing.T) {
	c := newTestCalibrator()
	repo := fakeProducts{"p1": flowerProduct("p1")}
	sessions := fakeSessions{
		{ProductID: "ghost", Actuals: map[string]float64{"head": 5}},
	}
	cals, err := c.Calibrations(repo, sessions)
	if err != nil {
		t.Fatalf("calibrations: %v", err)
	}
	if len(cals) != 0 {
		t.Fatalf("entries without a product must be skipped, got %+v", cals)
	}
}
