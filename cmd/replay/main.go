// replay recomputes baseline and personalized scores for every product
// in a snapshot fixture, so scoring changes can be reviewed against a
// captured profile. It can also export a fixture from a live database.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/jmorrow/coalens/internal/calib"
	"github.com/jmorrow/coalens/internal/engine"
	"github.com/jmorrow/coalens/internal/product"
	"github.com/jmorrow/coalens/internal/score"
	"github.com/jmorrow/coalens/internal/session"
	"github.com/jmorrow/coalens/internal/store"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to snapshot JSON (replay mode)")
	dbPath := flag.String("db", "", "path to coalens.db (export mode)")
	exportPath := flag.String("export", "", "write a snapshot of -db to this path and exit")
	profileName := flag.String("profile", "default", "profile name recorded in exported snapshots")
	flag.Parse()

	if *exportPath != "" {
		if *dbPath == "" {
			fmt.Fprintln(os.Stderr, "usage: replay --db path/to/coalens.db --export fixture.json")
			os.Exit(2)
		}
		os.Exit(runExportMode(*dbPath, *exportPath, *profileName))
	}

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/snapshot.json")
		fmt.Fprintln(os.Stderr, "       replay --db path/to/coalens.db --export fixture.json")
		os.Exit(2)
	}
	os.Exit(runFixtureMode(*fixturePath))
}

// #endregion main

// #region fixture-mode

// snapshotProducts adapts a snapshot's product list to the calibration
// repository interfaces, so replay needs no database.
type snapshotProducts map[string]product.Product

func (s snapshotProducts) Get(id string) (product.Product, bool, error) {
	p, ok := s[id]
	return p, ok, nil
}

type snapshotSessions []product.SessionLogEntry

func (s snapshotSessions) List() ([]product.SessionLogEntry, error) {
	return s, nil
}

func runFixtureMode(path string) int {
	snap, err := session.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	if len(snap.Products) == 0 {
		fmt.Fprintln(os.Stderr, "fixture has no products")
		return 2
	}

	eng := engine.New(engine.DefaultConfig())
	mapper := score.New(score.DefaultConfig())
	calibrator := calib.New(eng, mapper, calib.DefaultConfig())

	products := make(snapshotProducts, len(snap.Products))
	for _, p := range snap.Products {
		products[p.ID] = p
	}
	sessions := snapshotSessions(snap.SessionLog)

	cals, err := calibrator.Calibrations(products, sessions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compute calibrations: %v\n", err)
		return 2
	}

	fmt.Printf("Profile: %s (%d products, %d sessions)\n\n",
		snap.ProfileName, len(snap.Products), len(snap.SessionLog))
	fmt.Printf("%-28s  %-10s  %8s  %8s  %8s\n",
		"Product", "Dimension", "Baseline", "Yours", "Delta")
	fmt.Printf("%-28s+-%-10s+-%8s+-%8s+-%8s\n",
		"----------------------------", "----------", "--------", "--------", "--------")

	adjusted := 0
	for _, p := range snap.Products {
		baseline := calibrator.Baseline(p)
		personal := calibrator.Personalize(baseline, cals)

		dims := make([]string, 0, len(baseline))
		for dim := range baseline {
			dims = append(dims, dim)
		}
		sort.Strings(dims)

		name := truncate(p.Name, 28)
		for _, dim := range dims {
			base := baseline[dim]
			yours := personal[dim]
			delta := "—"
			if math.Abs(yours-base) > 1e-9 {
				delta = fmt.Sprintf("%+.1f", yours-base)
				adjusted++
			}
			fmt.Printf("%-28s  %-10s  %8.1f  %8.1f  %8s\n", name, dim, base, yours, delta)
			name = ""
		}
	}

	fmt.Printf("\nSummary: %d calibrated dimensions, %d adjusted scores\n", len(cals), adjusted)
	return 0
}

// #endregion fixture-mode

// #region export-mode

func runExportMode(dbPath, exportPath, profileName string) int {
	st, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer st.Close()

	products, err := st.ListProducts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list products: %v\n", err)
		return 2
	}
	entries, err := st.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list sessions: %v\n", err)
		return 2
	}

	snap := session.Snapshot{
		ProfileName: profileName,
		Products:    products,
		SessionLog:  entries,
	}
	if err := session.Save(exportPath, snap); err != nil {
		fmt.Fprintf(os.Stderr, "save fixture: %v\n", err)
		return 2
	}

	fmt.Printf("Exported %d products and %d sessions to %s\n",
		len(products), len(entries), exportPath)
	return 0
}

// #endregion export-mode

// #region output

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-1] + "…"
	}
	return s
}

// #endregion output
