// coalens parses a single COA text file and prints the product record
// with its baseline (and optionally personalized) scores.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jmorrow/coalens/internal/calib"
	"github.com/jmorrow/coalens/internal/coa"
	"github.com/jmorrow/coalens/internal/engine"
	"github.com/jmorrow/coalens/internal/extract"
	"github.com/jmorrow/coalens/internal/product"
	"github.com/jmorrow/coalens/internal/score"
	"github.com/jmorrow/coalens/internal/store"
)

// #region main

func main() {
	file := flag.String("file", "", "path to a COA text file")
	dbPath := flag.String("db", "", "optional product/session db for personalized scores and persistence")
	persist := flag.Bool("persist", false, "store the parsed product in -db")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: coalens --file report.txt [--db coalens.db] [--persist] [--json]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read file: %v\n", err)
		os.Exit(1)
	}

	parser := coa.NewParser(extract.DefaultConfig())
	prod, err := parser.Parse(string(data), filepath.Base(*file))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(engine.DefaultConfig())
	mapper := score.New(score.DefaultConfig())
	calibrator := calib.New(eng, mapper, calib.DefaultConfig())

	prof := eng.Evaluate(prod)
	baseline := mapper.Map(prof)

	var personalized map[string]float64
	if *dbPath != "" {
		st, err := store.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open db: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		if *persist {
			if err := st.PutProduct(prod); err != nil {
				fmt.Fprintf(os.Stderr, "store product: %v\n", err)
				os.Exit(1)
			}
		}

		personalized, err = calibrator.PersonalizedScores(prod, st, st)
		if err != nil {
			fmt.Fprintf(os.Stderr, "personalize: %v\n", err)
			os.Exit(1)
		}
	}

	if *jsonOut {
		printJSON(prod, prof, baseline, personalized)
		return
	}
	printText(prod, prof, baseline, personalized)
}

// #endregion main

// #region output

func printJSON(prod product.Product, prof engine.Profile, baseline, personalized map[string]float64) {
	out := map[string]any{
		"product":  prod,
		"profile":  prof,
		"baseline": baseline,
	}
	if personalized != nil {
		out["personalized"] = personalized
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func printText(prod product.Product, prof engine.Profile, baseline, personalized map[string]float64) {
	fmt.Printf("%s\n", prod.Name)
	if prod.FormRaw != "" {
		fmt.Printf("  form: %s (%s)\n", prod.FormRaw, orDash(string(prod.FormKey)))
	}
	fmt.Printf("  total THC: %s  total terpenes: %s\n",
		pctOrDash(prod.Metrics.TotalThcPct), pctOrDash(prod.Metrics.TotalTerpenesPct))
	if len(prod.Terpenes) > 0 {
		fmt.Println("  terpenes:")
		for _, t := range prod.Terpenes {
			fmt.Printf("    %-16s %.2f%%\n", t.Name, t.Pct)
		}
	}

	fmt.Printf("\n  anxiety risk: %.2f  duration: %.1fh  onset: %.0fmin\n",
		prof.AnxietyRisk, prof.DurationHours, prof.OnsetMinutes)

	fmt.Println("\n  scores (0-5):")
	dims := make([]string, 0, len(baseline))
	for dim := range baseline {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	for _, dim := range dims {
		line := fmt.Sprintf("    %-10s %.1f", dim, baseline[dim])
		if personalized != nil && personalized[dim] != baseline[dim] {
			line += fmt.Sprintf("  (yours: %.1f)", personalized[dim])
		}
		fmt.Println(line)
	}
}

func pctOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", *v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// #endregion output
