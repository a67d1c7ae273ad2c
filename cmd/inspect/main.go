// inspect lists and details products and session logs stored in a
// coalens database.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jmorrow/coalens/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to coalens.db")
	id := flag.String("id", "", "show single product detail")
	sessions := flag.Bool("sessions", false, "list session log entries instead of products")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/coalens.db [--id product-id] [--sessions] [--json]")
		os.Exit(2)
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	switch {
	case *id != "":
		err = runDetailMode(st, *id, *jsonOut)
	case *sessions:
		err = runSessionMode(st, *jsonOut)
	default:
		err = runListMode(st, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

func runListMode(st *store.Store, jsonOut bool) error {
	products, err := st.ListProducts()
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(os.Stderr, "no products found")
		return nil
	}

	if jsonOut {
		return printJSON(products)
	}

	fmt.Printf("%-10s  %-28s  %-12s  %7s  %7s  %5s  %s\n",
		"ID", "Name", "Form", "THC%", "Terp%", "Terps", "Created")
	fmt.Printf("%-10s+-%-28s+-%-12s+-%7s+-%7s+-%5s+-%s\n",
		"----------", "----------------------------", "------------",
		"-------", "-------", "-----", "--------------------")
	for _, p := range products {
		fmt.Printf("%-10s  %-28s  %-12s  %7s  %7s  %5d  %s\n",
			shortID(p.ID), truncate(p.Name, 28), p.FormKey,
			pctCell(p.Metrics.TotalThcPct), pctCell(p.Metrics.TotalTerpenesPct),
			len(p.Terpenes), p.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(st *store.Store, id string, jsonOut bool) error {
	p, ok, err := st.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no product with id %s", id)
	}

	if jsonOut {
		return printJSON(p)
	}

	fmt.Printf("ID:       %s\n", p.ID)
	fmt.Printf("Name:     %s\n", p.Name)
	fmt.Printf("Form:     %s (%s)\n", p.FormRaw, p.FormKey)
	fmt.Printf("THC:      %s\n", pctCell(p.Metrics.TotalThcPct))
	fmt.Printf("Terpenes: %s\n", pctCell(p.Metrics.TotalTerpenesPct))
	fmt.Printf("Created:  %s\n", p.CreatedAt.Format("2006-01-02T15:04:05Z"))

	if len(p.Terpenes) > 0 {
		fmt.Printf("\nTerpene breakdown:\n")
		for _, t := range p.Terpenes {
			fmt.Printf("  %-16s %.2f%%\n", t.Name, t.Pct)
		}
	}
	return nil
}

// #endregion detail-mode

// #region session-mode

func runSessionMode(st *store.Store, jsonOut bool) error {
	entries, err := st.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no sessions found")
		return nil
	}

	if jsonOut {
		return printJSON(entries)
	}

	fmt.Printf("%-10s  %-10s  %-20s  %s\n", "ID", "Product", "Time", "Actuals")
	fmt.Printf("%-10s+-%-10s+-%-20s+-%s\n",
		"----------", "----------", "--------------------", "--------------------")
	for _, e := range entries {
		fmt.Printf("%-10s  %-10s  %-20s  %s\n",
			shortID(e.ID), shortID(e.ProductID),
			e.At.Format("2006-01-02T15:04:05Z"), actualsCell(e.Actuals))
	}
	return nil
}

func actualsCell(actuals map[string]float64) string {
	order := []string{"head", "clarity", "sedation", "couch", "pain"}
	out := ""
	for _, dim := range order {
		v, ok := actuals[dim]
		if !ok {
			continue
		}
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%s=%.1f", dim, v)
	}
	if out == "" {
		return "—"
	}
	return out
}

// #endregion session-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func pctCell(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.2f", *v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-1] + "…"
	}
	return s
}

// #endregion output
