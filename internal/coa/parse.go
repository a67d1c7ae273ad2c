// Package coa is the top-level parse entry point: raw report text in,
// validated Product out. It is the only place in the pipeline that can
// fail; every downstream scoring function is total.
package coa

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmorrow/coalens/internal/canon"
	"github.com/jmorrow/coalens/internal/extract"
	"github.com/jmorrow/coalens/internal/normalize"
	"github.com/jmorrow/coalens/internal/product"
)

// #region errors

// ErrUnparseable reports a document with no usable THC value and no
// terpenes. No partial Product is created in that case.
var ErrUnparseable = errors.New("coa: no usable potency or terpene data")

// #endregion errors

// #region parser

// Parser wires the normalizer, extractor, and canonicalizer into one
// text → Product transformation.
type Parser struct {
	extractor *extract.Extractor
	now       func() time.Time
}

// NewParser creates a Parser with the given extractor configuration.
func NewParser(config extract.Config) *Parser {
	return &Parser{
		extractor: extract.New(config),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Parse turns raw COA text into a Product. filename is the last-resort
// product name; pass "" when unavailable. Returns ErrUnparseable when
// neither a THC value nor any terpene line could be recovered.
func (p *Parser) Parse(raw, filename string) (product.Product, error) {
	text := normalize.Text(raw)
	fields := p.extractor.Extract(text, filename)

	terpenes := canon.Merge(fields.Terpenes)
	if fields.TotalThcPct == nil && len(terpenes) == 0 {
		return product.Product{}, ErrUnparseable
	}

	return product.Product{
		ID:      uuid.New().String(),
		Name:    fields.Name,
		FormRaw: fields.FormRaw,
		FormKey: fields.FormKey,
		Metrics: product.Metrics{
			TotalThcPct:      fields.TotalThcPct,
			TotalTerpenesPct: fields.TotalTerpenesPct,
		},
		Terpenes:  terpenes,
		CreatedAt: p.now(),
	}, nil
}

// #endregion parser

// #region batch

// BatchItem is one document in a batch parse.
type BatchItem struct {
	Label string // filename or other caller-side identifier
	Text  string
}

// ItemError records a single document's parse failure within a batch.
type ItemError struct {
	Label string
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Label, e.Err)
}

// ParseBatch processes items independently and sequentially. One item's
// failure never aborts the batch; partial successes and the per-item
// error list are both returned.
func (p *Parser) ParseBatch(items []BatchItem) ([]product.Product, []ItemError) {
	products := make([]product.Product, 0, len(items))
	var errs []ItemError
	for _, item := range items {
		prod, err := p.Parse(item.Text, item.Label)
		if err != nil {
			errs = append(errs, ItemError{Label: item.Label, Err: err})
			continue
		}
		products = append(products, prod)
	}
	return products, errs
}

// #endregion batch
