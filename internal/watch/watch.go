// Package watch ingests COA text files dropped into an inbox directory.
// Binary-document extraction happens upstream; the watcher only accepts
// already-extracted plain text.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jmorrow/coalens/internal/coa"
	"github.com/jmorrow/coalens/internal/product"
)

// #region sink

// Sink receives products parsed from inbox files. *store.Store satisfies it.
type Sink interface {
	PutProduct(p product.Product) error
}

// #endregion sink

// #region watcher

// Watcher monitors an inbox directory and runs new .txt files through
// the parse pipeline into the sink.
type Watcher struct {
	parser  *coa.Parser
	sink    Sink
	watcher *fsnotify.Watcher
	recent  map[string]time.Time // debounce: writing a file fires Create then Write

	// Ingested receives the product ID of each successful ingest when
	// set. Used by callers that need to observe progress; nil is fine.
	Ingested chan<- string
}

// New creates a Watcher over the given parser and sink.
func New(parser *coa.Parser, sink Sink) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{parser: parser, sink: sink, watcher: fw, recent: make(map[string]time.Time)}, nil
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run watches dir until ctx is cancelled. Each created or rewritten
// .txt file is parsed independently; a file that fails to parse is
// logged and skipped, never fatal.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".txt" {
				continue
			}
			w.ingest(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

// ingest parses one file and stores the result. Events for a path seen
// within the debounce window are dropped.
func (w *Watcher) ingest(path string) {
	now := time.Now()
	if at, ok := w.recent[path]; ok && now.Sub(at) < 2*time.Second {
		return
	}
	w.recent[path] = now

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("read %s: %v", path, err)
		return
	}
	prod, err := w.parser.Parse(string(data), filepath.Base(path))
	if err != nil {
		log.Printf("parse %s: %v", path, err)
		return
	}
	if err := w.sink.PutProduct(prod); err != nil {
		log.Printf("store %s: %v", path, err)
		return
	}
	log.Printf("ingested %s as product %s", filepath.Base(path), prod.ID)
	if w.Ingested != nil {
		w.Ingested <- prod.ID
	}
}

// #endregion watcher
