// coalensd serves the HTTP API and optionally watches an inbox
// directory for dropped COA files.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmorrow/coalens/internal/api"
	"github.com/jmorrow/coalens/internal/calib"
	"github.com/jmorrow/coalens/internal/coa"
	"github.com/jmorrow/coalens/internal/engine"
	"github.com/jmorrow/coalens/internal/extract"
	"github.com/jmorrow/coalens/internal/score"
	"github.com/jmorrow/coalens/internal/store"
	"github.com/jmorrow/coalens/internal/watch"
)

// #region main
func main() {
	dbPath := envOr("COALENS_DB", "coalens.db")
	addr := envOr("COALENS_ADDR", ":8080")
	inbox := os.Getenv("COALENS_INBOX")

	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	parser := coa.NewParser(extract.DefaultConfig())
	eng := engine.New(engine.DefaultConfig())
	mapper := score.New(score.DefaultConfig())
	calibrator := calib.New(eng, mapper, calib.DefaultConfig())

	server := api.NewServer(parser, eng, mapper, calibrator, st)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if inbox != "" {
		watcher, err := watch.New(parser, st)
		if err != nil {
			log.Fatalf("failed to create inbox watcher: %v", err)
		}
		defer watcher.Close()
		go func() {
			if err := watcher.Run(ctx, inbox); err != nil {
				log.Printf("inbox watcher stopped: %v", err)
			}
		}()
		log.Printf("watching inbox %s", inbox)
	}

	httpServer := &http.Server{Addr: addr, Handler: server.Routes()}
	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()

	fmt.Printf("coalensd listening on %s (db: %s)\n", addr, dbPath)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// #endregion main

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
