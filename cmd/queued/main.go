// Command queued runs the in-memory work queue service described by
// package queue, fronted by an HTTP adapter.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	queue "github.com/ccp0101/queues"
	"github.com/ccp0101/queues/archive"
	"github.com/ccp0101/queues/httpapi"
	"github.com/ccp0101/queues/item"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "queued:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.Level(cfg.logLevel()),
	}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink queue.ArchiveSink
	var reader httpapi.ArchiveReader
	if cfg.ArchiveDB != "" {
		db, err := archive.Open(ctx, cfg.ArchiveDB)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer db.Close()
		archiveSink := archive.NewSink(db, 4096, log)
		archiveSink.Start(ctx)
		defer archiveSink.Stop()
		sink = archiveSink
		reader = archiveReaderAdapter{archiveSink}
		log.Info("archive sink enabled", "path", cfg.ArchiveDB)
	}

	registry := queue.NewRegistry(queue.SystemClock(), log, sink, cfg.DefaultLease)

	expirer := queue.NewExpirer(registry, queue.ExpirerConfig{
		Interval:    cfg.ExpiryPoll,
		Concurrency: 4,
	}, log)
	if err := expirer.Start(ctx); err != nil {
		return fmt.Errorf("start expirer: %w", err)
	}
	defer func() {
		if err := expirer.Stop(5 * time.Second); err != nil {
			log.Warn("expirer stop", "err", err)
		}
	}()

	server := httpapi.NewServer(registry, reader, log)
	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: server,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Listen)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// archiveReaderAdapter narrows *archive.Sink to the httpapi.ArchiveReader
// shape, translating archive.Record into httpapi.ArchivedEvent so that
// httpapi has no import-time dependency on the archive package.
type archiveReaderAdapter struct {
	sink *archive.Sink
}

func (a archiveReaderAdapter) Recent(ctx context.Context, qid string, limit int) ([]httpapi.ArchivedEvent, error) {
	records, err := a.sink.Recent(ctx, qid, limit)
	if err != nil {
		return nil, err
	}
	out := make([]httpapi.ArchivedEvent, len(records))
	for i, r := range records {
		out[i] = httpapi.ArchivedEvent{
			QueueID: r.QueueID,
			ItemID:  r.ItemID,
			Status:  item.Status(r.Status).String(),
			At:      r.At.Format(time.RFC3339),
		}
	}
	return out, nil
}
