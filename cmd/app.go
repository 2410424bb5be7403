package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"cashflow/internal/config"
	"cashflow/internal/lifecycle"
	"cashflow/internal/sheets"
	"cashflow/internal/store"
)

// app bundles what every command needs to talk to the spreadsheet.
type app struct {
	cfg     *config.Config
	store   store.Store
	sheets  *sheets.Service // nil for the memory backend
	journal store.Table
	engine  *lifecycle.Engine
}

// openApp loads the configuration and connects to the configured store.
func openApp(ctx context.Context, log zerolog.Logger) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		journal: store.TransitionLog.Named(cfg.JournalSheet),
	}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn().Msg("Using in-memory store, nothing will be persisted")
		a.store = store.NewMemory()
	default:
		svc, err := sheets.NewSheetsService(ctx, cfg.GetSheetsOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Google Sheets: %w", err)
		}
		a.sheets = svc
		a.store = svc
		log.Debug().Str("spreadsheet_id", svc.SpreadsheetID()).Msg("Connected to spreadsheet")

		if cfg.JournalEnabled {
			if err := svc.EnsureTable(ctx, a.journal); err != nil {
				return nil, fmt.Errorf("failed to prepare journal sheet: %w", err)
			}
		}
	}

	opts := []lifecycle.Option{lifecycle.WithStoreTimeout(cfg.StoreTimeout)}
	if cfg.JournalEnabled {
		opts = append(opts, lifecycle.WithJournal(lifecycle.NewTableJournal(a.store, a.journal)))
	}
	a.engine = lifecycle.NewEngine(a.store, opts...)

	return a, nil
}

// commandContext returns a context canceled on SIGINT/SIGTERM or after
// timeout, whichever comes first. A zero timeout means no deadline.
func commandContext(timeout time.Duration, log zerolog.Logger) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// writeJSON prints v as indented JSON to outputPath, or stdout when empty.
func writeJSON(v interface{}, outputPath string, log zerolog.Logger) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(jsonData)).
			Msg("Output written to file")
		return nil
	}

	if _, err := os.Stdout.Write(jsonData); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Println()
	return nil
}
