// Package normalize turns the delivery workbook into canonical version
// records.
//
// Two sheets are read: "Livraison Modules" (module deliveries, Layout A)
// and "Livraison echanges" (module exchanges, Layout B). Each is cleaned by
// its own fixed rules, then persisted next to the workbook as a
// `{"data": [...]}` JSON artifact.
package normalize

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/alicedeps/pkg/errors"
	"github.com/agentstation/alicedeps/pkg/logging"
	"github.com/agentstation/alicedeps/pkg/records"
	"github.com/agentstation/alicedeps/pkg/workbook"
)

const (
	// SheetDeliveries is the Layout A sheet.
	SheetDeliveries = "Livraison Modules"
	// SheetExchanges is the Layout B sheet.
	SheetExchanges = "Livraison echanges"

	// DeliveriesSuffix names the deliveries artifact.
	DeliveriesSuffix = "_clean.json"
	// ExchangesSuffix names the exchanges artifact.
	ExchangesSuffix = "_clean-module.json"
)

// Result holds both record sets and where they were written.
type Result struct {
	Deliveries     records.Set `json:"deliveries" yaml:"deliveries"`
	Exchanges      records.Set `json:"exchanges" yaml:"exchanges"`
	DeliveriesPath string      `json:"deliveries_path" yaml:"deliveries_path"`
	ExchangesPath  string      `json:"exchanges_path" yaml:"exchanges_path"`
}

// Corpus returns the match corpus, deliveries first.
func (r *Result) Corpus() records.Corpus {
	return records.Concat(r.Deliveries, r.Exchanges)
}

// Normalizer reads workbooks and writes record artifacts.
type Normalizer struct {
	logger *zerolog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger, overriding any logger carried by the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Run normalizes the workbook at path and writes both artifacts.
//
// Both record sets are built before anything is written. Any failure is
// returned as a *errors.NormalizationError and leaves neither artifact
// behind.
func (n *Normalizer) Run(ctx context.Context, path string) (*Result, error) {
	ctx = logging.WithWorkbook(n.logContext(ctx), path)
	logger := logging.FromContext(ctx)

	wb, err := workbook.Open(path)
	if err != nil {
		return nil, errors.WrapNormalization(path, "", err)
	}
	defer func() { _ = wb.Close() }()

	deliveries, err := readSheet(wb, SheetDeliveries, Deliveries)
	if err != nil {
		return nil, err
	}
	exchanges, err := readSheet(wb, SheetExchanges, Exchanges)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.WrapNormalization(path, "", err)
	}

	deliveriesPath, exchangesPath := ArtifactPaths(path)
	if err := records.WriteArtifact(deliveriesPath, deliveries); err != nil {
		return nil, errors.WrapNormalization(path, SheetDeliveries, err)
	}
	if err := records.WriteArtifact(exchangesPath, exchanges); err != nil {
		if rmErr := os.Remove(deliveriesPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warn().Err(rmErr).Str("artifact", deliveriesPath).Msg("Failed to remove partial artifact")
		}
		return nil, errors.WrapNormalization(path, SheetExchanges, err)
	}

	logger.Debug().
		Int("deliveries", len(deliveries)).
		Int("exchanges", len(exchanges)).
		Msg("Workbook normalized")

	return &Result{
		Deliveries:     deliveries,
		Exchanges:      exchanges,
		DeliveriesPath: deliveriesPath,
		ExchangesPath:  exchangesPath,
	}, nil
}

// logContext carries the configured logger in ctx, replacing any logger
// ctx already holds.
func (n *Normalizer) logContext(ctx context.Context) context.Context {
	if n.logger == nil {
		return ctx
	}
	return logging.WithLogger(ctx, n.logger)
}

// readSheet loads one sheet and applies its layout.
func readSheet(wb *workbook.Workbook, sheet string, layout func(workbook.Grid) (records.Set, error)) (records.Set, error) {
	grid, err := wb.Sheet(sheet)
	if err != nil {
		return nil, errors.WrapNormalization(wb.Path(), sheet, err)
	}
	set, err := layout(grid)
	if err != nil {
		return nil, errors.WrapNormalization(wb.Path(), sheet, err)
	}
	return set, nil
}

// ArtifactPaths returns where the deliveries and exchanges artifacts of
// the workbook at path are written.
func ArtifactPaths(path string) (deliveries, exchanges string) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
		base = stem
	}
	return filepath.Join(dir, base+DeliveriesSuffix), filepath.Join(dir, base+ExchangesSuffix)
}
