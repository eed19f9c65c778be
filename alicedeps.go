// Package alicedeps provides the main entry point for the Alice dependency
// updater. It normalizes the delivery workbook into version records and
// patches the version properties of every Maven descriptor in a project
// tree from those records.
//
// Example usage:
//
//	client, err := alicedeps.New(alicedeps.WithPreview(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Update(ctx, "deliveries.xlsx", "./project")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rec := range result.Changes {
//	    for _, line := range rec.Lines() {
//	        fmt.Println(line)
//	    }
//	}
package alicedeps

import (
	"context"

	"github.com/google/uuid"

	"github.com/agentstation/alicedeps/pkg/errors"
	"github.com/agentstation/alicedeps/pkg/logging"
	"github.com/agentstation/alicedeps/pkg/normalize"
	"github.com/agentstation/alicedeps/pkg/pom"
	"github.com/agentstation/alicedeps/pkg/records"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client runs normalize and patch passes.
type Client interface {
	// Normalize reads the workbook and writes both record artifacts
	// next to it.
	Normalize(ctx context.Context, workbookPath string) (*normalize.Result, error)

	// LoadRecords reads two previously written artifacts back into a
	// corpus, deliveries first.
	LoadRecords(deliveriesPath, exchangesPath string) (records.Corpus, error)

	// Patch rewrites the descriptors under projectDir from deliveries
	// and exchanges, in that priority order.
	Patch(ctx context.Context, projectDir string, deliveries, exchanges records.Set) ([]pom.ChangeRecord, error)

	// PatchCorpus rewrites the descriptors under projectDir from an
	// already assembled corpus.
	PatchCorpus(ctx context.Context, projectDir string, corpus records.Corpus) ([]pom.ChangeRecord, error)

	// Update normalizes the workbook, then patches projectDir from the
	// records it produced.
	Update(ctx context.Context, workbookPath, projectDir string) (*UpdateResult, error)

	// Preview reports whether patches are computed without writing.
	Preview() bool
}

// UpdateResult is the outcome of one Update.
type UpdateResult struct {
	RunID     string             `json:"run_id" yaml:"run_id"`
	Preview   bool               `json:"preview" yaml:"preview"`
	Normalize *normalize.Result  `json:"normalize" yaml:"normalize"`
	Changes   []pom.ChangeRecord `json:"changes" yaml:"changes"`
}

// Total returns the number of changed properties across all files.
func (r *UpdateResult) Total() int {
	return pom.Summary(r.Changes)
}

// client is the Client implementation.
type client struct {
	config *config
}

// New creates a Client with the given options.
func New(opts ...Option) (Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errors.NewConfigError("client", "applying options", err)
		}
	}
	return &client{config: cfg}, nil
}

// Preview reports whether the client runs in preview mode.
func (c *client) Preview() bool {
	return c.config.preview
}

// Normalize implements Client.
func (c *client) Normalize(ctx context.Context, workbookPath string) (*normalize.Result, error) {
	ctx = c.runContext(ctx)
	logger := logging.FromContext(ctx)
	logger.Info().Str("workbook", workbookPath).Msg("Normalizing workbook")

	result, err := normalize.New(normalize.WithLogger(logger)).Run(ctx, workbookPath)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("deliveries", result.DeliveriesPath).
		Str("exchanges", result.ExchangesPath).
		Int("records", result.Corpus().Len()).
		Msg("Record artifacts written")
	return result, nil
}

// LoadRecords implements Client.
func (c *client) LoadRecords(deliveriesPath, exchangesPath string) (records.Corpus, error) {
	deliveries, err := records.ReadArtifact(deliveriesPath)
	if err != nil {
		return records.Corpus{}, errors.WrapResource("load", "records", deliveriesPath, err)
	}
	exchanges, err := records.ReadArtifact(exchangesPath)
	if err != nil {
		return records.Corpus{}, errors.WrapResource("load", "records", exchangesPath, err)
	}
	return records.Concat(deliveries, exchanges), nil
}

// Patch implements Client.
func (c *client) Patch(ctx context.Context, projectDir string, deliveries, exchanges records.Set) ([]pom.ChangeRecord, error) {
	return c.PatchCorpus(ctx, projectDir, records.Concat(deliveries, exchanges))
}

// PatchCorpus implements Client.
func (c *client) PatchCorpus(ctx context.Context, projectDir string, corpus records.Corpus) ([]pom.ChangeRecord, error) {
	return c.patch(c.runContext(ctx), projectDir, corpus)
}

// Update implements Client.
func (c *client) Update(ctx context.Context, workbookPath, projectDir string) (*UpdateResult, error) {
	ctx = c.runContext(ctx)

	result, err := c.Normalize(ctx, workbookPath)
	if err != nil {
		return nil, err
	}

	corpus := result.Corpus()
	if corpus.Len() == 0 {
		return nil, errors.ErrNoRecords
	}

	changes, err := c.patch(ctx, projectDir, corpus)
	if err != nil {
		return nil, err
	}

	return &UpdateResult{
		RunID:     logging.RunID(ctx),
		Preview:   c.config.preview,
		Normalize: result,
		Changes:   changes,
	}, nil
}

func (c *client) patch(ctx context.Context, projectDir string, corpus records.Corpus) ([]pom.ChangeRecord, error) {
	logger := logging.FromContext(ctx)
	logger.Info().
		Str("project", projectDir).
		Int("records", corpus.Len()).
		Bool("preview", c.config.preview).
		Msg("Patching descriptors")

	patcher := pom.NewPatcher(pom.WithPreview(c.config.preview), pom.WithLogger(logger))
	changes, err := patcher.Run(ctx, projectDir, corpus)
	if err != nil {
		return nil, err
	}

	logger.Info().Int("files", len(changes)).Int("changes", pom.Summary(changes)).Msg("Patch complete")
	return changes, nil
}

// runContext starts a run: it attaches the client logger and a fresh run
// id. A context that already carries a run id is returned unchanged so
// nested calls log under the same run.
func (c *client) runContext(ctx context.Context) context.Context {
	if logging.RunID(ctx) != "" {
		return ctx
	}
	if c.config.logger != nil {
		ctx = logging.WithLogger(ctx, c.config.logger)
	}
	return logging.WithRunID(ctx, uuid.NewString())
}
