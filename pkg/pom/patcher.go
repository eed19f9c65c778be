// Package pom patches version properties in a tree of Maven descriptors.
//
// Every regular file named pom.xml under a project root is parsed, the
// direct children of its <properties> block whose names end in ".version"
// are matched against a records.Corpus, and differing values are rewritten.
// Matching is substring containment and the first record in corpus order
// wins. In preview mode the change log is computed but nothing is written.
//
// A descriptor that fails to parse aborts the whole run. Files already
// rewritten by then stay rewritten.
package pom

import (
	"context"

	"github.com/karrick/godirwalk"
	"github.com/rs/zerolog"

	"github.com/agentstation/alicedeps/pkg/errors"
	"github.com/agentstation/alicedeps/pkg/logging"
	"github.com/agentstation/alicedeps/pkg/records"
)

// Patcher runs patch passes over project trees.
type Patcher struct {
	preview bool
	logger  *zerolog.Logger
}

// Option configures a Patcher.
type Option func(*Patcher)

// WithPreview computes changes without writing any file.
func WithPreview(preview bool) Option {
	return func(p *Patcher) {
		p.preview = preview
	}
}

// WithLogger sets the logger, overriding any logger carried by the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(p *Patcher) {
		p.logger = logger
	}
}

// NewPatcher creates a Patcher.
func NewPatcher(opts ...Option) *Patcher {
	p := &Patcher{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Preview reports whether the patcher runs in preview mode.
func (p *Patcher) Preview() bool {
	return p.preview
}

// Run patches every descriptor under root, in the host filesystem's
// directory order, and returns one ChangeRecord per changed file.
// The first error stops the walk and is returned as a *errors.PatchError.
func (p *Patcher) Run(ctx context.Context, root string, corpus records.Corpus) ([]ChangeRecord, error) {
	ctx = logging.WithProject(p.logContext(ctx), root)
	logger := logging.FromContext(ctx).With().Bool("preview", p.preview).Logger()

	var log []ChangeRecord
	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if de.Name() != FileName || !de.IsRegular() {
				return nil
			}
			record, err := p.patchFile(&logger, path, corpus)
			if err != nil {
				return err
			}
			if record != nil {
				log = append(log, *record)
			}
			return nil
		},
	})
	if err != nil {
		return nil, errors.WrapPatch("walk", root, err)
	}

	logger.Debug().Int("files", len(log)).Int("changes", Summary(log)).Msg("Patch run complete")
	return log, nil
}

// PatchFile runs a single patch pass over the descriptor at path. It
// returns nil when the file has no properties block or nothing to change.
func (p *Patcher) PatchFile(ctx context.Context, path string, corpus records.Corpus) (*ChangeRecord, error) {
	return p.patchFile(logging.FromContext(p.logContext(ctx)), path, corpus)
}

func (p *Patcher) patchFile(logger *zerolog.Logger, path string, corpus records.Corpus) (*ChangeRecord, error) {
	desc, err := Load(path)
	if err != nil {
		op := "parse"
		var ioErr *errors.IOError
		if errors.As(err, &ioErr) {
			op = "read"
		}
		return nil, errors.NewPatchError(op, path, err)
	}

	if desc.Properties() == nil {
		logger.Debug().Str("file", path).Msg("No properties block, skipping")
		return nil, nil
	}

	var changes []Change
	for _, prop := range desc.VersionProperties() {
		match, ok := corpus.Match(prop.Tag)
		if !ok || match.Version == "" {
			continue
		}
		current := prop.Text()
		if current == match.Version {
			continue
		}
		changes = append(changes, Change{Tag: prop.Tag, Old: current, New: match.Version})
		if !p.preview {
			prop.SetText(match.Version)
		}
	}

	if len(changes) == 0 {
		return nil, nil
	}

	if !p.preview {
		if err := desc.Save(); err != nil {
			return nil, errors.NewPatchError("write", path, err)
		}
		logger.Info().Str("file", path).Int("changes", len(changes)).Msg("Descriptor updated")
	}

	return &ChangeRecord{File: path, Changes: changes}, nil
}

// logContext carries the configured logger in ctx, replacing any logger
// ctx already holds.
func (p *Patcher) logContext(ctx context.Context) context.Context {
	if p.logger != nil {
		return logging.WithLogger(ctx, p.logger)
	}
	return ctx
}
