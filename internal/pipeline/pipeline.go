package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/user"

	"tabbycat/internal/catalog"
	"tabbycat/internal/config"
	"tabbycat/internal/datalad"
	"tabbycat/internal/journal"
	"tabbycat/internal/logging"
	"tabbycat/internal/tabby"
)

// Pipeline executes the metadata transformation and registration workflows.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	datalad   *datalad.Client
	journal   *journal.Store
	agentName string

	resolveSpecies      catalog.TermResolver
	resolveParcellation catalog.TermResolver
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithJournal records every catalog and version-control operation in the
// given store. Without it, operations are only logged.
func WithJournal(store *journal.Store) Option {
	return func(p *Pipeline) {
		p.journal = store
	}
}

// WithTermResolvers enriches sample ontology terms in mapped entries.
func WithTermResolvers(species, parcellation catalog.TermResolver) Option {
	return func(p *Pipeline) {
		p.resolveSpecies = species
		p.resolveParcellation = parcellation
	}
}

// New constructs a pipeline.
func New(cfg *config.Config, logger *slog.Logger, client *datalad.Client, opts ...Option) (*Pipeline, error) {
	if cfg == nil || client == nil {
		return nil, Wrap(ErrConfiguration, "new", "pipeline requires config and datalad client", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{cfg: cfg, logger: logger, datalad: client}
	if u, err := user.Current(); err == nil {
		p.agentName = u.Username
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// selfEntries extracts the catalog entries describing the superdataset
// itself: a minimal core item plus the tabby-derived dataset and file items
// from its self-describing sheets.
func (p *Pipeline) selfEntries(ctx context.Context, datasetPath string) (*catalog.DatasetEntry, *catalog.DatasetEntry, []catalog.FileEntry, error) {
	id, err := p.datalad.DatasetID(ctx, datasetPath)
	if err != nil {
		return nil, nil, nil, Wrap(ErrExternal, "homepage", "resolve dataset id", err)
	}
	version, err := p.datalad.HeadVersion(ctx, datasetPath)
	if err != nil {
		return nil, nil, nil, Wrap(ErrExternal, "homepage", "resolve dataset version", err)
	}

	doc, err := tabby.Load(p.cfg.SelfSheetPath(datasetPath))
	if err != nil {
		return nil, nil, nil, Wrap(ErrInput, "homepage", "load self tabby sheets", err)
	}

	entry, files, err := catalog.MapDocument(doc, catalog.Options{
		IDSource:            catalog.IDSourceDataset,
		DatasetID:           id,
		DatasetVersion:      version,
		IDFormat:            p.cfg.Tabby.IDFormat,
		ResolveSpecies:      p.resolveSpecies,
		ResolveParcellation: p.resolveParcellation,
		AgentName:           p.agentName,
	})
	if err != nil {
		return nil, nil, nil, Wrap(ErrSchema, "homepage", "map self tabby sheets", err)
	}

	core := catalog.CoreEntry(id, version, entry.URL, p.agentName, nil)
	return core, entry, files, nil
}

// addEntry registers one catalog item and journals the outcome.
func (p *Pipeline) addEntry(ctx context.Context, item any, id, version, configFile string) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return Wrap(ErrSchema, "catalog-add", "encode entry", err)
	}

	err = p.datalad.CatalogAdd(ctx, p.cfg.Paths.CatalogDir, string(payload), configFile)
	p.record(ctx, journal.Entry{
		DatasetID:      id,
		DatasetVersion: version,
		Action:         journal.ActionCatalogAdd,
		Detail:         entryDetail(item),
		Status:         statusFor(err),
	})
	if err != nil {
		return Wrap(ErrExternal, "catalog-add", "", err)
	}
	return nil
}

// setHome marks the given dataset version as the catalog home page.
func (p *Pipeline) setHome(ctx context.Context, id, version string) error {
	err := p.datalad.CatalogSet(ctx, p.cfg.Paths.CatalogDir, id, version)
	p.record(ctx, journal.Entry{
		DatasetID:      id,
		DatasetVersion: version,
		Action:         journal.ActionCatalogSet,
		Detail:         "home",
		Status:         statusFor(err),
	})
	if err != nil {
		return Wrap(ErrExternal, "catalog-set", "", err)
	}
	return nil
}

// record journals an operation on a best-effort basis; journal failures are
// logged but never fail the pipeline.
func (p *Pipeline) record(ctx context.Context, entry journal.Entry) {
	if p.journal == nil {
		return
	}
	if err := p.journal.Record(ctx, entry); err != nil {
		p.logger.WarnContext(ctx, "journal write failed",
			slog.String("action", entry.Action),
			slog.String("error", err.Error()))
	}
}

func statusFor(err error) string {
	if err != nil {
		return journal.StatusFailed
	}
	return journal.StatusOK
}

func entryDetail(item any) string {
	switch v := item.(type) {
	case *catalog.DatasetEntry:
		return "dataset"
	case catalog.FileEntry:
		return fmt.Sprintf("file %s", v.Path)
	case *catalog.FileEntry:
		return fmt.Sprintf("file %s", v.Path)
	default:
		return ""
	}
}
