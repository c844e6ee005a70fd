package pipeline

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"tabbycat/internal/catalog"
	"tabbycat/internal/journal"
	"tabbycat/internal/linkage"
	"tabbycat/internal/logging"
	"tabbycat/internal/tabby"
)

// Which mapped entries of the new dataset are registered with the catalog.
const (
	AddTypeDataset = "dataset"
	AddTypeFile    = "file"
	AddTypeBoth    = "both"
)

// IngestRequest describes a dataset ingestion run.
type IngestRequest struct {
	// DatasetPath is the root of the superdataset.
	DatasetPath string
	// Subdir is the new dataset's path relative to DatasetPath, holding its
	// tabby sheets.
	Subdir string
	// DatasetType is "datalad" or "other" and selects the identifier source.
	DatasetType string
	// AddToCatalog registers the produced entries with the catalog engine.
	AddToCatalog bool
	// HideAccessRequest selects the catalog config without the access
	// request button for the new dataset's entries.
	HideAccessRequest bool
	// IgnoreSuper skips subdataset registration and homepage re-extraction.
	IgnoreSuper bool
	// AddType limits which of the new dataset's entries are registered:
	// dataset, file, or both (the default).
	AddType string
}

// IngestResult carries the produced entries and what changed on disk.
type IngestResult struct {
	Entry          *catalog.DatasetEntry
	Files          []catalog.FileEntry
	LinkageChanged bool
	Homepage       *HomepageResult
}

// Ingest runs the full dataset ingestion workflow: map the new dataset's
// tabby sheets, link it from the superdataset, commit the link, and
// optionally register everything with the catalog.
func (p *Pipeline) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	ctx = logging.WithOperation(ctx, "ingest")

	req.AddType = strings.TrimSpace(req.AddType)
	if req.AddType == "" {
		req.AddType = AddTypeBoth
	}
	switch req.AddType {
	case AddTypeDataset, AddTypeFile, AddTypeBoth:
	default:
		return nil, Wrap(ErrInput, "ingest", fmt.Sprintf("unknown add type %q", req.AddType), nil)
	}

	idSource, err := catalog.IDSourceForDatasetType(req.DatasetType)
	if err != nil {
		return nil, Wrap(ErrInput, "ingest", "", err)
	}

	release, err := acquireLock(p.cfg.Paths.JournalDir)
	if err != nil {
		return nil, err
	}
	defer release()

	subdir := path.Clean(filepath.ToSlash(req.Subdir))
	sheetPath := filepath.Join(req.DatasetPath, filepath.FromSlash(subdir), p.cfg.RootSheetName())
	doc, err := tabby.Load(sheetPath)
	if err != nil {
		return nil, Wrap(ErrInput, "ingest", "load dataset tabby sheets", err)
	}

	entry, files, err := catalog.MapDocument(doc, catalog.Options{
		IDSource:            idSource,
		IDFormat:            p.cfg.Tabby.IDFormat,
		ResolveSpecies:      p.resolveSpecies,
		ResolveParcellation: p.resolveParcellation,
		AgentName:           p.agentName,
	})
	if err != nil {
		return nil, Wrap(ErrSchema, "ingest", "map dataset tabby sheets", err)
	}
	ctx = logging.WithDataset(ctx, entry.DatasetID)
	p.logger.InfoContext(ctx, "mapped dataset metadata",
		"path", subdir,
		"version", entry.DatasetVersion,
		"files", len(files))

	result := &IngestResult{Entry: entry, Files: files}

	if !req.IgnoreSuper {
		changed, err := p.linkSubdataset(ctx, req, subdir, entry)
		if err != nil {
			return nil, err
		}
		result.LinkageChanged = changed

		homepage, err := p.refreshHomepage(ctx, req.DatasetPath)
		if err != nil {
			return nil, err
		}
		result.Homepage = homepage
	}

	if req.AddToCatalog {
		if err := p.registerIngest(ctx, req, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// linkSubdataset records the new dataset in the superdataset's linkage sheet
// and commits the change when the sheet actually changed.
func (p *Pipeline) linkSubdataset(ctx context.Context, req IngestRequest, subdir string, entry *catalog.DatasetEntry) (bool, error) {
	row := linkage.Row{
		DatasetType: strings.ToUpper(req.DatasetType),
		Identifier:  entry.DatasetID,
		Version:     entry.DatasetVersion,
		PathPosix:   subdir,
	}
	// Only datalad datasets carry a clone URL worth recording.
	if req.DatasetType == catalog.DatasetTypeDatalad {
		row.URL = entry.URL
	}

	sheetPath := p.cfg.SubdatasetsSheetPath(req.DatasetPath)
	changed, err := linkage.Register(sheetPath, row)
	p.record(ctx, journal.Entry{
		DatasetID:      entry.DatasetID,
		DatasetVersion: entry.DatasetVersion,
		Action:         journal.ActionLink,
		Detail:         subdir,
		Status:         statusFor(err),
	})
	if err != nil {
		return false, Wrap(ErrInput, "ingest", "register subdataset link", err)
	}
	if !changed {
		p.logger.InfoContext(ctx, "subdataset already linked", "path", subdir)
		return false, nil
	}

	message := fmt.Sprintf("Adds new sub-directory (%s) as a subdataset in tabby metadata", subdir)
	err = p.datalad.Save(ctx, req.DatasetPath, message)
	p.record(ctx, journal.Entry{
		DatasetID:      entry.DatasetID,
		DatasetVersion: entry.DatasetVersion,
		Action:         journal.ActionSave,
		Detail:         message,
		Status:         statusFor(err),
	})
	if err != nil {
		return false, Wrap(ErrExternal, "ingest", "save superdataset", err)
	}
	p.logger.InfoContext(ctx, "subdataset linked and committed", "path", subdir)
	return true, nil
}

// refreshHomepage re-extracts the superdataset metadata after the linkage
// sheet (and thus HEAD) may have changed.
func (p *Pipeline) refreshHomepage(ctx context.Context, datasetPath string) (*HomepageResult, error) {
	core, entry, files, err := p.selfEntries(ctx, datasetPath)
	if err != nil {
		return nil, err
	}
	return &HomepageResult{Core: core, Entry: entry, Files: files}, nil
}

// registerIngest adds the homepage and new-dataset entries to the catalog
// per the request's scope flags.
func (p *Pipeline) registerIngest(ctx context.Context, req IngestRequest, result *IngestResult) error {
	if !req.IgnoreSuper && result.Homepage != nil {
		if err := p.registerHomepage(ctx, result.Homepage); err != nil {
			return err
		}
	}

	subdsConfig := p.cfg.SubdsConfigPath(req.HideAccessRequest)
	if req.AddType == AddTypeDataset || req.AddType == AddTypeBoth {
		if err := p.addEntry(ctx, result.Entry, result.Entry.DatasetID, result.Entry.DatasetVersion, subdsConfig); err != nil {
			return err
		}
	}
	if req.AddType == AddTypeFile || req.AddType == AddTypeBoth {
		for _, file := range result.Files {
			if err := p.addEntry(ctx, file, file.DatasetID, file.DatasetVersion, subdsConfig); err != nil {
				return err
			}
		}
	}

	if !req.IgnoreSuper && result.Homepage != nil {
		if err := p.setHome(ctx, result.Homepage.Entry.DatasetID, result.Homepage.Entry.DatasetVersion); err != nil {
			return err
		}
	}
	p.logger.InfoContext(ctx, "dataset registered with catalog", "add_type", req.AddType)
	return nil
}
