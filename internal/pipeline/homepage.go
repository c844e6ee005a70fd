package pipeline

import (
	"context"

	"tabbycat/internal/catalog"
	"tabbycat/internal/logging"
)

// HomepageRequest describes a homepage update run.
type HomepageRequest struct {
	// DatasetPath is the root of the superdataset.
	DatasetPath string
	// AddToCatalog registers the extracted entries with the catalog engine.
	// When false the run is a dry extraction: nothing outside the log and
	// journal changes.
	AddToCatalog bool
}

// HomepageResult carries the extracted catalog entries.
type HomepageResult struct {
	Core  *catalog.DatasetEntry
	Entry *catalog.DatasetEntry
	Files []catalog.FileEntry
}

// Homepage extracts the superdataset's catalog entries and optionally
// registers them as the catalog's home page.
func (p *Pipeline) Homepage(ctx context.Context, req HomepageRequest) (*HomepageResult, error) {
	ctx = logging.WithOperation(ctx, "homepage")

	core, entry, files, err := p.selfEntries(ctx, req.DatasetPath)
	if err != nil {
		return nil, err
	}
	ctx = logging.WithDataset(ctx, entry.DatasetID)
	p.logger.InfoContext(ctx, "extracted homepage metadata",
		"version", entry.DatasetVersion,
		"files", len(files))

	result := &HomepageResult{Core: core, Entry: entry, Files: files}
	if !req.AddToCatalog {
		return result, nil
	}

	release, err := acquireLock(p.cfg.Paths.JournalDir)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := p.registerHomepage(ctx, result); err != nil {
		return nil, err
	}
	if err := p.setHome(ctx, result.Entry.DatasetID, result.Entry.DatasetVersion); err != nil {
		return nil, err
	}
	return result, nil
}

// registerHomepage adds the homepage entries to the catalog. Registration is
// per-entry; a failure partway leaves earlier entries in place (visible in
// the journal). Pointing the catalog's home property at the new version is a
// separate step so ingestion can order it after the subdataset entries.
func (p *Pipeline) registerHomepage(ctx context.Context, result *HomepageResult) error {
	configFile := p.cfg.SuperdsConfigPath()

	if err := p.addEntry(ctx, result.Core, result.Core.DatasetID, result.Core.DatasetVersion, configFile); err != nil {
		return err
	}
	if err := p.addEntry(ctx, result.Entry, result.Entry.DatasetID, result.Entry.DatasetVersion, configFile); err != nil {
		return err
	}
	for _, file := range result.Files {
		if err := p.addEntry(ctx, file, file.DatasetID, file.DatasetVersion, configFile); err != nil {
			return err
		}
	}
	return nil
}
