package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"tabbycat/internal/config"
	"tabbycat/internal/datalad"
	"tabbycat/internal/journal"
	"tabbycat/internal/logging"
	"tabbycat/internal/pipeline"
	"tabbycat/internal/testsupport"
)

const headCommit = "deadbeefcafe00112233445566778899aabbccdd"

func newTestPipeline(t *testing.T, rec *testsupport.RecordingExecutor, opts ...pipeline.Option) (*pipeline.Pipeline, *config.Config) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	client, err := datalad.New("datalad", "git", 5, datalad.WithExecutor(rec))
	if err != nil {
		t.Fatalf("datalad.New: %v", err)
	}
	p, err := pipeline.New(cfg, logging.NewNop(), client, opts...)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	return p, cfg
}

func newSuperdatasetExecutor(t *testing.T, id string) *testsupport.RecordingExecutor {
	t.Helper()
	rec := testsupport.NewRecordingExecutor()
	rec.Respond("config", id+"\n")
	rec.Respond("rev-parse", headCommit+"\n")
	return rec
}

func hasArg(args []string, want string) bool {
	for _, arg := range args {
		if arg == want {
			return true
		}
	}
	return false
}

func TestHomepageExtractsWithoutCatalogCalls(t *testing.T) {
	rec := newSuperdatasetExecutor(t, "super-id")
	p, _ := newTestPipeline(t, rec)
	root := testsupport.WriteSuperdataset(t, "super-id")

	result, err := p.Homepage(context.Background(), pipeline.HomepageRequest{DatasetPath: root})
	if err != nil {
		t.Fatalf("Homepage: %v", err)
	}

	if result.Core.DatasetID != "super-id" || result.Core.DatasetVersion != headCommit {
		t.Fatalf("core identity %s@%s", result.Core.DatasetID, result.Core.DatasetVersion)
	}
	if result.Entry.DatasetID != "super-id" {
		t.Fatalf("entry id %q", result.Entry.DatasetID)
	}
	if result.Entry.Name != "The homepage dataset" {
		t.Fatalf("entry name %q", result.Entry.Name)
	}
	if len(result.Files) != 2 {
		t.Fatalf("file entries %d, want 2", len(result.Files))
	}

	if calls := rec.CallsFor("catalog-add"); len(calls) != 0 {
		t.Fatalf("catalog-add called %d times without --add-to-catalog", len(calls))
	}
	if calls := rec.CallsFor("catalog-set"); len(calls) != 0 {
		t.Fatalf("catalog-set called %d times without --add-to-catalog", len(calls))
	}
}

func TestHomepageRegistersEntries(t *testing.T) {
	rec := newSuperdatasetExecutor(t, "super-id")
	p, cfg := newTestPipeline(t, rec)
	root := testsupport.WriteSuperdataset(t, "super-id")

	result, err := p.Homepage(context.Background(), pipeline.HomepageRequest{
		DatasetPath:  root,
		AddToCatalog: true,
	})
	if err != nil {
		t.Fatalf("Homepage: %v", err)
	}

	adds := rec.CallsFor("catalog-add")
	wantAdds := 2 + len(result.Files) // core + tabby entry + files
	if len(adds) != wantAdds {
		t.Fatalf("catalog-add calls %d, want %d", len(adds), wantAdds)
	}
	superdsConfig := cfg.SuperdsConfigPath()
	for _, call := range adds {
		if !hasArg(call.Args, superdsConfig) {
			t.Fatalf("catalog-add args %v missing superds config %s", call.Args, superdsConfig)
		}
	}

	sets := rec.CallsFor("catalog-set")
	if len(sets) != 1 {
		t.Fatalf("catalog-set calls %d, want 1", len(sets))
	}
	if !hasArg(sets[0].Args, "super-id") || !hasArg(sets[0].Args, headCommit) {
		t.Fatalf("catalog-set args %v", sets[0].Args)
	}

	all := rec.Calls()
	if all[len(all)-1].Op() != "catalog-set" {
		t.Fatalf("last operation %q, home must be set after all adds", all[len(all)-1].Op())
	}
}

func TestHomepageJournalsOperations(t *testing.T) {
	rec := newSuperdatasetExecutor(t, "super-id")

	store, err := journal.Open(t.TempDir())
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	defer store.Close()

	p, _ := newTestPipeline(t, rec, pipeline.WithJournal(store))
	root := testsupport.WriteSuperdataset(t, "super-id")

	if _, err := p.Homepage(context.Background(), pipeline.HomepageRequest{
		DatasetPath:  root,
		AddToCatalog: true,
	}); err != nil {
		t.Fatalf("Homepage: %v", err)
	}

	entries, err := store.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no journal entries recorded")
	}
	if entries[0].Action != journal.ActionCatalogSet {
		t.Fatalf("newest action %q, want catalog-set", entries[0].Action)
	}
	for _, entry := range entries {
		if entry.Status != journal.StatusOK {
			t.Fatalf("entry %+v not ok", entry)
		}
	}
}

func TestHomepageExternalFailure(t *testing.T) {
	rec := testsupport.NewRecordingExecutor()
	rec.Fail("config", errors.New("exit status 1"))
	p, _ := newTestPipeline(t, rec)
	root := testsupport.WriteSuperdataset(t, "super-id")

	_, err := p.Homepage(context.Background(), pipeline.HomepageRequest{DatasetPath: root})
	if err == nil {
		t.Fatal("expected failure when the dataset id cannot be resolved")
	}
	if !errors.Is(err, pipeline.ErrExternal) {
		t.Fatalf("error %v not classified as external", err)
	}
}

func TestHomepageMissingSelfSheets(t *testing.T) {
	rec := newSuperdatasetExecutor(t, "super-id")
	p, _ := newTestPipeline(t, rec)

	// A plain directory without self-describing tabby sheets.
	_, err := p.Homepage(context.Background(), pipeline.HomepageRequest{DatasetPath: t.TempDir()})
	if err == nil {
		t.Fatal("expected failure without self sheets")
	}
	if !errors.Is(err, pipeline.ErrInput) {
		t.Fatalf("error %v not classified as input", err)
	}
}
