package catalog

import (
	"errors"
	"fmt"
	"time"

	"tabbycat/internal/tabby"
)

// IDSource selects how a dataset's catalog identifier and version are
// determined.
type IDSource string

const (
	// IDSourceMint derives a deterministic UUID from the tabby name field.
	IDSourceMint IDSource = "tabby_mint"
	// IDSourceDirect uses the tabby name field verbatim as the identifier.
	IDSourceDirect IDSource = "tabby_direct"
	// IDSourceDataset uses the identifier and version of the enclosing
	// datalad dataset, supplied by the caller.
	IDSourceDataset IDSource = "datalad_dataset"
)

// Dataset type tags accepted by the ingestion pipeline.
const (
	DatasetTypeDatalad = "datalad"
	DatasetTypeOther   = "other"
)

// ErrUnknownDatasetType indicates an unrecognized dataset-type tag.
var ErrUnknownDatasetType = errors.New("unknown dataset type")

// IDSourceForDatasetType maps a dataset-type tag to the ID source it
// implies: datalad datasets carry their own identifier in the tabby record,
// anything else gets a minted one.
func IDSourceForDatasetType(datasetType string) (IDSource, error) {
	switch datasetType {
	case DatasetTypeDatalad:
		return IDSourceDirect, nil
	case DatasetTypeOther:
		return IDSourceMint, nil
	default:
		return "", fmt.Errorf("%w: %q (expected %q or %q)", ErrUnknownDatasetType, datasetType, DatasetTypeDatalad, DatasetTypeOther)
	}
}

// TermResolver turns an ontology term like NCBITaxon:10090 into a display
// representation. Returning nil keeps the raw term.
type TermResolver func(term string) any

// Options controls the tabby-to-catalog mapping.
type Options struct {
	IDSource IDSource
	// DatasetID and DatasetVersion are required for IDSourceDataset.
	DatasetID      string
	DatasetVersion string
	// IDFormat is the minting convention for IDSourceMint.
	IDFormat string
	// ResolveSpecies and ResolveParcellation enrich sample terms for the
	// additional display tab. Optional.
	ResolveSpecies      TermResolver
	ResolveParcellation TermResolver
	// AgentName names who ran the extraction in metadata_sources. Optional.
	AgentName string
	// Now overrides the extraction timestamp. Defaults to time.Now.
	Now func() time.Time
}

const (
	sourceName    = "tabby"
	sourceVersion = "0.1.0"

	coreSourceName    = "tabbycat_core"
	coreSourceVersion = "0.1.0"

	displayTabName = "ABCD-J"
	displayTabIcon = "fa-solid fa-graduation-cap"
)

// MapDocument transforms a loaded tabby document into one catalog dataset
// entry plus one file entry per row of the files sheet.
func MapDocument(doc *tabby.Document, opts Options) (*DatasetEntry, []FileEntry, error) {
	id, version, err := resolveIdentity(doc, opts)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	sources := MetadataSources{
		KeySourceMap: map[string][]string{},
		Sources: []Source{{
			SourceName:    sourceName,
			SourceVersion: sourceVersion,
			SourceTime:    float64(now().Unix()),
			AgentName:     opts.AgentName,
		}},
	}

	entry := &DatasetEntry{
		Type:            "dataset",
		DatasetID:       id,
		DatasetVersion:  version,
		MetadataSources: sources,
		Name:            doc.String("title"),
		Description:     firstString(doc, "description"),
		DOI:             doc.String("doi"),
		License:         convertLicense(doc.String("license")),
		Authors:         convertAuthors(doc.Records("authors")),
		Keywords:        firstStrings(doc, "keywords", "keyword"),
		Funding:         convertFunding(doc.Records("funding")),
		Publications:    convertPublications(firstRecords(doc, "publications", "publication")),
		Subdatasets:     convertSubdatasets(doc.Records("subdatasets")),
		URL:             doc.String("homepage"),
	}
	entry.AccessRequestContact = convertAccessRequestContact(firstRecords(doc, "data-controller", "dataController"))
	if entry.Subdatasets == nil {
		entry.Subdatasets = []SubdatasetRef{}
	}
	entry.AdditionalDisplay = additionalDisplay(doc, opts)

	files, err := mapFiles(doc, entry, opts.AgentName, now)
	if err != nil {
		return nil, nil, err
	}
	return entry, files, nil
}

// CoreEntry builds the minimal dataset item that carries a dataset's
// identity without any tabby-derived content. It stands in for the core
// extractor of the cataloging engine when registering the homepage.
func CoreEntry(id, version, url, agentName string, now func() time.Time) *DatasetEntry {
	if now == nil {
		now = time.Now
	}
	return &DatasetEntry{
		Type:           "dataset",
		DatasetID:      id,
		DatasetVersion: version,
		MetadataSources: MetadataSources{
			KeySourceMap: map[string][]string{},
			Sources: []Source{{
				SourceName:    coreSourceName,
				SourceVersion: coreSourceVersion,
				SourceTime:    float64(now().Unix()),
				AgentName:     agentName,
			}},
		},
		Subdatasets: []SubdatasetRef{},
		URL:         url,
	}
}

func resolveIdentity(doc *tabby.Document, opts Options) (string, string, error) {
	switch opts.IDSource {
	case IDSourceMint:
		name := doc.String("name")
		if name == "" {
			return "", "", errors.New("tabby record has no name field to mint an identifier from")
		}
		return MintDatasetID(name, opts.IDFormat), versionOrLatest(doc), nil
	case IDSourceDirect:
		name := doc.String("name")
		if name == "" {
			return "", "", errors.New("tabby record has no name field to use as identifier")
		}
		return name, versionOrLatest(doc), nil
	case IDSourceDataset:
		if opts.DatasetID == "" || opts.DatasetVersion == "" {
			return "", "", errors.New("id source datalad_dataset requires DatasetID and DatasetVersion")
		}
		return opts.DatasetID, opts.DatasetVersion, nil
	default:
		return "", "", fmt.Errorf("unknown id source %q", opts.IDSource)
	}
}

func versionOrLatest(doc *tabby.Document) string {
	if v := doc.String("version"); v != "" {
		return v
	}
	return "latest"
}

// additionalDisplay assembles the extra display tab shown by the catalog.
// IRIs are spelled out in an explicit context so the catalog renders them as
// working links.
func additionalDisplay(doc *tabby.Document, opts Options) []DisplayTab {
	content := map[string]any{
		"@context": map[string]any{
			"homepage":               "https://schema.org/mainEntityOfPage",
			"data controller":        "https://w3id.org/dpv#hasDataController",
			"sample (organism)":      "https://openminds.ebrains.eu/controlledTerms/Species",
			"sample (organism part)": "https://openminds.ebrains.eu/controlledTerms/UBERONParcellation",
			"used for":               "http://www.w3.org/ns/prov#hadUsage",
		},
	}

	if v := homepageContent(doc.Strings("homepage")); v != nil {
		content["homepage"] = v
	}
	if v := dataControllerContent(firstRecords(doc, "data-controller", "dataController")); v != nil {
		content["data controller"] = v
	}
	if v := usedForContent(firstRecords(doc, "used-for", "usedFor")); v != nil {
		content["used for"] = v
	}
	if v := resolveTerms(firstStrings(doc, "sample[organism]", "sampleOrganism"), opts.ResolveSpecies); v != nil {
		content["sample (organism)"] = v
	}
	if v := resolveTerms(firstStrings(doc, "sample[organism-part]", "samplePart"), opts.ResolveParcellation); v != nil {
		content["sample (organism part)"] = v
	}

	if len(content) == 1 { // only @context
		return nil
	}
	return []DisplayTab{{Name: displayTabName, Icon: displayTabIcon, Content: content}}
}

func resolveTerms(terms []string, resolver TermResolver) any {
	if len(terms) == 0 {
		return nil
	}
	out := make([]any, 0, len(terms))
	for _, term := range terms {
		if resolver != nil {
			if v := resolver(term); v != nil {
				out = append(out, v)
				continue
			}
		}
		out = append(out, term)
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func mapFiles(doc *tabby.Document, entry *DatasetEntry, agentName string, now func() time.Time) ([]FileEntry, error) {
	records := firstRecords(doc, "files", "fileList")
	if len(records) == 0 {
		return nil, nil
	}

	// Identity and provenance are constant across the listing.
	base := FileEntry{
		Type:           "file",
		DatasetID:      entry.DatasetID,
		DatasetVersion: entry.DatasetVersion,
		MetadataSources: MetadataSources{
			KeySourceMap: map[string][]string{},
			Sources: []Source{{
				SourceName:    sourceName,
				SourceVersion: sourceVersion,
				SourceTime:    float64(now().Unix()),
				AgentName:     agentName,
			}},
		},
	}

	files := make([]FileEntry, 0, len(records))
	for _, rec := range records {
		path, size, url, err := convertFile(rec)
		if err != nil {
			return nil, err
		}
		file := base
		file.Path = path
		file.ContentBytesize = size
		file.URL = url
		files = append(files, file)
	}
	return files, nil
}

func firstString(doc *tabby.Document, keys ...string) string {
	for _, key := range keys {
		if v := doc.String(key); v != "" {
			return v
		}
	}
	return ""
}

func firstStrings(doc *tabby.Document, keys ...string) []string {
	for _, key := range keys {
		if v := doc.Strings(key); len(v) > 0 {
			return v
		}
	}
	return nil
}

func firstRecords(doc *tabby.Document, keys ...string) []tabby.Record {
	for _, key := range keys {
		if v := doc.Records(key); len(v) > 0 {
			return v
		}
	}
	return nil
}
