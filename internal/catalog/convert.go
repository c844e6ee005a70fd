package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"tabbycat/internal/tabby"
)

// convertAuthors maps tabby author records into catalog-schema authors. An
// orcid column is folded into the identifiers list; unknown columns are
// dropped.
func convertAuthors(records []tabby.Record) []Author {
	if len(records) == 0 {
		return nil
	}
	authors := make([]Author, 0, len(records))
	for _, rec := range records {
		author := Author{
			Name:            rec["name"],
			Email:           rec["email"],
			GivenName:       rec["givenName"],
			FamilyName:      rec["familyName"],
			HonorificSuffix: rec["honorificSuffix"],
		}
		if orcid := rec["orcid"]; orcid != "" {
			author.Identifiers = []NamedIdentifier{{Name: "ORCID", Identifier: orcid}}
		}
		authors = append(authors, author)
	}
	return authors
}

// convertLicense wraps a license value into the name/url pair the catalog
// schema expects. Tabby licenses are typically URLs already, so the same
// value serves as both.
func convertLicense(license string) *License {
	if license == "" {
		return nil
	}
	return &License{Name: license, URL: license}
}

// convertPublications maps tabby publication records. The tabby convention
// only requires a citation, which is squeezed into the title field the
// catalog displays prominently.
func convertPublications(records []tabby.Record) []Publication {
	if len(records) == 0 {
		return nil
	}
	pubs := make([]Publication, 0, len(records))
	for _, rec := range records {
		pub := Publication{
			Type:              rec["type"],
			Title:             rec["title"],
			DOI:               rec["doi"],
			URL:               rec["url"],
			DatePublished:     rec["datePublished"],
			PublicationOutlet: rec["publicationOutlet"],
			Authors:           []Author{},
		}
		if citation := rec["citation"]; citation != "" {
			pub.Title = citation
		}
		pubs = append(pubs, pub)
	}
	return pubs
}

// convertFunding passes funding records through unchanged; the catalog
// schema treats them as opaque funder objects.
func convertFunding(records []tabby.Record) []map[string]string {
	if len(records) == 0 {
		return nil
	}
	out := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		entry := make(map[string]string, len(rec))
		for k, v := range rec {
			entry[k] = v
		}
		out = append(out, entry)
	}
	return out
}

// convertAccessRequestContact derives the access request contact from the
// first data controller. The name is split naively at its last space to
// satisfy the catalog schema's given/family name fields.
func convertAccessRequestContact(records []tabby.Record) *Contact {
	if len(records) == 0 {
		return nil
	}
	name := records[0]["name"]
	idx := strings.LastIndex(name, " ")
	first, last := "", name
	if idx >= 0 {
		first, last = name[:idx], name[idx+1:]
	}
	return &Contact{
		GivenName:  first,
		FamilyName: last,
		Email:      records[0]["email"],
	}
}

// convertSubdatasets maps subdataset linkage rows into catalog references.
func convertSubdatasets(records []tabby.Record) []SubdatasetRef {
	refs := make([]SubdatasetRef, 0, len(records))
	for _, rec := range records {
		refs = append(refs, SubdatasetRef{
			DatasetID:      rec["identifier"],
			DatasetVersion: rec["version"],
			DatasetPath:    rec["path_posix"],
			DatasetURL:     rec["url"],
		})
	}
	return refs
}

// convertFile maps one row of the files sheet into a catalog file item. The
// path column falls back through the known tabby spellings; the byte size is
// converted to an integer.
func convertFile(rec tabby.Record) (path string, size int64, url string, err error) {
	path = rec["path[POSIX]"]
	if path == "" {
		path = rec["path"]
	}
	if path == "" {
		path = rec["name"]
	}
	if path == "" {
		return "", 0, "", fmt.Errorf("file record has no path column: %v", rec)
	}

	rawSize := rec["size[bytes]"]
	if rawSize == "" {
		rawSize = rec["contentbytesize"]
	}
	if rawSize != "" {
		size, err = strconv.ParseInt(rawSize, 10, 64)
		if err != nil {
			return "", 0, "", fmt.Errorf("file %s: parse size %q: %w", path, rawSize, err)
		}
	}
	return path, size, rec["url"], nil
}

// dataControllerContent renders data controllers for the additional display
// tab, typed as schema.org Persons for linked data consumers.
func dataControllerContent(records []tabby.Record) []map[string]any {
	if len(records) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		entry := map[string]any{"@type": "https://schema.org/Person"}
		for k, v := range rec {
			entry[k] = v
		}
		out = append(out, entry)
	}
	return out
}

// usedForContent renders used-for activities as generic schema.org Things.
func usedForContent(records []tabby.Record) []map[string]any {
	if len(records) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		thing := map[string]any{
			"@type": "https://schema.org/Thing",
			"name":  rec["title"],
		}
		if url := rec["url"]; url != "" {
			thing["url"] = url
		}
		if description := rec["description"]; description != "" {
			thing["description"] = description
		}
		out = append(out, thing)
	}
	return out
}

// homepageContent renders homepage URLs with an explicit schema.org type.
func homepageContent(urls []string) any {
	switch len(urls) {
	case 0:
		return nil
	case 1:
		return map[string]any{"@type": "https://schema.org/URL", "@value": urls[0]}
	}
	out := make([]map[string]any, 0, len(urls))
	for _, u := range urls {
		out = append(out, map[string]any{"@type": "https://schema.org/URL", "@value": u})
	}
	return out
}
