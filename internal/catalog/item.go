package catalog

// Source identifies one extractor that contributed to a metadata item.
type Source struct {
	SourceName    string  `json:"source_name"`
	SourceVersion string  `json:"source_version"`
	SourceTime    float64 `json:"source_time,omitempty"`
	AgentName     string  `json:"agent_name,omitempty"`
}

// MetadataSources is the provenance block every catalog item carries.
type MetadataSources struct {
	KeySourceMap map[string][]string `json:"key_source_map"`
	Sources      []Source            `json:"sources"`
}

// NamedIdentifier is an external identifier such as an ORCID.
type NamedIdentifier struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

// Author is a catalog-schema author record.
type Author struct {
	Name            string            `json:"name,omitempty"`
	Email           string            `json:"email,omitempty"`
	GivenName       string            `json:"givenName,omitempty"`
	FamilyName      string            `json:"familyName,omitempty"`
	HonorificSuffix string            `json:"honorificSuffix,omitempty"`
	Identifiers     []NamedIdentifier `json:"identifiers,omitempty"`
}

// License is a catalog-schema license reference.
type License struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Publication is a catalog-schema publication record. Authors is always
// present, matching what the catalog schema requires.
type Publication struct {
	Type              string   `json:"type,omitempty"`
	Title             string   `json:"title"`
	DOI               string   `json:"doi,omitempty"`
	URL               string   `json:"url,omitempty"`
	DatePublished     string   `json:"datePublished,omitempty"`
	PublicationOutlet string   `json:"publicationOutlet,omitempty"`
	Authors           []Author `json:"authors"`
}

// Contact is the access request contact derived from the data controller.
type Contact struct {
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
	Email      string `json:"email"`
}

// SubdatasetRef is a catalog-schema reference to a linked subdataset.
type SubdatasetRef struct {
	DatasetID      string `json:"dataset_id"`
	DatasetVersion string `json:"dataset_version"`
	DatasetPath    string `json:"dataset_path"`
	DatasetURL     string `json:"dataset_url,omitempty"`
}

// DisplayTab is an additional display tab rendered by the catalog UI.
type DisplayTab struct {
	Name    string         `json:"name"`
	Icon    string         `json:"icon,omitempty"`
	Content map[string]any `json:"content"`
}

// DatasetEntry is the catalog-schema representation of one dataset.
type DatasetEntry struct {
	Type                 string              `json:"type"`
	DatasetID            string              `json:"dataset_id"`
	DatasetVersion       string              `json:"dataset_version"`
	MetadataSources      MetadataSources     `json:"metadata_sources"`
	Name                 string              `json:"name,omitempty"`
	Description          string              `json:"description,omitempty"`
	DOI                  string              `json:"doi,omitempty"`
	License              *License            `json:"license,omitempty"`
	Authors              []Author            `json:"authors,omitempty"`
	Keywords             []string            `json:"keywords,omitempty"`
	Funding              []map[string]string `json:"funding,omitempty"`
	Publications         []Publication       `json:"publications,omitempty"`
	AccessRequestContact *Contact            `json:"access_request_contact,omitempty"`
	Subdatasets          []SubdatasetRef     `json:"subdatasets"`
	URL                  string              `json:"url,omitempty"`
	AdditionalDisplay    []DisplayTab        `json:"additional_display,omitempty"`
}

// FileEntry is the catalog-schema representation of one file. Each file maps
// to its own addressable catalog item.
type FileEntry struct {
	Type            string          `json:"type"`
	DatasetID       string          `json:"dataset_id"`
	DatasetVersion  string          `json:"dataset_version"`
	MetadataSources MetadataSources `json:"metadata_sources"`
	Path            string          `json:"path"`
	ContentBytesize int64           `json:"contentbytesize,omitempty"`
	URL             string          `json:"url,omitempty"`
}
