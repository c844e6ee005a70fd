// Package catalog maps loaded tabby documents into the JSON metadata items
// the datalad catalog engine ingests.
//
// A mapping produces exactly one dataset entry plus one file entry per row
// of the files sheet. The entry's identifier is chosen by an IDSource:
// minted deterministically from the tabby name field, taken verbatim from
// it, or supplied by the caller from the enclosing datalad dataset. Field
// conversions follow the catalog schema's sub-objects for authors, license,
// funding, publications, access request contact, and subdataset references.
package catalog
