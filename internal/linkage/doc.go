// Package linkage maintains the subdatasets@<tag>.tsv sheet that records
// which subdatasets a superdataset links to, keyed by identifier, version,
// and relative path. Registration is idempotent: re-registering the same
// subdataset leaves the sheet untouched, and a new version of an already
// linked subdataset replaces its prior row.
package linkage
