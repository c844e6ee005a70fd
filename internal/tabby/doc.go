// Package tabby loads spreadsheet-derived tabby metadata documents.
//
// A tabby document is a set of TSV files named <sheet>@<tag>.tsv sharing a
// directory and a schema tag. The root dataset sheet is single-format (one
// key/value pair per row); values of the form @tabby-single-<sheet> or
// @tabby-many-<sheet> import a sibling sheet in single or many (header plus
// record rows) format. Loading resolves all imports into an in-memory
// Document; an import row missing from the root sheet means that sheet type
// is omitted, while a present import whose file is missing fails the load.
package tabby
