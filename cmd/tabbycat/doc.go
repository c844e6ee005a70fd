// Command tabbycat turns tabby TSV metadata sheets into catalog entries,
// registers them with the external datalad cataloging engine, and keeps the
// superdataset's subdataset linkage sheet up to date.
package main
