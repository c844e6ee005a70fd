// Package filelist generates tby-ds1 collection-of-files listings (path,
// size, checksum, url) for a directory tree and fills in download URLs for
// listings whose files follow an accession naming scheme.
package filelist
