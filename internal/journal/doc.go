// Package journal persists an audit log of catalog registrations and
// dataset commits in a local SQLite database. Catalog registration is not
// transactional across entries, so the journal is what makes a partial
// failure visible after the fact.
package journal
