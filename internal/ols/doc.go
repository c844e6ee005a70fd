// Package ols resolves ontology terms (species, organism parts) against the
// EBI Ontology Lookup Service and shapes the responses as OpenMINDS
// controlled-term objects for catalog display. Lookups are best-effort: any
// failure falls back to the raw term. An optional on-disk cache avoids
// re-querying the same terms across invocations.
package ols
