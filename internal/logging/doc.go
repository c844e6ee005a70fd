// Package logging assembles the structured slog loggers used across tabbycat.
//
// It owns the console/JSON handler selection, level parsing, and the
// context-aware handler that tags log lines with the dataset and operation
// being processed. Prefer these constructors over hand-rolled slog setup so
// every component emits records with the same shape.
package logging
