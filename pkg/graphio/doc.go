// Package graphio reads and writes the on-disk graph, coordinate and
// partition formats the command-line tool accepts and produces. None of
// the algorithmic packages (internal/kmeans, internal/sfc,
// internal/graphutil) import this package: they operate purely on
// pkg/model types, and graphio is the only place in the module that
// knows about file formats.
package graphio
