// Package aggregator fans fetches out across the source registry and merges the
// results into one deduplicated list of records.
package aggregator
