// Package extract turns parsed feed entries and HTML documents into normalized records.
//
// Both extractors are pure: they never fetch, never log and never fail a whole batch
// because of one bad entry or container. Fetching and parsing live in pkg/sources.
package extract
