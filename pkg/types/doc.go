// Package types defines the Species and Sighting records, the Catalog and
// SightingList collections that own them, the builders and validators that
// construct records from raw argument strings, the sighting search engine,
// and the standard error types for the birdlog system.
package types
