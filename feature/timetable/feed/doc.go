// Package feed retrieves and normalizes the upstream XML schedule feed.
//
// The Fetcher downloads and parses the document into a generic key/value
// tree with no domain knowledge beyond the top-level envelope; Normalize
// then renames the feed-specific table and column codes to domain names
// and produces seven typed collections still keyed by feed-local ids.
package feed
