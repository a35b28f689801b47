// Package retrieval is the semantic search index over the statute corpus.
//
// LoadCorpus reads a JSON array (or a YAML list) of article records. NewIndex
// embeds every article text once and keeps a flat inner-product index in
// memory. Search embeds the query, scores it against every article, and
// returns the top-k by descending score. The index is read-only after
// construction and safe for concurrent searches.
package retrieval
