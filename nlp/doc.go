// Package nlp defines the legal text analysis contract (entities,
// sentiment, case category, keywords) and builds the retrieval query from
// its report.
//
// # Backends
//
//   - nlp/sidecar: spaCy + transformers HTTP sidecar (POST /analyse)
//   - nlp/lexical: keyword and category heuristics, no model needed
package nlp
