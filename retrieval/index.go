package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/legalassist/embedding"
	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/logger"
)

// DefaultTopK is used when Search is called with topK <= 0.
const DefaultTopK = 5

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the index logger.
func WithLogger(l *logger.Logger) Option {
	return func(ix *Index) { ix.log = l.WithComponent("retrieval") }
}

// Index is a flat inner-product index over article embeddings.
type Index struct {
	mu       sync.RWMutex
	articles []Article
	vectors  [][]float32
	dim      int
	embedder embedding.Provider
	log      *logger.Logger
}

// NewIndex embeds every article text in one batch and builds the index.
func NewIndex(ctx context.Context, articles []Article, embedder embedding.Provider, opts ...Option) (*Index, error) {
	ix := &Index{embedder: embedder, log: logger.NewNop()}
	for _, o := range opts {
		o(ix)
	}

	if len(articles) == 0 {
		return nil, errors.CorpusError("corpus has no articles", nil)
	}
	if embedder == nil {
		return nil, errors.NotInitialized("embedder")
	}

	texts := make([]string, len(articles))
	for i, a := range articles {
		texts[i] = a.Text
	}
	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, errors.CollaboratorError(embedder.Name(), err)
	}
	if len(vectors) != len(articles) {
		return nil, errors.CorpusError(fmt.Sprintf("embedder returned %d vectors for %d articles", len(vectors), len(articles)), nil)
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.CorpusError("embedder returned empty vectors", nil)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, errors.CorpusError(fmt.Sprintf("vector %d has dimension %d, want %d", i, len(v), dim), nil)
		}
	}

	ix.articles = append([]Article(nil), articles...)
	ix.vectors = vectors
	ix.dim = dim
	ix.log.Info("index built", logger.Fields("articles", len(articles), "dimension", dim))
	return ix, nil
}

// Len returns the number of indexed articles.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.articles)
}

// Dimension returns the embedding dimension.
func (ix *Index) Dimension() int {
	if ix == nil {
		return 0
	}
	return ix.dim
}

// Search returns up to topK articles ordered by descending similarity to
// query. Ties keep corpus order. topK <= 0 means DefaultTopK.
func (ix *Index) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.InvalidQuery()
	}
	if ix == nil || ix.vectors == nil {
		return nil, errors.NotInitialized("retrieval index")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	qv, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, errors.CollaboratorError(ix.embedder.Name(), err)
	}
	if len(qv) != 1 || len(qv[0]) != ix.dim {
		return nil, errors.CollaboratorError(ix.embedder.Name(), fmt.Errorf("query vector has wrong shape"))
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	order := make([]int, len(ix.vectors))
	scores := make([]float64, len(ix.vectors))
	for i, v := range ix.vectors {
		order[i] = i
		scores[i] = embedding.Dot(qv[0], v)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	n := min(topK, len(order))
	results := make([]Result, 0, n)
	for _, idx := range order[:n] {
		results = append(results, Result{Article: &ix.articles[idx], Score: scores[idx]})
	}

	ix.log.Debug("search", logger.Fields("query_len", len([]rune(query)), "results", len(results)))
	return results, nil
}
