// Package hashing is a deterministic feature-hashing embedder. It needs no
// model server and is used offline and in tests. Similarity is lexical.
package hashing

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/kbukum/legalassist/embedding"
	"github.com/kbukum/legalassist/provider"
)

const (
	// ProviderName is the registered name for the hashing embedder.
	ProviderName = "hashing"

	// DefaultDimensions is the vector size when none is configured.
	DefaultDimensions = 256
)

// Provider embeds texts as signed bag-of-words hashes.
type Provider struct {
	dims int
}

// New creates a hashing embedder with the given vector size.
func New(dims int) *Provider {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Provider{dims: dims}
}

// Factory returns a provider.Factory reading the "dimensions" option.
func Factory() provider.Factory[embedding.Provider] {
	return func(cfg map[string]any) (embedding.Provider, error) {
		dims, err := provider.Options(cfg).Int("dimensions", DefaultDimensions)
		if err != nil {
			return nil, err
		}
		return New(dims), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable always reports true.
func (p *Provider) IsAvailable(context.Context) bool { return true }

// Dimensions returns the vector size.
func (p *Provider) Dimensions() int { return p.dims }

// Embed hashes each lowercased, NFC-normalized token into a bucket with a
// hash-derived sign, then L2-normalizes.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = p.vector(text)
	}
	return out, nil
}

func (p *Provider) vector(text string) []float32 {
	v := make([]float32, p.dims)
	for _, tok := range Tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()
		bucket := int(sum % uint64(p.dims))
		if sum>>63 == 1 {
			v[bucket]--
		} else {
			v[bucket]++
		}
	}
	return embedding.Normalize(v)
}

// Tokenize splits text on anything that is not a letter or digit, after
// NFC normalization and lowercasing.
func Tokenize(text string) []string {
	text = strings.ToLower(norm.NFC.String(text))
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
