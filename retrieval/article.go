package retrieval

import (
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Article is one statute article of the corpus.
type Article struct {
	Code     string   `json:"code" yaml:"code"`
	Article  string   `json:"article" yaml:"article"`
	Text     string   `json:"text" yaml:"text"`
	Category string   `json:"category" yaml:"category"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Excerpt returns the first n runes of the article text.
func (a Article) Excerpt(n int) string {
	r := []rune(a.Text)
	if len(r) <= n {
		return a.Text
	}
	return string(r[:n])
}

// Result is one search hit. Higher Score means more similar.
type Result struct {
	Article *Article `json:"article"`
	Score   float64  `json:"score"`
}

// articleFromRecord decodes one loosely typed corpus record. Missing fields
// become "" or an empty list and scalars of other types are stringified.
func articleFromRecord(rec map[string]any) Article {
	return Article{
		Code:     stringField(rec["code"]),
		Article:  stringField(rec["article"]),
		Text:     stringField(rec["text"]),
		Category: stringField(rec["category"]),
		Keywords: listField(rec["keywords"]),
	}
}

func stringField(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return norm.NFC.String(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return norm.NFC.String(fmt.Sprint(t))
	}
}

func listField(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, stringField(item))
		}
		return out
	case []string:
		out := make([]string, len(t))
		for i, s := range t {
			out[i] = norm.NFC.String(s)
		}
		return out
	default:
		return []string{stringField(t)}
	}
}
