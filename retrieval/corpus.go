package retrieval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/legalassist/errors"
)

// LoadCorpus reads the article corpus at path. Files ending in .yaml or .yml
// are parsed as YAML, everything else as JSON. The top level must be a list
// of records.
func LoadCorpus(path string) ([]Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.CorpusError(fmt.Sprintf("cannot read corpus %s", path), err)
	}

	var records []map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, errors.CorpusError(fmt.Sprintf("malformed corpus %s", path), err)
	}

	articles := make([]Article, 0, len(records))
	for _, rec := range records {
		articles = append(articles, articleFromRecord(rec))
	}
	return articles, nil
}

// SampleArticles is the starter corpus written by WriteSampleCorpus.
func SampleArticles() []Article {
	return []Article{
		{
			Code:     "Code Pénal Marocain",
			Article:  "400",
			Text:     "Quiconque, volontairement, fait des blessures ou porte des coups...",
			Category: "penal",
			Keywords: []string{"coups", "blessures", "violence"},
		},
		{
			Code:     "Code de Procédure Civile Marocain",
			Article:  "32",
			Text:     "La demande introductive d'instance contient l'exposé sommaire des moyens...",
			Category: "civil",
			Keywords: []string{"procédure", "instance", "demande"},
		},
	}
}

// WriteSampleCorpus writes SampleArticles as indented JSON to path unless a
// file already exists there. It reports whether a file was written.
func WriteSampleCorpus(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.CorpusError("cannot create corpus directory", err)
	}

	data, err := json.MarshalIndent(SampleArticles(), "", "  ")
	if err != nil {
		return false, errors.Internal(err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return false, errors.CorpusError(fmt.Sprintf("cannot write corpus %s", path), err)
	}
	return true, nil
}
