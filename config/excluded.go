package config

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
)

// ExcludedArticles holds the articles suppressed in order-vs-removed
// comparisons: exact codes and code prefixes. The file is human-edited,
// so the JSON keys stay stable.
type ExcludedArticles struct {
	Description string   `json:"_description,omitempty"`
	Exact       []string `json:"exact"`
	Prefixes    []string `json:"prefixes"`
}

var (
	excludedMu sync.RWMutex
)

const excludedArticlesFilePath = "./excluded_articles.json"

func LoadExcludedArticles() ExcludedArticles {
	excludedMu.RLock()
	defer excludedMu.RUnlock()

	file, err := os.ReadFile(excludedArticlesFilePath)
	if err != nil {
		return ExcludedArticles{}
	}
	var data ExcludedArticles
	if err := json.Unmarshal(file, &data); err != nil {
		return ExcludedArticles{}
	}
	return data
}

func SaveExcludedArticles(data ExcludedArticles) error {
	excludedMu.Lock()
	defer excludedMu.Unlock()

	data.Description = "Articles excluded from order/removal comparisons (exact codes and prefixes)."
	file, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(excludedArticlesFilePath, file, 0644)
}

// IsExcluded reports whether an article code matches the exclusion rules.
func (e ExcludedArticles) IsExcluded(article string) bool {
	art := strings.ToUpper(strings.TrimSpace(article))
	for _, x := range e.Exact {
		if art == strings.ToUpper(strings.TrimSpace(x)) {
			return true
		}
	}
	for _, p := range e.Prefixes {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" && strings.HasPrefix(art, p) {
			return true
		}
	}
	return false
}
