package config

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
)

// Packaging classifies article codes into cartons vs other packaging by
// prefix. Carton articles are excluded from automatic PID suggestion.
type Packaging struct {
	Description     string   `json:"_description,omitempty"`
	KartonyPrefixes []string `json:"kartony_prefixes"`
	OtherPrefixes   []string `json:"other_packaging_prefixes"`
}

var packagingMu sync.RWMutex

const packagingFilePath = "./packaging_config.json"

func defaultPackaging() Packaging {
	return Packaging{
		KartonyPrefixes: []string{"83090", "ZC", "568", "676", "826"},
	}
}

func LoadPackaging() Packaging {
	packagingMu.RLock()
	defer packagingMu.RUnlock()

	file, err := os.ReadFile(packagingFilePath)
	if err != nil {
		return defaultPackaging()
	}
	var data Packaging
	if err := json.Unmarshal(file, &data); err != nil {
		return defaultPackaging()
	}
	return data
}

func SavePackaging(data Packaging) error {
	packagingMu.Lock()
	defer packagingMu.Unlock()

	data.Description = "Prefix classification of carton articles vs other packaging (mainly mandant 352)."
	file, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(packagingFilePath, file, 0644)
}

// IsCarton reports whether the article code carries a carton prefix.
func (p Packaging) IsCarton(article string) bool {
	art := strings.ToUpper(strings.TrimSpace(article))
	for _, pref := range p.KartonyPrefixes {
		pref = strings.ToUpper(strings.TrimSpace(pref))
		if pref != "" && strings.HasPrefix(art, pref) {
			return true
		}
	}
	return false
}
