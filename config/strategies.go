package config

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
)

// Strategies configures how the removal tool picks pallets: which article
// prefixes switch to the pallet-count-priority strategy, and how storage
// locations are bucketed into priority tiers. The prefix sets are
// business-tuned and deliberately kept in the document rather than in code.
type Strategies struct {
	Description    string         `json:"_description,omitempty"`
	PalletPriority PrefixStrategy `json:"pallet_priority"`
	// ReceptionPrefixes are tier-0 locations (reception/blocking areas).
	ReceptionPrefixes []string `json:"reception_prefixes"`
	// RackPrefixes are tier-1 locations (standard racks).
	RackPrefixes []string `json:"rack_prefixes"`
}

type PrefixStrategy struct {
	Prefixes []string `json:"prefixes"`
}

var strategiesMu sync.RWMutex

const strategiesFilePath = "./packages_strategies.json"

func defaultStrategies() Strategies {
	return Strategies{
		PalletPriority:    PrefixStrategy{Prefixes: []string{"202671"}},
		ReceptionPrefixes: []string{"WE", "BL"},
		RackPrefixes:      []string{"2", "02"},
	}
}

func LoadStrategies() Strategies {
	strategiesMu.RLock()
	defer strategiesMu.RUnlock()

	file, err := os.ReadFile(strategiesFilePath)
	if err != nil {
		return defaultStrategies()
	}
	var data Strategies
	if err := json.Unmarshal(file, &data); err != nil {
		return defaultStrategies()
	}
	if len(data.ReceptionPrefixes) == 0 {
		data.ReceptionPrefixes = []string{"WE", "BL"}
	}
	if len(data.RackPrefixes) == 0 {
		data.RackPrefixes = []string{"2", "02"}
	}
	return data
}

func SaveStrategies(data Strategies) error {
	strategiesMu.Lock()
	defer strategiesMu.Unlock()

	data.Description = "Pallet selection strategies for the removal tool (pallet-count priority prefixes, location tiers)."
	file, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(strategiesFilePath, file, 0644)
}

// IsPalletPriority reports whether the article's prefix switches matching
// to the pallet-count-priority strategy.
func (s Strategies) IsPalletPriority(article string) bool {
	art := strings.ToUpper(strings.TrimSpace(article))
	for _, p := range s.PalletPriority.Prefixes {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" && strings.HasPrefix(art, p) {
			return true
		}
	}
	return false
}
