package assets

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"wingman/internal/models"
)

// ProvidersData holds the raw JSON provider catalog seeded into the web store.
//
//go:embed providers.json
var ProvidersData []byte

type rawCatalog struct {
	Providers []rawProvider `json:"providers"`
}

type rawProvider struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BaseURL   string `json:"baseUrl"`
	Enabled   *bool  `json:"enabled,omitempty"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// Providers parses ProvidersData. Providers are enabled unless the catalog
// says otherwise and keep catalog order.
func Providers() ([]models.Provider, error) {
	return ParseProviders(ProvidersData)
}

func ParseProviders(data []byte) ([]models.Provider, error) {
	var parsed rawCatalog
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse providers asset: %w", err)
	}

	out := make([]models.Provider, 0, len(parsed.Providers))
	seen := make(map[string]bool)
	defaults := 0
	for i, p := range parsed.Providers {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			continue
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate provider %q", id)
		}
		seen[id] = true
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = id
		}
		enabled := true
		if p.Enabled != nil {
			enabled = *p.Enabled
		}
		if p.IsDefault {
			defaults++
		}
		out = append(out, models.Provider{
			ID:        id,
			Name:      name,
			BaseURL:   strings.TrimSpace(p.BaseURL),
			Enabled:   enabled,
			IsDefault: p.IsDefault,
			SortOrder: i,
		})
	}
	if defaults > 1 {
		return nil, fmt.Errorf("catalog marks %d default providers", defaults)
	}
	return out, nil
}
