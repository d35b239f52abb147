package models

// Provider is an AI provider the web backend can connect to.
type Provider struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BaseURL   string `json:"baseUrl"`
	Enabled   bool   `json:"enabled"`
	IsDefault bool   `json:"isDefault"`
	SortOrder int    `json:"sortOrder"`
}

// ProviderListing is the payload of GET /api/providers.
type ProviderListing struct {
	Providers       []Provider `json:"providers"`
	DefaultProvider *Provider  `json:"defaultProvider"`
}

// ApiKeyInfo describes a provider API key held in the keyring.
type ApiKeyInfo struct {
	Provider    string `json:"provider"`
	Label       string `json:"label"`
	Description string `json:"description"`
}
