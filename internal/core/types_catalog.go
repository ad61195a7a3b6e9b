package core

import "time"

// ModelInfo represents a single model entry in the models list.
type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the OpenAI-compatible model list response.
type ModelList struct {
	Object string      `json:"object"`
	Data   []ModelInfo `json:"data"`
}

// CatalogSource tags where served model data came from.
type CatalogSource string

// Catalog provenance values. The wire strings match the original dashboard
// contract for /api/models.
const (
	SourceLive    CatalogSource = "deepseek_api"
	SourceCache   CatalogSource = "cache"
	SourceDefault CatalogSource = "default"
)

// Catalog is an immutable snapshot of the backend model list. Refresh
// replaces the whole snapshot; readers never see a partial update.
type Catalog struct {
	Models    []ModelInfo
	FetchedAt time.Time
	Source    CatalogSource
}

// Fresh reports whether the snapshot came from a live fetch within the
// given freshness window.
func (c *Catalog) Fresh(window time.Duration, now time.Time) bool {
	if c == nil || c.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(c.FetchedAt) < window
}

// DefaultCatalog returns the built-in fallback catalog served before any
// successful live fetch.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Models: []ModelInfo{
			{ID: ModelNamespacePrefix + "deepseek-chat", Object: ModelObjectType, Created: DefaultModelCreated, OwnedBy: ModelOwner},
			{ID: ModelNamespacePrefix + "deepseek-coder", Object: ModelObjectType, Created: DefaultModelCreated, OwnedBy: ModelOwner},
		},
		Source: SourceDefault,
	}
}
