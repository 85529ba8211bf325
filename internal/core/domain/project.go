package domain

import "time"

// ProjectRecord is one portfolio item derived from one image asset.
type ProjectRecord struct {
	SourceID string `json:"source_id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Location string `json:"location"`
}

// AssetHandle is opaque to the classifier; only adapters look inside it.
type AssetHandle struct {
	Key     string    `json:"key"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

type Asset struct {
	SourceID string      `json:"source_id"`
	Handle   AssetHandle `json:"handle"`
}

// Category groups assets under a display label. Glob is matched against
// slash-separated source ids relative to the asset root.
type Category struct {
	Name string `json:"name" yaml:"name"`
	Glob string `json:"glob" yaml:"glob"`
}

// DefaultGazetteer is the location label pool. Order is part of the hash contract.
var DefaultGazetteer = []string{
	"Denver",
	"Aurora",
	"Lakewood",
	"Boulder",
	"Westminster",
	"Highlands Ranch",
	"Centennial",
	"Thornton",
	"Arvada",
	"Broomfield",
	"Wheat Ridge",
	"Englewood",
	"Littleton",
}

type FeedSnapshot struct {
	SessionID  string          `json:"session_id"`
	Displayed  []ProjectRecord `json:"displayed"`
	TotalCount int             `json:"total_count"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type ProjectFilter struct {
	Category string
}

// CatalogSummary aggregates a persisted catalog snapshot.
type CatalogSummary struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
	ByLocation map[string]int `json:"by_location"`
}

func SummarizeProjects(projects []ProjectRecord) CatalogSummary {
	summary := CatalogSummary{
		Total:      len(projects),
		ByCategory: make(map[string]int),
		ByLocation: make(map[string]int),
	}
	for _, p := range projects {
		summary.ByCategory[p.Category]++
		summary.ByLocation[p.Location]++
	}
	return summary
}
