package model

import "time"

// SearchDateRange bounds uploadedAt inclusively; zero values mean unbounded.
type SearchDateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SearchFilters narrows a document search before text matching.
type SearchFilters struct {
	Types     []DocumentType   `json:"type,omitempty"`
	Statuses  []string         `json:"status,omitempty"`
	DateRange *SearchDateRange `json:"dateRange,omitempty"`
	Category  string           `json:"category,omitempty"`
	Tags      []string         `json:"tags,omitempty"`
}

// SearchQuery is a document search request.
type SearchQuery struct {
	Text     string         `json:"text,omitempty"`
	Filters  *SearchFilters `json:"filters,omitempty"`
	Page     int            `json:"page,omitempty"`
	PageSize int            `json:"pageSize,omitempty"`
}

// SearchResult is a page of matching documents.
type SearchResult struct {
	Total int         `json:"total"`
	Items []*Document `json:"items"`
}
