package dto

import "patent-scout-be/pkg/state"

type RunSearchRequest struct {
	// VisitorId is the anonymous fingerprint; required when the request
	// carries no auth token.
	VisitorId string `json:"visitor_id"`
}

type RunSearchResponse struct {
	Applied     bool               `json:"applied"`
	TotalHits   int                `json:"total_hits"`
	CurrentPage int                `json:"current_page"`
	TotalPages  int                `json:"total_pages"`
	Items       []state.ResultItem `json:"items"`
}

type SelectResultRequest struct {
	Index int `json:"index"`
}

type PageResponse struct {
	CurrentPage int                `json:"current_page"`
	TotalPages  int                `json:"total_pages"`
	ActiveItem  int                `json:"active_item"`
	Items       []state.ResultItem `json:"items"`
}
