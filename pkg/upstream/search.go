package upstream

import (
	"context"
	"net/url"

	"patent-scout-be/pkg/state"
)

// SearchInput is the pass-through query document sent to the search API.
// Filters must already be in query order.
type SearchInput struct {
	Library     string         `json:"library"`
	Method      string         `json:"method"`
	Query       string         `json:"query,omitempty"`
	Description string         `json:"description,omitempty"`
	Filters     []state.Filter `json:"filters"`
}

// ExecuteSearch runs a record search and returns the full result sequence;
// pagination is a client-side concern.
func (c *Client) ExecuteSearch(ctx context.Context, input SearchInput) ([]state.ResultItem, error) {
	var results []state.ResultItem
	endpoint := c.cfg.SearchBaseURL + "/search"
	if err := c.postJSON(ctx, endpoint, c.cfg.SearchAPIKey, input, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// SuggestAssignees returns assignee name completions for a partial query.
func (c *Client) SuggestAssignees(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	endpoint := c.cfg.SearchBaseURL + "/assignees/autocomplete?" + params.Encode()

	var suggestions []string
	if err := c.getJSON(ctx, endpoint, c.cfg.SearchAPIKey, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}
