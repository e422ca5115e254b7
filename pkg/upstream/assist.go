package upstream

import (
	"context"
	"net/url"
)

// ImprovedDescription is the AI rewrite of an invention description.
type ImprovedDescription struct {
	NewDescription      string `json:"newDescription"`
	Overview            string `json:"overview"`
	ModificationSummary string `json:"modificationSummary"`
}

// ImproveDescription asks the assist API to rewrite a description for
// search quality.
func (c *Client) ImproveDescription(ctx context.Context, text string) (*ImprovedDescription, error) {
	body := map[string]string{"description": text}
	var out ImprovedDescription
	endpoint := c.cfg.AssistBaseURL + "/improve-description"
	if err := c.postJSON(ctx, endpoint, c.cfg.AssistAPIKey, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateKeywords derives search keywords from a description.
func (c *Client) GenerateKeywords(ctx context.Context, text string) ([]string, error) {
	body := map[string]string{"description": text}
	var out struct {
		Keywords []string `json:"keywords"`
	}
	endpoint := c.cfg.AssistBaseURL + "/keywords"
	if err := c.postJSON(ctx, endpoint, c.cfg.AssistAPIKey, body, &out); err != nil {
		return nil, err
	}
	return out.Keywords, nil
}

// GenerateAdditionalKeywords extends an existing keyword list without
// repeating entries the user already has.
func (c *Client) GenerateAdditionalKeywords(ctx context.Context, current []string, description, method string) ([]string, error) {
	body := map[string]interface{}{
		"currentKeywords": current,
		"description":     description,
		"method":          method,
	}
	var out struct {
		Keywords []string `json:"keywords"`
	}
	endpoint := c.cfg.AssistBaseURL + "/keywords/more"
	if err := c.postJSON(ctx, endpoint, c.cfg.AssistAPIKey, body, &out); err != nil {
		return nil, err
	}
	return out.Keywords, nil
}

// GetPatentInfo looks up a patent document by publication number.
func (c *Client) GetPatentInfo(ctx context.Context, publicationNumber string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("publication_number", publicationNumber)
	endpoint := c.cfg.AssistBaseURL + "/patent?" + params.Encode()

	var out map[string]interface{}
	if err := c.getJSON(ctx, endpoint, c.cfg.AssistAPIKey, &out); err != nil {
		return nil, err
	}
	return out, nil
}
