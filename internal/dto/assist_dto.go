package dto

type ImproveDescriptionRequest struct {
	SessionId   string `json:"session_id" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type ImproveDescriptionResponse struct {
	NewDescription      string `json:"newDescription"`
	Overview            string `json:"overview"`
	ModificationSummary string `json:"modificationSummary"`
}

type GenerateKeywordsRequest struct {
	SessionId   string `json:"session_id" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type GenerateMoreKeywordsRequest struct {
	SessionId   string   `json:"session_id" validate:"required"`
	Current     []string `json:"current"`
	Description string   `json:"description"`
	Method      string   `json:"method"`
}

type KeywordsResponse struct {
	Keywords []string `json:"keywords"`
}

type PatentInfoResponse struct {
	Data map[string]interface{} `json:"data"`
}
