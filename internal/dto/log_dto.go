package dto

// ClientErrorReport is what the browser's error popup posts back when it
// surfaces a failure to the user.
type ClientErrorReport struct {
	Message   string                 `json:"message" validate:"required"`
	SessionId string                 `json:"session_id"`
	Source    string                 `json:"source"`
	Context   map[string]interface{} `json:"context"`
}
