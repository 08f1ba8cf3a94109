package model

// APIResponse is the JSON envelope used by every handler.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse builds a success envelope.
func NewSuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data}
}

// NewErrorResponse builds an error envelope. detail is optional and is
// meant for operator-facing context, not secrets.
func NewErrorResponse(message, detail string) APIResponse {
	resp := APIResponse{Success: false, Message: message}
	if detail != "" {
		resp.Error = detail
	}
	return resp
}
