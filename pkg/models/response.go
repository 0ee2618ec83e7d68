package models

import "time"

// APIResponse is the generic envelope every HTTP handler responds with.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Code      string      `json:"code,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// OK builds a success envelope.
func OK(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// Fail builds an error envelope from a core error.
func Fail(err error) APIResponse {
	return APIResponse{
		Success:   false,
		Error:     err.Error(),
		Code:      ErrorCode(err),
		Timestamp: time.Now(),
	}
}
