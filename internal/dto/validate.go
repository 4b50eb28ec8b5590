package dto

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the 400 response body for invalid input.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}
