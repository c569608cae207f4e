package apimodels

// FieldError describes one rejected input field.
type FieldError struct {
	// Location of the field, e.g. ["body", "lag_wind_1"]
	Loc []string `json:"loc"`

	// Human readable message
	Msg string `json:"msg"`

	// Failure kind: missing, type_error, json_invalid, or the failed validation tag
	Type string `json:"type"`
}

// ValidationErrorResponse is returned with 422 when the request body is rejected.
type ValidationErrorResponse struct {
	Detail []FieldError `json:"detail"`
}

// ErrorResponse is returned when a validated request could not be served.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Variant string `json:"variant"`
}
