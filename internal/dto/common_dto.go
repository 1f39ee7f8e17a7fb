package dto

// Every JSON response wraps its payload in a success envelope.

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Fail builds the standard error envelope.
func Fail(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}

// OK builds the standard success envelope.
func OK(data interface{}) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
