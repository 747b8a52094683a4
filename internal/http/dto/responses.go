package dto

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success   bool     `json:"success"`
	Error     string   `json:"error"`
	Fields    []string `json:"fields,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// UploadResponse is flat rather than wrapped in data; upload clients read url directly.
type UploadResponse struct {
	Success  bool   `json:"success"`
	ID       string `json:"id,omitempty"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}
