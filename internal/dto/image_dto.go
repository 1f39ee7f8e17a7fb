package dto

type ImageUploadData struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

type ImageDeleteData struct {
	Message string `json:"message"`
}
