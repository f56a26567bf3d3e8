package skyhigh

// Health mirrors the payload returned by GET /.
type Health struct {
	Message string `json:"message"`
}

// UploadResponse mirrors the payload returned by POST /upload.
type UploadResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	Size     int64  `json:"size,omitempty"`
}

// MessageResponse mirrors the payload returned by POST /message.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
}

// FileInfo describes one stored upload as listed by GET /files.
type FileInfo struct {
	Filename string `json:"filename"`
	Length   int64  `json:"length"`
}
