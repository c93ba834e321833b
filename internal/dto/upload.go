package dto

// UploadedFile describes one stored file.
type UploadedFile struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
}

// FileResult is the per-file outcome of a multi-file upload. The loop
// continues past individual failures and reports each file's status.
type FileResult struct {
	Name    string        `json:"name"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	File    *UploadedFile `json:"file,omitempty"`
}

type MultiUploadResponse struct {
	Message  string       `json:"message"`
	Uploaded int          `json:"uploaded"`
	Failed   int          `json:"failed"`
	Results  []FileResult `json:"results"`
}
