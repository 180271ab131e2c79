package types

// SelectedFile is one file picked for upload. The declared type is taken
// from the request when provided, otherwise derived from the file extension.
type SelectedFile struct {
	Path     string `json:"path"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
	FileType string `json:"fileType"`
}

// FileSpec is the wire form of a selected file in select/drop requests.
type FileSpec struct {
	Path     string `json:"path"`
	FileType string `json:"fileType,omitempty"`
}

// SelectRequest represents the select / drop request body
type SelectRequest struct {
	Files []FileSpec `json:"files"`
}

// UploadResponse is the collaborator's structured response body.
// Anything with Status other than "error" on HTTP 200 is a success and
// Msg carries the canonical URL; otherwise Msg is a human-readable reason.
type UploadResponse struct {
	Status string `json:"status"`
	Msg    string `json:"msg"`
}

// Task outcome states
const (
	OutcomePending  = "pending"
	OutcomeRejected = "rejected"
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
)

// TaskResult is the terminal record of one upload task within a batch.
type TaskResult struct {
	TaskId   string `json:"taskId"`
	FileName string `json:"fileName"`
	Outcome  string `json:"outcome"`
	URL      string `json:"url,omitempty"`
	Message  string `json:"message,omitempty"`
}

// BatchStatus represents one submitted batch and its task results.
type BatchStatus struct {
	BatchId string       `json:"batchId"`
	Total   int          `json:"total"`
	Done    int          `json:"done"`
	Results []TaskResult `json:"results"`
}
