package types

// Preview kinds for a result card
const (
	PreviewImage = "image"
	PreviewVideo = "video"
)

// Copy button states. At most one card on the page is ever non-idle.
const (
	CopyIdle   = "idle"
	CopyCopied = "copied"
	CopyFailed = "copy-failed"
)

// Card is the per-file result unit: preview, link, copy affordance.
// It is owned by its upload task until success, then handed to the
// append-only gallery. Failed tasks discard their card.
type Card struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	PreviewKind string `json:"previewKind"`
	PreviewPath string `json:"-"` // local source path streamed by the preview endpoint
	LinkText    string `json:"linkText"`
	LinkURL     string `json:"linkUrl"`
	CopyState   string `json:"copyState"`
}

// Banner levels
const (
	BannerInfo    = "info"
	BannerSuccess = "success"
	BannerDanger  = "danger"
)

// Banner is the single global status surface. Level and message are always
// written together; concurrent tasks overwrite it last-writer-wins.
type Banner struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}
