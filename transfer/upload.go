package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/imageshare/imageshare-go/tool"
	"github.com/imageshare/imageshare-go/types"
)

// Canned failure messages for transport statuses the server cannot explain
// itself. Status 0 means the request died without any response.
const (
	MsgTooLarge      = "Your image is too large!"
	MsgNoResponse    = "Unknown error. Your browser did not process the response."
	MsgOnlyImages    = "You can only upload images or videos"
	MsgUploadingDone = "Successfully Uploaded"
)

// Result is the terminal outcome of one POST. OK carries the canonical URL
// from the response body; otherwise Message is ready for the banner.
type Result struct {
	OK         bool
	URL        string
	Message    string
	StatusCode int
}

// progressReader counts bytes handed to the transport and reports them
// upstream. Reads are sequential, so loaded is non-decreasing.
type progressReader struct {
	r      io.Reader
	loaded int64
	total  int64
	onTick func(loaded, total int64)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.loaded += int64(n)
		if p.onTick != nil {
			p.onTick(p.loaded, p.total)
		}
	}
	return n, err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// buildBody assembles a single-part multipart form carrying the file under
// the given field name with its declared content type. The body is buffered
// so the transport sees a determinate Content-Length and progress ticks can
// report a meaningful total.
func buildBody(field string, file types.SelectedFile) (*bytes.Buffer, string, error) {
	src, err := os.Open(file.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", file.Path, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close source file: %v", err)
		}
	}()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(file.FileName)))
	if file.FileType != "" {
		hdr.Set("Content-Type", file.FileType)
	}
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", file.Path, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// PostFile issues the single upload request for one file and maps the
// response to a Result. Exactly one request per call; callers never retry.
func PostFile(ctx context.Context, client *http.Client, endpoint, field string, file types.SelectedFile, onTick func(loaded, total int64)) Result {
	body, contentType, err := buildBody(field, file)
	if err != nil {
		return Result{Message: err.Error()}
	}
	total := int64(body.Len())

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, &progressReader{r: body, total: total, onTick: onTick})
	if err != nil {
		return Result{Message: fmt.Sprintf("failed to create upload request: %v", err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = total

	resp, err := client.Do(req)
	if err != nil {
		// no response at all, the browser-equivalent of status 0
		tool.DefaultLogger.Warnf("Upload request for %s failed without response: %v", file.FileName, err)
		return Result{Message: MsgNoResponse, StatusCode: 0}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Message: MsgNoResponse, StatusCode: 0}
	}

	var parsed types.UploadResponse
	parseErr := sonic.Unmarshal(raw, &parsed)

	if resp.StatusCode == http.StatusOK && parseErr == nil && parsed.Status != "error" && parsed.Msg != "" {
		return Result{OK: true, URL: parsed.Msg, StatusCode: resp.StatusCode}
	}
	return Result{
		Message:    failureMessage(resp.StatusCode, parsed, parseErr),
		StatusCode: resp.StatusCode,
	}
}

// failureMessage resolves the banner text for a failed upload: the server's
// own message when the body parsed, then canned messages for known
// transport statuses, then a generic message carrying the raw status.
func failureMessage(status int, parsed types.UploadResponse, parseErr error) string {
	if parseErr == nil && parsed.Msg != "" {
		return parsed.Msg
	}
	switch status {
	case http.StatusRequestEntityTooLarge:
		return MsgTooLarge
	case 0:
		return MsgNoResponse
	default:
		return fmt.Sprintf("Unknown error. Server returned status %d.", status)
	}
}
