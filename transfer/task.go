package transfer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/imageshare/imageshare-go/share"
	"github.com/imageshare/imageshare-go/tool"
	"github.com/imageshare/imageshare-go/types"
)

// Task owns one file's transfer lifecycle: type check, at most one request,
// terminal outcome. A failed task discards its card and never touches its
// siblings; there is no retry and no cancellation once dispatched.
type Task struct {
	ID   string
	File types.SelectedFile
	sess *share.State
}

func NewTask(file types.SelectedFile, sess *share.State) *Task {
	return &Task{
		ID:   uuid.NewString(),
		File: file,
		sess: sess,
	}
}

// typeAllowed implements the pre-network check: only declared image/* and
// video/* types go out on the wire.
func typeAllowed(fileType string) bool {
	return strings.HasPrefix(fileType, "image") || strings.HasPrefix(fileType, "video")
}

func previewKind(fileType string) string {
	if strings.HasPrefix(fileType, "video") {
		return types.PreviewVideo
	}
	return types.PreviewImage
}

// Run drives the task to its terminal state and reports the result. The
// banner is written on every transition; with concurrent tasks the last
// completion wins, which is accepted.
func (t *Task) Run(ctx context.Context, client *http.Client, endpoint, field string) types.TaskResult {
	result := types.TaskResult{TaskId: t.ID, FileName: t.File.FileName, Outcome: types.OutcomePending}

	if !typeAllowed(t.File.FileType) {
		tool.DefaultLogger.Infof("Rejected %s: declared type %q", t.File.FileName, t.File.FileType)
		t.sess.SetBanner(types.BannerDanger, MsgOnlyImages)
		result.Outcome = types.OutcomeRejected
		result.Message = MsgOnlyImages
		t.notifyCompleted(result)
		return result
	}

	// Build the card up front in its pending state. It stays private to the
	// task until success; the preview source is registered once and outlives
	// the task either way.
	card := types.Card{
		ID:          t.ID,
		FileName:    t.File.FileName,
		PreviewKind: previewKind(t.File.FileType),
		PreviewPath: t.File.Path,
		LinkText:    fmt.Sprintf("Uploading %s...", t.File.FileName),
		CopyState:   types.CopyIdle,
	}
	t.sess.RegisterPreview(t.ID, t.File.Path)
	t.sess.Notify(&types.Notification{
		Type:    types.NotifyTypeTaskStarted,
		Message: t.File.FileName,
		Data:    map[string]any{"taskId": t.ID, "size": t.File.Size},
	})

	res := PostFile(ctx, client, endpoint, field, t.File, func(loaded, total int64) {
		frame := t.sess.Spinner.Tick(loaded, total)
		t.sess.Notify(&types.Notification{
			Type:    types.NotifyTypeTaskProgress,
			Message: frame,
			Data:    map[string]any{"taskId": t.ID, "loaded": loaded, "total": total},
		})
	})

	if res.OK {
		card.LinkText = res.URL
		card.LinkURL = res.URL
		t.sess.AppendCard(card)
		t.sess.SetBanner(types.BannerSuccess, MsgUploadingDone)
		result.Outcome = types.OutcomeSuccess
		result.URL = res.URL
		tool.DefaultLogger.Infof("Uploaded %s -> %s", t.File.FileName, res.URL)
	} else {
		// card discarded: failures leave no partial gallery entries
		t.sess.SetBanner(types.BannerDanger, res.Message)
		result.Outcome = types.OutcomeFailure
		result.Message = res.Message
		tool.DefaultLogger.Warnf("Upload of %s failed (status %d): %s", t.File.FileName, res.StatusCode, res.Message)
	}
	t.notifyCompleted(result)
	return result
}

func (t *Task) notifyCompleted(result types.TaskResult) {
	t.sess.Notify(&types.Notification{
		Type:    types.NotifyTypeTaskCompleted,
		Message: result.Outcome,
		Data:    map[string]any{"taskId": t.ID, "fileName": result.FileName, "url": result.URL, "error": result.Message},
	})
}
