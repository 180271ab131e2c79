package controllers

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/imageshare/imageshare-go/api/models"
	"github.com/imageshare/imageshare-go/tool"
	"github.com/imageshare/imageshare-go/types"
)

// resolveFiles stats the requested paths and fills in names, sizes and the
// declared MIME type (request value wins, extension lookup otherwise). The
// type check itself belongs to the upload task, not the input surface.
func resolveFiles(specs []types.FileSpec) ([]types.SelectedFile, error) {
	files := make([]types.SelectedFile, 0, len(specs))
	for _, spec := range specs {
		info, err := os.Stat(spec.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", spec.Path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", spec.Path)
		}
		fileType := spec.FileType
		if fileType == "" {
			fileType = mime.TypeByExtension(filepath.Ext(spec.Path))
		}
		if fileType == "" {
			fileType = "application/octet-stream"
		}
		files = append(files, types.SelectedFile{
			Path:     spec.Path,
			FileName: filepath.Base(spec.Path),
			Size:     info.Size(),
			FileType: fileType,
		})
	}
	return files, nil
}

// UserSelect handles a file-picker selection
// POST /api/self/v1/select
func UserSelect(c *gin.Context) {
	var request types.SelectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	files, err := resolveFiles(request.Files)
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}
	sess := models.GetSessionState()
	sess.SetSelection(files)
	// a non-empty selection re-arms the submit affordance; empty leaves it alone
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
		"count":         len(files),
		"submitEnabled": sess.SubmitEnabled(),
	}))
}

// UserSubmit uploads the current selection (file-picker flow)
// POST /api/self/v1/submit
func UserSubmit(c *gin.Context) {
	sess := models.GetSessionState()
	if !sess.SubmitEnabled() {
		c.JSON(http.StatusConflict, tool.FastReturnError("No selection pending or a batch is already in flight"))
		return
	}
	files := sess.TakeSelection()
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("No files selected"))
		return
	}
	batchId := models.SubmitBatch(files)
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{"batchId": batchId}))
}

// UserDrop handles drag-and-drop: files chosen and uploaded in one step,
// with the affordance disabled immediately to prevent duplicate submission.
// The transient payload is never stored as a selection.
// POST /api/self/v1/drop
func UserDrop(c *gin.Context) {
	var request types.SelectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	if len(request.Files) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("No files provided"))
		return
	}
	files, err := resolveFiles(request.Files)
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}
	batchId := models.SubmitBatch(files)
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{"batchId": batchId}))
}

// UserBatchStatus reports a batch's per-task outcomes
// GET /api/self/v1/batch/:id
func UserBatchStatus(c *gin.Context) {
	batchId := c.Param("id")
	rec, ok := models.GetBatch(batchId)
	if !ok {
		c.JSON(http.StatusNotFound, tool.FastReturnErrorWithData("Batch not found or expired", map[string]any{"batchId": batchId}))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(rec.Snapshot()))
}
