package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imageshare/imageshare-go/api/models"
	"github.com/imageshare/imageshare-go/tool"
	"github.com/imageshare/imageshare-go/types"
)

// UserStatus reports the banner, the submit affordance and the current
// progress frame for the web UI.
// GET /api/self/v1/status
func UserStatus(c *gin.Context) {
	sess := models.GetSessionState()
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
		"banner":        sess.Banner(),
		"submitEnabled": sess.SubmitEnabled(),
		"progress":      sess.Spinner.Frame(),
	}))
}

// UserGallery lists the append-only gallery of successful uploads
// GET /api/self/v1/gallery
func UserGallery(c *gin.Context) {
	sess := models.GetSessionState()
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
		"cards": sess.Cards(),
	}))
}

// UserCopyCard copies a gallery card's URL to the system clipboard. All
// other copy buttons reset to idle first so only one ever shows a result.
// POST /api/self/v1/gallery/:id/copy
func UserCopyCard(c *gin.Context) {
	sess := models.GetSessionState()
	id := c.Param("id")
	card, ok := sess.Card(id)
	if !ok {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Card not found"))
		return
	}
	err := tool.WriteClipboard(card.LinkURL)
	sess.MarkCopied(id, err == nil)
	if err != nil {
		tool.DefaultLogger.Warnf("Copy to clipboard failed for %s: %v", id, err)
		c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{"copyState": types.CopyFailed}))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{"copyState": types.CopyCopied}))
}

// UserPreview streams a task's local preview source. Previews are
// registered once per task and stay valid for the process lifetime.
// GET /api/self/v1/preview/:id
func UserPreview(c *gin.Context) {
	sess := models.GetSessionState()
	path, ok := sess.PreviewPath(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Preview not found"))
		return
	}
	c.File(path)
}
