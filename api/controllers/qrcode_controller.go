package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/imageshare/imageshare-go/api/models"
	"github.com/imageshare/imageshare-go/tool"
)

const (
	defaultQRSize = 200
	maxQRSize     = 512
)

// GenerateQRCode returns a PNG QR code image, so an uploaded link can be
// opened on a phone. Pass cardId for a gallery card's URL, or raw data.
// Compatible with api.qrserver.com create-qr-code API: GET ?size=200x200&data=...
func GenerateQRCode(c *gin.Context) {
	data := c.Query("data")
	if cardId := c.Query("cardId"); cardId != "" {
		card, ok := models.GetSessionState().Card(cardId)
		if !ok {
			c.JSON(http.StatusNotFound, tool.FastReturnError("Card not found"))
			return
		}
		data = card.LinkURL
	}
	if data == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing required parameter: data or cardId"))
		return
	}

	sizeStr := c.Query("size")
	size := parseSize(sizeStr)
	if size <= 0 {
		size = defaultQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}

	png, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode QR code: "+err.Error()))
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// parseSize parses size from "200x200" or "200" and returns the pixel dimension.
func parseSize(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if idx := strings.Index(s, "x"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
