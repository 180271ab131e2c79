package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imageshare/imageshare-go/tool"
)

// UserConfigGet returns the current app configuration
// GET /api/self/v1/config
func UserConfigGet(c *gin.Context) {
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(tool.GetCurrentConfig()))
}

// configPatchRequest carries the settable fields; pointers distinguish
// "leave alone" from an explicit zero value.
type configPatchRequest struct {
	Endpoint   *string `json:"endpoint,omitempty"`
	FieldName  *string `json:"fieldName,omitempty"`
	ProbeHost  *bool   `json:"probeHost,omitempty"`
	LinkPrefix *string `json:"linkPrefix,omitempty"`
}

// UserConfigPatch updates and persists the app configuration. The control
// API port and the notify toggle need a restart, so they are not settable.
// PATCH /api/self/v1/config
func UserConfigPatch(c *gin.Context) {
	var request configPatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	cfg := tool.GetCurrentConfig()
	if request.Endpoint != nil {
		if *request.Endpoint == "" {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("endpoint must not be empty"))
			return
		}
		cfg.Endpoint = *request.Endpoint
	}
	if request.FieldName != nil && *request.FieldName != "" {
		cfg.FieldName = *request.FieldName
	}
	if request.ProbeHost != nil {
		cfg.ProbeHost = *request.ProbeHost
	}
	if request.LinkPrefix != nil {
		cfg.LinkPrefix = *request.LinkPrefix
	}
	tool.PersistAppConfig(cfg)
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
