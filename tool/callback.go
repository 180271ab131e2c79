package tool

import "github.com/gin-gonic/gin"

// Response helpers for the control API. The browser UI only cares about the
// error/data keys, so these stay flat.

func FastReturnError(msg string) gin.H {
	return gin.H{"error": msg}
}

func FastReturnSuccess() gin.H {
	return gin.H{"status": "ok"}
}

func FastReturnSuccessWithData(data any) gin.H {
	return gin.H{"data": data}
}

func FastReturnErrorWithData(msg string, data map[string]any) gin.H {
	resp := gin.H{"error": msg}
	for k, v := range data {
		resp[k] = v
	}
	return resp
}
