package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/imageshare/imageshare-go/api/models"
	"github.com/imageshare/imageshare-go/share"
	"github.com/imageshare/imageshare-go/tool"
	"github.com/imageshare/imageshare-go/types"
)

func setupConfigRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	self := router.Group("/api/self/v1")
	{
		self.GET("/config", UserConfigGet)
		self.PATCH("/config", UserConfigPatch)
	}
	return router
}

func TestUserConfigPatchPersists(t *testing.T) {
	router := setupConfigRouter()
	tool.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	tool.SetCurrentConfig(types.AppConfig{
		Endpoint:  "http://localhost:8146/upload",
		FieldName: "file",
		Port:      8046,
	})

	body, _ := json.Marshal(map[string]any{
		"endpoint":  "https://share.example.com/upload",
		"probeHost": true,
	})
	req, _ := http.NewRequest("PATCH", "/api/self/v1/config", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "127.0.0.1:12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	cfg := tool.GetCurrentConfig()
	if cfg.Endpoint != "https://share.example.com/upload" {
		t.Errorf("endpoint not updated: %q", cfg.Endpoint)
	}
	if !cfg.ProbeHost {
		t.Error("probeHost not updated")
	}
	if cfg.FieldName != "file" {
		t.Errorf("untouched field changed: %q", cfg.FieldName)
	}
	if _, err := os.Stat(tool.ConfigPath); err != nil {
		t.Errorf("config file should be persisted: %v", err)
	}
}

func TestUserConfigPatchRejectsEmptyEndpoint(t *testing.T) {
	router := setupConfigRouter()
	tool.SetCurrentConfig(types.AppConfig{Endpoint: "http://localhost:8146/upload", FieldName: "file"})

	body, _ := json.Marshal(map[string]any{"endpoint": ""})
	req, _ := http.NewRequest("PATCH", "/api/self/v1/config", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "127.0.0.1:12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty endpoint, got %d", w.Code)
	}
	if tool.GetCurrentConfig().Endpoint == "" {
		t.Error("config must not be clobbered by a rejected patch")
	}
}

// A batch snapshots the config at dispatch; patching mid-flight must neither
// race the upload goroutines nor redirect them.
func TestUserConfigPatchDuringActiveBatch(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","msg":"https://x/i/slow.png"}`))
	}))
	defer srv.Close()

	router := setupConfigRouter()
	tool.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	sess := share.NewState()
	models.SetSessionState(sess)
	tool.SetCurrentConfig(types.AppConfig{Endpoint: srv.URL, FieldName: "file"})

	path := writeTestFile(t, "slow.png", []byte("png"))
	batchId := models.SubmitBatch([]types.SelectedFile{
		{Path: path, FileName: "slow.png", Size: 3, FileType: "image/png"},
	})

	for i := 0; i < 8; i++ {
		body, _ := json.Marshal(map[string]any{"endpoint": "https://elsewhere.example.com/upload"})
		req, _ := http.NewRequest("PATCH", "/api/self/v1/config", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "127.0.0.1:12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("patch failed mid-batch: %d %s", w.Code, w.Body.String())
		}
	}
	close(release)

	snap := waitForBatch(t, batchId)
	if snap.Results[0].Outcome != types.OutcomeSuccess || snap.Results[0].URL != "https://x/i/slow.png" {
		t.Fatalf("in-flight batch must finish against its dispatch-time endpoint: %+v", snap.Results[0])
	}
	if tool.GetCurrentConfig().Endpoint != "https://elsewhere.example.com/upload" {
		t.Error("patched endpoint should apply to subsequent batches")
	}
}
