package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imageshare/imageshare-go/api/models"
	"github.com/imageshare/imageshare-go/share"
	"github.com/imageshare/imageshare-go/tool"
	"github.com/imageshare/imageshare-go/transfer"
	"github.com/imageshare/imageshare-go/types"
)

// setupRouter creates a test router with the upload endpoints
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	self := router.Group("/api/self/v1")
	{
		self.POST("/select", UserSelect)
		self.POST("/submit", UserSubmit)
		self.POST("/drop", UserDrop)
		self.GET("/batch/:id", UserBatchStatus)
		self.GET("/status", UserStatus)
		self.GET("/gallery", UserGallery)
	}

	return router
}

// setupSession installs a fresh session state and points the upload
// endpoint at srvURL.
func setupSession(srvURL string) *share.State {
	sess := share.NewState()
	models.SetSessionState(sess)
	tool.SetCurrentConfig(types.AppConfig{
		Endpoint:  srvURL,
		FieldName: "file",
		Port:      0,
		ProbeHost: false,
	})
	return sess
}

func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func postJSON(t *testing.T, router *gin.Engine, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", url, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "127.0.0.1:12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func waitForBatch(t *testing.T, batchId string) types.BatchStatus {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if rec, ok := models.GetBatch(batchId); ok {
			snap := rec.Snapshot()
			if snap.Done == snap.Total {
				return snap
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("batch %s did not complete in time", batchId)
	return types.BatchStatus{}
}

func batchIdFrom(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	data, ok := response["data"].(map[string]any)
	if !ok {
		t.Fatalf("response should contain data: %s", w.Body.String())
	}
	id, _ := data["batchId"].(string)
	if id == "" {
		t.Fatalf("response should contain batchId: %s", w.Body.String())
	}
	return id
}

func TestUserSelectEnablesAffordance(t *testing.T) {
	router := setupRouter()
	sess := setupSession("http://localhost:0")
	path := writeTestFile(t, "pic.png", []byte("png"))

	w := postJSON(t, router, "/api/self/v1/select", types.SelectRequest{
		Files: []types.FileSpec{{Path: path}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !sess.SubmitEnabled() {
		t.Error("select with files should enable the submit affordance")
	}
}

func TestUserSelectMissingFile(t *testing.T) {
	router := setupRouter()
	setupSession("http://localhost:0")

	w := postJSON(t, router, "/api/self/v1/select", types.SelectRequest{
		Files: []types.FileSpec{{Path: "/does/not/exist.png"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing file, got %d", w.Code)
	}
}

func TestUserSubmitWithoutSelection(t *testing.T) {
	router := setupRouter()
	setupSession("http://localhost:0")

	w := postJSON(t, router, "/api/self/v1/submit", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 with no pending selection, got %d", w.Code)
	}
}

func TestSelectSubmitUploadFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","msg":"https://x/i/abc.png"}`))
	}))
	defer srv.Close()

	router := setupRouter()
	sess := setupSession(srv.URL)
	path := writeTestFile(t, "abc.png", []byte("png-bytes"))

	postJSON(t, router, "/api/self/v1/select", types.SelectRequest{
		Files: []types.FileSpec{{Path: path, FileType: "image/png"}},
	})
	w := postJSON(t, router, "/api/self/v1/submit", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit failed: %d %s", w.Code, w.Body.String())
	}

	snap := waitForBatch(t, batchIdFrom(t, w))
	if snap.Total != 1 || snap.Results[0].Outcome != types.OutcomeSuccess {
		t.Fatalf("unexpected batch result: %+v", snap)
	}

	cards := sess.Cards()
	if len(cards) != 1 || cards[0].LinkURL != "https://x/i/abc.png" {
		t.Errorf("gallery should hold the uploaded card, got %+v", cards)
	}
	if sess.SubmitEnabled() {
		t.Error("affordance must stay disabled after completion until a new selection")
	}
	if b := sess.Banner(); b.Level != types.BannerSuccess {
		t.Errorf("banner should be success, got %s %q", b.Level, b.Message)
	}
}

func TestUserDropRejectsPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the collaborator for rejected types")
	}))
	defer srv.Close()

	router := setupRouter()
	sess := setupSession(srv.URL)
	path := writeTestFile(t, "notes.txt", []byte("hello"))

	w := postJSON(t, router, "/api/self/v1/drop", types.SelectRequest{
		Files: []types.FileSpec{{Path: path}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("drop dispatch failed: %d %s", w.Code, w.Body.String())
	}
	if sess.SubmitEnabled() {
		t.Error("drop must disable the affordance immediately")
	}

	snap := waitForBatch(t, batchIdFrom(t, w))
	if snap.Results[0].Outcome != types.OutcomeRejected {
		t.Fatalf("expected rejection, got %+v", snap.Results[0])
	}
	b := sess.Banner()
	if b.Level != types.BannerDanger || b.Message != transfer.MsgOnlyImages {
		t.Errorf("banner should be danger %q, got %s %q", transfer.MsgOnlyImages, b.Level, b.Message)
	}
	if len(sess.Cards()) != 0 {
		t.Error("rejected drop must leave no gallery entries")
	}
}

func TestUserDropTwoFilesOneFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing field: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if hdr.Filename == "good.png" {
			w.Write([]byte(`{"status":"ok","msg":"https://x/i/good.png"}`))
		} else {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			w.Write([]byte("nope"))
		}
	}))
	defer srv.Close()

	router := setupRouter()
	sess := setupSession(srv.URL)
	good := writeTestFile(t, "good.png", []byte("a"))
	bad := writeTestFile(t, "bad.png", []byte("b"))

	w := postJSON(t, router, "/api/self/v1/drop", types.SelectRequest{
		Files: []types.FileSpec{{Path: good}, {Path: bad}},
	})
	snap := waitForBatch(t, batchIdFrom(t, w))

	if snap.Total != 2 || snap.Done != 2 {
		t.Fatalf("both tasks should finish independently: %+v", snap)
	}
	outcomes := map[string]int{}
	for _, r := range snap.Results {
		outcomes[r.Outcome]++
	}
	if outcomes[types.OutcomeSuccess] != 1 || outcomes[types.OutcomeFailure] != 1 {
		t.Errorf("expected one success and one failure, got %v", outcomes)
	}
	cards := sess.Cards()
	if len(cards) != 1 || cards[0].FileName != "good.png" {
		t.Errorf("gallery should hold only the successful upload, got %+v", cards)
	}
}

func TestUserStatusShape(t *testing.T) {
	router := setupRouter()
	sess := setupSession("http://localhost:0")
	sess.SetBanner(types.BannerInfo, "Uploading...")

	req, _ := http.NewRequest("GET", "/api/self/v1/status", nil)
	req.RemoteAddr = "127.0.0.1:12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	data, ok := response["data"].(map[string]any)
	if !ok {
		t.Fatalf("response should contain data: %s", w.Body.String())
	}
	banner, ok := data["banner"].(map[string]any)
	if !ok || banner["level"] != types.BannerInfo || banner["message"] != "Uploading..." {
		t.Errorf("unexpected banner payload: %v", data["banner"])
	}
	if _, ok := data["submitEnabled"]; !ok {
		t.Error("status should report the submit affordance")
	}
}
