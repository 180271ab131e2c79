package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/imageshare/imageshare-go/api/controllers"
	"github.com/imageshare/imageshare-go/api/middlewares"
	"github.com/imageshare/imageshare-go/api/models"
	"github.com/imageshare/imageshare-go/api/notifyhub"
	"github.com/imageshare/imageshare-go/share"
	"github.com/imageshare/imageshare-go/tool"
)

// Server is the local control API driven by the upload UI.
type Server struct {
	port     int
	notifyWS bool
	engine   *gin.Engine
	server   *http.Server
	mu       sync.RWMutex
}

// NewServer creates a local control API server bound to the session state.
func NewServer(port int, notifyWS bool, sess *share.State, hub *notifyhub.Hub) *Server {
	models.SetSessionState(sess)
	models.SetNotifyHub(hub)
	return &Server{
		port:     port,
		notifyWS: notifyWS,
	}
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	engine.Use(gin.Recovery())

	self := engine.Group("/api/self/v1", middlewares.OnlyAllowLocal)
	{
		self.POST("/select", controllers.UserSelect)          // file-picker selection, re-arms the submit affordance
		self.POST("/submit", controllers.UserSubmit)          // upload the current selection
		self.POST("/drop", controllers.UserDrop)              // drag-and-drop: choose and upload in one step
		self.GET("/batch/:id", controllers.UserBatchStatus)   // per-task outcomes of a batch
		self.GET("/status", controllers.UserStatus)           // banner + affordance + progress frame
		self.GET("/gallery", controllers.UserGallery)         // append-only gallery of successful uploads
		self.POST("/gallery/:id/copy", controllers.UserCopyCard)
		self.GET("/preview/:id", controllers.UserPreview)
		self.GET("/create-qr-code", controllers.GenerateQRCode) // QR code PNG (same params as api.qrserver.com)
		self.GET("/config", controllers.UserConfigGet)
		self.PATCH("/config", controllers.UserConfigPatch)
		if hub := models.GetNotifyHub(); s.notifyWS && hub != nil {
			self.GET("/notify-ws", HandleNotifyWS(hub))
		}
	}

	return engine
}

// Start runs the control API server. Blocks until the server stops.
func (s *Server) Start() error {
	s.mu.Lock()
	s.engine = s.setupRoutes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler: s.engine,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Control API listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("control API server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
