package tool

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bytedance/sonic"
)

// Collaborator server configuration contract. The upload service reads a
// JSON config with these exact keys; this model is the only bit-exact
// contract shared with it. The agent itself only needs the HTTP response
// shape, but it can emit a valid config for a fresh server install.

const serverPkgName = "imageshare"

// Defaults mirrored from the server.
const (
	DefaultImageSiz   uint64 = 10485760 // 10MiB
	DefaultPasteSiz   uint64 = 65536    // 64KiB
	DefaultRatelimSec uint64 = 30
	DefaultBurst      uint64 = 3
	DefaultBucketSize uint64 = 16384 // ~128KiB of state
	DefaultBind              = "[::1]:8146"
	defaultPlatPort          = "8146"
)

// StorageSettings sizes one storage class (images or pastes).
// Cnt nil means unlimited; Dir empty falls back to the state directory.
type StorageSettings struct {
	Siz *uint64 `json:"siz,omitempty"`
	Cnt *uint64 `json:"cnt,omitempty"`
	Dir string  `json:"dir,omitempty"`
}

// Ratelim sizes the server's fixed-size hashed-IP token bucket limiter.
type Ratelim struct {
	Secs         *uint64 `json:"secs,omitempty"`
	Burst        *uint64 `json:"burst,omitempty"`
	TrustHeaders *bool   `json:"trust_headers,omitempty"`
	BucketSize   *uint64 `json:"bucket_size,omitempty"`
}

func (r *Ratelim) GetSecs() uint64 {
	if r == nil || r.Secs == nil {
		return DefaultRatelimSec
	}
	return *r.Secs
}

func (r *Ratelim) GetBurst() uint64 {
	if r == nil || r.Burst == nil {
		return DefaultBurst
	}
	return *r.Burst
}

// GetTrustHeaders defaults to true: the server isn't really intended to run
// without a reverse proxy.
func (r *Ratelim) GetTrustHeaders() bool {
	if r == nil || r.TrustHeaders == nil {
		return true
	}
	return *r.TrustHeaders
}

func (r *Ratelim) GetBucketSize() uint64 {
	if r == nil || r.BucketSize == nil {
		return DefaultBucketSize
	}
	return *r.BucketSize
}

// ServerConfig is the collaborator's config.json.
type ServerConfig struct {
	Image      *StorageSettings `json:"image,omitempty"`
	Paste      *StorageSettings `json:"paste,omitempty"`
	Ratelim    *Ratelim         `json:"ratelim,omitempty"`
	LinkPrefix string           `json:"link_prefix,omitempty"`
	Bind       string           `json:"bind,omitempty"`
}

func storageSiz(s *StorageSettings, def uint64) uint64 {
	if s == nil || s.Siz == nil {
		return def
	}
	return *s.Siz
}

func (c *ServerConfig) ImageSiz() uint64 { return storageSiz(c.Image, DefaultImageSiz) }
func (c *ServerConfig) PasteSiz() uint64 { return storageSiz(c.Paste, DefaultPasteSiz) }

// runtimeDir resolves the systemd/XDG runtime directory the same way the
// server does: $RUNTIME_DIRECTORY, else $XDG_RUNTIME_DIR/imageshare,
// else /run/imageshare. Windows collapses all bases to one home variable.
func runtimeDir() string {
	if runtime.GOOS == "windows" {
		if base := os.Getenv("IMAGESHARE_HOME"); base != "" {
			return base
		}
		if base := os.Getenv("AppData"); base != "" {
			return filepath.Join(base, serverPkgName)
		}
		return filepath.Join(`C:\ProgramData`, serverPkgName)
	}
	if base := os.Getenv("RUNTIME_DIRECTORY"); base != "" {
		return base
	}
	if base := os.Getenv("XDG_RUNTIME_DIR"); base != "" {
		return filepath.Join(base, serverPkgName)
	}
	return filepath.Join("/run", serverPkgName)
}

// ResolveBindAddr expands the bind string the way the server does:
//   - "rt-dir:web.sock" -> "unix:${RUNTIME_DIRECTORY}/web.sock"
//   - "127.0.0.1:%PORT%" -> port from HTTP_PLATFORM_PORT, then
//     FUNCTIONS_CUSTOMHANDLER_PORT, else 8146 (with a warning)
//   - anything else passes through; empty means the default bind.
func (c *ServerConfig) ResolveBindAddr() string {
	bind := c.Bind
	if bind == "" {
		bind = DefaultBind
	}
	if rtdir, ok := strings.CutPrefix(bind, "rt-dir:"); ok {
		return "unix:" + filepath.Join(runtimeDir(), rtdir)
	}
	if inet, ok := strings.CutSuffix(bind, ":%PORT%"); ok {
		port := os.Getenv("HTTP_PLATFORM_PORT")
		if port == "" {
			port = os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT")
		}
		if port == "" {
			DefaultLogger.Warnf("%%HTTP_PLATFORM_PORT%% could not be read! defaulting to %s", defaultPlatPort)
			port = defaultPlatPort
		}
		return inet + ":" + port
	}
	return bind
}

// IsUnixListener reports whether the resolved bind is a domain socket.
func (c *ServerConfig) IsUnixListener() bool {
	return strings.HasPrefix(c.ResolveBindAddr(), "unix:")
}

// Normalize applies the server's fixups: a unix listener cannot see peer
// addresses, so trust_headers is forced on.
func (c *ServerConfig) Normalize() {
	if c.IsUnixListener() && c.Ratelim != nil && c.Ratelim.TrustHeaders != nil && !*c.Ratelim.TrustHeaders {
		DefaultLogger.Warnf("ratelim.trust_headers must be true when using a unix listener!")
		*c.Ratelim.TrustHeaders = true
	}
}

// ParseServerConfig decodes and normalizes a collaborator config.
func ParseServerConfig(data []byte) (*ServerConfig, error) {
	var cfg ServerConfig
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// LoadServerConfig reads a collaborator config.json from disk.
func LoadServerConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}
	return ParseServerConfig(data)
}

// ExampleServerConfig returns a fully-populated config using the server's
// defaults, suitable for a fresh install.
func ExampleServerConfig(linkPrefix string) *ServerConfig {
	imageSiz, pasteSiz := DefaultImageSiz, DefaultPasteSiz
	imageCnt, pasteCnt := uint64(100), uint64(10000)
	secs, burst, bucket := DefaultRatelimSec, DefaultBurst, DefaultBucketSize
	trust := true
	if linkPrefix == "" {
		linkPrefix = "http://localhost:8146"
	}
	return &ServerConfig{
		Image:      &StorageSettings{Siz: &imageSiz, Cnt: &imageCnt, Dir: "./uploads/i"},
		Paste:      &StorageSettings{Siz: &pasteSiz, Cnt: &pasteCnt, Dir: "./uploads/p"},
		Ratelim:    &Ratelim{Secs: &secs, Burst: &burst, TrustHeaders: &trust, BucketSize: &bucket},
		LinkPrefix: linkPrefix,
		Bind:       "127.0.0.1:8146",
	}
}

// WriteExampleServerConfig writes an example config.json for the server.
func WriteExampleServerConfig(path, linkPrefix string) error {
	data, err := sonic.MarshalIndent(ExampleServerConfig(linkPrefix), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
