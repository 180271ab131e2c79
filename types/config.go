package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	Endpoint   string `yaml:"endpoint"`             // collaborator upload URL, e.g. http://localhost:8146/upload
	FieldName  string `yaml:"fieldName"`            // multipart field name carrying the file
	Port       int    `yaml:"port"`                 // local control API port
	ProbeHost  bool   `yaml:"probeHost"`            // ICMP probe the collaborator host before a batch
	NotifyWS   bool   `yaml:"notifyWS"`             // expose the websocket notify endpoint
	LinkPrefix string `yaml:"linkPrefix,omitempty"` // expected prefix of returned links, informational only
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log               string
	UseConfigPath     string
	UseEndpoint       string
	UsePort           int
	SkipProbe         bool   // if true, never ICMP probe the collaborator host.
	SkipNotify        bool   // if true, do not expose the websocket notify endpoint.
	WriteServerConfig string // if set, write an example collaborator config.json to this path and exit.
}
