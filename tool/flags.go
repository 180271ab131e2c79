package tool

import (
	"flag"

	"github.com/imageshare/imageshare-go/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&cfg.UseEndpoint, "useEndpoint", "", "override collaborator upload endpoint URL")
	flag.IntVar(&cfg.UsePort, "usePort", 0, "override local control API port")
	flag.BoolVar(&cfg.SkipProbe, "skipProbe", false, "skip ICMP reachability probe of the collaborator host")
	flag.BoolVar(&cfg.SkipNotify, "skipNotify", false, "disable the websocket notify endpoint")
	flag.StringVar(&cfg.WriteServerConfig, "writeServerConfig", "", "write an example collaborator config.json to the given path and exit")
	flag.Parse()
	return cfg
}
