package main

import (
	"github.com/imageshare/imageshare-go/api"
	"github.com/imageshare/imageshare-go/api/notifyhub"
	"github.com/imageshare/imageshare-go/share"
	"github.com/imageshare/imageshare-go/tool"
	"github.com/imageshare/imageshare-go/types"
)

func main() {
	cfg := tool.SetFlags()

	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}

	if cfg.WriteServerConfig != "" {
		if err := tool.WriteExampleServerConfig(cfg.WriteServerConfig, appCfg.LinkPrefix); err != nil {
			tool.DefaultLogger.Fatalf("Failed to write server config: %v", err)
		}
		tool.DefaultLogger.Infof("Wrote example collaborator config to %s", cfg.WriteServerConfig)
		return
	}
	if cfg.UseEndpoint != "" {
		appCfg.Endpoint = cfg.UseEndpoint
	}
	if cfg.UsePort > 0 {
		appCfg.Port = cfg.UsePort
	}
	if cfg.SkipProbe {
		appCfg.ProbeHost = false
	}
	if cfg.SkipNotify {
		appCfg.NotifyWS = false
	}
	tool.SetCurrentConfig(appCfg)

	// initialize logger
	tool.InitLogger()
	tool.SetLogMode(cfg.Log)

	hub := notifyhub.New()
	sess := share.NewState()
	sess.SetNotifySink(func(n *types.Notification) {
		hub.Broadcast(n)
	})

	tool.DefaultLogger.Infof("Upload endpoint: %s (field %q)", appCfg.Endpoint, appCfg.FieldName)

	apiServer := api.NewServer(appCfg.Port, appCfg.NotifyWS, sess, hub)
	go func() {
		if err := apiServer.Start(); err != nil {
			tool.DefaultLogger.Fatalf("API server startup failed: %v", err)
			panic(err)
		}
	}()

	select {}
}
