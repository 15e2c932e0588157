package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arkade-os/nftbridge/internal/config"
	grpcservice "github.com/arkade-os/nftbridge/internal/interface/grpc"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Version will be set during build time
var Version string

func main() {
	app := cli.NewApp()
	app.Version = Version
	app.Name = "nftbridged"
	app.Usage = "cross-ledger NFT bridge daemon"
	app.Flags = config.Flags
	app.Action = mainAction
	app.Commands = append(
		app.Commands,
		&infoCommand,
		&ownerCommand,
		&pendingCommand,
		&metadataCommand,
		&sendCommand,
		&eventsCommand,
		&adminCommand,
	)

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func mainAction(c *cli.Context) error {
	cfg, err := config.LoadConfig(c)
	if err != nil {
		return fmt.Errorf("invalid config: %s", err)
	}

	log.SetLevel(log.Level(cfg.LogLevel))
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.Debugf("loaded config: %s", cfg)

	svcConfig := grpcservice.Config{
		Datadir:            cfg.Datadir,
		Port:               cfg.Port,
		AdminPort:          cfg.AdminPort,
		NoTLS:              cfg.NoTLS,
		NoMacaroons:        cfg.NoMacaroons,
		TLSExtraIPs:        cfg.TLSExtraIPs,
		TLSExtraDomains:    cfg.TLSExtraDomains,
		HeartbeatInterval:  cfg.HeartbeatInterval,
		MaxRequestValidity: cfg.MaxRequestValidity,
		EnablePprof:        cfg.EnablePprof,
	}

	svc, err := grpcservice.NewService(Version, svcConfig, cfg)
	if err != nil {
		return err
	}

	log.RegisterExitHandler(svc.Stop)

	log.Infof("nftbridged version: %s", Version)
	log.Info("starting service...")
	if err := svc.Start(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sigChan

	log.Info("shutting down service...")
	log.Exit(0)

	return nil
}
