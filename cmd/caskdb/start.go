package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"caskdb/internal/config"
	"caskdb/internal/log"
	"caskdb/internal/server"
	"caskdb/pkg"
)

var startCmd = &cobra.Command{
	Use:     "start",
	Short:   "Start a caskdb server",
	Example: "caskdb start --config <path>",
	RunE:    executeStart,
}

var configFilePath string

// nolint:gochecknoinits // cobra's standard way to initialize flags
func init() {
	startCmd.Flags().StringVarP(&configFilePath, "config", "c", "",
		"path to the caskdb YAML configuration file")
}

func executeStart(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if configFilePath != "" {
		data, err := os.ReadFile(configFilePath)
		if err != nil {
			return fmt.Errorf("read configuration file: %w", err)
		}
		if cfg, err = config.Parse(data); err != nil {
			return err
		}
		log.Info("using %v for configuration", configFilePath)
	}
	cmd.SilenceUsage = true

	cask, err := pkg.Open(cfg.DataDir, pkg.WithCheckpointInterval(cfg.CheckpointInterval))
	if err != nil {
		return err
	}

	srv := server.New(cask)
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe(cfg.ListenAddr)
	}()
	log.Info("serving on %s, data in %s", cfg.ListenAddr, cfg.DataDir)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signals:
		log.Info("received %v signal, shutting down", sig)
	case err = <-errc:
		if err != nil {
			log.Error("server stopped: %v", err)
		}
	}

	return errors.Join(err, srv.Shutdown(), cask.Close())
}
