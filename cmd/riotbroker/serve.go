package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/canberks/riotbroker/internal/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the riotbroker server",
	Long: `Start the broker: binds the configured byte-stream (raw TCP) and
frame-stream (websocket) listeners and begins accepting connections.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	configPath := cfgFile
	if configPath == "" {
		configPath = findConfigFile()
	}

	container, err := di.NewContainer(configPath)
	if err != nil {
		log.Error().Err(err).Str("path", configPath).Msg("failed to initialize services")
		return err
	}

	loggerSvc := di.MustInvoke[*di.LoggerService](container)
	log.Logger = *loggerSvc.Logger
	zerolog.DefaultContextLogger = loggerSvc.Logger

	cfgSvc := di.MustInvoke[*di.ConfigService](container)

	byteSvc, err := di.Invoke[*di.ByteStreamListenerService](container)
	if err != nil {
		log.Error().Err(err).Msg("failed to bind byte-stream listener")
		return err
	}

	frameSvc, err := di.Invoke[*di.FrameStreamListenerService](container)
	if err != nil {
		log.Error().Err(err).Msg("failed to bind frame-stream listener")
		return err
	}

	if !byteSvc.Enabled() && !frameSvc.Enabled() {
		err := errors.New("no listener enabled in configuration")
		log.Error().Err(err).Msg("refusing to start with no active listener")
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfgSvc.StartWatching(ctx)

	return runWithGracefulShutdown(container, byteSvc, frameSvc)
}

// runWithGracefulShutdown starts every enabled listener and blocks until a
// termination signal arrives, then drains connections before tearing down
// the DI container.
func runWithGracefulShutdown(container *di.Container, byteSvc *di.ByteStreamListenerService, frameSvc *di.FrameStreamListenerService) error {
	var wg sync.WaitGroup
	serveErrs := make(chan error, 2)

	if byteSvc.Enabled() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info().Str("listen", byteSvc.Listener.Addr().String()).Msg("byte-stream listener starting")
			if err := byteSvc.Listener.Serve(); err != nil && !errors.Is(err, net.ErrClosed) {
				serveErrs <- err
			}
		}()
	}

	if frameSvc.Enabled() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info().Msg("frame-stream listener starting")
			if err := frameSvc.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErrs <- err
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigint:
			log.Info().Msg("shutting down...")
		case err := <-serveErrs:
			log.Error().Err(err).Msg("listener error, shutting down")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if byteSvc.Enabled() {
			_ = byteSvc.Listener.Close()
		}
		if frameSvc.Enabled() {
			if err := frameSvc.Server.Shutdown(ctx); err != nil {
				log.Error().Err(err).Msg("frame-stream server shutdown error")
			}
		}

		if err := container.ShutdownWithContext(ctx); err != nil {
			log.Error().Err(err).Msg("service shutdown error")
		}

		close(done)
	}()

	wg.Wait()
	<-done
	log.Info().Msg("server stopped")

	return nil
}

// findConfigFile searches for config.yaml in default locations: the
// current directory, then ~/.config/riotbroker.
func findConfigFile() string {
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		p := filepath.Join(home, ".config", "riotbroker", defaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return defaultConfigFile
}
