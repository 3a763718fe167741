package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"musaetermo/internal/server"
	"musaetermo/internal/storage"
	"musaetermo/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	archive, err := store.New(config.StorageDir)
	if err != nil {
		return err
	}

	var mirror *storage.Mirror
	if config.MirrorBucket != "" {
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}
		mirror = storage.NewMirror(s3.NewFromConfig(awsConfig), config.MirrorBucket, config.MirrorPrefix, logger)
	}

	srv, err := server.New(config, logger, archive, mirror)
	if err != nil {
		return err
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":        config.ServerPort,
			"storage_dir": archive.Dir(),
			"admin_url":   config.BaseURL + "/admin.html",
		}).Infof("server starting %s", config.BaseURL)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
