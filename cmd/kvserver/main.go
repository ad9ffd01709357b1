package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/gops/agent"
	"github.com/nicolagi/kvgate/facade"
	"github.com/nicolagi/kvgate/storage"
	"github.com/nicolagi/kvgate/transport/httpapi"
	log "github.com/sirupsen/logrus"
)

func main() {
	defaultConfigFile := os.ExpandEnv("$HOME/lib/kvgate/kvserver.config")
	configFile := flag.String("config", defaultConfigFile, "location of configuration file")
	flag.Parse()

	config, err := loadConfig(*configFile)
	if err != nil {
		log.WithFields(log.Fields{
			"err":  err,
			"path": *configFile,
		}).Fatal("Could not load configuration")
	}
	config.applyDefaultsForMissingProperties()

	if config.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := agent.Listen(agent.Options{
		ShutdownCleanup: true,
	}); err != nil {
		log.WithField("err", err).Warn("Could not start gops agent")
	} else {
		defer agent.Close()
	}

	auth := facade.NewAuthorizer(os.Getenv("KVGATE_SECRET"))
	if !auth.Enabled() {
		log.Warn("KVGATE_SECRET is not set, all writes will be rejected")
	}

	store, cleanup, err := storage.Open(config.Store)
	if err != nil {
		log.WithFields(log.Fields{
			"err":  err,
			"type": config.Store.Type,
		}).Fatal("Could not open store")
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.WithField("err", err).Warn("Could not close store cleanly")
		}
	}()
	log.WithFields(log.Fields{
		"type": config.Store.Type,
		"path": config.Store.Path,
	}).Info("Opened store")

	srv := httpapi.New(facade.NewDispatcher(store, auth), httpapi.WithAddress(config.Address))
	addr, err := srv.Listen()
	if err != nil {
		log.WithField("err", err).Fatal("Could not listen")
	}
	log.WithField("addr", addr).Info("Listening")

	// Serve returns once Shutdown is called, which lets the deferred clean-up
	// functions run.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-c
		log.WithField("signal", sig).Info("Shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithField("err", err).Warn("Could not shut down the server cleanly")
		}
	}()

	if err := srv.Serve(); err != nil {
		log.WithField("err", err).Error("Could not serve")
	}
}
