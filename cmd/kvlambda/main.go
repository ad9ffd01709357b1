package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nicolagi/kvgate/facade"
	"github.com/nicolagi/kvgate/storage"
	"github.com/nicolagi/kvgate/transport/lambdaproxy"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	config, err := loadConfigFromEnv()
	if err != nil {
		log.WithField("err", err).Fatal("Could not load configuration")
	}
	log.SetLevel(config.LogLevel)

	auth := facade.NewAuthorizer(config.Secret)
	if !auth.Enabled() {
		log.Warn("KVGATE_SECRET is not set, all writes will be rejected")
	}

	// Nothing to clean up for the stores allowed here.
	store, _, err := storage.Open(config.Store)
	if err != nil {
		log.WithFields(log.Fields{
			"err":  err,
			"type": config.Store.Type,
		}).Fatal("Could not open store")
	}

	handler := lambdaproxy.New(facade.NewDispatcher(store, auth))
	switch config.Event {
	case eventHTTP:
		lambda.Start(handler.HandleHTTP)
	default:
		lambda.Start(handler.HandleREST)
	}
}
