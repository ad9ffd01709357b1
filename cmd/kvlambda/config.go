package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nicolagi/kvgate/storage"
	log "github.com/sirupsen/logrus"
)

// Payload formats of API Gateway proxy events.
const (
	eventREST = "rest"
	eventHTTP = "http"
)

type config struct {
	// Credential for writes. Empty disables writes.
	Secret   string
	Event    string
	LogLevel log.Level
	Store    storage.Config
}

func defaultConfig() config {
	return config{
		Event:    eventREST,
		LogLevel: log.InfoLevel,
		Store: storage.Config{
			Type: "dynamodb",
		},
	}
}

// loadConfigFromEnv loads config from environment variables.
//
// Supported vars:
//   - KVGATE_SECRET
//   - KVGATE_EVENT (rest|http, the API Gateway payload format)
//   - KVGATE_LOG_LEVEL (debug|info|warn|error)
//   - KVGATE_STORE (dynamodb|s3|remote)
//   - KVGATE_REGION, falling back to AWS_REGION
//   - KVGATE_ENDPOINT
//   - KVGATE_THROTTLE (bool)
//   - KVGATE_BUCKET
//   - KVGATE_REMOTE_ADDRESS, KVGATE_REMOTE_SECRET
func loadConfigFromEnv() (config, error) {
	cfg := defaultConfig()

	cfg.Secret = os.Getenv("KVGATE_SECRET")
	if v := strings.TrimSpace(os.Getenv("KVGATE_EVENT")); v != "" {
		cfg.Event = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("KVGATE_LOG_LEVEL")); v != "" {
		level, err := log.ParseLevel(v)
		if err != nil {
			return config{}, fmt.Errorf("KVGATE_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}
	if v := strings.TrimSpace(os.Getenv("KVGATE_STORE")); v != "" {
		cfg.Store.Type = v
	}
	cfg.Store.Region = strings.TrimSpace(os.Getenv("AWS_REGION"))
	if v := strings.TrimSpace(os.Getenv("KVGATE_REGION")); v != "" {
		cfg.Store.Region = v
	}
	cfg.Store.Endpoint = strings.TrimSpace(os.Getenv("KVGATE_ENDPOINT"))
	if v := strings.TrimSpace(os.Getenv("KVGATE_THROTTLE")); v != "" {
		throttle, err := strconv.ParseBool(v)
		if err != nil {
			return config{}, fmt.Errorf("KVGATE_THROTTLE: %w", err)
		}
		cfg.Store.Throttle = throttle
	}
	cfg.Store.Bucket = strings.TrimSpace(os.Getenv("KVGATE_BUCKET"))
	cfg.Store.Address = strings.TrimSpace(os.Getenv("KVGATE_REMOTE_ADDRESS"))
	cfg.Store.Secret = os.Getenv("KVGATE_REMOTE_SECRET")

	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	switch c.Event {
	case eventREST, eventHTTP:
	default:
		return fmt.Errorf("KVGATE_EVENT: %q: must be %q or %q", c.Event, eventREST, eventHTTP)
	}
	switch c.Store.Type {
	case "dynamodb", "s3":
		if c.Store.Region == "" {
			return fmt.Errorf("no region: set KVGATE_REGION or AWS_REGION")
		}
	case "remote":
	default:
		// Local stores would not survive the function instance.
		return fmt.Errorf("KVGATE_STORE: %q: not usable from a Lambda function", c.Store.Type)
	}
	return nil
}
