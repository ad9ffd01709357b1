package facade

import (
	"context"
	"errors"
	"net/http"

	"github.com/nicolagi/kvgate/storage"
	log "github.com/sirupsen/logrus"
)

// Dispatcher routes requests by method to the read or write flow. It holds no
// mutable state and is safe for concurrent use.
type Dispatcher struct {
	store Store
	auth  Authorizer
}

func NewDispatcher(store Store, auth Authorizer) *Dispatcher {
	return &Dispatcher{
		store: store,
		auth:  auth,
	}
}

// Serve dispatches the request and renders its outcome.
func (d *Dispatcher) Serve(ctx context.Context, r Request) Response {
	return Render(d.Dispatch(ctx, r))
}

// Dispatch handles
//
//	GET /{table}/{key}
//	POST /{table}/{key}
//
// and rejects every other method.
func (d *Dispatcher) Dispatch(ctx context.Context, r Request) Outcome {
	switch r.Method {
	case http.MethodGet:
		return d.get(ctx, r)
	case http.MethodPost:
		return d.set(ctx, r)
	default:
		log.WithField("op", r.Method).Debug("Method not allowed")
		return MethodNotAllowed()
	}
}

func (d *Dispatcher) get(ctx context.Context, r Request) Outcome {
	table, key, ok := MatchPath(r.Params)
	if !ok {
		log.WithField("op", "get").Debug("Path not found")
		return PathNotFound()
	}
	logger := log.WithFields(log.Fields{
		"op":    "get",
		"table": table,
		"key":   key,
	})
	value, err := d.store.Get(ctx, table, key)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Debug("Not found")
		return NothingRetrieved()
	}
	if err != nil {
		logStoreError(logger, err)
		return StoreError()
	}
	logger.Debug("Success")
	return RetrievedValue(value)
}

func (d *Dispatcher) set(ctx context.Context, r Request) Outcome {
	// Authorization comes first, so that unauthenticated callers can't learn
	// anything about paths.
	if !d.auth.Authorize(r.Header) {
		log.WithField("op", "put").Warn("Unauthorized")
		return Unauthorized()
	}
	table, key, ok := MatchPath(r.Params)
	if !ok {
		log.WithField("op", "put").Debug("Path not found")
		return PathNotFound()
	}
	logger := log.WithFields(log.Fields{
		"op":    "put",
		"table": table,
		"key":   key,
	})
	value, ok := r.Body.Text()
	if !ok {
		logger.WithField("body", r.Body.Kind()).Debug("Invalid body")
		return InvalidBody()
	}
	if err := d.store.Put(ctx, table, key, value); err != nil {
		logStoreError(logger, err)
		return StoreError()
	}
	logger.Debug("Success")
	return Stored()
}

func logStoreError(logger *log.Entry, err error) {
	var serr *storage.Error
	if errors.As(err, &serr) && serr.Code != "" {
		logger = logger.WithField("code", serr.Code)
	}
	logger.WithField("err", err).Error("Store error")
}
