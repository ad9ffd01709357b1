// Package httpapi serves a facade.Dispatcher over plain HTTP.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nicolagi/kvgate/facade"
	log "github.com/sirupsen/logrus"
)

// Bodies larger than this can't be stored in DynamoDB anyway, and are treated
// as invalid.
const maxBodyBytes = 400 << 10

type Option func(*options)

type options struct {
	address string
}

func WithAddress(value string) Option {
	return func(o *options) {
		o.address = value
	}
}

type Server struct {
	opts       options
	dispatcher *facade.Dispatcher
	router     *gin.Engine
	ln         net.Listener
	srv        *http.Server
}

func New(dispatcher *facade.Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher: dispatcher,
	}
	s.opts.address = ":8080"
	for _, o := range opts {
		o(&s.opts)
	}

	router := gin.New()
	// "/users/alice/" is a path miss, not a redirect.
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.Use(requestLogger(), recovery())
	router.GET("/:table/:key", s.serve)
	router.POST("/:table/:key", s.serve)
	// Everything else goes to the dispatcher as well, without path
	// parameters, so that it decides between 404 and 405.
	router.NoRoute(s.serve)
	s.router = router

	s.srv = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, for use without Listen and Serve.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Listen() (addr string, err error) {
	s.ln, err = net.Listen("tcp", s.opts.address)
	if err != nil {
		return
	}
	addr = s.ln.Addr().String()
	return
}

// Serve serves requests until Shutdown is called, in which case it returns nil.
func (s *Server) Serve() error {
	err := s.srv.Serve(s.ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) serve(c *gin.Context) {
	request := facade.Request{
		Method: c.Request.Method,
		Header: c.Request.Header,
		Body:   readBody(c.Request),
	}
	if len(c.Params) > 0 {
		request.Params = make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			request.Params[p.Key] = p.Value
		}
	}
	response := s.dispatcher.Serve(c.Request.Context(), request)
	if response.Body == "" {
		c.Status(response.StatusCode)
		// Otherwise gin would fill in its own 404 body on unmatched routes.
		c.Writer.WriteHeaderNow()
		return
	}
	c.Data(response.StatusCode, "text/plain; charset=utf-8", []byte(response.Body))
}

func readBody(r *http.Request) facade.Body {
	if r.Body == nil {
		return facade.NoBody
	}
	defer func() {
		_ = r.Body.Close()
	}()
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		log.WithField("err", err).Warn("Could not read request body")
		return facade.NoBody
	}
	switch {
	case len(b) == 0:
		return facade.NoBody
	case len(b) > maxBodyBytes, !utf8.Valid(b):
		return facade.BinaryBody(b)
	default:
		return facade.TextBody(string(b))
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-Id", id)
		c.Next()
		log.WithFields(log.Fields{
			"id":      id,
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
			"remote":  c.ClientIP(),
		}).Info("Request")
	}
}

func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"err":    err,
		}).Error("Panic serving request")
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}
