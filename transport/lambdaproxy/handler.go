// Package lambdaproxy serves a facade.Dispatcher as an AWS Lambda function
// behind API Gateway, using the proxy integration. Both REST API (payload
// version 1.0) and HTTP API (payload version 2.0) events are understood.
//
// The API Gateway route must capture the path parameters "table" and "key",
// e.g., "/{table}/{key}". Bodies that API Gateway hands over base64-encoded
// are binary media, and so never valid values.
package lambdaproxy

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/nicolagi/kvgate/facade"
)

type Handler struct {
	dispatcher *facade.Dispatcher
}

func New(dispatcher *facade.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// HandleREST handles REST API proxy events.
func (h *Handler) HandleREST(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	header := make(http.Header)
	for name, value := range event.Headers {
		header.Set(name, value)
	}
	// Multi-value headers, when present, are a superset of the single-value
	// ones.
	for name, values := range event.MultiValueHeaders {
		header.Del(name)
		for _, value := range values {
			header.Add(name, value)
		}
	}
	response := h.dispatcher.Serve(ctx, facade.Request{
		Method: event.HTTPMethod,
		Params: event.PathParameters,
		Header: header,
		Body:   body(event.Body, event.IsBase64Encoded),
	})
	return events.APIGatewayProxyResponse{
		StatusCode: response.StatusCode,
		Headers:    headersFor(response),
		Body:       response.Body,
	}, nil
}

// HandleHTTP handles HTTP API events.
func (h *Handler) HandleHTTP(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	header := make(http.Header)
	for name, value := range event.Headers {
		header.Set(name, value)
	}
	response := h.dispatcher.Serve(ctx, facade.Request{
		Method: event.RequestContext.HTTP.Method,
		Params: event.PathParameters,
		Header: header,
		Body:   body(event.Body, event.IsBase64Encoded),
	})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: response.StatusCode,
		Headers:    headersFor(response),
		Body:       response.Body,
	}, nil
}

func body(s string, isBase64 bool) facade.Body {
	if s == "" {
		return facade.NoBody
	}
	if !isBase64 {
		return facade.TextBody(s)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return facade.BinaryBody([]byte(s))
	}
	return facade.BinaryBody(b)
}

func headersFor(response facade.Response) map[string]string {
	if response.Body == "" {
		return nil
	}
	return map[string]string{
		"Content-Type": "text/plain; charset=utf-8",
	}
}
