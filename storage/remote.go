package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RemoteStore implements Store. It requires to connect to another kvgate
// server, and a secret that server accepts for writes.
type RemoteStore struct {
	address string
	secret  string
	client  *http.Client
}

func NewRemoteStore(address, secret string) *RemoteStore {
	return &RemoteStore{
		address: address,
		secret:  secret,
		client:  http.DefaultClient,
	}
}

func (r *RemoteStore) Put(ctx context.Context, table, key, value string) (err error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, r.pathFor(table, key), strings.NewReader(value))
	if err != nil {
		return newError("put", table, key, err)
	}
	request.Header.Set("Authorization", "Token: "+r.secret)
	request.Header.Set("Content-Type", "text/plain; charset=utf-8")
	response, err := r.client.Do(request)
	if err != nil {
		return newError("put", table, key, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()
	if response.StatusCode != http.StatusNoContent {
		return remoteError("put", table, key, response)
	}
	return nil
}

func (r *RemoteStore) Get(ctx context.Context, table, key string) (value string, err error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, r.pathFor(table, key), nil)
	if err != nil {
		return "", newError("get", table, key, err)
	}
	response, err := r.client.Do(request)
	if err != nil {
		return "", newError("get", table, key, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()
	if response.StatusCode == http.StatusNotFound {
		return "", notFound(table, key)
	}
	if response.StatusCode != http.StatusOK {
		return "", remoteError("get", table, key, response)
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", newError("get", table, key, err)
	}
	return string(body), nil
}

func (r *RemoteStore) pathFor(table, key string) string {
	return fmt.Sprintf("http://%s/%s/%s", r.address, url.PathEscape(table), url.PathEscape(key))
}

func remoteError(op, table, key string, response *http.Response) *Error {
	e := newError(op, table, key, errors.New(response.Status))
	e.Code = strconv.Itoa(response.StatusCode)
	return e
}
