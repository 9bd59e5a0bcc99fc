// Package storage talks to the external key-addressed blob store the
// gateway delegates uploads and listings to. The gateway never stores
// bytes itself; every call here is bounded by the configured timeout and
// failures surface as ErrUpstream, never as a crash of the gate.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/emonxxx11/filegate/pkg/config"
	"github.com/emonxxx11/filegate/pkg/metrics"
)

// ErrUpstream is returned for any blob-store transport or status failure.
// Callers map it to a generic server error; details stay in the logs.
var ErrUpstream = errors.New("blob store request failed")

// ObjectInfo describes one stored object as reported by the blob store.
type ObjectInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlobStore is the collaborator contract the gateway actions depend on.
type BlobStore interface {
	Save(ctx context.Context, name string, data []byte) error
	List(ctx context.Context) ([]ObjectInfo, error)
}

// Client is a BlobStore backed by an HTTP object API.
type Client struct {
	rest *resty.Client
	log  *zap.SugaredLogger
}

// NewClient builds a blob-store client from configuration. Requests carry
// the configured API key and are never retried automatically.
func NewClient(cfg config.Storage, log *zap.SugaredLogger) *Client {
	rest := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.RequestTimeout()).
		SetRetryCount(0)
	if cfg.APIKey != "" {
		rest.SetHeader("X-API-Key", cfg.APIKey)
	}
	return &Client{rest: rest, log: log}
}

// Save stores data under the given object name, overwriting any
// previous object with that name.
func (c *Client) Save(ctx context.Context, name string, data []byte) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(data).
		Put("/objects/" + url.PathEscape(name))
	if err != nil {
		metrics.StorageRequests.WithLabelValues("save", "error").Inc()
		c.log.Errorw("blob store save failed", "object", name, "error", err)
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.IsError() {
		metrics.StorageRequests.WithLabelValues("save", "error").Inc()
		c.log.Errorw("blob store save rejected", "object", name, "status", resp.StatusCode())
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode())
	}
	metrics.StorageRequests.WithLabelValues("save", "success").Inc()
	return nil
}

type listResponse struct {
	Objects []ObjectInfo `json:"objects"`
}

// List returns metadata for every stored object.
func (c *Client) List(ctx context.Context) ([]ObjectInfo, error) {
	var result listResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/objects")
	if err != nil {
		metrics.StorageRequests.WithLabelValues("list", "error").Inc()
		c.log.Errorw("blob store list failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.IsError() {
		metrics.StorageRequests.WithLabelValues("list", "error").Inc()
		c.log.Errorw("blob store list rejected", "status", resp.StatusCode())
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode())
	}
	metrics.StorageRequests.WithLabelValues("list", "success").Inc()
	return result.Objects, nil
}
