// Package milvus implements the candidate chunk index on Milvus.
package milvus

import (
	"context"
	"fmt"
	"regexp"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("milvus")

// Config holds Milvus connection and index settings.
type Config struct {
	Address          string
	Username         string
	Password         string
	CollectionPrefix string
	HNSWM            int
	HNSWEfConstruct  int
	SearchEf         int
}

func (c *Config) withDefaults() {
	if c.CollectionPrefix == "" {
		c.CollectionPrefix = "talentdex"
	}
	if c.HNSWM <= 0 {
		c.HNSWM = 16
	}
	if c.HNSWEfConstruct <= 0 {
		c.HNSWEfConstruct = 200
	}
	if c.SearchEf <= 0 {
		c.SearchEf = 128
	}
}

// Client wraps the Milvus SDK client. Collection names passed to its methods
// are namespaces; the prefix and sanitization are applied internally.
type Client struct {
	milvus client.Client
	config Config
}

// NewClient connects to Milvus.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	cfg.withDefaults()

	mc, err := client.NewClient(ctx, client.Config{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to milvus: %w", err)
	}

	return &Client{milvus: mc, config: cfg}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.milvus.Close()
}

// Ping checks connectivity with a cheap metadata call.
func (c *Client) Ping(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "milvus.Ping")
	defer span.End()

	if _, err := c.milvus.HasCollection(ctx, c.CollectionName("health_check")); err != nil {
		span.RecordError(err)
		return fmt.Errorf("milvus ping: %w", err)
	}
	return nil
}

// HasCollection reports whether the namespace collection exists.
func (c *Client) HasCollection(ctx context.Context, namespace string) (bool, error) {
	name := c.CollectionName(namespace)
	ctx, span := tracer.Start(ctx, "milvus.HasCollection",
		trace.WithAttributes(attribute.String("collection", name)))
	defer span.End()

	return c.milvus.HasCollection(ctx, name)
}

var invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// CollectionName maps a namespace to a valid Milvus collection name.
func (c *Client) CollectionName(namespace string) string {
	name := invalidNameChars.ReplaceAllString(namespace, "_")
	if c.config.CollectionPrefix != "" {
		return c.config.CollectionPrefix + "_" + name
	}
	return name
}
