// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMailpitImage is the Mailpit SMTP sink image
	DefaultMailpitImage = "axllent/mailpit:v1.21"

	// MailpitSMTPPort is the SMTP listener inside the container
	MailpitSMTPPort = "1025"

	// MailpitHTTPPort serves the web UI and REST API
	MailpitHTTPPort = "8025"
)

// MailpitContainer represents a running Mailpit container.
type MailpitContainer struct {
	testcontainers.Container
	SMTPHost string
	SMTPPort int
	APIURL   string

	client *http.Client
}

// MailpitOption configures the Mailpit container.
type MailpitOption func(*mailpitConfig)

type mailpitConfig struct {
	image        string
	startTimeout time.Duration
}

// WithMailpitImage sets a custom Mailpit image.
func WithMailpitImage(image string) MailpitOption {
	return func(c *mailpitConfig) {
		c.image = image
	}
}

// WithStartTimeout sets the timeout for waiting for Mailpit to start.
func WithStartTimeout(timeout time.Duration) MailpitOption {
	return func(c *mailpitConfig) {
		c.startTimeout = timeout
	}
}

// NewMailpitContainer creates and starts a Mailpit container.
func NewMailpitContainer(ctx context.Context, opts ...MailpitOption) (*MailpitContainer, error) {
	cfg := &mailpitConfig{
		image:        DefaultMailpitImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{MailpitSMTPPort + "/tcp", MailpitHTTPPort + "/tcp"},
		Env: map[string]string{
			// Accept any AUTH so tests can exercise PLAIN login without TLS.
			"MP_SMTP_AUTH_ACCEPT_ANY":     "1",
			"MP_SMTP_AUTH_ALLOW_INSECURE": "1",
			"TZ":                          "UTC",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(MailpitSMTPPort+"/tcp"),
			wait.ForHTTP("/api/v1/info").WithPort(MailpitHTTPPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create mailpit container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	smtpPort, err := container.MappedPort(ctx, MailpitSMTPPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped smtp port: %w", err)
	}

	httpPort, err := container.MappedPort(ctx, MailpitHTTPPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped http port: %w", err)
	}

	return &MailpitContainer{
		Container: container,
		SMTPHost:  host,
		SMTPPort:  smtpPort.Int(),
		APIURL:    fmt.Sprintf("http://%s:%s", host, httpPort.Port()),
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// MailpitAddress is a sender or recipient as Mailpit reports it.
type MailpitAddress struct {
	Name    string `json:"Name"`
	Address string `json:"Address"`
}

// MailpitMessage is a message summary from the list endpoint.
type MailpitMessage struct {
	ID      string           `json:"ID"`
	From    MailpitAddress   `json:"From"`
	To      []MailpitAddress `json:"To"`
	Subject string           `json:"Subject"`
}

// MailpitMessageDetail is a full message.
type MailpitMessageDetail struct {
	MailpitMessage
	Text string `json:"Text"`
}

// Messages lists every message Mailpit has received, newest first.
func (c *MailpitContainer) Messages(ctx context.Context) ([]MailpitMessage, error) {
	var out struct {
		Messages []MailpitMessage `json:"messages"`
	}
	if err := c.getJSON(ctx, "/api/v1/messages", &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// Message fetches one message with its decoded text body.
func (c *MailpitContainer) Message(ctx context.Context, id string) (*MailpitMessageDetail, error) {
	var out MailpitMessageDetail
	if err := c.getJSON(ctx, "/api/v1/message/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Headers fetches the raw headers of one message.
func (c *MailpitContainer) Headers(ctx context.Context, id string) (map[string][]string, error) {
	var out map[string][]string
	if err := c.getJSON(ctx, "/api/v1/message/"+id+"/headers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MailpitContainer) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: status %d: %s", path, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Logs returns the container logs for debugging.
func (c *MailpitContainer) Logs(ctx context.Context) (string, error) {
	reader, err := c.Container.Logs(ctx)
	if err != nil {
		return "", fmt.Errorf("get logs: %w", err)
	}
	defer reader.Close()

	logs, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read logs: %w", err)
	}
	return string(logs), nil
}
