// Package device implements the key light HTTP API: fetch the current light
// state and push a desired one.
package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/keylight/internal/light"
)

// Protocol defaults.
const (
	DefaultPort         = 9123
	DefaultFetchTimeout = 5 * time.Second
	DefaultPushTimeout  = 1 * time.Second

	lightsPath = "/elgato/lights"
)

// Options tunes the client. Zero values fall back to the defaults.
type Options struct {
	Port         int
	FetchTimeout time.Duration
	PushTimeout  time.Duration
	HTTPClient   *http.Client
}

// Client talks to a single key light.
type Client struct {
	address      string
	url          string
	fetchTimeout time.Duration
	pushTimeout  time.Duration
	httpClient   *http.Client
}

// NewClient creates a client for the light at address (host or IP, no port).
func NewClient(address string, opts Options) *Client {
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.FetchTimeout == 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.PushTimeout == 0 {
		opts.PushTimeout = DefaultPushTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	return &Client{
		address:      address,
		url:          fmt.Sprintf("http://%s:%d%s", address, opts.Port, lightsPath),
		fetchTimeout: opts.FetchTimeout,
		pushTimeout:  opts.PushTimeout,
		httpClient:   opts.HTTPClient,
	}
}

// Address returns the device address
func (c *Client) Address() string {
	return c.address
}

// URL returns the lights endpoint
func (c *Client) URL() string {
	return c.url
}

// Close closes idle connections
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// FetchState returns the state of the first light reported by the device.
func (c *Client) FetchState(ctx context.Context) (light.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	l, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return light.Snapshot{}, err
	}

	snap := l.Snapshot()
	log.Debug().
		Str("address", c.address).
		Bool("on", snap.On).
		Int("brightness", snap.Brightness).
		Int("temperature", snap.Temperature).
		Msg("Fetched light state")

	return snap, nil
}

// PushState sends desired to the device and returns the state it acknowledged.
func (c *Client) PushState(ctx context.Context, desired light.Snapshot) (light.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pushTimeout)
	defer cancel()

	body, err := json.Marshal(newLights(FromSnapshot(desired)))
	if err != nil {
		return light.Snapshot{}, fmt.Errorf("failed to encode light state: %w", err)
	}

	l, err := c.do(ctx, http.MethodPut, body)
	if err != nil {
		return light.Snapshot{}, err
	}

	log.Debug().
		Str("address", c.address).
		Bool("on", desired.On).
		Int("brightness", desired.Brightness).
		Int("temperature", desired.Temperature).
		Msg("Pushed light state")

	return l.Snapshot(), nil
}

// do performs one request and decodes the first light of the response.
func (c *Client) do(ctx context.Context, method string, body []byte) (Light, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url, reader)
	if err != nil {
		return Light{}, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Light{}, &ConnectionError{Op: method, URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Light{}, &ProtocolError{
			Op:         method,
			URL:        c.url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	var result Lights
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Light{}, &DecodeError{Op: method, Err: err}
	}

	// The key light always reports exactly one light.
	if len(result.Lights) == 0 {
		return Light{}, ErrEmptyDeviceList
	}

	return result.Lights[0], nil
}
