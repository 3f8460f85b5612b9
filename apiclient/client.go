// Package apiclient talks to a VIIPER server: bus and device management over
// the line protocol, and binary device streams for pushing input frames.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Alia5/joybridge/apitypes"
)

// Client wraps a Transport with request formatting and response parsing.
type Client struct{ transport *Transport }

// New constructs a client for the VIIPER API server at addr (host:port).
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using the given Transport.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// BusCreate creates a virtual bus with the given number.
func (c *Client) BusCreate(ctx context.Context, busID uint32) (*apitypes.BusCreateResponse, error) {
	line, err := c.transport.DoCtx(ctx, "bus/create", strconv.FormatUint(uint64(busID), 10), nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.BusCreateResponse](line)
}

// BusList lists the active bus numbers.
func (c *Client) BusList(ctx context.Context) (*apitypes.BusListResponse, error) {
	line, err := c.transport.DoCtx(ctx, "bus/list", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.BusListResponse](line)
}

// DeviceAdd adds a device of devType (e.g. "dualshock4") to a bus.
func (c *Client) DeviceAdd(ctx context.Context, busID uint32, devType string) (*apitypes.DeviceAddResponse, error) {
	line, err := c.transport.DoCtx(ctx, "bus/{id}/add", devType, busParam(busID))
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceAddResponse](line)
}

// DeviceRemove removes device devID from a bus.
func (c *Client) DeviceRemove(ctx context.Context, busID uint32, devID string) (*apitypes.DeviceRemoveResponse, error) {
	line, err := c.transport.DoCtx(ctx, "bus/{id}/remove", devID, busParam(busID))
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceRemoveResponse](line)
}

// DevicesList lists the devices attached to a bus.
func (c *Client) DevicesList(ctx context.Context, busID uint32) (*apitypes.DevicesListResponse, error) {
	line, err := c.transport.DoCtx(ctx, "bus/{id}/list", nil, busParam(busID))
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DevicesListResponse](line)
}

// EnsureBus returns busID, creating the bus if the server does not list it.
func (c *Client) EnsureBus(ctx context.Context, busID uint32) (uint32, error) {
	list, err := c.BusList(ctx)
	if err != nil {
		return 0, fmt.Errorf("list buses: %w", err)
	}
	for _, b := range list.Buses {
		if b == busID {
			return busID, nil
		}
	}
	created, err := c.BusCreate(ctx, busID)
	if err != nil {
		return 0, fmt.Errorf("create bus %d: %w", busID, err)
	}
	return created.BusID, nil
}

func busParam(busID uint32) map[string]string {
	return map[string]string{"id": strconv.FormatUint(uint64(busID), 10)}
}

func parse[T any](line string) (*T, error) {
	if line == "" {
		return nil, errors.New("empty response")
	}
	var ae apitypes.ApiError
	if err := json.Unmarshal([]byte(line), &ae); err == nil && ae.Error != "" {
		return nil, errors.New(ae.Error)
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(line)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
