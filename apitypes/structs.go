// Package apitypes holds the VIIPER API response payloads.
package apitypes

import (
	"fmt"
	"strings"
)

type ApiError struct {
	Error string `json:"error"`
}

type BusListResponse struct {
	Buses []uint32 `json:"buses"`
}

type BusCreateResponse struct {
	BusID uint32 `json:"busId"`
}

type Device struct {
	BusID uint32 `json:"busId"`
	DevId string `json:"devId"`
	Vid   string `json:"vid"`
	Pid   string `json:"pid"`
	Type  string `json:"type"`
}

type DevicesListResponse struct {
	Devices []Device `json:"devices"`
}

type DeviceAddResponse struct {
	ID string `json:"id"` // Format: "<busId>-<devId>"
}

// DevID returns the device part of ID.
func (r DeviceAddResponse) DevID() (string, error) {
	_, dev, ok := strings.Cut(r.ID, "-")
	if !ok || dev == "" {
		return "", fmt.Errorf("invalid device id %q", r.ID)
	}
	return dev, nil
}

type DeviceRemoveResponse struct {
	BusID uint32 `json:"busId"`
	DevId string `json:"devId"`
}
