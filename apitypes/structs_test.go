package apitypes_test

import (
	"testing"

	"github.com/Alia5/joybridge/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceAddResponseDevID(t *testing.T) {
	dev, err := apitypes.DeviceAddResponse{ID: "42-7"}.DevID()
	require.NoError(t, err)
	assert.Equal(t, "7", dev)

	for _, bad := range []string{"", "42", "42-"} {
		_, err := apitypes.DeviceAddResponse{ID: bad}.DevID()
		assert.Error(t, err, bad)
	}
}
