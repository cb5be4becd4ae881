package camera

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camparam/internal/property"
)

func TestNewControls(t *testing.T) {
	camera := NewMockControl()
	procAmp := NewMockControl()

	closed := 0
	controls, err := NewControls(camera, procAmp, func() error {
		closed++
		return nil
	})
	require.NoError(t, err)

	assert.Same(t, camera, controls.For(property.KindCameraControl))
	assert.Same(t, procAmp, controls.For(property.KindVideoProcAmp))

	require.NoError(t, controls.Close())
	require.NoError(t, controls.Close())
	assert.Equal(t, 1, closed)
}

func TestNewControls_MissingInterface(t *testing.T) {
	testCases := []struct {
		name    string
		camera  Control
		procAmp Control
	}{
		{"カメラ制御なし", nil, NewMockControl()},
		{"映像処理なし", NewMockControl(), nil},
		{"両方なし", nil, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			closed := false
			controls, err := NewControls(tc.camera, tc.procAmp, func() error {
				closed = true
				return nil
			})
			assert.Nil(t, controls)
			assert.ErrorIs(t, err, ErrDeviceAccess)
			assert.True(t, closed, "取得済みのリソースは解放されること")
		})
	}
}

func TestStatusError(t *testing.T) {
	err := &StatusError{Op: "set", ID: 4, Code: 0x80070490}
	assert.Equal(t, "set(4) に失敗: status=0x80070490", err.Error())
	assert.Nil(t, errors.Unwrap(err))

	wrapped := &StatusError{Op: "get", ID: 2, Err: ErrNotSupported}
	assert.Contains(t, wrapped.Error(), ErrNotSupported.Error())
	assert.ErrorIs(t, wrapped, ErrNotSupported)
}
