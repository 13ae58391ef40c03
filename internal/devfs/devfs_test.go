package devfs

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/allbin/go-pureio"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing", unix.ENOENT, pureio.ErrDeviceNotFound},
		{"no device", unix.ENODEV, pureio.ErrDeviceNotFound},
		{"access", unix.EACCES, pureio.ErrPermissionDenied},
		{"permission", unix.EPERM, pureio.ErrPermissionDenied},
		{"busy", unix.EBUSY, pureio.ErrDeviceBusy},
		{"other errno", unix.EREMOTEIO, unix.EREMOTEIO},
		{"plain error", errors.New("boom"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(tt.err, "select 0x%02x", 0x48)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "select 0x48")
			if tt.want != nil {
				assert.True(t, errors.Is(err, tt.want), "errors.Is(%v, %v)", err, tt.want)
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, Classify(nil, "unused"))
}

func TestOpenMissingDevice(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "i2c-99"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pureio.ErrDeviceNotFound))
}

func TestOpenRegularFile(t *testing.T) {
	fd, err := Open("/dev/null")
	require.NoError(t, err)
	assert.NoError(t, Close(fd))
}
