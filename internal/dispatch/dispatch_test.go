package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camparam/internal/camera"
	"camparam/internal/command"
	"camparam/internal/property"
)

type fixture struct {
	discovery *camera.MockDiscovery
	controls  *camera.Controls
	reporter  *Reporter
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	discovery := camera.NewMockDiscovery([]string{"/dev/video0"})
	devices, err := discovery.ScanDevices(context.Background())
	require.NoError(t, err)

	controls, err := discovery.Open(context.Background(), devices[0])
	require.NoError(t, err)
	t.Cleanup(func() { _ = controls.Close() })

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &fixture{
		discovery: discovery,
		controls:  controls,
		reporter:  NewReporter(stdout, stderr),
		stdout:    stdout,
		stderr:    stderr,
	}
}

func (f *fixture) dispatcher() *Dispatcher {
	return New(f.controls, f.reporter, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestApply_KnownProperty(t *testing.T) {
	f := newFixture(t)

	f.dispatcher().Apply([]command.Command{{Name: "brightness", Value: 10}})

	writes := f.discovery.ProcAmpControl("/dev/video0").Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, property.ProcAmpBrightness, writes[0].ID)
	assert.Equal(t, int32(10), writes[0].Value)
	assert.Equal(t, property.FlagsManual, writes[0].Flags)

	assert.Empty(t, f.discovery.CameraControl("/dev/video0").Writes())
	assert.Equal(t, "Setting Brightness to 10\n", f.stdout.String())
	assert.Empty(t, f.stderr.String())
	assert.Equal(t, 0, f.reporter.ErrorCount())
}

func TestApply_CameraCatalogFirst(t *testing.T) {
	f := newFixture(t)

	f.dispatcher().Apply([]command.Command{
		{Name: "exposure", Value: -6},
		{Name: "focus", Value: 30},
		{Name: "gain", Value: 4},
	})

	camWrites := f.discovery.CameraControl("/dev/video0").Writes()
	require.Len(t, camWrites, 2)
	assert.Equal(t, property.CameraExposure, camWrites[0].ID)
	assert.Equal(t, int32(-6), camWrites[0].Value)
	assert.Equal(t, property.CameraFocus, camWrites[1].ID)

	ampWrites := f.discovery.ProcAmpControl("/dev/video0").Writes()
	require.Len(t, ampWrites, 1)
	assert.Equal(t, property.ProcAmpGain, ampWrites[0].ID)

	assert.Equal(t, "Setting Exposure to -6\nSetting Focus to 30\nSetting Gain to 4\n", f.stdout.String())
}

func TestApply_UnrecognizedProperty(t *testing.T) {
	f := newFixture(t)

	f.dispatcher().Apply([]command.Command{
		{Name: "brightness", Value: 10},
		{Name: "bogus", Value: 5},
	})

	assert.Equal(t, "Setting Brightness to 10\n", f.stdout.String())
	assert.Equal(t, "Unrecognized property: bogus\n", f.stderr.String())
	assert.Len(t, f.discovery.ProcAmpControl("/dev/video0").Writes(), 1)
	assert.Empty(t, f.discovery.CameraControl("/dev/video0").Calls)
	assert.Equal(t, 1, f.reporter.ErrorCount())
}

func TestApply_NumericNameNotResolved(t *testing.T) {
	f := newFixture(t)

	f.dispatcher().Apply([]command.Command{{Name: "4", Value: 100}})

	assert.Empty(t, f.stdout.String())
	assert.Equal(t, "Unrecognized property: 4\n", f.stderr.String())
	assert.Empty(t, f.discovery.CameraControl("/dev/video0").Calls)
	assert.Empty(t, f.discovery.ProcAmpControl("/dev/video0").Calls)
}

func TestApply_SetFailureContinues(t *testing.T) {
	f := newFixture(t)
	f.discovery.CameraControl("/dev/video0").SetErr[property.CameraZoom] = &camera.StatusError{Op: "set", ID: property.CameraZoom, Code: 0x80070490}

	f.dispatcher().Apply([]command.Command{
		{Name: "zoom", Value: 200},
		{Name: "pan", Value: 5},
	})

	assert.Equal(t, "Setting Zoom to 200\nSetting Pan to 5\n", f.stdout.String())
	assert.Equal(t, "Could not set property.\n", f.stderr.String())
	assert.Len(t, f.discovery.CameraControl("/dev/video0").Writes(), 2)
	assert.Equal(t, 1, f.reporter.ErrorCount())
}

func TestDump(t *testing.T) {
	f := newFixture(t)
	cam := f.discovery.CameraControl("/dev/video0")
	amp := f.discovery.ProcAmpControl("/dev/video0")
	cam.Values[property.CameraExposure] = -5
	amp.Values[property.ProcAmpBrightness] = 128

	f.dispatcher().Dump()

	want := "Pan=0\nTilt=0\nRoll=0\nZoom=0\nExposure=-5\nIris=0\nFocus=0\n" +
		"Brightness=128\nContrast=0\nHue=0\nSaturation=0\nSharpness=0\nGamma=0\n" +
		"ColorEnable=0\nWhiteBalance=0\nBacklightCompensation=0\nGain=0\n"
	assert.Equal(t, want, f.stdout.String())
	assert.Empty(t, cam.Writes())
	assert.Empty(t, amp.Writes())
}

func TestDump_ReadFailure(t *testing.T) {
	f := newFixture(t)
	f.discovery.CameraControl("/dev/video0").GetErr[property.CameraRoll] = &camera.StatusError{Op: "get", ID: property.CameraRoll, Code: 0x16}

	f.dispatcher().Dump()

	assert.NotContains(t, f.stdout.String(), "Roll=")
	assert.Contains(t, f.stdout.String(), "Zoom=0\n")
	assert.Equal(t, "Could not get property: Roll\n", f.stderr.String())
	assert.Equal(t, 1, f.reporter.ErrorCount())
}

func TestDump_UnsupportedNotCounted(t *testing.T) {
	f := newFixture(t)
	f.discovery.CameraControl("/dev/video0").GetErr[property.CameraRoll] = &camera.StatusError{Op: "get", ID: property.CameraRoll, Err: camera.ErrNotSupported}
	f.discovery.ProcAmpControl("/dev/video0").GetErr[property.ProcAmpColorEnable] = &camera.StatusError{Op: "get", ID: property.ProcAmpColorEnable, Err: camera.ErrNotSupported}

	f.dispatcher().Dump()

	assert.Equal(t, "Could not get property: Roll\nCould not get property: ColorEnable\n", f.stderr.String())
	assert.NotContains(t, f.stdout.String(), "Roll=")
	assert.NotContains(t, f.stdout.String(), "ColorEnable=")
	assert.Equal(t, 0, f.reporter.ErrorCount())
}

func TestDump_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.discovery.ProcAmpControl("/dev/video0").Values[property.ProcAmpGamma] = 100

	d := f.dispatcher()
	d.Dump()
	first := f.stdout.String()
	f.stdout.Reset()
	d.Dump()

	assert.Equal(t, first, f.stdout.String())
}

func TestRun(t *testing.T) {
	t.Run("空の表は全プロパティを表示", func(t *testing.T) {
		f := newFixture(t)
		f.dispatcher().Run(command.NewTable())

		assert.Contains(t, f.stdout.String(), "Pan=0\n")
		assert.Contains(t, f.stdout.String(), "Gain=0\n")
	})

	t.Run("値があれば書き込み", func(t *testing.T) {
		f := newFixture(t)
		table := command.NewTable()
		table.Set("Saturation", 64)
		f.dispatcher().Run(table)

		assert.Equal(t, "Setting Saturation to 64\n", f.stdout.String())
	})
}

func TestResolveDevice(t *testing.T) {
	devices := []camera.Device{
		{Index: 0, Name: "内蔵カメラ", Path: "/dev/video0"},
		{Index: 1, Name: "USBカメラ", Path: "/dev/video2"},
	}

	testCases := []struct {
		name     string
		args     []string
		fallback int
		want     int
		wantErr  bool
	}{
		{"指定なしは既定値", nil, 0, 0, false},
		{"指定なしで設定の既定値", nil, 1, 1, false},
		{"device指定", []string{"device=1"}, 0, 1, false},
		{"大文字のキー", []string{"DEVICE=1"}, 0, 1, false},
		{"範囲外", []string{"device=2"}, 0, 2, true},
		{"負の値", []string{"device=-1"}, 0, -1, true},
		{"既定値が範囲外", nil, 5, 5, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, errs := command.Parse(tc.args)
			require.Empty(t, errs)

			device, index, err := ResolveDevice(devices, table, tc.fallback)
			assert.Equal(t, tc.want, index)
			for _, cmd := range table.Commands() {
				assert.NotEqual(t, command.DeviceKey, cmd.Name, "device キーは取り除かれること")
			}

			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidDevice))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, devices[tc.want], device)
		})
	}
}

func TestResolveDevice_NoDevices(t *testing.T) {
	table, _ := command.Parse([]string{"device=0"})

	_, _, err := ResolveDevice(nil, table, 0)
	assert.ErrorIs(t, err, ErrInvalidDevice)
	assert.Equal(t, 0, table.Len())
}

func TestReporter(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	r := NewReporter(stdout, stderr)

	r.Devices([]camera.Device{{Index: 0, Name: "内蔵カメラ"}, {Index: 1, Name: "USBカメラ"}})
	r.Configuring(camera.Device{Name: "USBカメラ"})
	r.Fatal("Invalid device index: 3")

	assert.Equal(t, "Available devices:\n0 内蔵カメラ\n1 USBカメラ\nConfiguring Device: USBカメラ\n", stdout.String())
	assert.Equal(t, "Invalid device index: 3\n", stderr.String())
	assert.Equal(t, 0, r.ErrorCount(), "Fatalは回復可能なエラーとして数えない")
}
