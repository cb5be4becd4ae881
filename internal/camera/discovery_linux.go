//go:build linux

package camera

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/vladimirvivien/go4vl/v4l2"
	"golang.org/x/sys/unix"

	"camparam/internal/property"
)

const defaultBackend = BackendV4L2

const (
	v4l2CapVideoCapture uint32 = 0x00000001
	v4l2CapDeviceCaps   uint32 = 0x80000000
)

func registerPlatformBackends(f *DefaultDiscoveryFactory) {
	f.Register(BackendV4L2, func(logger *slog.Logger) (Discovery, error) {
		return NewV4L2Discovery(logger), nil
	})
}

// V4L2Discovery はLinux環境でのV4L2デバイス検出を実装する
type V4L2Discovery struct {
	pattern string
	logger  *slog.Logger
}

// NewV4L2Discovery は新しいV4L2Discoveryを作成する
func NewV4L2Discovery(logger *slog.Logger) *V4L2Discovery {
	return &V4L2Discovery{
		pattern: "/dev/video*",
		logger:  logger,
	}
}

// ScanDevices はビデオキャプチャ機能を持つデバイスを番号順に返す
func (d *V4L2Discovery) ScanDevices(ctx context.Context) ([]Device, error) {
	matches, err := filepath.Glob(d.pattern)
	if err != nil {
		return nil, fmt.Errorf("デバイスのスキャンに失敗: %w", err)
	}

	// デバイス番号でソート
	sort.Slice(matches, func(i, j int) bool {
		return extractDeviceNumber(matches[i]) < extractDeviceNumber(matches[j])
	})

	var devices []Device
	for _, path := range matches {
		select {
		case <-ctx.Done():
			return devices, ctx.Err()
		default:
		}

		name, ok := d.probe(path)
		if !ok {
			continue
		}
		devices = append(devices, Device{Index: len(devices), Name: name, Path: path})
	}

	return devices, nil
}

// probe はキャプチャデバイスであればカード名を返す
func (d *V4L2Discovery) probe(path string) (string, bool) {
	fd, err := v4l2.OpenDevice(path, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		d.logger.Debug("デバイスを開けません", "device", path, "error", err)
		return "", false
	}
	defer func() {
		_ = v4l2.CloseDevice(fd)
	}()

	caps, err := v4l2.GetCapability(fd)
	if err != nil {
		d.logger.Debug("VIDIOC_QUERYCAP に失敗", "device", path, "error", err)
		return "", false
	}

	// メタデータ用のノードは除外する
	deviceCaps := caps.Capabilities
	if caps.Capabilities&v4l2CapDeviceCaps != 0 {
		deviceCaps = caps.DeviceCapabilities
	}
	if deviceCaps&v4l2CapVideoCapture == 0 {
		d.logger.Debug("キャプチャデバイスではありません", "device", path, "card", caps.Card)
		return "", false
	}

	if caps.Card == "" {
		return fmt.Sprintf("カメラ %d", extractDeviceNumber(path)), true
	}
	return caps.Card, true
}

// Open はデバイスノードを開き、同じファイル記述子で両方の制御を提供する
func (d *V4L2Discovery) Open(_ context.Context, device Device) (*Controls, error) {
	fd, err := v4l2.OpenDevice(device.Path, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("%s を開けません: %v: %w", device.Path, err, ErrDeviceAccess)
	}

	d.logger.Debug("デバイスを開きました", "device", device.Path, "name", device.Name)

	return NewControls(
		&v4l2Control{fd: fd, kind: property.KindCameraControl, logger: d.logger},
		&v4l2Control{fd: fd, kind: property.KindVideoProcAmp, logger: d.logger},
		func() error { return v4l2.CloseDevice(fd) },
	)
}

// Close は何もしない
func (d *V4L2Discovery) Close() error {
	return nil
}

// v4l2Control はプロパティ識別子をV4L2コントロールへ変換する
type v4l2Control struct {
	fd     uintptr
	kind   property.Kind
	logger *slog.Logger
}

func (c *v4l2Control) Get(id int32) (int32, property.Flags, error) {
	m, ok := lookupV4L2(c.kind, id)
	if !ok {
		return 0, 0, &StatusError{Op: "get", ID: id, Err: ErrNotSupported}
	}

	ctrl, err := v4l2.GetControl(c.fd, v4l2.CtrlID(m.ctrl))
	if err != nil {
		return 0, 0, &StatusError{Op: "get", ID: id, Code: errnoOf(err), Err: err}
	}

	flags := property.FlagsManual
	if m.auto != 0 {
		mode, err := v4l2.GetControl(c.fd, v4l2.CtrlID(m.auto))
		if err == nil && int32(mode.Value) != m.manual {
			flags = property.FlagsAuto
		}
	}

	return int32(ctrl.Value), flags, nil
}

func (c *v4l2Control) Set(id int32, value int32, flags property.Flags) error {
	m, ok := lookupV4L2(c.kind, id)
	if !ok {
		return &StatusError{Op: "set", ID: id, Err: ErrNotSupported}
	}

	// 手動モードへ切り替えてから値を書き込む
	if m.auto != 0 && flags == property.FlagsManual {
		if err := v4l2.SetControlValue(c.fd, v4l2.CtrlID(m.auto), v4l2.CtrlValue(m.manual)); err != nil {
			c.logger.Debug("手動モードへの切り替えに失敗", "control", fmt.Sprintf("0x%08x", m.auto), "error", err)
		}
	}

	if err := v4l2.SetControlValue(c.fd, v4l2.CtrlID(m.ctrl), v4l2.CtrlValue(value)); err != nil {
		return &StatusError{Op: "set", ID: id, Code: errnoOf(err), Err: err}
	}
	return nil
}

// errnoOf はエラーに含まれるerrnoを返す
func errnoOf(err error) uint64 {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return uint64(errno)
	}
	return 0
}
