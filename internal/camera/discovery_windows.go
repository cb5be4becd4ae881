//go:build windows

package camera

import (
	"context"
	"fmt"
	"log/slog"

	"camparam/internal/property"
)

const defaultBackend = BackendMediaFoundation

func registerPlatformBackends(f *DefaultDiscoveryFactory) {
	f.Register(BackendMediaFoundation, func(logger *slog.Logger) (Discovery, error) {
		return NewMFDiscovery(logger), nil
	})
}

// MFDiscovery はMedia Foundationによるデバイス検出を実装する
type MFDiscovery struct {
	logger    *slog.Logger
	started   bool
	activates []*imfActivate
}

// NewMFDiscovery は新しいMFDiscoveryを作成する
func NewMFDiscovery(logger *slog.Logger) *MFDiscovery {
	return &MFDiscovery{logger: logger}
}

// ScanDevices はビデオキャプチャデバイスを列挙する
func (d *MFDiscovery) ScanDevices(_ context.Context) ([]Device, error) {
	if !d.started {
		if err := mfStartup(); err != nil {
			return nil, err
		}
		d.started = true
	}

	d.releaseActivates()

	activates, err := enumDeviceSources()
	if err != nil {
		return nil, err
	}
	d.activates = activates

	devices := make([]Device, 0, len(activates))
	for i, activate := range activates {
		device := Device{Index: i}

		if name, err := activate.attributes().GetString(&mfDevSourceAttributeFriendlyName); err == nil {
			device.Name = name
		} else {
			d.logger.Debug("フレンドリー名を取得できません", "index", i, "error", err)
			device.Name = fmt.Sprintf("カメラ %d", i)
		}

		if link, err := activate.attributes().GetString(&mfDevSourceAttributeVidcapSymbolicLink); err == nil {
			device.Path = link
		}

		devices = append(devices, device)
	}

	return devices, nil
}

// Open はメディアソースを生成し、IAMCameraControl と IAMVideoProcAmp を取得する
func (d *MFDiscovery) Open(_ context.Context, device Device) (*Controls, error) {
	if device.Index < 0 || device.Index >= len(d.activates) {
		return nil, fmt.Errorf("デバイスが列挙されていません: %d: %w", device.Index, ErrDeviceAccess)
	}
	activate := d.activates[device.Index]

	obj, err := activate.ActivateObject(&iidIMFMediaSource)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", device.Name, err, ErrDeviceAccess)
	}
	source := (*imfMediaSource)(obj)

	var camera, procAmp Control
	var cameraCtrl, procAmpCtrl *amControl

	if ptr, err := source.QueryInterface(&iidIAMCameraControl); err == nil {
		cameraCtrl = (*amControl)(ptr)
		camera = &mfControl{ctrl: cameraCtrl, kind: property.KindCameraControl}
	} else {
		d.logger.Debug("IAMCameraControl を取得できません", "device", device.Name, "error", err)
	}

	if ptr, err := source.QueryInterface(&iidIAMVideoProcAmp); err == nil {
		procAmpCtrl = (*amControl)(ptr)
		procAmp = &mfControl{ctrl: procAmpCtrl, kind: property.KindVideoProcAmp}
	} else {
		d.logger.Debug("IAMVideoProcAmp を取得できません", "device", device.Name, "error", err)
	}

	return NewControls(camera, procAmp, func() error {
		cameraCtrl.Release()
		procAmpCtrl.Release()
		source.Shutdown()
		source.Release()
		activate.ShutdownObject()
		return nil
	})
}

// Close は列挙したアクティベーションを解放し、Media Foundationを終了する
func (d *MFDiscovery) Close() error {
	d.releaseActivates()
	if d.started {
		mfShutdown()
		d.started = false
	}
	return nil
}

func (d *MFDiscovery) releaseActivates() {
	for _, activate := range d.activates {
		activate.Release()
	}
	d.activates = nil
}

// mfControl はIAMCameraControl/IAMVideoProcAmpをControlとして扱う
type mfControl struct {
	ctrl *amControl
	kind property.Kind
}

func (c *mfControl) Get(id int32) (int32, property.Flags, error) {
	value, flags, hr := c.ctrl.get(id)
	if hr != 0 {
		return 0, 0, &StatusError{Op: "get", ID: id, Code: uint64(hr)}
	}
	return value, property.Flags(flags), nil
}

func (c *mfControl) Set(id int32, value int32, flags property.Flags) error {
	if hr := c.ctrl.set(id, value, int32(flags)); hr != 0 {
		return &StatusError{Op: "set", ID: id, Code: uint64(hr)}
	}
	return nil
}
