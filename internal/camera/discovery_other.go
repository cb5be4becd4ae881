//go:build !linux && !windows

package camera

import (
	"context"
	"log/slog"
	"runtime"
)

const defaultBackend = BackendNone

func registerPlatformBackends(f *DefaultDiscoveryFactory) {
	f.Register(BackendNone, func(logger *slog.Logger) (Discovery, error) {
		return &noneDiscovery{logger: logger}, nil
	})
}

// noneDiscovery はキャプチャAPIを持たないOS向けの空実装
type noneDiscovery struct {
	logger *slog.Logger
}

func (d *noneDiscovery) ScanDevices(_ context.Context) ([]Device, error) {
	d.logger.Warn("このOSのキャプチャデバイスには対応していません", "os", runtime.GOOS)
	return nil, nil
}

func (d *noneDiscovery) Open(_ context.Context, _ Device) (*Controls, error) {
	return nil, ErrDeviceAccess
}

func (d *noneDiscovery) Close() error {
	return nil
}
