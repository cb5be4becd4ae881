package camera

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"camparam/internal/property"
)

var deviceNumberPattern = regexp.MustCompile(`video(\d+)$`)

// extractDeviceNumber はデバイスパスから番号を抽出する
func extractDeviceNumber(device string) int {
	// /dev/videoXX から XX を抽出
	matches := deviceNumberPattern.FindStringSubmatch(device)
	if len(matches) < 2 {
		return 0
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0
	}

	return num
}

// MockCall はMockControlに対する1回の呼び出し
type MockCall struct {
	Op    string // "get" または "set"
	ID    int32
	Value int32
	Flags property.Flags
}

// MockControl はテスト用のモック制御インターフェース
type MockControl struct {
	Values map[int32]int32
	Modes  map[int32]property.Flags
	GetErr map[int32]error
	SetErr map[int32]error
	Calls  []MockCall
}

// NewMockControl は新しいMockControlを作成する
func NewMockControl() *MockControl {
	return &MockControl{
		Values: make(map[int32]int32),
		Modes:  make(map[int32]property.Flags),
		GetErr: make(map[int32]error),
		SetErr: make(map[int32]error),
	}
}

// Get は保持している値を返す
func (c *MockControl) Get(id int32) (int32, property.Flags, error) {
	c.Calls = append(c.Calls, MockCall{Op: "get", ID: id})
	if err := c.GetErr[id]; err != nil {
		return 0, 0, err
	}

	flags, ok := c.Modes[id]
	if !ok {
		flags = property.FlagsManual
	}
	return c.Values[id], flags, nil
}

// Set は値を保持する
func (c *MockControl) Set(id int32, value int32, flags property.Flags) error {
	c.Calls = append(c.Calls, MockCall{Op: "set", ID: id, Value: value, Flags: flags})
	if err := c.SetErr[id]; err != nil {
		return err
	}

	c.Values[id] = value
	c.Modes[id] = flags
	return nil
}

// Writes はSetの呼び出しのみを返す
func (c *MockControl) Writes() []MockCall {
	var writes []MockCall
	for _, call := range c.Calls {
		if call.Op == "set" {
			writes = append(writes, call)
		}
	}
	return writes
}

type mockDevice struct {
	device  Device
	camera  *MockControl
	procAmp *MockControl
}

// MockDiscovery はテスト用のモックDiscovery実装
type MockDiscovery struct {
	devices []*mockDevice
	opened  int
	closed  bool
}

// NewMockDiscovery は新しいMockDiscoveryを作成する
func NewMockDiscovery(paths []string) *MockDiscovery {
	m := &MockDiscovery{}
	for _, path := range paths {
		m.AddDevice(path)
	}
	return m
}

// ScanDevices はモックデバイス一覧を返す
func (m *MockDiscovery) ScanDevices(_ context.Context) ([]Device, error) {
	devices := make([]Device, 0, len(m.devices))
	for i, d := range m.devices {
		dev := d.device
		dev.Index = i
		devices = append(devices, dev)
	}
	return devices, nil
}

// Open はモックの制御インターフェースを返す
func (m *MockDiscovery) Open(_ context.Context, device Device) (*Controls, error) {
	d := m.find(device.Path)
	if d == nil {
		return nil, fmt.Errorf("デバイスが見つかりません: %s: %w", device.Path, ErrDeviceAccess)
	}

	// nilのインターフェース値を渡すため明示的に分岐する
	var camera, procAmp Control
	if d.camera != nil {
		camera = d.camera
	}
	if d.procAmp != nil {
		procAmp = d.procAmp
	}

	m.opened++
	return NewControls(camera, procAmp, func() error {
		m.opened--
		return nil
	})
}

// Close はモックを閉じる
func (m *MockDiscovery) Close() error {
	m.closed = true
	return nil
}

// AddDevice はテスト用にデバイスを追加する
func (m *MockDiscovery) AddDevice(path string) {
	// 重複チェック
	if m.find(path) != nil {
		return
	}

	m.devices = append(m.devices, &mockDevice{
		device: Device{
			Name: fmt.Sprintf("テストカメラ %d", len(m.devices)+1),
			Path: path,
		},
		camera:  NewMockControl(),
		procAmp: NewMockControl(),
	})
}

// removeDevice はテスト用にデバイスを削除する
func (m *MockDiscovery) removeDevice(path string) {
	for i, d := range m.devices {
		if d.device.Path == path {
			m.devices = append(m.devices[:i], m.devices[i+1:]...)
			return
		}
	}
}

// CameraControl はデバイスのカメラ制御モックを返す
func (m *MockDiscovery) CameraControl(path string) *MockControl {
	if d := m.find(path); d != nil {
		return d.camera
	}
	return nil
}

// ProcAmpControl はデバイスの映像処理モックを返す
func (m *MockDiscovery) ProcAmpControl(path string) *MockControl {
	if d := m.find(path); d != nil {
		return d.procAmp
	}
	return nil
}

// DisableControl はデバイスの制御インターフェースを取得不能にする
func (m *MockDiscovery) DisableControl(path string, kind property.Kind) {
	d := m.find(path)
	if d == nil {
		return
	}
	if kind == property.KindCameraControl {
		d.camera = nil
	} else {
		d.procAmp = nil
	}
}

// OpenCount は閉じられていないControlsの数を返す
func (m *MockDiscovery) OpenCount() int {
	return m.opened
}

// Closed はCloseが呼ばれたかを返す
func (m *MockDiscovery) Closed() bool {
	return m.closed
}

func (m *MockDiscovery) find(path string) *mockDevice {
	for _, d := range m.devices {
		if d.device.Path == path {
			return d
		}
	}
	return nil
}
