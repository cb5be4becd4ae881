package camera

import (
	"context"
	"errors"
	"fmt"

	"camparam/internal/property"
)

// ErrDeviceAccess はデバイスの制御インターフェースが取得できないことを表す
var ErrDeviceAccess = errors.New("デバイスの制御インターフェースを取得できません")

// ErrNotSupported はバックエンドがプロパティを扱えないことを表す
var ErrNotSupported = errors.New("このプロパティはサポートされていません")

// Device は列挙されたキャプチャデバイス
type Device struct {
	Index int    // 列挙順のインデックス
	Name  string // 表示名
	Path  string // プラットフォーム固有の識別子（/dev/video0 やシンボリックリンク）
}

// Control は一つの制御インターフェース（カメラ制御または映像処理）
type Control interface {
	// Get は現在値とモードを取得する
	Get(id int32) (int32, property.Flags, error)

	// Set は値とモードを設定する
	Set(id int32, value int32, flags property.Flags) error
}

// Controls は開いたデバイスの制御インターフェース一式
type Controls struct {
	Camera  Control // カメラ制御
	ProcAmp Control // 映像処理

	closer func() error
}

// NewControls は両方の制御インターフェースが揃っている場合のみControlsを作成する
func NewControls(camera, procAmp Control, closer func() error) (*Controls, error) {
	if camera == nil || procAmp == nil {
		if closer != nil {
			_ = closer()
		}
		return nil, ErrDeviceAccess
	}
	return &Controls{Camera: camera, ProcAmp: procAmp, closer: closer}, nil
}

// For はプロパティの種類に対応する制御インターフェースを返す
func (c *Controls) For(kind property.Kind) Control {
	if kind == property.KindCameraControl {
		return c.Camera
	}
	return c.ProcAmp
}

// Close は制御インターフェースを解放する
func (c *Controls) Close() error {
	if c.closer == nil {
		return nil
	}
	closer := c.closer
	c.closer = nil
	return closer()
}

// Discovery はキャプチャデバイスの検出と制御インターフェースの取得を提供する
type Discovery interface {
	// ScanDevices はシステム内のキャプチャデバイスを列挙順に返す
	ScanDevices(ctx context.Context) ([]Device, error)

	// Open はデバイスの制御インターフェースを取得する
	Open(ctx context.Context, device Device) (*Controls, error)

	// Close は列挙で確保したリソースを解放する
	Close() error
}

// StatusError はネイティブAPIが返したステータスを保持する
type StatusError struct {
	Op   string // "get" または "set"
	ID   int32  // プロパティ識別子
	Code uint64 // HRESULT や errno（不明な場合は0）
	Err  error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s(%d) に失敗: status=0x%x: %v", e.Op, e.ID, e.Code, e.Err)
	}
	return fmt.Sprintf("%s(%d) に失敗: status=0x%x", e.Op, e.ID, e.Code)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}
