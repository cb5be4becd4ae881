// Package property はカメラ制御プロパティのカタログを定義する
//
// # 責務
// - カメラ制御（Pan, Tilt, Zoom, Exposure など）の識別子一覧
// - 映像処理（Brightness, Contrast, Gain など）の識別子一覧
// - 名前からの大文字小文字を区別しない解決
//
// # 仕様
//   - 識別子の値はDirectShowの CameraControlProperty / VideoProcAmpProperty と一致する
//   - 値はそのままドライバーへ渡されるため変更してはならない
//   - 解決順序はカメラ制御が先、映像処理が後
package property

import "strings"

// Kind はプロパティが属する制御インターフェースの種類
type Kind int

const (
	KindCameraControl Kind = iota // IAMCameraControl 相当
	KindVideoProcAmp              // IAMVideoProcAmp 相当
)

func (k Kind) String() string {
	switch k {
	case KindCameraControl:
		return "CameraControl"
	case KindVideoProcAmp:
		return "VideoProcAmp"
	default:
		return "Unknown"
	}
}

// Flags は自動/手動モードを表すビットマスク
type Flags int32

const (
	FlagsAuto   Flags = 0x0001
	FlagsManual Flags = 0x0002
)

func (f Flags) String() string {
	switch f {
	case FlagsAuto:
		return "auto"
	case FlagsManual:
		return "manual"
	default:
		return "none"
	}
}

// Property はカタログ中の1項目
type Property struct {
	Kind Kind   // 所属するカタログ
	ID   int32  // プラットフォーム定義の識別子
	Name string // 表示名（宣言どおりの大文字小文字）
}

// カメラ制御プロパティの識別子
const (
	CameraPan      int32 = 0
	CameraTilt     int32 = 1
	CameraRoll     int32 = 2
	CameraZoom     int32 = 3
	CameraExposure int32 = 4
	CameraIris     int32 = 5
	CameraFocus    int32 = 6
)

// 映像処理プロパティの識別子
const (
	ProcAmpBrightness            int32 = 0
	ProcAmpContrast              int32 = 1
	ProcAmpHue                   int32 = 2
	ProcAmpSaturation            int32 = 3
	ProcAmpSharpness             int32 = 4
	ProcAmpGamma                 int32 = 5
	ProcAmpColorEnable           int32 = 6
	ProcAmpWhiteBalance          int32 = 7
	ProcAmpBacklightCompensation int32 = 8
	ProcAmpGain                  int32 = 9
)

var cameraControls = []Property{
	{KindCameraControl, CameraPan, "Pan"},
	{KindCameraControl, CameraTilt, "Tilt"},
	{KindCameraControl, CameraRoll, "Roll"},
	{KindCameraControl, CameraZoom, "Zoom"},
	{KindCameraControl, CameraExposure, "Exposure"},
	{KindCameraControl, CameraIris, "Iris"},
	{KindCameraControl, CameraFocus, "Focus"},
}

var videoProcAmps = []Property{
	{KindVideoProcAmp, ProcAmpBrightness, "Brightness"},
	{KindVideoProcAmp, ProcAmpContrast, "Contrast"},
	{KindVideoProcAmp, ProcAmpHue, "Hue"},
	{KindVideoProcAmp, ProcAmpSaturation, "Saturation"},
	{KindVideoProcAmp, ProcAmpSharpness, "Sharpness"},
	{KindVideoProcAmp, ProcAmpGamma, "Gamma"},
	{KindVideoProcAmp, ProcAmpColorEnable, "ColorEnable"},
	{KindVideoProcAmp, ProcAmpWhiteBalance, "WhiteBalance"},
	{KindVideoProcAmp, ProcAmpBacklightCompensation, "BacklightCompensation"},
	{KindVideoProcAmp, ProcAmpGain, "Gain"},
}

var (
	cameraByName  = indexByName(cameraControls)
	procAmpByName = indexByName(videoProcAmps)
)

func indexByName(props []Property) map[string]Property {
	m := make(map[string]Property, len(props))
	for _, p := range props {
		m[strings.ToLower(p.Name)] = p
	}
	return m
}

// All は両カタログをカメラ制御、映像処理の順で返す
func All() []Property {
	all := make([]Property, 0, len(cameraControls)+len(videoProcAmps))
	all = append(all, cameraControls...)
	return append(all, videoProcAmps...)
}

// Lookup は名前をカメラ制御、映像処理の順に解決する
func Lookup(name string) (Property, bool) {
	key := strings.ToLower(name)
	if p, ok := cameraByName[key]; ok {
		return p, true
	}
	p, ok := procAmpByName[key]
	return p, ok
}
