package camera

import "camparam/internal/property"

// V4L2 control ids (linux/v4l2-controls.h)
const (
	v4l2CIDBase                    uint32 = 0x00980900
	v4l2CIDBrightness              uint32 = v4l2CIDBase + 0
	v4l2CIDContrast                uint32 = v4l2CIDBase + 1
	v4l2CIDSaturation              uint32 = v4l2CIDBase + 2
	v4l2CIDHue                     uint32 = v4l2CIDBase + 3
	v4l2CIDAutoWhiteBalance        uint32 = v4l2CIDBase + 12
	v4l2CIDGamma                   uint32 = v4l2CIDBase + 16
	v4l2CIDAutogain                uint32 = v4l2CIDBase + 18
	v4l2CIDGain                    uint32 = v4l2CIDBase + 19
	v4l2CIDWhiteBalanceTemperature uint32 = v4l2CIDBase + 26
	v4l2CIDSharpness               uint32 = v4l2CIDBase + 27
	v4l2CIDBacklightCompensation   uint32 = v4l2CIDBase + 28

	v4l2CIDCameraClassBase  uint32 = 0x009a0900
	v4l2CIDExposureAuto     uint32 = v4l2CIDCameraClassBase + 1
	v4l2CIDExposureAbsolute uint32 = v4l2CIDCameraClassBase + 2
	v4l2CIDPanAbsolute      uint32 = v4l2CIDCameraClassBase + 8
	v4l2CIDTiltAbsolute     uint32 = v4l2CIDCameraClassBase + 9
	v4l2CIDFocusAbsolute    uint32 = v4l2CIDCameraClassBase + 10
	v4l2CIDFocusAuto        uint32 = v4l2CIDCameraClassBase + 12
	v4l2CIDZoomAbsolute     uint32 = v4l2CIDCameraClassBase + 13
	v4l2CIDIrisAbsolute     uint32 = v4l2CIDCameraClassBase + 17
)

// V4L2_EXPOSURE_MANUAL
const v4l2ExposureManual int32 = 1

// v4l2Mapping はプロパティに対応するV4L2コントロール
type v4l2Mapping struct {
	ctrl   uint32 // 値を持つコントロール
	auto   uint32 // 自動モードを切り替えるコントロール（無い場合は0）
	manual int32  // auto を手動にする値
}

var v4l2CameraControls = map[int32]v4l2Mapping{
	property.CameraPan:      {ctrl: v4l2CIDPanAbsolute},
	property.CameraTilt:     {ctrl: v4l2CIDTiltAbsolute},
	property.CameraZoom:     {ctrl: v4l2CIDZoomAbsolute},
	property.CameraExposure: {ctrl: v4l2CIDExposureAbsolute, auto: v4l2CIDExposureAuto, manual: v4l2ExposureManual},
	property.CameraIris:     {ctrl: v4l2CIDIrisAbsolute},
	property.CameraFocus:    {ctrl: v4l2CIDFocusAbsolute, auto: v4l2CIDFocusAuto},
	// Roll はuvcvideoがV4L2コントロールとして公開していない
}

var v4l2ProcAmps = map[int32]v4l2Mapping{
	property.ProcAmpBrightness:            {ctrl: v4l2CIDBrightness},
	property.ProcAmpContrast:              {ctrl: v4l2CIDContrast},
	property.ProcAmpHue:                   {ctrl: v4l2CIDHue},
	property.ProcAmpSaturation:            {ctrl: v4l2CIDSaturation},
	property.ProcAmpSharpness:             {ctrl: v4l2CIDSharpness},
	property.ProcAmpGamma:                 {ctrl: v4l2CIDGamma},
	property.ProcAmpWhiteBalance:          {ctrl: v4l2CIDWhiteBalanceTemperature, auto: v4l2CIDAutoWhiteBalance},
	property.ProcAmpBacklightCompensation: {ctrl: v4l2CIDBacklightCompensation},
	property.ProcAmpGain:                  {ctrl: v4l2CIDGain, auto: v4l2CIDAutogain},
	// ColorEnable に相当する標準コントロールは無い
}

// lookupV4L2 はプロパティに対応するV4L2コントロールを返す
func lookupV4L2(kind property.Kind, id int32) (v4l2Mapping, bool) {
	var m v4l2Mapping
	var ok bool
	switch kind {
	case property.KindCameraControl:
		m, ok = v4l2CameraControls[id]
	case property.KindVideoProcAmp:
		m, ok = v4l2ProcAmps[id]
	}
	return m, ok
}
