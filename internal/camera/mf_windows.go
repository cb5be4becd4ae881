//go:build windows

package camera

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	mfDevSourceAttributeSourceType         = windows.GUID{Data1: 0xc60ac5fe, Data2: 0x252a, Data3: 0x478f, Data4: [8]byte{0xa0, 0xef, 0xbc, 0x8f, 0xa5, 0xf7, 0xca, 0xd3}}
	mfDevSourceAttributeSourceTypeVidcap   = windows.GUID{Data1: 0x8ac3587a, Data2: 0x4ae7, Data3: 0x42d8, Data4: [8]byte{0x99, 0xe0, 0x0a, 0x60, 0x13, 0xee, 0xf9, 0x0f}}
	mfDevSourceAttributeFriendlyName       = windows.GUID{Data1: 0x60d0e559, Data2: 0x52f8, Data3: 0x4fa2, Data4: [8]byte{0xbb, 0xce, 0xac, 0xdb, 0x34, 0xa8, 0xec, 0x01}}
	mfDevSourceAttributeVidcapSymbolicLink = windows.GUID{Data1: 0x58f0aad8, Data2: 0x22bf, Data3: 0x4f8a, Data4: [8]byte{0xbb, 0x3d, 0xd2, 0xc4, 0x97, 0x8c, 0x6e, 0x2f}}
	iidIMFMediaSource                      = windows.GUID{Data1: 0x279a808d, Data2: 0xaec7, Data3: 0x40c8, Data4: [8]byte{0x9c, 0x6b, 0xa6, 0xb4, 0x92, 0xc7, 0x8a, 0x66}}
	iidIAMCameraControl                    = windows.GUID{Data1: 0xc6e13370, Data2: 0x30ac, Data3: 0x11d0, Data4: [8]byte{0xa1, 0x8c, 0x00, 0xa0, 0xc9, 0x11, 0x89, 0x56}}
	iidIAMVideoProcAmp                     = windows.GUID{Data1: 0xc6e13360, Data2: 0x30ac, Data3: 0x11d0, Data4: [8]byte{0xa1, 0x8c, 0x00, 0xa0, 0xc9, 0x11, 0x89, 0x56}}
)

const (
	mfVersion           = 0x00020070
	coinitMultithreaded = 0x0
	sFalse              = 0x1
)

var (
	modmfplat = windows.NewLazySystemDLL("mfplat.dll")
	modmf     = windows.NewLazySystemDLL("mf.dll")
	modole32  = windows.NewLazySystemDLL("ole32.dll")

	procMFStartup           = modmfplat.NewProc("MFStartup")
	procMFShutdown          = modmfplat.NewProc("MFShutdown")
	procMFCreateAttributes  = modmfplat.NewProc("MFCreateAttributes")
	procMFEnumDeviceSources = modmf.NewProc("MFEnumDeviceSources")
	procCoInitializeEx      = modole32.NewProc("CoInitializeEx")
	procCoUninitialize      = modole32.NewProc("CoUninitialize")
	procCoTaskMemFree       = modole32.NewProc("CoTaskMemFree")
)

// mfStartup はCOMとMedia Foundationを初期化する
func mfStartup() error {
	runtime.LockOSThread()

	hr, _, _ := syscall.SyscallN(procCoInitializeEx.Addr(), 0, coinitMultithreaded)
	if hr != 0 && hr != sFalse {
		runtime.UnlockOSThread()
		return fmt.Errorf("CoInitializeEx に失敗: 0x%x", hr)
	}

	hr, _, _ = syscall.SyscallN(procMFStartup.Addr(), mfVersion, 0)
	if hr != 0 {
		syscall.SyscallN(procCoUninitialize.Addr())
		runtime.UnlockOSThread()
		return fmt.Errorf("MFStartup に失敗: 0x%x", hr)
	}
	return nil
}

func mfShutdown() {
	syscall.SyscallN(procMFShutdown.Addr())
	syscall.SyscallN(procCoUninitialize.Addr())
	runtime.UnlockOSThread()
}

type imfAttributesVtbl struct {
	QueryInterface     uintptr
	AddRef             uintptr
	Release            uintptr
	GetItem            uintptr
	GetItemType        uintptr
	CompareItem        uintptr
	Compare            uintptr
	GetUINT32          uintptr
	GetUINT64          uintptr
	GetDouble          uintptr
	GetGUID            uintptr
	GetStringLength    uintptr
	GetString          uintptr
	GetAllocatedString uintptr
	GetBlobSize        uintptr
	GetBlob            uintptr
	GetAllocatedBlob   uintptr
	GetUnknown         uintptr
	SetItem            uintptr
	DeleteItem         uintptr
	DeleteAllItems     uintptr
	SetUINT32          uintptr
	SetUINT64          uintptr
	SetDouble          uintptr
	SetGUID            uintptr
	SetString          uintptr
	SetBlob            uintptr
	SetUnknown         uintptr
	LockStore          uintptr
	UnlockStore        uintptr
	GetCount           uintptr
	GetItemByIndex     uintptr
	CopyAllItems       uintptr
}

type imfAttributes struct {
	vtbl *imfAttributesVtbl
}

func mfCreateAttributes(count uint32) (*imfAttributes, error) {
	var attrs *imfAttributes
	hr, _, _ := syscall.SyscallN(procMFCreateAttributes.Addr(),
		uintptr(unsafe.Pointer(&attrs)),
		uintptr(count))
	if hr != 0 {
		return nil, fmt.Errorf("MFCreateAttributes に失敗: 0x%x", hr)
	}
	return attrs, nil
}

func (a *imfAttributes) Release() {
	if a != nil && a.vtbl != nil {
		syscall.SyscallN(a.vtbl.Release, uintptr(unsafe.Pointer(a)))
	}
}

func (a *imfAttributes) SetGUID(key, value *windows.GUID) error {
	hr, _, _ := syscall.SyscallN(a.vtbl.SetGUID,
		uintptr(unsafe.Pointer(a)),
		uintptr(unsafe.Pointer(key)),
		uintptr(unsafe.Pointer(value)))
	if hr != 0 {
		return fmt.Errorf("SetGUID に失敗: 0x%x", hr)
	}
	return nil
}

func (a *imfAttributes) GetString(key *windows.GUID) (string, error) {
	var length uint32
	hr, _, _ := syscall.SyscallN(a.vtbl.GetStringLength,
		uintptr(unsafe.Pointer(a)),
		uintptr(unsafe.Pointer(key)),
		uintptr(unsafe.Pointer(&length)))
	if hr != 0 {
		return "", fmt.Errorf("GetStringLength に失敗: 0x%x", hr)
	}

	buf := make([]uint16, length+1)
	hr, _, _ = syscall.SyscallN(a.vtbl.GetString,
		uintptr(unsafe.Pointer(a)),
		uintptr(unsafe.Pointer(key)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(length+1),
		0)
	if hr != 0 {
		return "", fmt.Errorf("GetString に失敗: 0x%x", hr)
	}
	return windows.UTF16ToString(buf), nil
}

type imfActivateVtbl struct {
	imfAttributesVtbl
	ActivateObject uintptr
	ShutdownObject uintptr
	DetachObject   uintptr
}

type imfActivate struct {
	vtbl *imfActivateVtbl
}

func (a *imfActivate) attributes() *imfAttributes {
	return (*imfAttributes)(unsafe.Pointer(a))
}

func (a *imfActivate) Release() {
	if a != nil && a.vtbl != nil {
		syscall.SyscallN(a.vtbl.Release, uintptr(unsafe.Pointer(a)))
	}
}

func (a *imfActivate) ActivateObject(iid *windows.GUID) (unsafe.Pointer, error) {
	var obj unsafe.Pointer
	hr, _, _ := syscall.SyscallN(a.vtbl.ActivateObject,
		uintptr(unsafe.Pointer(a)),
		uintptr(unsafe.Pointer(iid)),
		uintptr(unsafe.Pointer(&obj)))
	if hr != 0 {
		return nil, fmt.Errorf("ActivateObject に失敗: 0x%x", hr)
	}
	return obj, nil
}

func (a *imfActivate) ShutdownObject() {
	if a != nil && a.vtbl != nil {
		syscall.SyscallN(a.vtbl.ShutdownObject, uintptr(unsafe.Pointer(a)))
	}
}

type imfMediaSourceVtbl struct {
	QueryInterface               uintptr
	AddRef                       uintptr
	Release                      uintptr
	GetEvent                     uintptr
	BeginGetEvent                uintptr
	EndGetEvent                  uintptr
	QueueEvent                   uintptr
	GetCharacteristics           uintptr
	CreatePresentationDescriptor uintptr
	Start                        uintptr
	Stop                         uintptr
	Pause                        uintptr
	Shutdown                     uintptr
}

type imfMediaSource struct {
	vtbl *imfMediaSourceVtbl
}

func (s *imfMediaSource) Release() {
	if s != nil && s.vtbl != nil {
		syscall.SyscallN(s.vtbl.Release, uintptr(unsafe.Pointer(s)))
	}
}

func (s *imfMediaSource) Shutdown() {
	if s != nil && s.vtbl != nil {
		syscall.SyscallN(s.vtbl.Shutdown, uintptr(unsafe.Pointer(s)))
	}
}

func (s *imfMediaSource) QueryInterface(iid *windows.GUID) (unsafe.Pointer, error) {
	var obj unsafe.Pointer
	hr, _, _ := syscall.SyscallN(s.vtbl.QueryInterface,
		uintptr(unsafe.Pointer(s)),
		uintptr(unsafe.Pointer(iid)),
		uintptr(unsafe.Pointer(&obj)))
	if hr != 0 {
		return nil, fmt.Errorf("QueryInterface に失敗: 0x%x", hr)
	}
	return obj, nil
}

// amControlVtbl はIAMCameraControlとIAMVideoProcAmpに共通のvtable
type amControlVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
	GetRange       uintptr
	Set            uintptr
	Get            uintptr
}

type amControl struct {
	vtbl *amControlVtbl
}

func (c *amControl) Release() {
	if c != nil && c.vtbl != nil {
		syscall.SyscallN(c.vtbl.Release, uintptr(unsafe.Pointer(c)))
	}
}

// get はHRESULTをそのまま返す
func (c *amControl) get(property int32) (value, flags int32, hr uintptr) {
	hr, _, _ = syscall.SyscallN(c.vtbl.Get,
		uintptr(unsafe.Pointer(c)),
		uintptr(property),
		uintptr(unsafe.Pointer(&value)),
		uintptr(unsafe.Pointer(&flags)))
	return value, flags, hr
}

func (c *amControl) set(property, value, flags int32) uintptr {
	hr, _, _ := syscall.SyscallN(c.vtbl.Set,
		uintptr(unsafe.Pointer(c)),
		uintptr(property),
		uintptr(value),
		uintptr(flags))
	return hr
}

// enumDeviceSources はビデオキャプチャデバイスのアクティベーションを列挙する
func enumDeviceSources() ([]*imfActivate, error) {
	attrs, err := mfCreateAttributes(1)
	if err != nil {
		return nil, err
	}
	defer attrs.Release()

	if err := attrs.SetGUID(&mfDevSourceAttributeSourceType, &mfDevSourceAttributeSourceTypeVidcap); err != nil {
		return nil, err
	}

	var devices **imfActivate
	var count uint32
	hr, _, _ := syscall.SyscallN(procMFEnumDeviceSources.Addr(),
		uintptr(unsafe.Pointer(attrs)),
		uintptr(unsafe.Pointer(&devices)),
		uintptr(unsafe.Pointer(&count)))
	if hr != 0 {
		return nil, fmt.Errorf("MFEnumDeviceSources に失敗: 0x%x", hr)
	}
	if count == 0 || devices == nil {
		return nil, nil
	}

	// 配列自体はCoTaskMemFreeで解放し、要素は呼び出し側がReleaseする
	activates := append([]*imfActivate(nil), unsafe.Slice(devices, count)...)
	syscall.SyscallN(procCoTaskMemFree.Addr(), uintptr(unsafe.Pointer(devices)))

	return activates, nil
}
