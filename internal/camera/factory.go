package camera

import (
	"fmt"
	"log/slog"
	"sort"
)

// バックエンド名
const (
	BackendV4L2            = "v4l2"
	BackendMediaFoundation = "mediafoundation"
	BackendMock            = "mock"
	BackendNone            = "none"
)

// DiscoveryCreator はDiscovery作成関数の型
type DiscoveryCreator func(logger *slog.Logger) (Discovery, error)

// DiscoveryFactory はバックエンド名からDiscoveryを作成する
type DiscoveryFactory interface {
	Create(backend string, logger *slog.Logger) (Discovery, error)
	SupportedBackends() []string
}

// DefaultDiscoveryFactory は標準実装
type DefaultDiscoveryFactory struct {
	creators map[string]DiscoveryCreator
}

// NewDiscoveryFactory はプラットフォームのバックエンドとモックを登録したファクトリーを作成する
func NewDiscoveryFactory() *DefaultDiscoveryFactory {
	factory := &DefaultDiscoveryFactory{
		creators: make(map[string]DiscoveryCreator),
	}

	// OS固有のバックエンドを登録
	registerPlatformBackends(factory)

	// ドライラン用のモックを登録
	factory.Register(BackendMock, func(_ *slog.Logger) (Discovery, error) {
		return NewMockDiscovery([]string{"/dev/video0"}), nil
	})

	return factory
}

// DefaultBackend はこのOSでの既定のバックエンド名を返す
func DefaultBackend() string {
	return defaultBackend
}

// Register はDiscovery作成関数を登録する
func (f *DefaultDiscoveryFactory) Register(backend string, creator DiscoveryCreator) {
	f.creators[backend] = creator
}

// Create はDiscoveryを作成する。空文字列の場合は既定のバックエンドを使う
func (f *DefaultDiscoveryFactory) Create(backend string, logger *slog.Logger) (Discovery, error) {
	if backend == "" {
		backend = defaultBackend
	}
	if logger == nil {
		logger = slog.Default()
	}

	creator, exists := f.creators[backend]
	if !exists {
		return nil, fmt.Errorf("サポートされていないバックエンド: %s", backend)
	}

	logger.Debug("バックエンドを選択しました", "backend", backend)
	return creator(logger)
}

// SupportedBackends はサポートされているバックエンド一覧を返す
func (f *DefaultDiscoveryFactory) SupportedBackends() []string {
	backends := make([]string, 0, len(f.creators))
	for backend := range f.creators {
		backends = append(backends, backend)
	}
	sort.Strings(backends)
	return backends
}
