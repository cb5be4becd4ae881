package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// 有効なログレベル
var validLogLevels = []string{"debug", "info", "warn", "error"}

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Device   int    `yaml:"device"`    // 既定のデバイスインデックス
	Backend  string `yaml:"backend"`   // 空文字列はOSの既定
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	Strict   bool   `yaml:"strict"`    // 回復可能なエラーでも終了コード2を返す

	// プリセットとして書き込むプロパティ（コマンドライン引数が優先）
	Properties map[string]int32 `yaml:"properties"`
}

// Default は既定値と環境変数から設定を作成する
func Default() *Config {
	return &Config{
		Device:     getEnvAsIntOrDefault("CAMPARAM_DEVICE", 0),
		Backend:    getEnvOrDefault("CAMPARAM_BACKEND", ""),
		LogLevel:   getEnvOrDefault("CAMPARAM_LOG_LEVEL", "warn"),
		Properties: map[string]int32{},
	}
}

// Load は設定を読み込む
// path が空の場合は既定値と環境変数のみを使う
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルの解析に失敗 (%s): %w", path, err)
		}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if c.Device < 0 {
		return fmt.Errorf("無効なデバイスインデックス: %d", c.Device)
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("無効なログレベル: %q (有効な値: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	for name := range c.Properties {
		if strings.TrimSpace(name) == "" {
			return errors.New("プロパティ名が空です")
		}
	}

	return nil
}

func isValidLogLevel(level string) bool {
	for _, l := range validLogLevels {
		if level == l {
			return true
		}
	}
	return false
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
