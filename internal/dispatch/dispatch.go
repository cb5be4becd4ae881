// Package dispatch はコマンド表を制御インターフェースへの読み書きに変換する
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"

	"camparam/internal/camera"
	"camparam/internal/command"
	"camparam/internal/property"
)

// ErrInvalidDevice はデバイスインデックスが列挙範囲外であることを表す
var ErrInvalidDevice = errors.New("デバイスインデックスが範囲外です")

// ResolveDevice はコマンド表から device キーを取り除き、対象デバイスを返す
func ResolveDevice(devices []camera.Device, table *command.Table, fallback int) (camera.Device, int, error) {
	index := fallback
	if value, ok := table.Take(command.DeviceKey); ok {
		index = int(value)
	}

	if index < 0 || index >= len(devices) {
		return camera.Device{}, index, fmt.Errorf("%w: %d (デバイス数 %d)", ErrInvalidDevice, index, len(devices))
	}
	return devices[index], index, nil
}

// Dispatcher はプロパティの読み書きを行う
type Dispatcher struct {
	controls *camera.Controls
	reporter *Reporter
	logger   *slog.Logger
}

// New は新しいDispatcherを作成する
func New(controls *camera.Controls, reporter *Reporter, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{controls: controls, reporter: reporter, logger: logger}
}

// Run はコマンド表が空なら全プロパティを表示し、そうでなければ書き込みを行う
func (d *Dispatcher) Run(table *command.Table) {
	if table.Len() == 0 {
		d.Dump()
		return
	}
	d.Apply(table.Commands())
}

// Dump は両カタログの全プロパティを宣言順に読み出して表示する
func (d *Dispatcher) Dump() {
	for _, p := range property.All() {
		value, flags, err := d.controls.For(p.Kind).Get(p.ID)
		if err != nil {
			d.logger.Debug("プロパティの取得に失敗", "property", p.Name, "error", err)
			if errors.Is(err, camera.ErrNotSupported) {
				// バックエンドが扱えないプロパティは strict の判定に含めない
				d.reporter.Notice("Could not get property: " + p.Name)
				continue
			}
			d.reporter.Error("Could not get property: " + p.Name)
			continue
		}

		d.logger.Debug("プロパティを取得しました", "property", p.Name, "value", value, "flags", flags)
		d.reporter.Value(p, value)
	}
}

// Apply は各コマンドをカメラ制御、映像処理の順に解決して書き込む
func (d *Dispatcher) Apply(commands []command.Command) {
	for _, cmd := range commands {
		p, ok := property.Lookup(cmd.Name)
		if !ok {
			d.logger.Debug("プロパティを解決できません", "command", cmd.String())
			d.reporter.Error("Unrecognized property: " + cmd.Name)
			continue
		}

		d.reporter.Setting(p, cmd.Value)

		if err := d.controls.For(p.Kind).Set(p.ID, cmd.Value, property.FlagsManual); err != nil {
			d.logger.Debug("プロパティの設定に失敗", "property", p.Name, "kind", p.Kind, "value", cmd.Value, "error", err)
			d.reporter.Error("Could not set property.")
			continue
		}

		d.logger.Debug("プロパティを設定しました", "property", p.Name, "value", cmd.Value)
	}
}
