package dispatch

import (
	"fmt"
	"io"

	"camparam/internal/camera"
	"camparam/internal/property"
)

// Reporter は標準出力と標準エラーへの出力を担う
type Reporter struct {
	out    io.Writer
	errOut io.Writer
	errors int
}

// NewReporter は新しいReporterを作成する
func NewReporter(out, errOut io.Writer) *Reporter {
	return &Reporter{out: out, errOut: errOut}
}

// Devices はデバイス一覧を表示する
func (r *Reporter) Devices(devices []camera.Device) {
	fmt.Fprintln(r.out, "Available devices:")
	for _, device := range devices {
		fmt.Fprintf(r.out, "%d %s\n", device.Index, device.Name)
	}
}

// Configuring は対象デバイスを表示する
func (r *Reporter) Configuring(device camera.Device) {
	fmt.Fprintf(r.out, "Configuring Device: %s\n", device.Name)
}

// Value は現在値を表示する
func (r *Reporter) Value(p property.Property, value int32) {
	fmt.Fprintf(r.out, "%s=%d\n", p.Name, value)
}

// Setting は書き込み前のエコー行を表示する
func (r *Reporter) Setting(p property.Property, value int32) {
	fmt.Fprintf(r.out, "Setting %s to %d\n", p.Name, value)
}

// Error は回復可能なエラーを標準エラーへ表示する
func (r *Reporter) Error(msg string) {
	r.errors++
	fmt.Fprintln(r.errOut, msg)
}

// Notice はエラー数に含めない診断を標準エラーへ表示する
func (r *Reporter) Notice(msg string) {
	fmt.Fprintln(r.errOut, msg)
}

// Fatal は実行を中断するエラーを標準エラーへ表示する
func (r *Reporter) Fatal(msg string) {
	fmt.Fprintln(r.errOut, msg)
}

// ErrorCount は報告された回復可能なエラーの数を返す
func (r *Reporter) ErrorCount() int {
	return r.errors
}
