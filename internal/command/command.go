// Package command はコマンドライン引数をプロパティ書き込みコマンドへ変換する
//
// 引数は全て name=value 形式で与える。name は小文字へ正規化され、
// 同じ name が複数回現れた場合は最後の値が採用される（位置は最初の出現のまま）。
// 不正なトークンは診断として報告され、解析は次のトークンへ進む。
package command

import (
	"fmt"
	"strconv"
	"strings"
)

// DeviceKey はデバイス選択用の予約キー
const DeviceKey = "device"

// Reason は解析エラーの種類
type Reason int

const (
	ReasonNotInteger Reason = iota // 値が整数として解釈できない
	ReasonMalformed                // '=' を含まない
	ReasonEmptyName                // name が空
)

// ParseError は1トークン分の解析エラー
type ParseError struct {
	Token  string
	Reason Reason
}

func (e *ParseError) Error() string {
	switch e.Reason {
	case ReasonNotInteger:
		return "Property value must be an integer: " + e.Token
	case ReasonEmptyName:
		return "Property name must not be empty: " + e.Token
	default:
		return "Argument must be of the form name=value: " + e.Token
	}
}

// Command は1件のプロパティ書き込み要求
type Command struct {
	Name  string // 小文字化済みのプロパティ名
	Value int32
}

// Table は挿入順を保持するコマンド表
type Table struct {
	commands []Command
	index    map[string]int
}

// NewTable は空のコマンド表を作成する
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Set はコマンドを追加または上書きする
func (t *Table) Set(name string, value int32) {
	key := strings.ToLower(name)
	if i, exists := t.index[key]; exists {
		t.commands[i].Value = value
		return
	}
	t.index[key] = len(t.commands)
	t.commands = append(t.commands, Command{Name: key, Value: value})
}

func (t *Table) get(name string) (int32, bool) {
	i, exists := t.index[strings.ToLower(name)]
	if !exists {
		return 0, false
	}
	return t.commands[i].Value, true
}

// Take は name に対応する値を取り出し、表から削除する
func (t *Table) Take(name string) (int32, bool) {
	key := strings.ToLower(name)
	i, exists := t.index[key]
	if !exists {
		return 0, false
	}
	value := t.commands[i].Value

	t.commands = append(t.commands[:i], t.commands[i+1:]...)
	delete(t.index, key)
	for j := i; j < len(t.commands); j++ {
		t.index[t.commands[j].Name] = j
	}
	return value, true
}

// Merge は other の内容を上書きで取り込む
func (t *Table) Merge(other *Table) {
	for _, c := range other.commands {
		t.Set(c.Name, c.Value)
	}
}

// Len はコマンド数を返す
func (t *Table) Len() int {
	return len(t.commands)
}

// Commands はコマンドを挿入順で返す
func (t *Table) Commands() []Command {
	return append([]Command(nil), t.commands...)
}

// Parse は引数列をコマンド表へ変換する
func Parse(args []string) (*Table, []error) {
	table := NewTable()
	var errs []error

	for _, arg := range args {
		name, value, err := parseToken(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		table.Set(name, value)
	}

	return table, errs
}

func parseToken(arg string) (string, int32, error) {
	name, raw, found := strings.Cut(arg, "=")
	if !found {
		return "", 0, &ParseError{Token: arg, Reason: ReasonMalformed}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, &ParseError{Token: arg, Reason: ReasonEmptyName}
	}

	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return "", 0, &ParseError{Token: arg, Reason: ReasonNotInteger}
	}

	return name, int32(value), nil
}

// String はデバッグ用の表現を返す
func (c Command) String() string {
	return fmt.Sprintf("%s=%d", c.Name, c.Value)
}
