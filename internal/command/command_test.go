package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		want     []Command
		wantErrs []string
	}{
		{
			name: "正常なトークン",
			args: []string{"brightness=10", "focus=-3"},
			want: []Command{{"brightness", 10}, {"focus", -3}},
		},
		{
			name: "名前は小文字化される",
			args: []string{"Exposure=-6", "DEVICE=1"},
			want: []Command{{"exposure", -6}, {"device", 1}},
		},
		{
			name: "重複は最後の値が勝つ",
			args: []string{"gain=1", "zoom=2", "GAIN=3"},
			want: []Command{{"gain", 3}, {"zoom", 2}},
		},
		{
			name:     "整数でない値は破棄して続行",
			args:     []string{"contrast=abc", "hue=5"},
			want:     []Command{{"hue", 5}},
			wantErrs: []string{"Property value must be an integer: contrast=abc"},
		},
		{
			name:     "範囲外の値",
			args:     []string{"gain=4294967296"},
			wantErrs: []string{"Property value must be an integer: gain=4294967296"},
		},
		{
			name:     "値が空",
			args:     []string{"gain="},
			wantErrs: []string{"Property value must be an integer: gain="},
		},
		{
			name:     "二つ目の等号",
			args:     []string{"gain=1=2"},
			wantErrs: []string{"Property value must be an integer: gain=1=2"},
		},
		{
			name:     "等号なし",
			args:     []string{"brightness", "10", "zoom=1"},
			want:     []Command{{"zoom", 1}},
			wantErrs: []string{"Argument must be of the form name=value: brightness", "Argument must be of the form name=value: 10"},
		},
		{
			name:     "名前が空",
			args:     []string{"=5"},
			wantErrs: []string{"Property name must not be empty: =5"},
		},
		{
			name: "前後の空白は無視",
			args: []string{" sharpness = 7 "},
			want: []Command{{"sharpness", 7}},
		},
		{
			name: "符号付き",
			args: []string{"pan=+15"},
			want: []Command{{"pan", 15}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, errs := Parse(tc.args)

			assert.Equal(t, tc.want, table.Commands())

			var got []string
			for _, err := range errs {
				got = append(got, err.Error())
			}
			assert.Equal(t, tc.wantErrs, got)
		})
	}
}

func TestParse_ErrorType(t *testing.T) {
	_, errs := Parse([]string{"zoom=x"})
	require.Len(t, errs, 1)

	var perr *ParseError
	require.True(t, errors.As(errs[0], &perr))
	assert.Equal(t, "zoom=x", perr.Token)
	assert.Equal(t, ReasonNotInteger, perr.Reason)
}

func TestTable_Take(t *testing.T) {
	table, errs := Parse([]string{"gain=1", "device=2", "zoom=3"})
	require.Empty(t, errs)

	value, ok := table.Take(DeviceKey)
	require.True(t, ok)
	assert.Equal(t, int32(2), value)
	assert.Equal(t, []Command{{"gain", 1}, {"zoom", 3}}, table.Commands())

	// 削除後もインデックスが正しいこと
	table.Set("zoom", 9)
	v, ok := table.get("ZOOM")
	require.True(t, ok)
	assert.Equal(t, int32(9), v)
	assert.Equal(t, 2, table.Len())

	_, ok = table.Take(DeviceKey)
	assert.False(t, ok)
}

func TestTable_Merge(t *testing.T) {
	base := NewTable()
	base.Set("brightness", 1)
	base.Set("device", 0)

	override, _ := Parse([]string{"device=2", "gain=5"})
	base.Merge(override)

	assert.Equal(t, []Command{{"brightness", 1}, {"device", 2}, {"gain", 5}}, base.Commands())
}

func TestTable_CommandsIsCopy(t *testing.T) {
	table := NewTable()
	table.Set("hue", 1)

	cmds := table.Commands()
	cmds[0].Value = 100

	v, _ := table.get("hue")
	assert.Equal(t, int32(1), v)
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "gain=-2", Command{Name: "gain", Value: -2}.String())
}
