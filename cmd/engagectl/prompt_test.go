package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
		wantErr    bool
	}{
		{name: "yes short", input: "y\n", want: true},
		{name: "yes long", input: "YES\n", want: true},
		{name: "no short", input: "n\n", want: false},
		{name: "no long", input: "No\n", want: false},
		{name: "empty default no", input: "\n", want: false},
		{name: "empty default yes", input: "\n", defaultYes: true, want: true},
		{name: "retry then yes", input: "maybe\ny\n", want: true},
		{name: "eof counts as decline", input: "", want: false},
		{name: "invalid at eof", input: "maybe", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := promptYesNo(strings.NewReader(tt.input), &out, "Proceed?", tt.defaultYes)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromptYesNoShowsDefault(t *testing.T) {
	var out bytes.Buffer
	_, err := promptYesNo(strings.NewReader("y\n"), &out, "Proceed?", false)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Proceed? [y/N]: ")

	out.Reset()
	_, err = promptYesNo(strings.NewReader("y\n"), &out, "Proceed?", true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Proceed? [Y/n]: ")
}

func TestPromptYesNoRetryMessage(t *testing.T) {
	var out bytes.Buffer
	got, err := promptYesNo(strings.NewReader("what\nn\n"), &out, "Proceed?", false)
	require.NoError(t, err)
	assert.False(t, got)
	assert.Contains(t, out.String(), "Please answer y or n.")
}

func stubForm(t *testing.T, err error) {
	t.Helper()
	prev := runFormFunc
	runFormFunc = func(*huh.Form) error { return err }
	t.Cleanup(func() { runFormFunc = prev })
}

func TestConfirmFormAbortIsDecline(t *testing.T) {
	stubForm(t, huh.ErrUserAborted)
	ok, err := confirmForm("Proceed?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmFormErrorPropagates(t *testing.T) {
	stubForm(t, errors.New("tty gone"))
	_, err := confirmForm("Proceed?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty gone")
}

func TestNewConfirmFuncFallsBackWithoutTerminal(t *testing.T) {
	prev := isInteractive
	isInteractive = func() bool { return false }
	t.Cleanup(func() { isInteractive = prev })

	var out bytes.Buffer
	confirm := newConfirmFunc(strings.NewReader("y\n"), &out)
	ok, err := confirm("Proceed?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Proceed?")
}
