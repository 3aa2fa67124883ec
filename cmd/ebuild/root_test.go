package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ebuild/internal/domain/config"
	"github.com/felixgeelhaar/ebuild/internal/domain/phase"
)

func TestRootCommand_UseLine(t *testing.T) {
	assert.Equal(t, "ebuild", rootCmd.Use)
}

func TestRootCommand_HasPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	tests := []struct {
		name string
		def  string
	}{
		{"config", ""},
		{keyMakeConf, ""},
		{keyLogLevel, "warn"},
		{keyLogJSON, "false"},
		{keyVerbose, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := flags.Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"build", "phases", "env", "jobs", "check-ro", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestSplitUse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"flags", []string{"test", "-nls"}, []string{"test", "-nls"}},
		{"env style", []string{"test -nls  ssl"}, []string{"test", "-nls", "ssl"}},
		{"commas", []string{"a,b", "c"}, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, splitUse(tt.in))
		})
	}
}

func TestFormatError(t *testing.T) {
	t.Run("user error", func(t *testing.T) {
		err := config.NewConfigNotFoundError("/etc/ebuild/make.conf")
		msg := formatError(err)
		assert.Contains(t, msg, "/etc/ebuild/make.conf")
		assert.Contains(t, msg, "Suggestion:")
	})

	t.Run("coded error", func(t *testing.T) {
		err := phase.NewMissingPhaseError(phase.Install)
		assert.Equal(t, err.Error(), formatError(err))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.Equal(t, "boom", formatError(errors.New("boom")))
	})
}

func TestPrintErrorTo(t *testing.T) {
	var buf bytes.Buffer
	printErrorTo(&buf, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}
