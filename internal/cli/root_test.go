package cli

import (
	"errors"
	"fmt"
	"testing"

	siteerrors "github.com/davido-builds/openicons-site/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "openicons", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		path      []string
		wantGroup string
	}{
		"serve":             {path: []string{"serve"}, wantGroup: GroupServer},
		"changelog":         {path: []string{"changelog"}, wantGroup: GroupChangelog},
		"changelog convert": {path: []string{"changelog", "convert"}},
		"changelog check":   {path: []string{"changelog", "check"}},
		"config":            {path: []string{"config"}, wantGroup: GroupSetup},
		"config keys":       {path: []string{"config", "keys"}},
		"config show":       {path: []string{"config", "show"}},
		"config init":       {path: []string{"config", "init"}},
		"doctor":            {path: []string{"doctor"}, wantGroup: GroupSetup},
		"version":           {path: []string{"version"}, wantGroup: GroupSetup},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cmd, rest, err := rootCmd.Find(tt.path)
			assert.NoError(t, err)
			assert.Empty(t, rest)
			assert.Equal(t, tt.path[len(tt.path)-1], cmd.Name())
			if tt.wantGroup != "" {
				assert.Equal(t, tt.wantGroup, cmd.GroupID)
			}
		})
	}
}

func TestServeCmd_Flags(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"port", "watch"} {
		assert.NotNil(t, serveCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":               {err: nil, want: ExitSuccess},
		"plain error":       {err: errors.New("boom"), want: ExitFailure},
		"explicit exit":     {err: NewExitError(ExitInvalidArguments), want: ExitInvalidArguments},
		"wrapped exit":      {err: fmt.Errorf("outer: %w", NewExitError(ExitValidationFailed)), want: ExitValidationFailed},
		"configuration":     {err: siteerrors.NewConfigError("bad"), want: ExitConfigError},
		"validation":        {err: siteerrors.NewValidationError("bad"), want: ExitValidationFailed},
		"retrieval":         {err: siteerrors.NewRetrievalError("bad", nil), want: ExitUnavailable},
		"not found":         {err: siteerrors.ChangelogUnavailable("CHANGELOG.json", nil), want: ExitUnavailable},
		"delivery":          {err: siteerrors.SendFailed(errors.New("down")), want: ExitFailure},
		"wrapped structure": {err: fmt.Errorf("loading: %w", siteerrors.NewConfigError("bad")), want: ExitConfigError},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestIsSilentExit(t *testing.T) {
	t.Parallel()

	assert.True(t, IsSilentExit(NewExitError(ExitFailure)))
	assert.False(t, IsSilentExit(errors.New("boom")))
	assert.Equal(t, "exit status 3", NewExitError(3).Error())
}
