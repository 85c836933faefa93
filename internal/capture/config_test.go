package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewsnap/viewsnap/internal/storage"
	"github.com/viewsnap/viewsnap/internal/strategy"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, storage.FormatPNG, cfg.Format())
	assert.Equal(t, 90, cfg.Quality())
	assert.False(t, cfg.Save())
	assert.True(t, cfg.ReturnFrame())
	assert.Equal(t, strategy.StabilizationDefault, cfg.StabilizationDelay())
}

func TestBuilderChaining(t *testing.T) {
	cfg, err := NewConfig().
		Format(storage.FormatJPEG).
		Quality(75).
		SaveTo("/out", "shot").
		IncludeBackground(true).
		AutoRelease(true).
		StabilizationDelay(strategy.StabilizationLong).
		Build()
	require.NoError(t, err)

	assert.Equal(t, storage.FormatJPEG, cfg.Format())
	assert.Equal(t, 75, cfg.Quality())
	assert.True(t, cfg.Save())
	assert.Equal(t, "/out", cfg.Dir())
	assert.Equal(t, "shot", cfg.Name())
	assert.True(t, cfg.IncludeBackground())
	assert.True(t, cfg.AutoRelease())
	assert.Equal(t, strategy.StabilizationLong, cfg.StabilizationDelay())
}

func TestBuilderValidation(t *testing.T) {
	tests := []struct {
		name  string
		build func() (Config, error)
	}{
		{
			name:  "quality above range",
			build: func() (Config, error) { return NewConfig().Quality(101).Build() },
		},
		{
			name:  "quality below range",
			build: func() (Config, error) { return NewConfig().Quality(-1).Build() },
		},
		{
			name:  "negative stabilization delay",
			build: func() (Config, error) { return NewConfig().StabilizationDelay(-time.Second).Build() },
		},
		{
			name:  "unknown format",
			build: func() (Config, error) { return NewConfig().Format("bmp").Build() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			assert.Error(t, err)
		})
	}
}

func TestStateTransitions(t *testing.T) {
	assert.True(t, canTransition(stateIdle, stateValidating))
	assert.True(t, canTransition(stateValidating, stateExtracting))
	assert.True(t, canTransition(stateExtracting, statePersisting))
	assert.True(t, canTransition(stateExtracting, stateCompleted))
	assert.True(t, canTransition(statePersisting, stateCompleted))
	assert.True(t, canTransition(stateValidating, stateFailed))

	assert.False(t, canTransition(stateIdle, stateCompleted))
	assert.False(t, canTransition(stateCompleted, stateValidating))
	assert.False(t, canTransition(stateFailed, stateExtracting))
	assert.False(t, canTransition(statePersisting, stateExtracting))
}
