package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/ebuild/internal/ports"
)

func TestLogger_RecordsWithSharedSink(t *testing.T) {
	t.Parallel()

	log := NewLogger()
	child := log.With(ports.F("phase", "compile"))

	log.Debug(context.Background(), "prepared")
	child.Info(context.Background(), "phase started", ports.F("jobs", 4))

	entries := log.Entries()
	assert.Equal(t, []string{"prepared", "phase started"}, log.Messages())
	assert.Empty(t, entries[0].Fields)
	assert.Equal(t, map[string]interface{}{"phase": "compile", "jobs": 4}, entries[1].Fields)
	assert.Equal(t, ports.LevelInfo, entries[1].Level)
}

func TestLogger_Level(t *testing.T) {
	t.Parallel()

	log := NewLogger()
	log.SetLevel(ports.LevelWarn)
	log.Info(context.Background(), "dropped")
	log.Error(context.Background(), "kept")

	assert.Equal(t, ports.LevelWarn, log.Level())
	assert.Equal(t, []string{"kept"}, log.Messages())
}
