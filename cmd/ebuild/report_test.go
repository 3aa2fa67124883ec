package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/ebuild/internal/domain/execution"
	"github.com/felixgeelhaar/ebuild/internal/domain/phase"
)

func TestPhaseTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Compile", phaseTitle(phase.Compile))
	assert.Equal(t, "Pretend", phaseTitle(phase.Pretend))
}

func TestReporter_Result(t *testing.T) {
	t.Parallel()

	defs := phase.DefaultDefinitions()
	entry := func(i int) phase.Entry {
		return phase.NewEntry(defs[i], phase.NoOpImplementation(), true)
	}

	result := execution.NewResult()
	result.Add(execution.NewPhaseResult(entry(0), execution.StatusSucceeded, nil))
	result.Add(execution.NewPhaseResult(entry(7), execution.StatusSkipped, nil).WithReason("USE flag test not enabled"))
	result.Add(execution.NewPhaseResult(entry(8), execution.StatusFailed, errors.New("exit status 2")))

	var buf bytes.Buffer
	newReporter(&buf).Result(result)
	out := buf.String()

	assert.Contains(t, out, "Build results")
	assert.Contains(t, out, "Pretend")
	assert.Contains(t, out, "skipped: USE flag test not enabled")
	assert.Contains(t, out, "failed: exit status 2")
	assert.Contains(t, out, "Phases: 3 total, 1 succeeded, 1 failed, 1 skipped")
}
