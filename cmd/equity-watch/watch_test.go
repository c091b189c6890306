package main

import (
	"bytes"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerequity/analysis"
)

func mustContestants(t *testing.T, descriptors ...string) []analysis.Contestant {
	t.Helper()
	out := make([]analysis.Contestant, len(descriptors))
	for i, d := range descriptors {
		c, err := analysis.ParseContestant(d)
		require.NoError(t, err)
		out[i] = c
	}
	return out
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWatchModelRunsBatchesToTarget(t *testing.T) {
	m := newWatchModel(mustContestants(t, "AsAh", "KsKh"), nil, 400, 150, 42)

	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.Equal(t, 150, m.issued)
	assert.True(t, m.inFlight)

	// First batch: 150 trials, second scheduled immediately.
	bm, ok := cmd().(batchMsg)
	require.True(t, ok)
	require.NoError(t, bm.err)
	_, next := m.Update(bm)
	require.NotNil(t, next)
	assert.Equal(t, 150, m.done())
	assert.Equal(t, 300, m.issued)

	// Second batch.
	bm, ok = next().(batchMsg)
	require.True(t, ok)
	_, next = m.Update(bm)
	require.NotNil(t, next)
	assert.Equal(t, 300, m.done())

	// Final batch is clamped to the 100 trials still owed.
	assert.Equal(t, 400, m.issued)
	bm, ok = next().(batchMsg)
	require.True(t, ok)
	_, next = m.Update(bm)
	assert.Nil(t, next)
	assert.Equal(t, 400, m.done())
	assert.True(t, m.finished())

	// Fixed hands make every AA-vs-KK trial countable, and AA should be
	// well ahead after 400 of them.
	assert.Greater(t, m.results[0].Equity(), 0.6)
}

func TestWatchModelBatchClamp(t *testing.T) {
	m := newWatchModel(mustContestants(t, "AsAh", "KsKh"), nil, 100, 2000, 1)
	require.NotNil(t, m.Init())
	assert.Equal(t, 100, m.issued)
}

func TestWatchModelPauseResume(t *testing.T) {
	m := newWatchModel(mustContestants(t, "AsAh", "KsKh"), nil, 1000, 100, 7)
	cmd := m.Init()
	require.NotNil(t, cmd)

	// Pause while a batch is in flight.
	_, pauseCmd := m.Update(keyMsg(" "))
	assert.True(t, m.paused)
	assert.Nil(t, pauseCmd)

	// The in-flight result lands but nothing new is scheduled.
	bm := cmd().(batchMsg)
	_, next := m.Update(bm)
	assert.Nil(t, next)
	assert.Equal(t, 100, m.done())

	// Resume schedules the next batch.
	_, resumeCmd := m.Update(keyMsg(" "))
	assert.False(t, m.paused)
	require.NotNil(t, resumeCmd)
	assert.Equal(t, 200, m.issued)
}

func TestWatchModelQuitKey(t *testing.T) {
	m := newWatchModel(mustContestants(t, "AsAh", "KsKh"), nil, 1000, 100, 7)
	m.Init()

	_, cmd := m.Update(keyMsg("q"))
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "", m.View())
}

func TestWatchModelSimulationError(t *testing.T) {
	// Both seats claim the ace of spades.
	m := newWatchModel(mustContestants(t, "AsAh", "AsKd"), nil, 1000, 100, 7)
	cmd := m.Init()
	require.NotNil(t, cmd)

	bm := cmd().(batchMsg)
	require.Error(t, bm.err)

	_, quit := m.Update(bm)
	require.NotNil(t, quit)
	assert.True(t, m.quitting)
	assert.True(t, errors.Is(m.err, analysis.ErrConflictingCards))
}

func TestWatchModelView(t *testing.T) {
	m := newWatchModel(mustContestants(t, "AsAh", "KsKh"), nil, 400, 400, 42)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	cmd := m.Init()
	bm := cmd().(batchMsg)
	m.Update(bm)

	view := m.View()
	for _, want := range []string{"equity-watch", "AsAh", "KsKh", "95% margin", "400 / 400 trials", "seed 42"} {
		assert.Contains(t, view, want)
	}
}

func TestWatchModelPrintSummary(t *testing.T) {
	m := newWatchModel(mustContestants(t, "AsAh", "KsKh"), nil, 200, 200, 42)
	bm := m.Init()().(batchMsg)
	m.Update(bm)

	var buf bytes.Buffer
	m.printSummary(&buf)

	out := buf.String()
	assert.Contains(t, out, "hand")
	assert.Contains(t, out, "AsAh")
	assert.Contains(t, out, "200 trials, seed 42")
}
