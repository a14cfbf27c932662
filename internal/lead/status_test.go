package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusRemoteLabelRoundTrip(t *testing.T) {
	for _, status := range Statuses() {
		assert.Equal(t, status, FromRemoteLabel(status.RemoteLabel()), "status %s", status)
	}
}

func TestFromRemoteLabelUnknownDefaultsToNew(t *testing.T) {
	assert.Equal(t, StatusNew, FromRemoteLabel(""))
	assert.Equal(t, StatusNew, FromRemoteLabel("Ghosted"))
	assert.Equal(t, StatusNew, FromRemoteLabel("completed")) // labels are exact, not case-folded
}

func TestStatusProgressTable(t *testing.T) {
	expected := map[Status]int{
		StatusNew:       10,
		StatusContacted: 30,
		StatusQuoted:    55,
		StatusScheduled: 75,
		StatusCompleted: 100,
		StatusLost:      100,
	}
	for status, progress := range expected {
		assert.Equal(t, progress, status.Progress(), "status %s", status)
	}
}

func TestParseStatus(t *testing.T) {
	for _, status := range Statuses() {
		parsed, ok := ParseStatus(string(status))
		require.True(t, ok, "status %s", status)
		assert.Equal(t, status, parsed)
	}

	parsed, ok := ParseStatus("JobPayment")
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, parsed)

	_, ok = ParseStatus("archived")
	assert.False(t, ok)
	_, ok = ParseStatus("")
	assert.False(t, ok)
}

func TestSourceDerivations(t *testing.T) {
	assert.Equal(t, "LP1", SourceForm1.LP())
	assert.Equal(t, "LP2", SourceForm2.LP())
	assert.Equal(t, "LP1", SourceCall1.LP())
	assert.Equal(t, "LP2", SourceCall2.LP())

	assert.False(t, SourceForm1.IsCall())
	assert.True(t, SourceCall2.IsCall())

	assert.Equal(t, SourceForm2, ParseSource("form2"))
	assert.Equal(t, SourceForm1, ParseSource(""))
	assert.Equal(t, SourceForm1, ParseSource("carrier-pigeon"))
}
