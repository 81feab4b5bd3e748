package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLogger_SharesEntriesWithDerivedLoggers(t *testing.T) {
	mock := NewMockLogger()

	mock.Info("loaded", F(FieldCount, 3))
	mock.WithField(FieldChart, "monthly_balance.png").Warn("chart skipped")
	mock.WithError(errors.New("bad row")).Error("load failed")

	entries := mock.GetEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, []Field{{Key: FieldChart, Value: "monthly_balance.png"}}, entries[1].Fields)
	assert.EqualError(t, entries[2].Error, "bad row")

	assert.True(t, mock.HasEntry("WARN", "chart skipped"))
	assert.Len(t, mock.GetEntriesByLevel("ERROR"), 1)

	mock.Clear()
	assert.Empty(t, mock.GetEntries())
}
