package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCmd(t *testing.T) {
	cmd := InitCmd()
	assert.Equal(t, "init", cmd.Use)
	assert.Equal(t, "Create the schema in the configured database", cmd.Short)
}

func TestSeedCmd(t *testing.T) {
	cmd := SeedCmd()
	assert.Equal(t, "seed", cmd.Use)
	assert.Equal(t, "Load a small demo portfolio", cmd.Short)
}

func TestSummaryCmd(t *testing.T) {
	cmd := SummaryCmd()
	assert.Equal(t, "summary", cmd.Use)

	flags := cmd.Flags()
	assert.NotNil(t, flags.Lookup("by-name"))
}

func TestArrearsCmd(t *testing.T) {
	cmd := ArrearsCmd()
	assert.Equal(t, "arrears", cmd.Use)

	flags := cmd.Flags()
	assert.NotNil(t, flags.Lookup("as-of"))
}

func TestDueCmd(t *testing.T) {
	cmd := DueCmd()
	assert.Equal(t, "due", cmd.Use)

	flags := cmd.Flags()
	assert.NotNil(t, flags.Lookup("days"))
}

func TestParseDate(t *testing.T) {
	fallback := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)

	got, err := parseDate("", fallback)
	require.NoError(t, err)
	assert.True(t, got.Equal(fallback))

	got, err = parseDate("2024-02-01", fallback)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = parseDate("01/02/2024", fallback)
	assert.Error(t, err)
}
