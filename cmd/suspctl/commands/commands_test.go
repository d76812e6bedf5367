package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moto-tune/suspension-backend/internal/suspension/adjustment"
	"github.com/moto-tune/suspension-backend/internal/suspension/balance"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	jsonOutput = false
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBalanceText(t *testing.T) {
	out, err := run(t, "balance", "--fork-comp", "16", "--shock-low", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "front  80%  rear  20%  FRONT_HEAVY")
	assert.Contains(t, out, "BALANCED")
}

func TestBalanceJSON_HighSpeed(t *testing.T) {
	out, err := run(t, "balance", "--json", "--shock-high", "4")
	require.NoError(t, err)

	var b balance.Balance
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, 75, b.RearCompression)
	assert.Equal(t, balance.RearHeavy, b.CompressionBalance)
}

func TestBalanceOutOfRange(t *testing.T) {
	_, err := run(t, "balance", "--fork-comp", "25")
	assert.ErrorContains(t, err, "fork-comp=25 outside [0, 20]")

	_, err = run(t, "balance", "--fork-comp", "25", "--max-fork-comp", "30")
	assert.NoError(t, err)
}

func TestAdjust(t *testing.T) {
	out, err := run(t, "adjust", "--json", "--current", "fork_compression=15,shock_rebound=8", "--target", "fork_compression=5")
	require.NoError(t, err)

	var steps []adjustment.Step
	require.NoError(t, json.Unmarshal([]byte(out), &steps))
	require.Len(t, steps, 1)
	assert.Equal(t, 10, steps[0].Clicks)
	assert.Equal(t, adjustment.CCW, steps[0].Direction)

	out, err = run(t, "adjust", "--target", "fork_rebound=10")
	require.NoError(t, err)
	assert.Equal(t, "nothing to adjust\n", out)
}

func TestAdjustRejectsBadFields(t *testing.T) {
	_, err := run(t, "adjust", "--target", "preload=3")
	assert.ErrorContains(t, err, `unknown field "preload"`)

	_, err = run(t, "adjust", "--target", "shock_compression_high=5")
	assert.ErrorContains(t, err, "outside [0, 4]")
}

func TestBalance_ShortRangesWithoutValues(t *testing.T) {
	out, err := run(t, "balance", "--json", "--max-fork-comp", "5", "--max-fork-reb", "5", "--fork-comp", "5")
	require.NoError(t, err)

	var b balance.Balance
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, 100, b.FrontCompression)
	assert.Equal(t, 100, b.FrontRebound)
	assert.Equal(t, 50, b.RearRebound)
}

func TestAdjust_DefaultsFollowRanges(t *testing.T) {
	out, err := run(t, "adjust", "--json", "--max-fork-comp", "5", "--target", "fork_compression=0")
	require.NoError(t, err)

	var steps []adjustment.Step
	require.NoError(t, json.Unmarshal([]byte(out), &steps))
	require.Len(t, steps, 1)
	assert.Equal(t, 5, steps[0].Clicks)
	assert.Equal(t, 100, steps[0].FromPercentage)
}
