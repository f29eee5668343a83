package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"power_wizard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestEstimateCommand(t *testing.T) {
	out, err := run(t, "estimate", "--sqft", "2000", "--occupants", "3", "--property", "House", "--ev")
	require.NoError(t, err)

	var est service.Estimate
	require.NoError(t, json.Unmarshal([]byte(out), &est))
	// 2000*0.5 + 3*300 + 300
	assert.Equal(t, 2200, est.Usage)
	require.NotNil(t, est.BestMatch)
	assert.Equal(t, "gexa-saver-supreme-12", est.BestMatch.ID)
	assert.Len(t, est.TopThree, 3)
	require.NotNil(t, est.CheapestBill)
	assert.Equal(t, est.TopThree[0].ID, est.CheapestBill.ID)
}

func TestEstimateCommand_BadInput(t *testing.T) {
	_, err := run(t, "estimate", "--sqft", "1000", "--property", "castle")
	assert.Error(t, err)

	_, err = run(t, "estimate", "--occupants", "2")
	assert.Error(t, err, "sqft is required")

	_, err = run(t, "estimate", "--sqft", "1000", "--occupants", "-1")
	assert.Error(t, err)
}

func TestPlansCommand(t *testing.T) {
	out, err := run(t, "plans", "--renewable", "--sort", "price", "--usage", "1500")
	require.NoError(t, err)

	var cmp service.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &cmp))
	assert.Equal(t, 1500, cmp.Usage)
	assert.Equal(t, "price", cmp.Sort)
	require.NotEmpty(t, cmp.Plans)
	for i, p := range cmp.Plans {
		assert.Contains(t, p.Features, "renewable")
		if i > 0 {
			assert.LessOrEqual(t, cmp.Plans[i-1].Rate, p.Rate)
		}
	}
	assert.Greater(t, cmp.Total, len(cmp.Plans))
}

func TestPlansCommand_ShowAllIgnoresPreferences(t *testing.T) {
	out, err := run(t, "plans", "--term", "36", "--max-rate", "1", "--show-all")
	require.NoError(t, err)

	var cmp service.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &cmp))
	assert.Equal(t, cmp.Total, len(cmp.Plans))
	assert.False(t, cmp.Empty)
}

func TestPlansCommand_Errors(t *testing.T) {
	_, err := run(t, "plans", "--term", "7")
	assert.Error(t, err)

	_, err = run(t, "plans", "--max-rate", "-2")
	assert.Error(t, err)

	_, err = run(t, "plans", "--catalog", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPlansCommand_CustomCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.yaml")
	doc := `plans:
  - id: only-plan
    name: Only Plan
    provider: Test Power
    term: 12 months
    rate: 10.5
    features: [renewable]
    estimated_bill:
      - {usage: 500, amount: 60}
      - {usage: 1000, amount: 110}
    best_match: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := run(t, "plans", "--catalog", path)
	require.NoError(t, err)

	var cmp service.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &cmp))
	require.Len(t, cmp.Plans, 1)
	assert.Equal(t, "only-plan", cmp.Plans[0].ID)
	assert.InDelta(t, 110, cmp.Plans[0].EstimatedMonthlyBill, 0.001)
}

func TestServe_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("session:\n  store: disk\n"), 0o600))

	_, err := run(t, "serve", "--config", path)
	assert.Error(t, err)
}
