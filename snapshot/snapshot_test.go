package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "quote_id": "Q-2026-0042",
  "project_id": "PRJ-17",
  "premium": 57800,
  "project": {
    "name": "Marina Tower",
    "project_type": "residential_building",
    "start_date": "2026-03-01",
    "end_date": "2027-12-31",
    "contract_value": "12,500,000"
  },
  "contract_structure": {
    "sub_contractors": ["Acme Co", "Beta LLC"]
  },
  "cover_requirements": {
    "sum_insured": 12500000,
    "cross_liability": true
  },
  "claims_history": [{"year": 2024, "count": 2, "amount": 12000}]
}`

func TestParseJSON(t *testing.T) {
	snap, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, "Q-2026-0042", snap.QuoteID)
	premium, ok := snap.Premium.Float()
	require.True(t, ok)
	assert.Equal(t, 57800.0, premium)

	require.NotNil(t, snap.Project)
	value, ok := snap.Project.ContractValue.Float()
	require.True(t, ok)
	assert.Equal(t, 12500000.0, value)

	start, ok := snap.Project.StartDate.Value()
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), start)

	require.NotNil(t, snap.ContractStructure)
	assert.Empty(t, snap.ContractStructure.PrincipalOwner)
	assert.Equal(t, []string{"Acme Co", "Beta LLC"}, snap.ContractStructure.SubContractors)
	require.NotNil(t, snap.Cover.CrossLiability)
	assert.True(t, *snap.Cover.CrossLiability)
	require.Len(t, snap.Claims, 1)
	assert.Equal(t, 2024, snap.Claims[0].Year)

	project, ok := snap.Raw["project"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Marina Tower", project["name"])
}

func TestParseYAMLWithMissingSections(t *testing.T) {
	snap, err := Parse([]byte("quote_id: Q-1\nvalidity_days: 45\n"))
	require.NoError(t, err)

	assert.Nil(t, snap.Project)
	assert.Nil(t, snap.Cover)
	assert.Nil(t, snap.Premium)
	_, ok := snap.Premium.Float()
	assert.False(t, ok)
	require.NotNil(t, snap.ValidityDays)
	assert.Equal(t, 45, *snap.ValidityDays)
}

func TestParseMalformedFieldsBecomeAbsent(t *testing.T) {
	snap, err := Parse([]byte(`{"premium": "TBD", "project": {"start_date": "soon", "end_date": "2027-01-31", "contract_value": ""}}`))
	require.NoError(t, err)

	_, ok := snap.Premium.Float()
	assert.False(t, ok, "无法解析的金额应视为未提供")
	_, ok = snap.Project.ContractValue.Float()
	assert.False(t, ok, "空金额应视为未提供")
	_, ok = snap.Project.StartDate.Value()
	assert.False(t, ok, "无法解析的日期应视为未提供")
	end, ok := snap.Project.EndDate.Value()
	require.True(t, ok)
	assert.Equal(t, 2027, end.Year())
}

func TestParseEmptyPremiumIsAbsent(t *testing.T) {
	snap, err := Parse([]byte(`{"premium": ""}`))
	require.NoError(t, err)
	_, ok := snap.Premium.Float()
	assert.False(t, ok)
}

func TestParseDateLayouts(t *testing.T) {
	for _, raw := range []string{"2026-05-04", "2026-05-04T10:00:00Z", "04/05/2026"} {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, 2026, got.Year(), raw)
		assert.Equal(t, time.May, got.Month(), raw)
		assert.Equal(t, 4, got.Day(), raw)
	}
	_, err := ParseDate("next tuesday")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "PRJ-17", snap.ProjectID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
