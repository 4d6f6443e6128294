package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRiskProfile(t *testing.T) {
	p, err := ParseRiskProfile("low")
	require.NoError(t, err)
	assert.Equal(t, ProfileLow, p)

	p, err = ParseRiskProfile("")
	require.NoError(t, err)
	assert.Equal(t, ProfileMedium, p, "empty defaults to medium")

	_, err = ParseRiskProfile("yolo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yolo")

	_, err = ParseRiskProfile("MEDIUM")
	assert.Error(t, err, "profiles are lowercase")
}

func TestRiskLevelRank(t *testing.T) {
	assert.Equal(t, 1, RiskLow.Rank())
	assert.Equal(t, 2, RiskMedium.Rank())
	assert.Equal(t, 3, RiskHigh.Rank())
	assert.Equal(t, 4, RiskExtreme.Rank())
	assert.Equal(t, 0, RiskLevel("").Rank())
}

func TestRiskLevelScore(t *testing.T) {
	assert.Equal(t, 20, RiskLow.Score())
	assert.Equal(t, 40, RiskMedium.Score())
	assert.Equal(t, 65, RiskHigh.Score())
	assert.Equal(t, 90, RiskExtreme.Score())
	assert.Equal(t, 50, RiskLevel("unknown").Score())
}
