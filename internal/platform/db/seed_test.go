package db

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMasterRateCatalogWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, rate := range MasterRateCatalog {
		amount, err := decimal.NewFromString(rate.Amount)
		require.NoError(t, err, rate.Description)
		assert.True(t, amount.IsPositive(), rate.Description)

		key := rate.ProfessionCode + "/" + rate.ItemNo
		assert.False(t, seen[key], "duplicate catalog entry %s", key)
		seen[key] = true
	}
}
