package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deal-desk/domain"
)

func TestSettingsRepositoryMemory(t *testing.T) {
	repo := NewSettingsRepositoryMemory()

	_, err := repo.Get("d1")
	assert.ErrorIs(t, err, ErrDealerNotFound)

	settings := domain.DealerSettings{DealerID: "d1", DocFee: decimal.NewFromInt(499), DefaultState: "TX"}
	require.NoError(t, repo.Put(settings))

	got, err := repo.Get("d1")
	require.NoError(t, err)
	assert.Equal(t, settings, got)
}
