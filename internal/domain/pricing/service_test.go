package pricing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbook/internal/core/apperror"
	"greenbook/internal/core/dates"
	"greenbook/internal/core/lock"
	"greenbook/internal/core/tx"
	"greenbook/internal/core/types"
	"greenbook/internal/domain/catalog"
	"greenbook/internal/domain/pricing"
	"greenbook/internal/infrastructure/storage/memory"
)

func newService() *pricing.Service {
	return pricing.NewService(memory.NewPriceStore(), catalog.Default(), lock.NewKeyed(time.Second), tx.Nop{})
}

func TestResolveWithoutVersion(t *testing.T) {
	svc := newService()

	_, err := svc.Resolve(context.Background(), "daikon", dates.MustParse("2026-03-01"))
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeNoPriceSet))
}

func TestSetPriceClosesOpenVersion(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.SetPrice(ctx, "daikon", types.MustMoney("10"), dates.MustParse("2026-03-01"))
	require.NoError(t, err)

	_, err = svc.SetPrice(ctx, "daikon", types.MustMoney("12"), dates.MustParse("2026-03-05"))
	require.NoError(t, err)

	// Day before the transition resolves to the old price,
	// the transition day itself to the new one.
	price, err := svc.Resolve(ctx, "daikon", dates.MustParse("2026-03-04"))
	require.NoError(t, err)
	assert.True(t, price.Equal(types.MustMoney("10")))

	price, err = svc.Resolve(ctx, "daikon", dates.MustParse("2026-03-05"))
	require.NoError(t, err)
	assert.True(t, price.Equal(types.MustMoney("12")))

	// No version covers dates before the first validFrom.
	_, err = svc.Resolve(ctx, "daikon", dates.MustParse("2026-02-28"))
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeNoPriceSet))
}

func TestSetPriceSameStartReplacesOpenVersion(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.SetPrice(ctx, "tatsoi", types.MustMoney("8"), dates.MustParse("2026-03-01"))
	require.NoError(t, err)

	// Same effective date: the old version closes to an empty interval
	// and the new price takes over, with the old row kept in history.
	_, err = svc.SetPrice(ctx, "tatsoi", types.MustMoney("9"), dates.MustParse("2026-03-01"))
	require.NoError(t, err)

	price, err := svc.Resolve(ctx, "tatsoi", dates.MustParse("2026-03-01"))
	require.NoError(t, err)
	assert.True(t, price.Equal(types.MustMoney("9")))

	versions, err := svc.History(ctx, "tatsoi")
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestSetPriceRejectsBackdatedOverlap(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.SetPrice(ctx, "choy sum", types.MustMoney("8"), dates.MustParse("2026-03-10"))
	require.NoError(t, err)

	// An open-ended version starting earlier would overlap the existing one.
	_, err = svc.SetPrice(ctx, "choy sum", types.MustMoney("7"), dates.MustParse("2026-03-05"))
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeOverlappingPrice))
}

func TestHistoryNeverOverlaps(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for _, from := range []string{"2026-03-01", "2026-03-03", "2026-03-08", "2026-03-20"} {
		_, err := svc.SetPrice(ctx, "daikon", types.MustMoney("10"), dates.MustParse(from))
		require.NoError(t, err)
	}

	versions, err := svc.History(ctx, "daikon")
	require.NoError(t, err)
	require.Len(t, versions, 4)

	for i := range versions {
		for j := i + 1; j < len(versions); j++ {
			a, b := versions[i], versions[j]
			assert.False(t, dates.Overlaps(a.ValidFrom, a.ValidTo, b.ValidFrom, b.ValidTo),
				"versions %d and %d overlap", i, j)
		}
	}

	// All but the newest are closed.
	for i := 0; i < len(versions)-1; i++ {
		require.NotNil(t, versions[i].ValidTo)
		assert.True(t, versions[i].ValidTo.Equal(versions[i+1].ValidFrom))
	}
	assert.Nil(t, versions[len(versions)-1].ValidTo)
}

func TestSetPriceValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.SetPrice(ctx, "daikon", types.MustMoney("0"), dates.MustParse("2026-03-01"))
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = svc.SetPrice(ctx, "durian", types.MustMoney("5"), dates.MustParse("2026-03-01"))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
