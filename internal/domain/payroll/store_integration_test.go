package payroll_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pts/internal/domain/payroll"
	"pts/internal/platform/db"
)

func newIntegrationStore(t *testing.T) (*payroll.Store, *pgxpool.Pool) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if strings.TrimSpace(dbURL) == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.Migrate(ctx, pool, "../../../migrations", zap.NewNop()))
	return payroll.NewStore(pool, zap.NewNop()), pool
}

func TestStoreGetOrCreatePeriodIsUpsert(t *testing.T) {
	store, pool := newIntegrationStore(t)
	ctx := context.Background()

	first, err := store.GetOrCreatePeriod(ctx, 2599, 7)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = pool.Exec(context.Background(), "DELETE FROM payroll_periods WHERE id = $1", first.ID) })

	second, err := store.GetOrCreatePeriod(ctx, 2599, 7)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, payroll.StatusOpen, second.Status)
	assert.True(t, second.TotalAmount.IsZero())
}

func TestStoreWithinTxRollsBack(t *testing.T) {
	store, pool := newIntegrationStore(t)
	ctx := context.Background()

	period, err := store.GetOrCreatePeriod(ctx, 2599, 8)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = pool.Exec(context.Background(), "DELETE FROM payroll_periods WHERE id = $1", period.ID) })

	boom := errors.New("boom")
	err = store.WithinTx(ctx, func(tx payroll.StoreAPI) error {
		locked, err := tx.LockPeriod(ctx, period.ID)
		if err != nil {
			return err
		}
		if err := tx.UpdatePeriodStatus(ctx, locked.ID, payroll.StatusWaitingHR, nil); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	after, err := store.GetPeriod(ctx, period.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusOpen, after.Status)

	_, err = store.GetPeriod(ctx, -1)
	assert.ErrorIs(t, err, payroll.ErrPeriodNotFound)
}

func TestStoreListEligibleCitizensKeepsSupersededCoverage(t *testing.T) {
	store, pool := newIntegrationStore(t)
	ctx := context.Background()

	var rateID int64
	require.NoError(t, pool.QueryRow(ctx, `
    INSERT INTO master_rates (profession_code, group_no, item_no, amount)
    VALUES ('TEST_ELIGIBLE', 1, 'x', 3000)
    ON CONFLICT (profession_code, group_no, item_no) DO UPDATE SET amount = EXCLUDED.amount
    RETURNING id`).Scan(&rateID))

	// 9900000000001 is mid-supersede: July is covered by the old interval, the approved one starts in September.
	rows := []struct {
		citizen string
		from    string
		until   *string
		active  bool
	}{
		{citizen: "9900000000001", from: "2599-01-01", until: strPtr("2599-08-31")},
		{citizen: "9900000000001", from: "2599-09-01", active: true},
		{citizen: "9900000000002", from: "2599-01-01", until: strPtr("2599-06-30")},
		{citizen: "9900000000003", from: "2599-07-20", until: strPtr("2599-07-10")},
		{citizen: "9900000000004", from: "2599-07-15", active: true},
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM rate_eligibilities WHERE citizen_id LIKE '99000000000%'")
		_, _ = pool.Exec(context.Background(), "DELETE FROM master_rates WHERE id = $1", rateID)
	})
	for _, row := range rows {
		_, err := pool.Exec(ctx, `
      INSERT INTO rate_eligibilities (citizen_id, master_rate_id, effective_date, expiry_date, is_active)
      VALUES ($1, $2, $3::date, $4::date, $5)`, row.citizen, rateID, row.from, row.until, row.active)
		require.NoError(t, err)
	}

	monthStart := time.Date(2599, time.July, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(2599, time.July, 31, 0, 0, 0, 0, time.UTC)
	citizens, err := store.ListEligibleCitizens(ctx, monthStart, monthEnd)
	require.NoError(t, err)

	var ours []string
	for _, c := range citizens {
		if strings.HasPrefix(c, "99000000000") {
			ours = append(ours, c)
		}
	}
	assert.Equal(t, []string{"9900000000001", "9900000000004"}, ours)
}

func strPtr(s string) *string { return &s }
