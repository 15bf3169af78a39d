package catalog

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetProvider(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM providers WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "owner_user_id", "name", "utc_offset_minutes",
			"slot_granularity_minutes", "min_booking_notice_minutes", "created_at", "updated_at",
		}).AddRow(int64(7), int64(100), "Salon", 180, nil, 30, now, now))

	p, err := repo.GetProvider(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Salon", p.Name)
	assert.Equal(t, 0, p.SlotGranularityMinutes)
	assert.Equal(t, 15, p.Granularity(15))
	assert.Equal(t, 30, p.MinBookingNoticeMinutes)
	assert.True(t, p.IsOwner(100))

	mock.ExpectQuery(regexp.QuoteMeta("FROM providers")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetProvider(context.Background(), 8)
	require.ErrorIs(t, err, ErrProviderNotFound)
}

func TestRepository_GetService(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM services WHERE id = $1 AND provider_id = $2")).
		WithArgs(int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "provider_id", "name", "duration_minutes", "price", "is_active", "created_at", "updated_at",
		}).AddRow(int64(3), int64(7), "Haircut", 45, 25.5, true, now, now))

	s, err := repo.GetService(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, 45, s.DurationMinutes)
	require.NoError(t, s.Validate())

	mock.ExpectQuery(regexp.QuoteMeta("FROM services")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetService(context.Background(), 7, 4)
	require.ErrorIs(t, err, ErrServiceNotFound)
}
