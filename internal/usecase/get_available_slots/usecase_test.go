package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// 2026-03-02 is a Monday
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeCatalog struct {
	provider *domain.Provider
	service  *domain.Service
}

func (f *fakeCatalog) GetProvider(_ context.Context, id int64) (*domain.Provider, error) {
	if f.provider == nil || f.provider.ID != id {
		return nil, catalogRepo.ErrProviderNotFound
	}
	return f.provider, nil
}

func (f *fakeCatalog) GetService(_ context.Context, providerID, serviceID int64) (*domain.Service, error) {
	if f.service == nil || f.service.ID != serviceID || f.service.ProviderID != providerID {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return f.service, nil
}

type fakeSchedule struct {
	hours   []*domain.BusinessHours
	timeOff []*domain.TimeOff
	calls   int
}

func (f *fakeSchedule) GetBusinessHours(_ context.Context, _ int64) ([]*domain.BusinessHours, error) {
	f.calls++
	return f.hours, nil
}

func (f *fakeSchedule) GetTimeOff(_ context.Context, _ int64, _, _ time.Time) ([]*domain.TimeOff, error) {
	return f.timeOff, nil
}

type fakeAppointments struct {
	items []*domain.Appointment
	err   error
}

func (f *fakeAppointments) GetByProviderWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	res := make([]*domain.Appointment, 0)
	for _, a := range f.items {
		if a.ProviderID != filter.ProviderID || !a.Date.Equal(*filter.StartDate) {
			continue
		}
		if !filter.IncludeInactive && !a.IsBlocking() {
			continue
		}
		res = append(res, a)
	}
	return res, nil
}

type fixture struct {
	uc       *UseCase
	schedule *fakeSchedule
	appts    *fakeAppointments
	catalog  *fakeCatalog
}

func newFixture(duration, granularity int) *fixture {
	catalog := &fakeCatalog{
		provider: &domain.Provider{ID: 7, OwnerUserID: 100, SlotGranularityMinutes: granularity},
		service:  &domain.Service{ID: 3, ProviderID: 7, Name: "Haircut", DurationMinutes: duration, IsActive: true},
	}
	schedule := &fakeSchedule{hours: []*domain.BusinessHours{
		{ProviderID: 7, DayOfWeek: time.Sunday},
		{ProviderID: 7, DayOfWeek: time.Monday, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
	}}
	appts := &fakeAppointments{}

	uc := NewUseCase(catalog, schedule, appts, 15, logger.Nop())
	uc.timeProvider = fixedTime{now: monday.AddDate(0, 0, -1)}

	return &fixture{uc: uc, schedule: schedule, appts: appts, catalog: catalog}
}

func request() *Request {
	return &Request{ProviderID: 7, ServiceID: 3, Date: monday}
}

func slotStarts(resp *Response) []types.TimeString {
	res := make([]types.TimeString, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		res = append(res, s.StartTime)
	}
	return res
}

func TestExecute_FullDay(t *testing.T) {
	f := newFixture(30, 30)

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)

	require.Len(t, resp.Slots, 18)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("17:30"), resp.Slots[17].StartTime)
	assert.Equal(t, types.TimeString("18:00"), resp.Slots[17].EndTime)
	assert.Equal(t, 30, resp.GranularityMinutes)
	assert.Equal(t, 30, resp.DurationMinutes)
}

func TestExecute_ExcludesBooked(t *testing.T) {
	f := newFixture(30, 30)
	f.appts.items = []*domain.Appointment{{
		ID: 1, ProviderID: 7, Date: monday, StartTime: "10:00", EndTime: "10:30", Status: domain.StatusScheduled,
	}}

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)

	assert.Len(t, resp.Slots, 17)
	assert.NotContains(t, slotStarts(resp), types.TimeString("10:00"))
}

func TestExecute_CancelledSlotReappears(t *testing.T) {
	f := newFixture(30, 30)
	booked := &domain.Appointment{
		ID: 1, ProviderID: 7, Date: monday, StartTime: "10:00", EndTime: "10:30", Status: domain.StatusConfirmed,
	}
	f.appts.items = []*domain.Appointment{booked}

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)
	assert.NotContains(t, slotStarts(resp), types.TimeString("10:00"))

	booked.Status = domain.StatusCancelled

	resp, err = f.uc.Execute(context.Background(), request())
	require.NoError(t, err)
	assert.Contains(t, slotStarts(resp), types.TimeString("10:00"))
	assert.Len(t, resp.Slots, 18)
}

func TestExecute_GranularityFallbacks(t *testing.T) {
	t.Run("service default", func(t *testing.T) {
		f := newFixture(45, 0)
		f.schedule.hours[1].CloseTime = "10:00"

		resp, err := f.uc.Execute(context.Background(), request())
		require.NoError(t, err)
		assert.Equal(t, 15, resp.GranularityMinutes)
		assert.Equal(t, []types.TimeString{"09:00", "09:15"}, slotStarts(resp))
	})

	t.Run("request override", func(t *testing.T) {
		f := newFixture(30, 30)
		req := request()
		req.GranularityMinutes = 60

		resp, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Len(t, resp.Slots, 9)
	})

	t.Run("finer request keeps provider step", func(t *testing.T) {
		f := newFixture(30, 0)
		req := request()
		req.GranularityMinutes = 5

		resp, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 15, resp.GranularityMinutes)
		assert.Equal(t, types.TimeString("09:15"), resp.Slots[1].StartTime)
	})

	t.Run("request rounded up to provider step", func(t *testing.T) {
		f := newFixture(30, 30)
		req := request()
		req.GranularityMinutes = 40

		resp, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 60, resp.GranularityMinutes)
		assert.Len(t, resp.Slots, 9)
	})
}

func TestExecute_EmptyResults(t *testing.T) {
	t.Run("closed day", func(t *testing.T) {
		f := newFixture(30, 30)
		req := request()
		req.Date = monday.AddDate(0, 0, -1)
		f.uc.timeProvider = fixedTime{now: monday.AddDate(0, 0, -2)}

		resp, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.NotNil(t, resp.Slots)
		assert.Empty(t, resp.Slots)
	})

	t.Run("absent day", func(t *testing.T) {
		f := newFixture(30, 30)
		req := request()
		req.Date = monday.AddDate(0, 0, 1)

		resp, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})

	t.Run("past date", func(t *testing.T) {
		f := newFixture(30, 30)
		f.uc.timeProvider = fixedTime{now: monday.AddDate(0, 0, 3)}

		resp, err := f.uc.Execute(context.Background(), request())
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
		assert.Equal(t, 0, f.schedule.calls)
	})

	t.Run("time off", func(t *testing.T) {
		f := newFixture(30, 30)
		f.schedule.timeOff = []*domain.TimeOff{{ProviderID: 7, StartDate: monday, EndDate: monday}}

		resp, err := f.uc.Execute(context.Background(), request())
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})
}

func TestExecute_TodayUsesProviderClock(t *testing.T) {
	f := newFixture(30, 30)
	f.catalog.provider.UTCOffsetMinutes = 120
	// 10:05 UTC = 12:05 у провайдера
	f.uc.timeProvider = fixedTime{now: monday.Add(10*time.Hour + 5*time.Minute)}

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, types.TimeString("12:30"), resp.Slots[0].StartTime)
}

func TestExecute_Idempotent(t *testing.T) {
	f := newFixture(30, 15)
	f.appts.items = []*domain.Appointment{{
		ID: 1, ProviderID: 7, Date: monday, StartTime: "11:00", EndTime: "11:45", Status: domain.StatusScheduled,
	}}

	first, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *fixture, req *Request)
		wantErr error
	}{
		{
			name:    "invalid provider id",
			mutate:  func(_ *fixture, req *Request) { req.ProviderID = 0 },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing date",
			mutate:  func(_ *fixture, req *Request) { req.Date = time.Time{} },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "granularity out of range",
			mutate:  func(_ *fixture, req *Request) { req.GranularityMinutes = 1 },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown provider",
			mutate:  func(_ *fixture, req *Request) { req.ProviderID = 8 },
			wantErr: ErrProviderNotFound,
		},
		{
			name:    "unknown service",
			mutate:  func(_ *fixture, req *Request) { req.ServiceID = 4 },
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "inactive service",
			mutate:  func(f *fixture, _ *Request) { f.catalog.service.IsActive = false },
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "appointments read fails",
			mutate:  func(f *fixture, _ *Request) { f.appts.err = errors.New("db down") },
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(30, 30)
			req := request()
			tt.mutate(f, req)

			_, err := f.uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
