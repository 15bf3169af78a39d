package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
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
}

func (f *fakeSchedule) GetBusinessHoursForDay(_ context.Context, _ int64, day time.Weekday) (*domain.BusinessHours, error) {
	h := domain.FindBusinessHours(f.hours, day)
	if h == nil {
		return nil, scheduleRepo.ErrBusinessHoursNotFound
	}
	return h, nil
}

func (f *fakeSchedule) GetTimeOff(_ context.Context, _ int64, _, _ time.Time) ([]*domain.TimeOff, error) {
	return f.timeOff, nil
}

// fakeAppointments хранилище записей в памяти; Create повторяет ограничение EXCLUDE
type fakeAppointments struct {
	mu        sync.Mutex
	items     []*domain.Appointment
	nextID    int64
	lockErr   error
	createErr error
	locks     int
	// staleRead отдаёт пустой список, как снимок до чужого commit
	staleRead bool
}

func (f *fakeAppointments) LockProviderDate(_ context.Context, _ int64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks++
	return f.lockErr
}

func (f *fakeAppointments) GetByProviderWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]*domain.Appointment, 0)
	if f.staleRead {
		return res, nil
	}
	for _, a := range f.items {
		if a.ProviderID == filter.ProviderID && a.Date.Equal(*filter.StartDate) && a.IsBlocking() {
			res = append(res, a)
		}
	}
	return res, nil
}

func (f *fakeAppointments) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.items {
		if existing.ProviderID == a.ProviderID && existing.Date.Equal(a.Date) &&
			existing.IsBlocking() && existing.Window().Overlaps(a.Window()) {
			return nil, appointmentRepo.ErrSlotNotAvailable
		}
	}
	f.nextID++
	created := *a
	created.ID = f.nextID
	f.items = append(f.items, &created)
	return &created, nil
}

func (f *fakeAppointments) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// fakeTxManager сериализует транзакции мьютексом, как блокировка (провайдер, дата)
type fakeTxManager struct {
	mu  sync.Mutex
	err error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifications.EventType
}

func (n *fakeNotifier) Notify(_ context.Context, eventType notifications.EventType, _ *domain.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventType)
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *fakeMetrics) ObserveBooking(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

type fakeDirectory struct {
	user  *userservice.User
	err   error
	calls int
}

func (f *fakeDirectory) GetUserWithGracefulDegradation(_ context.Context, _ int64) (*userservice.User, error) {
	f.calls++
	return f.user, f.err
}

type fixture struct {
	uc       *UseCase
	catalog  *fakeCatalog
	schedule *fakeSchedule
	appts    *fakeAppointments
	tx       *fakeTxManager
	notifier *fakeNotifier
	metrics  *fakeMetrics
}

func newFixture(duration, granularity int) *fixture {
	f := &fixture{
		catalog: &fakeCatalog{
			provider: &domain.Provider{ID: 7, OwnerUserID: 100, SlotGranularityMinutes: granularity},
			service:  &domain.Service{ID: 3, ProviderID: 7, Name: "Haircut", DurationMinutes: duration, Price: 1500, IsActive: true},
		},
		schedule: &fakeSchedule{hours: []*domain.BusinessHours{
			{ProviderID: 7, DayOfWeek: time.Monday, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
		}},
		appts:    &fakeAppointments{},
		tx:       &fakeTxManager{},
		notifier: &fakeNotifier{},
		metrics:  &fakeMetrics{},
	}

	f.uc = NewUseCase(f.catalog, f.schedule, f.appts, f.tx, f.notifier, nil, f.metrics, 15, logger.Nop())
	f.uc.timeProvider = fixedTime{now: monday.AddDate(0, 0, -1)}

	return f
}

func request(start types.TimeString) *Request {
	return &Request{
		UserID:     42,
		ProviderID: 7,
		ServiceID:  3,
		Date:       monday,
		StartTime:  start,
		ClientName: "Ivan",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(30, 30)
	req := request("10:00")
	req.ClientEmail = ptr.Ptr("ivan@example.com")
	req.Notes = ptr.Ptr("first visit")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	a := resp.Appointment
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, domain.StatusScheduled, a.Status)
	assert.Equal(t, types.TimeString("10:00"), a.StartTime)
	assert.Equal(t, types.TimeString("10:30"), a.EndTime)
	assert.Equal(t, 30, a.DurationMinutes)
	assert.Equal(t, "Haircut", a.ServiceName)
	assert.Equal(t, 1500.0, a.ServicePrice)
	require.NotNil(t, a.ClientUserID)
	assert.Equal(t, int64(42), *a.ClientUserID)
	assert.Equal(t, "ivan@example.com", *a.ClientEmail)

	assert.Equal(t, 1, f.appts.locks)
	assert.Equal(t, []notifications.EventType{notifications.EventAppointmentCreated}, f.notifier.events)
	assert.Equal(t, 1, f.metrics.outcomes[metrics.BookingOutcomeCreated])
}

func TestExecute_AnonymousClient(t *testing.T) {
	f := newFixture(30, 30)
	req := request("10:00")
	req.UserID = 0

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, resp.Appointment.ClientUserID)
}

func TestExecute_ClientContactsFromDirectory(t *testing.T) {
	f := newFixture(30, 30)
	dir := &fakeDirectory{user: &userservice.User{
		ID:    42,
		Email: ptr.Ptr("profile@example.com"),
		Phone: ptr.Ptr("+79990000000"),
	}}
	f.uc.clients = dir

	req := request("10:00")
	req.ClientEmail = ptr.Ptr("ivan@example.com")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, dir.calls)
	assert.Equal(t, "ivan@example.com", *resp.Appointment.ClientEmail)
	assert.Equal(t, "+79990000000", *resp.Appointment.ClientPhone)
}

func TestExecute_ClientDirectoryDegraded(t *testing.T) {
	f := newFixture(30, 30)
	f.uc.clients = &fakeDirectory{err: userservice.ErrServiceDegraded}

	resp, err := f.uc.Execute(context.Background(), request("10:00"))
	require.NoError(t, err)
	assert.Nil(t, resp.Appointment.ClientEmail)
	assert.Nil(t, resp.Appointment.ClientPhone)
}

func TestExecute_ClientDirectorySkippedForAnonymous(t *testing.T) {
	f := newFixture(30, 30)
	dir := &fakeDirectory{user: &userservice.User{ID: 42}}
	f.uc.clients = dir

	req := request("10:00")
	req.UserID = 0

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, dir.calls)
}

func TestExecute_SlotTaken(t *testing.T) {
	f := newFixture(30, 30)

	_, err := f.uc.Execute(context.Background(), request("14:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), request("14:00"))
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)

	assert.Equal(t, 1, f.appts.count())
	assert.Equal(t, 1, f.metrics.outcomes[metrics.BookingOutcomeSlotUnavailable])
	assert.Len(t, f.notifier.events, 1)
}

func TestExecute_PartialOverlapRejected(t *testing.T) {
	f := newFixture(60, 30)

	_, err := f.uc.Execute(context.Background(), request("14:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), request("14:30"))
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)

	_, err = f.uc.Execute(context.Background(), request("15:00"))
	require.NoError(t, err)
}

func TestExecute_CancelledDoesNotBlock(t *testing.T) {
	f := newFixture(30, 30)
	f.appts.items = []*domain.Appointment{{
		ID: 99, ProviderID: 7, Date: monday, StartTime: "14:00", EndTime: "14:30", Status: domain.StatusCancelled,
	}}
	f.appts.nextID = 99

	resp, err := f.uc.Execute(context.Background(), request("14:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.Appointment.ID)
}

func TestExecute_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(30, 30)

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			req := request("14:00")
			req.UserID = userID
			req.ClientName = fmt.Sprintf("client-%d", userID)

			_, err := f.uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrSlotUnavailable):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)
	assert.Equal(t, 1, f.appts.count())
}

func TestExecute_StorageConstraintMapsToSlotUnavailable(t *testing.T) {
	f := newFixture(30, 30)
	f.appts.createErr = fmt.Errorf("%w: exclusion violation", appointmentRepo.ErrSlotNotAvailable)

	_, err := f.uc.Execute(context.Background(), request("14:00"))
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)
	assert.Empty(t, f.notifier.events)
}

func TestExecute_StaleSnapshotRejectedByConstraint(t *testing.T) {
	f := newFixture(30, 30)
	f.appts.items = []*domain.Appointment{{
		ID: 1, ProviderID: 7, Date: monday, StartTime: "14:00", EndTime: "14:30", Status: domain.StatusScheduled,
	}}
	f.appts.nextID = 1
	f.appts.staleRead = true

	_, err := f.uc.Execute(context.Background(), request("14:00"))
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)
	assert.Equal(t, 1, f.appts.count())
	assert.Equal(t, 1, f.metrics.outcomes[metrics.BookingOutcomeSlotUnavailable])
	assert.Empty(t, f.notifier.events)
}

func TestExecute_LockTimeout(t *testing.T) {
	f := newFixture(30, 30)
	f.tx.err = fmt.Errorf("%w: canceling statement due to lock timeout", txmanager.ErrLockTimeout)

	_, err := f.uc.Execute(context.Background(), request("14:00"))
	require.ErrorIs(t, err, domain.ErrTransactionTimeout)
	assert.NotErrorIs(t, err, domain.ErrSlotUnavailable)
	assert.Equal(t, 1, f.metrics.outcomes[metrics.BookingOutcomeTimeout])
}

func TestExecute_SerializationRetriesExhausted(t *testing.T) {
	f := newFixture(30, 30)
	f.tx.err = fmt.Errorf("%w: could not serialize access", txmanager.ErrSerializationFailure)

	_, err := f.uc.Execute(context.Background(), request("14:00"))
	require.ErrorIs(t, err, domain.ErrTransactionTimeout)
}

func TestExecute_LockError(t *testing.T) {
	f := newFixture(30, 30)
	f.appts.lockErr = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), request("14:00"))
	require.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 1, f.metrics.outcomes[metrics.BookingOutcomeError])
}

func TestExecute_MisalignedStart(t *testing.T) {
	f := newFixture(30, 30)

	_, err := f.uc.Execute(context.Background(), request("10:10"))
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)
	assert.Zero(t, f.appts.count())
}

func TestExecute_OutsideBusinessHours(t *testing.T) {
	f := newFixture(30, 30)

	_, err := f.uc.Execute(context.Background(), request("17:45"))
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)

	_, err = f.uc.Execute(context.Background(), request("08:30"))
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)
}

func TestExecute_ClosedDay(t *testing.T) {
	f := newFixture(30, 30)
	req := request("10:00")
	req.Date = monday.AddDate(0, 0, 1)

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)
}

func TestExecute_TimeOff(t *testing.T) {
	f := newFixture(30, 30)
	f.schedule.timeOff = []*domain.TimeOff{{
		ProviderID: 7, StartDate: monday, EndDate: monday,
		StartTime: "12:00", EndTime: "13:00",
	}}

	_, err := f.uc.Execute(context.Background(), request("12:30"))
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)

	_, err = f.uc.Execute(context.Background(), request("13:00"))
	require.NoError(t, err)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture(30, 30)
	f.uc.timeProvider = fixedTime{now: monday.AddDate(0, 0, 2)}

	_, err := f.uc.Execute(context.Background(), request("10:00"))
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)
	assert.Zero(t, f.appts.locks)
}

func TestExecute_TodayBeforeNow(t *testing.T) {
	f := newFixture(30, 30)
	f.uc.timeProvider = fixedTime{now: monday.Add(11 * time.Hour)}

	_, err := f.uc.Execute(context.Background(), request("10:00"))
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)

	_, err = f.uc.Execute(context.Background(), request("11:00"))
	require.NoError(t, err)
}

func TestExecute_CrossesMidnight(t *testing.T) {
	f := newFixture(60, 30)

	_, err := f.uc.Execute(context.Background(), request("23:30"))
	require.ErrorIs(t, err, domain.ErrOutOfRange)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"no provider", func(r *Request) { r.ProviderID = 0 }},
		{"no service", func(r *Request) { r.ServiceID = 0 }},
		{"no date", func(r *Request) { r.Date = time.Time{} }},
		{"no start", func(r *Request) { r.StartTime = "" }},
		{"bad start", func(r *Request) { r.StartTime = "25:00" }},
		{"no name", func(r *Request) { r.ClientName = "   " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(30, 30)
			req := request("10:00")
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture(30, 30)

	req := request("10:00")
	req.ProviderID = 8
	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrProviderNotFound)

	req = request("10:00")
	req.ServiceID = 4
	_, err = f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrServiceNotFound)

	f.catalog.service.IsActive = false
	_, err = f.uc.Execute(context.Background(), request("10:00"))
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_BooksSlotOfferedWithCustomStep(t *testing.T) {
	f := newFixture(30, 0)
	provider := f.catalog.provider

	slots, err := availability.Available(availability.Input{
		Date:               monday,
		DurationMinutes:    30,
		GranularityMinutes: provider.SlotStep(5, 15),
		Hours:              f.schedule.hours[0],
		Now:                monday.AddDate(0, 0, -1),
		Location:           provider.Location(),
	}, nil)
	require.NoError(t, err)
	require.Greater(t, len(slots), 1)

	resp, err := f.uc.Execute(context.Background(), request(slots[1].Start))
	require.NoError(t, err)
	assert.Equal(t, slots[1].Start, resp.Appointment.StartTime)
	assert.Equal(t, slots[1].End, resp.Appointment.EndTime)
}
