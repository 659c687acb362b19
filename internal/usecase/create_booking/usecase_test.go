package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DMP-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/DMP-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/DMP-BookingService/internal/integrations/userdirectory"
)

var testNow = time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	overlapping []*domain.Booking
	createErr   error
	created     *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = booking
	booking.CreatedAt = testNow
	booking.UpdatedAt = testNow
	return booking, nil
}

func (f *fakeBookingRepo) GetActiveOverlapping(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Booking, error) {
	return f.overlapping, nil
}

type fakeUserClient struct {
	users map[int64]*userdirectory.User
}

func (f *fakeUserClient) GetUser(_ context.Context, userID int64) (*userdirectory.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, userdirectory.ErrUserNotFound
	}
	return user, nil
}

type fakeNotifyClient struct {
	events []domain.BookingEvent
	err    error
}

func (f *fakeNotifyClient) Notify(_ context.Context, event domain.BookingEvent) error {
	f.events = append(f.events, event)
	return f.err
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// failingTxManager имитирует транзакцию, завершившуюся ошибкой
// (например, после исчерпания повторов SERIALIZABLE)
type failingTxManager struct {
	err error
}

func (f *failingTxManager) DoSerializable(_ context.Context, _ func(ctx context.Context) error) error {
	return f.err
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func marketplaceUsers() *fakeUserClient {
	return &fakeUserClient{users: map[int64]*userdirectory.User{
		1: {ID: 1, Name: "Lee", Role: userdirectory.RoleCreator},
		7: {ID: 7, Name: "Mira", Role: userdirectory.RoleDesigner},
	}}
}

func newTestUseCase(repo *fakeBookingRepo, users *fakeUserClient, notify *fakeNotifyClient) *UseCase {
	uc := NewUseCase(repo, users, notify, &fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func validRequest() *Request {
	return &Request{
		CreatorID:  1,
		DesignerID: 7,
		StartAt:    time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC),
	}
}

func TestExecute_Success(t *testing.T) {
	repo := &fakeBookingRepo{}
	notify := &fakeNotifyClient{}
	uc := newTestUseCase(repo, marketplaceUsers(), notify)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, int64(1), resp.CreatorID)
	assert.Equal(t, int64(7), resp.DesignerID)
	assert.NotEqual(t, uuid.Nil, resp.ID)

	require.Len(t, resp.Timeline, 1)
	assert.Equal(t, domain.ActionCreated, resp.Timeline[0].Action)
	assert.Equal(t, int64(1), resp.Timeline[0].By)
	assert.Equal(t, testNow, resp.Timeline[0].At)

	require.NotNil(t, repo.created)
	assert.Equal(t, domain.StatusPending, repo.created.Status)

	require.Len(t, notify.events, 1)
	assert.Equal(t, domain.EventBookingCreated, notify.events[0].Type)
	assert.Equal(t, int64(7), notify.events[0].RecipientUserID)
	assert.Equal(t, resp.ID, notify.events[0].BookingID)
}

func TestExecute_SlotTaken(t *testing.T) {
	busy := &domain.Booking{
		ID:         uuid.New(),
		DesignerID: 7,
		StartAt:    time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC),
		EndAt:      time.Date(2025, 11, 3, 10, 30, 0, 0, time.UTC),
		Status:     domain.StatusApproved,
	}
	repo := &fakeBookingRepo{overlapping: []*domain.Booking{busy}}
	notify := &fakeNotifyClient{}
	uc := newTestUseCase(repo, marketplaceUsers(), notify)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Nil(t, repo.created)
	assert.Empty(t, notify.events)
}

func TestExecute_ExclusionConstraintRace(t *testing.T) {
	// Параллельная вставка прошла раньше - constraint в БД вернул конфликт
	repo := &fakeBookingRepo{createErr: bookingRepo.ErrSlotTaken}
	uc := newTestUseCase(repo, marketplaceUsers(), &fakeNotifyClient{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_SerializationRetriesExhausted(t *testing.T) {
	notify := &fakeNotifyClient{}
	uc := NewUseCase(&fakeBookingRepo{}, marketplaceUsers(), notify,
		&failingTxManager{err: &pq.Error{Code: "40001"}}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, notify.events)
}

func TestExecute_TransactionFailureWrapped(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, marketplaceUsers(), &fakeNotifyClient{},
		&failingTxManager{err: errors.New("connection reset")}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_DesignerNotFound(t *testing.T) {
	users := &fakeUserClient{users: map[int64]*userdirectory.User{
		1: {ID: 1, Name: "Lee", Role: userdirectory.RoleCreator},
	}}
	uc := newTestUseCase(&fakeBookingRepo{}, users, &fakeNotifyClient{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDesignerNotFound)
}

func TestExecute_DesignerRoleMismatch(t *testing.T) {
	users := &fakeUserClient{users: map[int64]*userdirectory.User{
		1: {ID: 1, Name: "Lee", Role: userdirectory.RoleCreator},
		7: {ID: 7, Name: "Mira", Role: userdirectory.RoleCreator},
	}}
	uc := newTestUseCase(&fakeBookingRepo{}, users, &fakeNotifyClient{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDesignerNotFound)
}

func TestExecute_CreatorNotFound(t *testing.T) {
	users := &fakeUserClient{users: map[int64]*userdirectory.User{
		7: {ID: 7, Name: "Mira", Role: userdirectory.RoleDesigner},
	}}
	uc := newTestUseCase(&fakeBookingRepo{}, users, &fakeNotifyClient{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCreatorNotFound)
}

func TestExecute_DesignerCannotCreateBooking(t *testing.T) {
	users := &fakeUserClient{users: map[int64]*userdirectory.User{
		1: {ID: 1, Name: "Lee", Role: userdirectory.RoleDesigner},
		7: {ID: 7, Name: "Mira", Role: userdirectory.RoleDesigner},
	}}
	uc := newTestUseCase(&fakeBookingRepo{}, users, &fakeNotifyClient{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_NotifyFailureDoesNotFailBooking(t *testing.T) {
	repo := &fakeBookingRepo{}
	notify := &fakeNotifyClient{err: context.DeadlineExceeded}
	uc := newTestUseCase(repo, marketplaceUsers(), notify)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, marketplaceUsers(), &fakeNotifyClient{})

	start := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero creator", req: &Request{DesignerID: 7, StartAt: start, EndAt: end}},
		{name: "zero designer", req: &Request{CreatorID: 1, StartAt: start, EndAt: end}},
		{name: "self booking", req: &Request{CreatorID: 7, DesignerID: 7, StartAt: start, EndAt: end}},
		{name: "zero start", req: &Request{CreatorID: 1, DesignerID: 7, EndAt: end}},
		{name: "end before start", req: &Request{CreatorID: 1, DesignerID: 7, StartAt: end, EndAt: start}},
		{name: "zero-length interval", req: &Request{CreatorID: 1, DesignerID: 7, StartAt: start, EndAt: start}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
