package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DMP-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/DMP-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/DMP-BookingService/internal/service/bookings/models"
	"github.com/m04kA/DMP-BookingService/pkg/ptr"
)

const (
	creatorID  int64 = 1
	designerID int64 = 7
	outsiderID int64 = 99
)

var testNow = time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)

// memBookingRepo in-memory репозиторий для тестов сервиса
type memBookingRepo struct {
	bookings map[uuid.UUID]*domain.Booking
}

func newMemBookingRepo(bookings ...*domain.Booking) *memBookingRepo {
	repo := &memBookingRepo{bookings: make(map[uuid.UUID]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (r *memBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *booking
	copied.Timeline = append([]domain.TimelineEntry(nil), booking.Timeline...)
	return &copied, nil
}

func (r *memBookingRepo) GetByCreator(_ context.Context, creatorID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.CreatorID != creatorID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *memBookingRepo) GetByDesignerWithFilter(_ context.Context, filter domain.DesignerBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.DesignerID != filter.DesignerID {
			continue
		}
		if !filter.IncludeInactive && filter.Status == nil && !b.IsActive() {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *memBookingRepo) UpdateStatusFrom(_ context.Context, id uuid.UUID, allowedFrom []domain.BookingStatus, to domain.BookingStatus, reason *string) (*domain.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}

	allowed := false
	for _, status := range allowedFrom {
		if booking.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, bookingRepo.ErrStatusNotAllowed
	}

	booking.Status = to
	if reason != nil {
		booking.Reason = reason
	}
	booking.UpdatedAt = testNow
	copied := *booking
	return &copied, nil
}

func (r *memBookingRepo) ExpireStale(_ context.Context, now time.Time) ([]*domain.Booking, error) {
	expired := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.Status == domain.StatusPending && b.StartAt.Before(now) {
			b.Status = domain.StatusExpired
			expired = append(expired, b)
		}
	}
	return expired, nil
}

func (r *memBookingRepo) AppendTimeline(_ context.Context, bookingID uuid.UUID, entry domain.TimelineEntry) error {
	booking, ok := r.bookings[bookingID]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	booking.Timeline = append(booking.Timeline, entry)
	return nil
}

type fakeNotifyClient struct {
	events []domain.BookingEvent
	err    error
}

func (f *fakeNotifyClient) Notify(_ context.Context, event domain.BookingEvent) error {
	f.events = append(f.events, event)
	return f.err
}

// passthroughTxManager выполняет замыкание без реальной транзакции
type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

func newTestService(repo *memBookingRepo, notify *fakeNotifyClient) *Service {
	return NewService(repo, notify, passthroughTxManager{}, &fixedTimeProvider{now: testNow}, nopLogger{})
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:         uuid.New(),
		CreatorID:  creatorID,
		DesignerID: designerID,
		StartAt:    testNow.Add(24 * time.Hour),
		EndAt:      testNow.Add(25 * time.Hour),
		Status:     domain.StatusPending,
		Timeline: []domain.TimelineEntry{
			{At: testNow.Add(-time.Hour), By: creatorID, Action: domain.ActionCreated},
		},
	}
}

func approvedBooking() *domain.Booking {
	b := pendingBooking()
	b.Status = domain.StatusApproved
	b.Timeline = append(b.Timeline, domain.TimelineEntry{
		At: testNow.Add(-30 * time.Minute), By: designerID, Action: domain.ActionApproved,
	})
	return b
}

func TestGetByID_ParticipantsOnly(t *testing.T) {
	booking := pendingBooking()
	svc := newTestService(newMemBookingRepo(booking), &fakeNotifyClient{})

	for _, userID := range []int64{creatorID, designerID} {
		resp, err := svc.GetByID(context.Background(), booking.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, booking.ID.String(), resp.ID)
	}

	_, err := svc.GetByID(context.Background(), booking.ID, outsiderID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), uuid.New(), creatorID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRespond_Approve(t *testing.T) {
	booking := pendingBooking()
	notify := &fakeNotifyClient{}
	svc := newTestService(newMemBookingRepo(booking), notify)

	resp, err := svc.Respond(context.Background(), &models.RespondBookingRequest{
		BookingID:  booking.ID,
		DesignerID: designerID,
		Accept:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusApproved), resp.Status)

	// Timeline дополнен записью о подтверждении
	require.Len(t, resp.Timeline, 2)
	last := resp.Timeline[1]
	assert.Equal(t, domain.ActionApproved, last.Action)
	assert.Equal(t, designerID, last.By)

	// Ровно одно уведомление - создателю
	require.Len(t, notify.events, 1)
	assert.Equal(t, domain.EventBookingApproved, notify.events[0].Type)
	assert.Equal(t, creatorID, notify.events[0].RecipientUserID)
	assert.Equal(t, booking.ID, notify.events[0].BookingID)
}

func TestRespond_DeclineWithReason(t *testing.T) {
	booking := pendingBooking()
	notify := &fakeNotifyClient{}
	svc := newTestService(newMemBookingRepo(booking), notify)

	resp, err := svc.Respond(context.Background(), &models.RespondBookingRequest{
		BookingID:  booking.ID,
		DesignerID: designerID,
		Accept:     false,
		Reason:     ptr.Ptr("fully booked this week"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusDeclined), resp.Status)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "fully booked this week", *resp.Reason)

	require.Len(t, notify.events, 1)
	assert.Equal(t, domain.EventBookingDeclined, notify.events[0].Type)
	assert.Equal(t, creatorID, notify.events[0].RecipientUserID)
}

func TestRespond_ApproveNoteGoesToTimelineOnly(t *testing.T) {
	booking := pendingBooking()
	repo := newMemBookingRepo(booking)
	svc := newTestService(repo, &fakeNotifyClient{})

	resp, err := svc.Respond(context.Background(), &models.RespondBookingRequest{
		BookingID:  booking.ID,
		DesignerID: designerID,
		Accept:     true,
		Reason:     ptr.Ptr("see you at the studio"),
	})
	require.NoError(t, err)

	// reason заполняется только при отклонении и отменах
	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	assert.Nil(t, resp.Reason)
	assert.Nil(t, repo.bookings[booking.ID].Reason)

	// Комментарий дизайнера сохранён в timeline
	last := resp.Timeline[len(resp.Timeline)-1]
	require.NotNil(t, last.Note)
	assert.Equal(t, "see you at the studio", *last.Note)
}

func TestRespond_WrongDesigner(t *testing.T) {
	booking := pendingBooking()
	svc := newTestService(newMemBookingRepo(booking), &fakeNotifyClient{})

	_, err := svc.Respond(context.Background(), &models.RespondBookingRequest{
		BookingID:  booking.ID,
		DesignerID: outsiderID,
		Accept:     true,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRespond_NotPending(t *testing.T) {
	booking := approvedBooking()
	notify := &fakeNotifyClient{}
	svc := newTestService(newMemBookingRepo(booking), notify)

	_, err := svc.Respond(context.Background(), &models.RespondBookingRequest{
		BookingID:  booking.ID,
		DesignerID: designerID,
		Accept:     true,
	})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, notify.events)
}

func TestCancel_CreatorCancelsApproved(t *testing.T) {
	booking := approvedBooking()
	notify := &fakeNotifyClient{}
	svc := newTestService(newMemBookingRepo(booking), notify)

	resp, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{
		BookingID: booking.ID,
		UserID:    creatorID,
		Reason:    ptr.Ptr("schedule clash"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelledByCreator), resp.Status)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "schedule clash", *resp.Reason)

	last := resp.Timeline[len(resp.Timeline)-1]
	assert.Equal(t, domain.ActionCancelledByCreator, last.Action)
	assert.Equal(t, creatorID, last.By)

	require.Len(t, notify.events, 1)
	assert.Equal(t, domain.EventBookingCancelled, notify.events[0].Type)
	assert.Equal(t, designerID, notify.events[0].RecipientUserID)
}

func TestCancel_CreatorCancelsPending(t *testing.T) {
	booking := pendingBooking()
	svc := newTestService(newMemBookingRepo(booking), &fakeNotifyClient{})

	resp, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{
		BookingID: booking.ID,
		UserID:    creatorID,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelledByCreator), resp.Status)
}

func TestCancel_DesignerCancelsApproved_DefaultNote(t *testing.T) {
	booking := approvedBooking()
	notify := &fakeNotifyClient{}
	svc := newTestService(newMemBookingRepo(booking), notify)

	resp, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{
		BookingID: booking.ID,
		UserID:    designerID,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelledByDesigner), resp.Status)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, defaultDesignerCancelNote, *resp.Reason)

	require.Len(t, notify.events, 1)
	assert.Equal(t, creatorID, notify.events[0].RecipientUserID)
}

func TestCancel_DesignerCannotCancelPending(t *testing.T) {
	booking := pendingBooking()
	svc := newTestService(newMemBookingRepo(booking), &fakeNotifyClient{})

	_, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{
		BookingID: booking.ID,
		UserID:    designerID,
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCancel_Outsider(t *testing.T) {
	booking := approvedBooking()
	svc := newTestService(newMemBookingRepo(booking), &fakeNotifyClient{})

	_, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{
		BookingID: booking.ID,
		UserID:    outsiderID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_TerminalBooking(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusDeclined
	svc := newTestService(newMemBookingRepo(booking), &fakeNotifyClient{})

	_, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{
		BookingID: booking.ID,
		UserID:    creatorID,
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	booking := approvedBooking()
	svc := newTestService(newMemBookingRepo(booking), &fakeNotifyClient{})

	long := make([]byte, domain.MaxReasonLength+1)
	for i := range long {
		long[i] = 'x'
	}

	_, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{
		BookingID: booking.ID,
		UserID:    creatorID,
		Reason:    ptr.Ptr(string(long)),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExpireStale(t *testing.T) {
	stale := pendingBooking()
	stale.StartAt = testNow.Add(-2 * time.Hour)
	stale.EndAt = testNow.Add(-time.Hour)

	upcoming := pendingBooking()

	approved := approvedBooking()
	approved.StartAt = testNow.Add(-2 * time.Hour)
	approved.EndAt = testNow.Add(-time.Hour)

	repo := newMemBookingRepo(stale, upcoming, approved)
	notify := &fakeNotifyClient{}
	svc := newTestService(repo, notify)

	resp, err := svc.ExpireStale(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ExpiredCount)

	assert.Equal(t, domain.StatusExpired, repo.bookings[stale.ID].Status)
	assert.Equal(t, domain.StatusPending, repo.bookings[upcoming.ID].Status)
	assert.Equal(t, domain.StatusApproved, repo.bookings[approved.ID].Status)

	// Timeline пополнен системной записью без актора
	timeline := repo.bookings[stale.ID].Timeline
	last := timeline[len(timeline)-1]
	assert.Equal(t, domain.ActionExpired, last.Action)
	assert.Equal(t, int64(0), last.By)

	require.Len(t, notify.events, 1)
	assert.Equal(t, domain.EventBookingExpired, notify.events[0].Type)
	assert.Equal(t, creatorID, notify.events[0].RecipientUserID)
}

func TestExpireStale_Idempotent(t *testing.T) {
	stale := pendingBooking()
	stale.StartAt = testNow.Add(-2 * time.Hour)
	stale.EndAt = testNow.Add(-time.Hour)

	repo := newMemBookingRepo(stale)
	svc := newTestService(repo, &fakeNotifyClient{})

	first, err := svc.ExpireStale(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ExpiredCount)

	second, err := svc.ExpireStale(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ExpiredCount)
}

func TestGetCreatorBookings_StatusFilter(t *testing.T) {
	booking := pendingBooking()
	other := approvedBooking()
	svc := newTestService(newMemBookingRepo(booking, other), &fakeNotifyClient{})

	resp, err := svc.GetCreatorBookings(context.Background(), &models.GetCreatorBookingsRequest{
		CreatorID: creatorID,
		Status:    ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, string(domain.StatusPending), resp.Bookings[0].Status)

	_, err = svc.GetCreatorBookings(context.Background(), &models.GetCreatorBookingsRequest{
		CreatorID: creatorID,
		Status:    ptr.Ptr("nonsense"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
