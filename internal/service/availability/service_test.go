package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DMP-BookingService/internal/domain"
	availabilityRepo "github.com/m04kA/DMP-BookingService/internal/infra/storage/availability"
	"github.com/m04kA/DMP-BookingService/internal/integrations/userdirectory"
	"github.com/m04kA/DMP-BookingService/internal/service/availability/models"
	"github.com/m04kA/DMP-BookingService/pkg/types"
)

const designerID int64 = 7

type memAvailabilityRepo struct {
	stored *domain.Availability
}

func (r *memAvailabilityRepo) Get(_ context.Context, _ int64) (*domain.Availability, error) {
	if r.stored == nil {
		return nil, availabilityRepo.ErrAvailabilityNotFound
	}
	copied := *r.stored
	return &copied, nil
}

func (r *memAvailabilityRepo) Upsert(_ context.Context, availability *domain.Availability) (*domain.Availability, error) {
	copied := *availability
	r.stored = &copied
	return availability, nil
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

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func designerDirectory() *fakeUserClient {
	return &fakeUserClient{users: map[int64]*userdirectory.User{
		designerID: {ID: designerID, Name: "Mira", Role: userdirectory.RoleDesigner},
	}}
}

func dayHours(start, end string) *domain.DayHours {
	return &domain.DayHours{
		Start: types.TimeString(start),
		End:   types.TimeString(end),
	}
}

func TestGet_NotConfigured(t *testing.T) {
	svc := NewService(&memAvailabilityRepo{}, designerDirectory(), nopLogger{})

	_, err := svc.Get(context.Background(), designerID)
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)
}

func TestGet_Existing(t *testing.T) {
	repo := &memAvailabilityRepo{stored: &domain.Availability{
		DesignerID: designerID,
		WorkingHours: domain.WorkingHours{
			Monday: dayHours("09:00", "18:00"),
		},
		UnavailableDates: []time.Time{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewService(repo, designerDirectory(), nopLogger{})

	resp, err := svc.Get(context.Background(), designerID)
	require.NoError(t, err)

	assert.Equal(t, designerID, resp.DesignerID)
	require.Contains(t, resp.WorkingHours, "mon")
	assert.Equal(t, "09:00", resp.WorkingHours["mon"].Start)
	assert.Equal(t, []string{"2025-12-31"}, resp.UnavailableDates)
}

func TestUpdate_ActorMustBeOwner(t *testing.T) {
	svc := NewService(&memAvailabilityRepo{}, designerDirectory(), nopLogger{})

	_, err := svc.Update(context.Background(), &models.UpdateAvailabilityRequest{
		DesignerID: designerID,
		ActorID:    99,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdate_DesignerNotFound(t *testing.T) {
	svc := NewService(&memAvailabilityRepo{}, &fakeUserClient{users: map[int64]*userdirectory.User{}}, nopLogger{})

	_, err := svc.Update(context.Background(), &models.UpdateAvailabilityRequest{
		DesignerID: designerID,
		ActorID:    designerID,
	})
	assert.ErrorIs(t, err, ErrDesignerNotFound)
}

func TestUpdate_RoleMismatch(t *testing.T) {
	users := &fakeUserClient{users: map[int64]*userdirectory.User{
		designerID: {ID: designerID, Name: "Mira", Role: userdirectory.RoleCreator},
	}}
	svc := NewService(&memAvailabilityRepo{}, users, nopLogger{})

	_, err := svc.Update(context.Background(), &models.UpdateAvailabilityRequest{
		DesignerID: designerID,
		ActorID:    designerID,
	})
	assert.ErrorIs(t, err, ErrDesignerNotFound)
}

func TestUpdate_FirstTimeSetup(t *testing.T) {
	repo := &memAvailabilityRepo{}
	svc := NewService(repo, designerDirectory(), nopLogger{})

	resp, err := svc.Update(context.Background(), &models.UpdateAvailabilityRequest{
		DesignerID: designerID,
		ActorID:    designerID,
		WorkingHours: &models.WorkingHoursPayload{
			Monday: &models.DayHoursPayload{Start: "09:00", End: "18:00"},
		},
	})
	require.NoError(t, err)

	require.Contains(t, resp.WorkingHours, "mon")
	assert.Equal(t, "09:00", resp.WorkingHours["mon"].Start)
	assert.Equal(t, "18:00", resp.WorkingHours["mon"].End)
	assert.Empty(t, resp.UnavailableDates)
}

func TestUpdate_MergeKeepsAbsentDays(t *testing.T) {
	repo := &memAvailabilityRepo{stored: &domain.Availability{
		DesignerID: designerID,
		WorkingHours: domain.WorkingHours{
			Monday:  dayHours("09:00", "18:00"),
			Tuesday: dayHours("10:00", "16:00"),
		},
	}}
	svc := NewService(repo, designerDirectory(), nopLogger{})

	// Обновляем только понедельник
	resp, err := svc.Update(context.Background(), &models.UpdateAvailabilityRequest{
		DesignerID: designerID,
		ActorID:    designerID,
		WorkingHours: &models.WorkingHoursPayload{
			Monday: &models.DayHoursPayload{Start: "12:00", End: "20:00"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "12:00", resp.WorkingHours["mon"].Start)
	assert.Equal(t, "20:00", resp.WorkingHours["mon"].End)

	// Вторник не тронут
	require.Contains(t, resp.WorkingHours, "tue")
	assert.Equal(t, "10:00", resp.WorkingHours["tue"].Start)
}

func TestUpdate_DatesReplacedOnlyWhenProvided(t *testing.T) {
	repo := &memAvailabilityRepo{stored: &domain.Availability{
		DesignerID: designerID,
		WorkingHours: domain.WorkingHours{
			Monday: dayHours("09:00", "18:00"),
		},
		UnavailableDates: []time.Time{time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewService(repo, designerDirectory(), nopLogger{})

	// Запрос без дат - текущий список сохраняется
	resp, err := svc.Update(context.Background(), &models.UpdateAvailabilityRequest{
		DesignerID: designerID,
		ActorID:    designerID,
		WorkingHours: &models.WorkingHoursPayload{
			Tuesday: &models.DayHoursPayload{Start: "10:00", End: "16:00"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-12-24"}, resp.UnavailableDates)

	// Запрос с датами - список заменяется целиком
	dates := []string{"2026-01-01", "2026-01-02"}
	resp, err = svc.Update(context.Background(), &models.UpdateAvailabilityRequest{
		DesignerID:       designerID,
		ActorID:          designerID,
		UnavailableDates: &dates,
	})
	require.NoError(t, err)
	assert.Equal(t, dates, resp.UnavailableDates)

	// Пустой список очищает blackout-даты
	empty := []string{}
	resp, err = svc.Update(context.Background(), &models.UpdateAvailabilityRequest{
		DesignerID:       designerID,
		ActorID:          designerID,
		UnavailableDates: &empty,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.UnavailableDates)
}

func TestUpdate_InvalidWorkingHours(t *testing.T) {
	svc := NewService(&memAvailabilityRepo{}, designerDirectory(), nopLogger{})

	tests := []struct {
		name  string
		hours *models.WorkingHoursPayload
	}{
		{
			name: "bad format",
			hours: &models.WorkingHoursPayload{
				Monday: &models.DayHoursPayload{Start: "9am", End: "18:00"},
			},
		},
		{
			name: "start equals end",
			hours: &models.WorkingHoursPayload{
				Monday: &models.DayHoursPayload{Start: "09:00", End: "09:00"},
			},
		},
		{
			name: "start after end",
			hours: &models.WorkingHoursPayload{
				Monday: &models.DayHoursPayload{Start: "18:00", End: "09:00"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), &models.UpdateAvailabilityRequest{
				DesignerID:   designerID,
				ActorID:      designerID,
				WorkingHours: tt.hours,
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdate_InvalidDates(t *testing.T) {
	svc := NewService(&memAvailabilityRepo{}, designerDirectory(), nopLogger{})

	bad := []string{"31-12-2025"}
	_, err := svc.Update(context.Background(), &models.UpdateAvailabilityRequest{
		DesignerID:       designerID,
		ActorID:          designerID,
		UnavailableDates: &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
