package availability

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/DMP-BookingService/internal/domain"
	"github.com/m04kA/DMP-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DMP-BookingService/pkg/psqlbuilder"
)

const availabilityTable = "designer_availability"

// DBExecutor интерфейс исполнителя запросов (см. pkg/dbmetrics)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с доступностью дизайнеров.
// Рабочие часы хранятся как JSONB, blackout-даты как date[].
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает доступность дизайнера
func (r *Repository) Get(ctx context.Context, designerID int64) (*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"designer_id",
		"working_hours",
		"unavailable_dates",
		"created_at",
		"updated_at",
	).
		From(availabilityTable).
		Where(squirrel.Eq{"designer_id": designerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var availability domain.Availability
	var workingHoursRaw []byte
	var dates []time.Time
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&availability.DesignerID,
		&workingHoursRaw,
		pq.Array(&dates),
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAvailabilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan availability: %v", ErrScanRow, err)
	}

	if err := json.Unmarshal(workingHoursRaw, &availability.WorkingHours); err != nil {
		return nil, fmt.Errorf("%w: Get - decode working hours: %v", ErrScanRow, err)
	}

	availability.UnavailableDates = dates
	availability.CreatedAt = createdAt.Time
	availability.UpdatedAt = updatedAt.Time

	return &availability, nil
}

// Upsert сохраняет доступность дизайнера (insert или полная замена строки)
func (r *Repository) Upsert(ctx context.Context, availability *domain.Availability) (*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	workingHoursRaw, err := json.Marshal(availability.WorkingHours)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(availabilityTable).
		Columns("designer_id", "working_hours", "unavailable_dates").
		Values(availability.DesignerID, workingHoursRaw, pq.Array(availability.UnavailableDates)).
		Suffix(`ON CONFLICT (designer_id) DO UPDATE
			SET working_hours = EXCLUDED.working_hours,
			    unavailable_dates = EXCLUDED.unavailable_dates,
			    updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	availability.CreatedAt = createdAt.Time
	availability.UpdatedAt = updatedAt.Time

	return availability, nil
}
