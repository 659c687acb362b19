package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/DMP-BookingService/internal/domain"
	"github.com/m04kA/DMP-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DMP-BookingService/pkg/psqlbuilder"
)

const (
	bookingsTable = "bookings"
	timelineTable = "booking_timeline"

	// Код exclusion_violation в PostgreSQL: сработал constraint
	// bookings_no_active_overlap (см. migrations/001_init.up.sql)
	pqExclusionViolation = "23P01"
)

var bookingColumns = []string{
	"id",
	"creator_id",
	"designer_id",
	"start_at",
	"end_at",
	"status",
	"reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование вместе с первой записью timeline.
// Если в контексте передана активная транзакция, использует её.
//
// Проверку пересечений выполняет вызывающий usecase внутри SERIALIZABLE
// транзакции; exclusion constraint БД служит последним рубежом и
// возвращается как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(bookingsTable).
		Columns(
			"id",
			"creator_id",
			"designer_id",
			"start_at",
			"end_at",
			"status",
			"reason",
		).
		Values(
			booking.ID,
			booking.CreatorID,
			booking.DesignerID,
			booking.StartAt,
			booking.EndAt,
			booking.Status,
			booking.Reason,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	for _, entry := range booking.Timeline {
		if err := r.AppendTimeline(ctx, booking.ID, entry); err != nil {
			return nil, err
		}
	}

	return booking, nil
}

// GetByID получает бронирование по ID вместе с timeline
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	timeline, err := r.getTimeline(ctx, id)
	if err != nil {
		return nil, err
	}
	booking.Timeline = timeline

	return booking, nil
}

// GetActiveOverlapping получает активные (pending/approved) бронирования
// дизайнера, пересекающиеся с полуоткрытым интервалом [start, end).
// Внутри транзакции строки блокируются через FOR UPDATE - это закрывает
// гонку check-then-act при создании бронирования.
func (r *Repository) GetActiveOverlapping(ctx context.Context, designerID int64, start, end time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"designer_id": designerID}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Gt{"end_at": start}).
		OrderBy("start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByCreator получает бронирования, созданные пользователем,
// отсортированные по времени начала (сначала новые).
// Опционально фильтрует по статусу.
func (r *Repository) GetByCreator(ctx context.Context, creatorID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"creator_id": creatorID}).
		OrderBy("start_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCreator - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCreator - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByDesignerWithFilter получает бронирования дизайнера с гибкой фильтрацией:
// по интервалу (From/To над instant-границами), статусу и включению
// терминальных бронирований
func (r *Repository) GetByDesignerWithFilter(ctx context.Context, filter domain.DesignerBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"designer_id": filter.DesignerID}).
		OrderBy("start_at ASC")

	// Интервальный фильтр: бронирование задевает [From, To)
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_at": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": *filter.To})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDesignerWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDesignerWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatusFrom переводит бронирование в новый статус, только если текущий
// статус входит в allowedFrom. Guard выполняется тем же UPDATE, поэтому два
// конкурирующих перехода на одном бронировании не могут зафиксироваться оба.
// Возвращает обновлённое бронирование (без timeline).
// ErrBookingNotFound - бронирование не существует;
// ErrStatusNotAllowed - существует, но статус не позволяет переход.
func (r *Repository) UpdateStatusFrom(
	ctx context.Context,
	id uuid.UUID,
	allowedFrom []domain.BookingStatus,
	to domain.BookingStatus,
	reason *string,
) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(bookingsTable).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": statusStrings(allowedFrom)}).
		Suffix("RETURNING " + columnsList())

	if reason != nil {
		updateBuilder = updateBuilder.Set("reason", *reason)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatusFrom - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		// Различаем "нет бронирования" и "недопустимый исходный статус"
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			if errors.Is(getErr, ErrBookingNotFound) {
				return nil, ErrBookingNotFound
			}
			return nil, getErr
		}
		return nil, ErrStatusNotAllowed
	}
	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: UpdateStatusFrom - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ExpireStale переводит в expired все pending-бронирования, чьё время начала
// уже прошло. Идемпотентна: повторный запуск не находит новых строк.
// Возвращает затронутые бронирования для записи timeline и уведомлений.
func (r *Repository) ExpireStale(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("status", domain.StatusExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Lt{"start_at": now}).
		Suffix("RETURNING " + columnsList()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ExpireStale - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireStale - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// AppendTimeline добавляет запись в append-only журнал бронирования
func (r *Repository) AppendTimeline(ctx context.Context, bookingID uuid.UUID, entry domain.TimelineEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(timelineTable).
		Columns("booking_id", "at", "by_user", "action", "note").
		Values(bookingID, entry.At, entry.By, entry.Action, entry.Note).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AppendTimeline - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AppendTimeline - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// getTimeline читает журнал бронирования, упорядоченный по времени записи
func (r *Repository) getTimeline(ctx context.Context, bookingID uuid.UUID) ([]domain.TimelineEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("at", "by_user", "action", "note").
		From(timelineTable).
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("at ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getTimeline - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getTimeline - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	timeline := make([]domain.TimelineEntry, 0)
	for rows.Next() {
		var entry domain.TimelineEntry
		if err := rows.Scan(&entry.At, &entry.By, &entry.Action, &entry.Note); err != nil {
			return nil, fmt.Errorf("%w: getTimeline - scan row: %v", ErrScanRow, err)
		}
		timeline = append(timeline, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getTimeline - rows error: %v", ErrScanRow, err)
	}

	return timeline, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку bookings
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CreatorID,
		&booking.DesignerID,
		&booking.StartAt,
		&booking.EndAt,
		&booking.Status,
		&booking.Reason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func columnsList() string {
	list := bookingColumns[0]
	for _, c := range bookingColumns[1:] {
		list += ", " + c
	}
	return list
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqExclusionViolation
}
