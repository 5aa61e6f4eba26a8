package session

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrInvalidEventTransition is returned for disallowed event status changes.
var ErrInvalidEventTransition = errors.New("invalid event status transition", errors.CategoryValidation).
	WithTextCode("INVALID_EVENT_STATUS_TRANSITION").
	WithCode(errors.CodeBadRequest)

// eventTransitions is the allowed event lifecycle graph; cancelled is
// terminal.
var eventTransitions = map[EventStatus]map[EventStatus]struct{}{
	EventStatusDraft: {
		EventStatusPublished: {},
		EventStatusCancelled: {},
	},
	EventStatusPublished: {
		EventStatusCancelled: {},
	},
}

// Events is the repository for events managed through the dashboard.
type Events interface {
	Create(ctx context.Context, record *Event) (*Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, record *Event) (*Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status EventStatus) (*Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Init(ctx context.Context) error
}

type events struct {
	db *bun.DB
}

var _ Events = (*events)(nil)

// NewEventsRepository creates the events repository.
func NewEventsRepository(db *bun.DB) Events {
	return &events{db: db}
}

// Init creates the events table if missing.
func (e *events) Init(ctx context.Context) error {
	_, err := e.db.NewCreateTable().
		Model((*Event)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to create events table")
	}
	return nil
}

func (e *events) Create(ctx context.Context, record *Event) (*Event, error) {
	if record == nil {
		return nil, errors.New("event is required", errors.CategoryValidation)
	}
	if record.OrganizerID == "" {
		return nil, errors.New("event organizer is required", errors.CategoryValidation)
	}

	record.EnsureStatus()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	now := time.Now()
	record.CreatedAt = &now
	record.UpdatedAt = &now

	_, err := e.db.NewInsert().
		Model(record).
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to create event").
			WithMetadata(map[string]any{"id": record.ID.String()})
	}

	return record, nil
}

func (e *events) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	record := &Event{}

	err := e.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("event not found", errors.CategoryNotFound).
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to load event").
			WithMetadata(map[string]any{"id": id.String()})
	}

	return record, nil
}

func (e *events) List(ctx context.Context) ([]*Event, error) {
	var records []*Event

	err := e.db.NewSelect().
		Model(&records).
		Order("starts_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to list events")
	}

	return records, nil
}

func (e *events) ListByOrganizer(ctx context.Context, organizerID string) ([]*Event, error) {
	var records []*Event

	err := e.db.NewSelect().
		Model(&records).
		Where("?TableAlias.organizer_id = ?", organizerID).
		Order("starts_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to list events").
			WithMetadata(map[string]any{"organizer_id": organizerID})
	}

	return records, nil
}

func (e *events) Update(ctx context.Context, record *Event) (*Event, error) {
	if record == nil || record.ID == uuid.Nil {
		return nil, errors.New("event id is required", errors.CategoryValidation)
	}

	now := time.Now()
	record.UpdatedAt = &now

	res, err := e.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to update event").
			WithMetadata(map[string]any{"id": record.ID.String()})
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, errors.New("event not found", errors.CategoryNotFound).
			WithMetadata(map[string]any{"id": record.ID.String()})
	}

	return record, nil
}

func (e *events) UpdateStatus(ctx context.Context, id uuid.UUID, status EventStatus) (*Event, error) {
	record, err := e.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.EnsureStatus()
	if record.Status == status {
		return record, nil
	}

	allowed, ok := eventTransitions[record.Status]
	if !ok {
		return nil, ErrInvalidEventTransition.WithMetadata(map[string]any{
			"from": record.Status,
			"to":   status,
		})
	}
	if _, exists := allowed[status]; !exists {
		return nil, ErrInvalidEventTransition.WithMetadata(map[string]any{
			"from": record.Status,
			"to":   status,
		})
	}

	record.Status = status
	return e.Update(ctx, record)
}

func (e *events) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := e.db.NewDelete().
		Model((*Event)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to delete event").
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}
