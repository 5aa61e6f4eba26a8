package session

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Profiles is the bun-backed ProfileStore used when the document store is a
// relational database rather than a hosted backend.
type Profiles interface {
	ProfileStore

	GetByEmail(ctx context.Context, email string) (*UserProfile, error)
	List(ctx context.Context) ([]*UserProfile, error)
	UpdateStatus(ctx context.Context, id string, status UserStatus) (*UserProfile, error)
	Init(ctx context.Context) error
}

type profiles struct {
	db *bun.DB
}

var _ Profiles = (*profiles)(nil)

// NewProfilesRepository creates a ProfileStore over the given database.
func NewProfilesRepository(db *bun.DB) Profiles {
	return &profiles{db: db}
}

// Init creates the users table if missing. Intended for embedded SQLite
// deployments and tests; managed databases should run migrations instead.
func (p *profiles) Init(ctx context.Context) error {
	_, err := p.db.NewCreateTable().
		Model((*UserProfile)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to create users table")
	}
	return nil
}

func (p *profiles) Get(ctx context.Context, id string) (*UserProfile, error) {
	record := &UserProfile{}

	err := p.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("user profile not found", errors.CategoryNotFound).
				WithTextCode(TextCodeProfileNotFound).
				WithMetadata(map[string]any{"id": id})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to load user profile").
			WithMetadata(map[string]any{"id": id})
	}

	return record, nil
}

func (p *profiles) GetByEmail(ctx context.Context, email string) (*UserProfile, error) {
	record := &UserProfile{}

	err := p.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("user profile not found", errors.CategoryNotFound).
				WithTextCode(TextCodeProfileNotFound).
				WithMetadata(map[string]any{"email": email})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to load user profile").
			WithMetadata(map[string]any{"email": email})
	}

	return record, nil
}

// Upsert persists the profile keyed on the principal id. Conflicts update in
// place (last writer wins) and never touch created_at. The returned record is
// re-read so it always matches what the database holds.
func (p *profiles) Upsert(ctx context.Context, record *UserProfile) (*UserProfile, error) {
	if record == nil || record.ID == "" {
		return nil, errors.New("profile id is required", errors.CategoryValidation)
	}

	record.EnsureRole()
	record.EnsureStatus()

	now := time.Now()
	record.UpdatedAt = &now
	if record.CreatedAt == nil {
		record.CreatedAt = &now
	}

	_, err := p.db.NewInsert().
		Model(record).
		On("CONFLICT (id) DO UPDATE").
		Set("email = EXCLUDED.email").
		Set("name = EXCLUDED.name").
		Set("phone_number = EXCLUDED.phone_number").
		Set("location = EXCLUDED.location").
		Set("user_role = EXCLUDED.user_role").
		Set("status = EXCLUDED.status").
		Set("metadata = EXCLUDED.metadata").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to upsert user profile").
			WithMetadata(map[string]any{"id": record.ID})
	}

	return p.Get(ctx, record.ID)
}

func (p *profiles) List(ctx context.Context) ([]*UserProfile, error) {
	var records []*UserProfile

	err := p.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to list user profiles")
	}

	return records, nil
}

func (p *profiles) UpdateStatus(ctx context.Context, id string, status UserStatus) (*UserProfile, error) {
	record, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Status = status
	return p.Upsert(ctx, record)
}
