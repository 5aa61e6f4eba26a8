package localauth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Credential is a locally stored login record. The principal id is what the
// session layer keys profiles on.
type Credential struct {
	bun.BaseModel `bun:"table:credentials,alias:crd"`

	PrincipalID    string     `bun:"principal_id,pk" json:"principal_id"`
	Email          string     `bun:"email,notnull,unique" json:"email"`
	DisplayName    string     `bun:"display_name" json:"display_name"`
	PasswordHash   string     `bun:"password_hash,notnull" json:"-"`
	Disabled       bool       `bun:"disabled" json:"disabled"`
	LoginAttempts  int        `bun:"login_attempts" json:"login_attempts"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at,nullzero" json:"login_attempt_at"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// CredentialStore persists credentials and login-attempt bookkeeping.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	Create(ctx context.Context, record *Credential) (*Credential, error)
	TrackAttemptedLogin(ctx context.Context, record *Credential) error
	TrackSuccessfulLogin(ctx context.Context, record *Credential) error
	Init(ctx context.Context) error
}

type credentials struct {
	db *bun.DB
}

var _ CredentialStore = (*credentials)(nil)

// NewCredentialStore creates a bun-backed credential store.
func NewCredentialStore(db *bun.DB) CredentialStore {
	return &credentials{db: db}
}

// Init creates the credentials table if missing.
func (c *credentials) Init(ctx context.Context) error {
	_, err := c.db.NewCreateTable().
		Model((*Credential)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to create credentials table")
	}
	return nil
}

func (c *credentials) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	record := &Credential{}

	err := c.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", strings.ToLower(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("credential not found", errors.CategoryNotFound).
				WithMetadata(map[string]any{"email": email})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to load credential").
			WithMetadata(map[string]any{"email": email})
	}

	return record, nil
}

func (c *credentials) Create(ctx context.Context, record *Credential) (*Credential, error) {
	if record == nil || record.Email == "" {
		return nil, errors.New("credential email is required", errors.CategoryValidation)
	}
	if record.PasswordHash == "" {
		return nil, errors.New("credential password hash is required", errors.CategoryValidation)
	}

	if record.PrincipalID == "" {
		record.PrincipalID = uuid.NewString()
	}
	record.Email = strings.ToLower(record.Email)

	now := time.Now()
	record.CreatedAt = &now
	record.UpdatedAt = &now

	_, err := c.db.NewInsert().
		Model(record).
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to create credential").
			WithMetadata(map[string]any{"email": record.Email})
	}

	return record, nil
}

func (c *credentials) TrackAttemptedLogin(ctx context.Context, record *Credential) error {
	now := time.Now()
	record.LoginAttempts++
	record.LoginAttemptAt = &now

	_, err := c.db.NewUpdate().
		Model(record).
		Column("login_attempts", "login_attempt_at").
		WherePK().
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to track login attempt").
			WithMetadata(map[string]any{"principal_id": record.PrincipalID})
	}

	return nil
}

func (c *credentials) TrackSuccessfulLogin(ctx context.Context, record *Credential) error {
	record.LoginAttempts = 0
	record.LoginAttemptAt = nil

	_, err := c.db.NewUpdate().
		Model(record).
		Column("login_attempts", "login_attempt_at").
		WherePK().
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to reset login attempts").
			WithMetadata(map[string]any{"principal_id": record.PrincipalID})
	}

	return nil
}

// Register hashes the password and stores a new credential. It is a
// convenience for seeding and admin tooling; production flows should layer
// their own validation on top.
func Register(ctx context.Context, store CredentialStore, email, password, displayName string) (*Credential, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return store.Create(ctx, &Credential{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
	})
}
