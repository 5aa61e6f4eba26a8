package session_test

import (
	"context"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"

	session "github.com/agendakit/go-session"
)

var dbSeq int

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq)

	db, err := session.OpenSQLite(dsn)
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func newProfilesRepo(t *testing.T) session.Profiles {
	t.Helper()

	repo := session.NewProfilesRepository(newTestDB(t))
	assert.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestProfilesUpsertCreates(t *testing.T) {
	repo := newProfilesRepo(t)
	ctx := context.Background()

	created, err := repo.Upsert(ctx, &session.UserProfile{
		ID:    "u123",
		Email: "ana@example.com",
		Name:  "Ana",
	})
	assert.NoError(t, err)
	assert.Equal(t, session.RoleAttendee, created.Role)
	assert.Equal(t, session.UserStatusActive, created.Status)
	assert.NotNil(t, created.CreatedAt)

	got, err := repo.Get(ctx, "u123")
	assert.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, "Ana", got.Name)
}

func TestProfilesGetNotFound(t *testing.T) {
	repo := newProfilesRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.Error(t, err)
	assert.True(t, goerrors.IsNotFound(err))

	var rich *goerrors.Error
	if assert.True(t, goerrors.As(err, &rich)) {
		assert.Equal(t, session.TextCodeProfileNotFound, rich.TextCode)
	}
}

func TestProfilesUpsertIsIdempotentOnID(t *testing.T) {
	repo := newProfilesRepo(t)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, &session.UserProfile{
		ID:    "u123",
		Email: "ana@example.com",
	})
	assert.NoError(t, err)

	second, err := repo.Upsert(ctx, &session.UserProfile{
		ID:    "u123",
		Email: "ana.souza@example.com",
		Name:  "Ana Souza",
		Role:  session.RoleOrganizer,
	})
	assert.NoError(t, err)

	// The returned record reflects what is stored, including the original
	// created_at.
	if assert.NotNil(t, second.CreatedAt) && assert.NotNil(t, first.CreatedAt) {
		assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
	}

	records, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, records, 1, "upsert on the same id must never create a second row")

	got, err := repo.Get(ctx, "u123")
	assert.NoError(t, err)
	assert.Equal(t, "ana.souza@example.com", got.Email)
	assert.Equal(t, "Ana Souza", got.Name)
	assert.Equal(t, session.RoleOrganizer, got.Role)

	// created_at survives the rewrite.
	if assert.NotNil(t, got.CreatedAt) && assert.NotNil(t, first.CreatedAt) {
		assert.Equal(t, first.CreatedAt.Unix(), got.CreatedAt.Unix())
	}
}

func TestProfilesUpsertRequiresID(t *testing.T) {
	repo := newProfilesRepo(t)

	_, err := repo.Upsert(context.Background(), &session.UserProfile{Email: "x@example.com"})
	assert.Error(t, err)

	_, err = repo.Upsert(context.Background(), nil)
	assert.Error(t, err)
}

func TestProfilesGetByEmail(t *testing.T) {
	repo := newProfilesRepo(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &session.UserProfile{ID: "u123", Email: "ana@example.com"})
	assert.NoError(t, err)

	got, err := repo.GetByEmail(ctx, "ana@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "u123", got.ID)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.True(t, goerrors.IsNotFound(err))
}

func TestProfilesUpdateStatus(t *testing.T) {
	repo := newProfilesRepo(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &session.UserProfile{ID: "u123", Email: "ana@example.com"})
	assert.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, "u123", session.UserStatusInactive)
	assert.NoError(t, err)
	assert.Equal(t, session.UserStatusInactive, updated.Status)

	got, err := repo.Get(ctx, "u123")
	assert.NoError(t, err)
	assert.Equal(t, session.UserStatusInactive, got.Status)
}
