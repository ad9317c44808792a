package services

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dancefloor/backend/internal/db"
	"github.com/dancefloor/backend/internal/testutil"
)

func TestRegisterAndLogin(t *testing.T) {
	store := db.NewStore(testutil.NewDB(t))
	accounts := NewAccountService(store)
	ctx := t.Context()

	p, err := accounts.Register(ctx, " DJ Koze ", "Koze@Example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "DJ Koze", p.Name)
	assert.Equal(t, "koze@example.com", p.Email)

	got, err := accounts.Login(ctx, "KOZE@example.com ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = accounts.Login(ctx, "koze@example.com", "wrong-password")
	assert.Equal(t, ErrBadCredentials, err)

	_, err = accounts.Login(ctx, "nobody@example.com", "hunter22")
	assert.Equal(t, ErrBadCredentials, err)
}

func TestRegisterRejections(t *testing.T) {
	store := db.NewStore(testutil.NewDB(t))
	accounts := NewAccountService(store)
	ctx := t.Context()

	_, err := accounts.Register(ctx, "", "a@example.com", "hunter22")
	assert.Equal(t, ErrMissingFields, err)

	_, err = accounts.Register(ctx, "A", "a@example.com", "short")
	assert.Equal(t, ErrWeakPassword, err)

	_, err = accounts.Register(ctx, "A", "a@example.com", strings.Repeat("p", 80))
	assert.Equal(t, ErrPasswordTooLong, err)
	requireKind(t, err, ErrInvalidArgument)

	// 72 bytes is the bcrypt limit and still accepted
	_, err = accounts.Register(ctx, "Edge", "edge@example.com", strings.Repeat("p", 72))
	require.NoError(t, err)

	_, err = accounts.Register(ctx, "A", "a@example.com", "hunter22")
	require.NoError(t, err)

	_, err = accounts.Register(ctx, "B", "A@example.com", "hunter22")
	assert.Equal(t, ErrEmailTaken, err)
}

func TestLoginOverlongPassword(t *testing.T) {
	store := db.NewStore(testutil.NewDB(t))
	accounts := NewAccountService(store)
	ctx := t.Context()

	_, err := accounts.Register(ctx, "A", "a@example.com", "hunter22")
	require.NoError(t, err)

	_, err = accounts.Login(ctx, "a@example.com", strings.Repeat("p", 100))
	assert.Equal(t, ErrBadCredentials, err)
}

func TestInfoAndUpdateProfile(t *testing.T) {
	store := db.NewStore(testutil.NewDB(t))
	accounts := NewAccountService(store)
	floors := NewDancefloorService(store, "")
	ctx := t.Context()

	p, err := accounts.Register(ctx, "Peggy Gou", "peggy@example.com", "hunter22")
	require.NoError(t, err)

	info, err := accounts.Info(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Peggy Gou", info.DJ.Name)
	assert.Nil(t, info.Active)

	updated, err := accounts.UpdateProfile(ctx, p, Profile{
		Name:      " Peggy ",
		DJProfile: db.DJProfile{Bio: "Seoul to Berlin", InstagramHandle: "peggygou_"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Peggy", updated.Name)
	assert.Equal(t, "Seoul to Berlin", updated.Bio)

	df, err := floors.Start(ctx, p)
	require.NoError(t, err)

	info, err = accounts.Info(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "peggygou_", info.DJ.InstagramHandle)
	require.NotNil(t, info.Active)
	assert.Equal(t, df.ID, info.Active.ID)

	_, err = accounts.UpdateProfile(ctx, p, Profile{Name: "  "})
	assert.Equal(t, ErrMissingName, err)

	_, err = accounts.UpdateProfile(ctx, Principal{ID: "gone"}, Profile{Name: "X"})
	assert.Equal(t, ErrDJNotFound, err)

	_, err = accounts.Info(ctx, "gone")
	requireKind(t, err, ErrNotFound)
}

func TestDeleteAccount(t *testing.T) {
	sqlDB := testutil.NewDB(t)
	store := db.NewStore(sqlDB)
	accounts := NewAccountService(store)
	floors := NewDancefloorService(store, "")
	queue := NewQueueService(store, &recorder{})
	ctx := t.Context()

	p, err := accounts.Register(ctx, "Ben UFO", "ben@example.com", "hunter22")
	require.NoError(t, err)
	df, err := floors.Start(ctx, p)
	require.NoError(t, err)
	sub, err := queue.Submit(ctx, df.ID, "", "Cafe del Mar")
	require.NoError(t, err)

	err = accounts.Delete(ctx, p, "wrong-password")
	assert.Equal(t, ErrWrongPassword, err)
	_, err = accounts.Info(ctx, p.ID)
	require.NoError(t, err, "a rejected delete must leave the account in place")

	err = accounts.Delete(ctx, p, "")
	assert.Equal(t, ErrMissingPassword, err)

	require.NoError(t, accounts.Delete(ctx, p, "hunter22"))

	_, err = accounts.Info(ctx, p.ID)
	assert.Equal(t, ErrDJNotFound, err)
	_, err = store.GetDancefloorByID(ctx, df.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = store.GetSongRequestByID(ctx, sub.Request.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = accounts.Login(ctx, "ben@example.com", "hunter22")
	assert.Equal(t, ErrBadCredentials, err)

	err = accounts.Delete(ctx, p, "hunter22")
	assert.Equal(t, ErrDJNotFound, err)
}
