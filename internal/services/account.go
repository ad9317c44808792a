package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dancefloor/backend/internal/crypto"
	"github.com/dancefloor/backend/internal/db"
)

// AccountService owns DJ accounts: registration, credentials, the public
// profile, and account deletion.
type AccountService struct {
	store *db.Store
}

func NewAccountService(store *db.Store) *AccountService {
	return &AccountService{store: store}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkPasswordLength bounds password in bytes; bcrypt refuses more than 72.
func checkPasswordLength(password string) error {
	if len(password) < crypto.MinPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > crypto.MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// Register creates a DJ account.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (Principal, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return Principal{}, ErrMissingFields
	}
	if err := checkPasswordLength(password); err != nil {
		return Principal{}, err
	}

	exists, err := s.store.DJEmailExists(ctx, email)
	if err != nil {
		return Principal{}, fmt.Errorf("check email: %w", err)
	}
	if exists > 0 {
		return Principal{}, ErrEmailTaken
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return Principal{}, err
	}

	dj, err := s.store.CreateDJ(ctx, db.CreateDJParams{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// lost a race with a concurrent registration of the same email
		if n, cerr := s.store.DJEmailExists(ctx, email); cerr == nil && n > 0 {
			return Principal{}, ErrEmailTaken
		}
		return Principal{}, fmt.Errorf("create dj: %w", err)
	}

	return Principal{ID: dj.ID, Name: dj.Name, Email: dj.Email}, nil
}

// Login returns the DJ matching email and password.
func (s *AccountService) Login(ctx context.Context, email, password string) (Principal, error) {
	if len(password) > crypto.MaxPasswordLength {
		// no stored hash can match it
		return Principal{}, ErrBadCredentials
	}
	dj, err := s.store.GetDJByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return Principal{}, ErrBadCredentials
	}
	if err != nil {
		return Principal{}, fmt.Errorf("get dj: %w", err)
	}

	if err := crypto.CheckPassword(dj.PasswordHash, password); err != nil {
		if errors.Is(err, crypto.ErrMismatch) {
			return Principal{}, ErrBadCredentials
		}
		return Principal{}, fmt.Errorf("check password: %w", err)
	}

	return Principal{ID: dj.ID, Name: dj.Name, Email: dj.Email}, nil
}

// Account returns the caller's own row.
func (s *AccountService) Account(ctx context.Context, dj Principal) (db.DJ, error) {
	if dj.ID == "" {
		return db.DJ{}, ErrDJRequired
	}
	row, err := s.store.GetDJByID(ctx, dj.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return db.DJ{}, ErrDJNotFound
	}
	if err != nil {
		return db.DJ{}, fmt.Errorf("get dj: %w", err)
	}
	return row, nil
}

// DJInfo is a DJ's public profile plus the dancefloor they are running now,
// if any.
type DJInfo struct {
	DJ     db.DJ
	Active *db.Dancefloor
}

// Info returns the public profile of a DJ.
func (s *AccountService) Info(ctx context.Context, djID string) (DJInfo, error) {
	dj, err := s.store.GetDJByID(ctx, djID)
	if errors.Is(err, sql.ErrNoRows) {
		return DJInfo{}, ErrDJNotFound
	}
	if err != nil {
		return DJInfo{}, fmt.Errorf("get dj: %w", err)
	}

	info := DJInfo{DJ: dj}
	df, err := s.store.GetActiveDancefloorByDJ(ctx, djID)
	switch {
	case err == nil:
		info.Active = &df
	case !errors.Is(err, sql.ErrNoRows):
		return DJInfo{}, fmt.Errorf("get active dancefloor: %w", err)
	}
	return info, nil
}

// Profile is the editable part of a DJ account.
type Profile struct {
	Name string
	db.DJProfile
}

// UpdateProfile replaces the caller's name and profile fields.
func (s *AccountService) UpdateProfile(ctx context.Context, dj Principal, p Profile) (db.DJ, error) {
	if dj.ID == "" {
		return db.DJ{}, ErrDJRequired
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return db.DJ{}, ErrMissingName
	}

	updated, err := s.store.UpdateDJProfile(ctx, db.UpdateDJProfileParams{
		ID:   dj.ID,
		Name: p.Name,
		DJProfile: db.DJProfile{
			Bio:             strings.TrimSpace(p.Bio),
			Website:         strings.TrimSpace(p.Website),
			InstagramHandle: strings.TrimSpace(p.InstagramHandle),
			TwitterHandle:   strings.TrimSpace(p.TwitterHandle),
			VenmoHandle:     strings.TrimSpace(p.VenmoHandle),
			CashappHandle:   strings.TrimSpace(p.CashappHandle),
		},
	})
	if errors.Is(err, sql.ErrNoRows) {
		return db.DJ{}, ErrDJNotFound
	}
	if err != nil {
		return db.DJ{}, fmt.Errorf("update dj: %w", err)
	}
	return updated, nil
}

// Delete removes the caller's account after re-checking the password. Every
// dancefloor the DJ ran goes with it, along with its requests, votes, and
// messages.
func (s *AccountService) Delete(ctx context.Context, dj Principal, password string) error {
	if dj.ID == "" {
		return ErrDJRequired
	}
	if password == "" {
		return ErrMissingPassword
	}
	if len(password) > crypto.MaxPasswordLength {
		return ErrWrongPassword
	}

	err := s.store.ExecTx(ctx, func(q *db.Queries) error {
		row, err := q.GetDJByID(ctx, dj.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDJNotFound
		}
		if err != nil {
			return fmt.Errorf("get dj: %w", err)
		}
		if err := crypto.CheckPassword(row.PasswordHash, password); err != nil {
			if errors.Is(err, crypto.ErrMismatch) {
				return ErrWrongPassword
			}
			return fmt.Errorf("check password: %w", err)
		}
		if _, err := q.DeleteDJ(ctx, dj.ID); err != nil {
			return fmt.Errorf("delete dj: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "dj account deleted", slog.String("dj_id", dj.ID))
	return nil
}
