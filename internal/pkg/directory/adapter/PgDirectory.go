package adapter

import (
	"context"
	"errors"
	"strings"

	directory "jobhive/internal/pkg/directory/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgDirectory reads accounts and profiles owned by the auth/profile services
// from their tables. Messaging never writes to them.
type PgDirectory struct {
	pool *pgxpool.Pool
}

func NewPgDirectory(pool *pgxpool.Pool) *PgDirectory {
	return &PgDirectory{pool: pool}
}

var _ directory.Directory = (*PgDirectory)(nil)

func (d *PgDirectory) AccountByEmail(ctx context.Context, email string) (*directory.Account, error) {
	if d == nil || d.pool == nil {
		return nil, errors.New("PgDirectory: nil pool")
	}
	var a directory.Account
	err := d.pool.QueryRow(ctx, `
		SELECT id::text, email
		FROM account
		WHERE lower(email) = lower($1)
	`, strings.TrimSpace(email)).Scan(&a.ID, &a.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (d *PgDirectory) AccountByID(ctx context.Context, id string) (*directory.Account, error) {
	if d == nil || d.pool == nil {
		return nil, errors.New("PgDirectory: nil pool")
	}
	var a directory.Account
	err := d.pool.QueryRow(ctx, `
		SELECT id::text, email
		FROM account
		WHERE id = $1::uuid
	`, id).Scan(&a.ID, &a.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (d *PgDirectory) ProfileByUserID(ctx context.Context, userID string) (*directory.Profile, error) {
	if d == nil || d.pool == nil {
		return nil, errors.New("PgDirectory: nil pool")
	}
	var (
		p       directory.Profile
		picture *string
	)
	err := d.pool.QueryRow(ctx, `
		SELECT user_id::text, first_name, last_name, profile_picture
		FROM profile
		WHERE user_id = $1::uuid
	`, userID).Scan(&p.UserID, &p.FirstName, &p.LastName, &picture)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if picture != nil {
		p.ProfilePicture = *picture
	}
	return &p, nil
}

func (d *PgDirectory) CompanyByUserID(ctx context.Context, userID string) (*directory.CompanyProfile, error) {
	if d == nil || d.pool == nil {
		return nil, errors.New("PgDirectory: nil pool")
	}
	var (
		c    directory.CompanyProfile
		logo *string
	)
	err := d.pool.QueryRow(ctx, `
		SELECT user_id::text, name, logo
		FROM company_profile
		WHERE user_id = $1::uuid
	`, userID).Scan(&c.UserID, &c.Name, &logo)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if logo != nil {
		c.Logo = *logo
	}
	return &c, nil
}
