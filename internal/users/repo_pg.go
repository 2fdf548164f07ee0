package users

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, email, full_name, given_name, family_name, picture_url, created_at, updated_at`

func (r *PGRepo) UpsertByEmail(ctx context.Context, user User) (User, bool, error) {
	// xmax is zero only for rows created by this statement.
	const query = `
INSERT INTO users (id, email, full_name, given_name, family_name, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
ON CONFLICT (email) DO UPDATE SET
  full_name = COALESCE(EXCLUDED.full_name, users.full_name),
  given_name = COALESCE(EXCLUDED.given_name, users.given_name),
  family_name = COALESCE(EXCLUDED.family_name, users.family_name),
  picture_url = COALESCE(EXCLUDED.picture_url, users.picture_url),
  updated_at = now()
RETURNING ` + userColumns + `, (xmax = 0)`
	var created bool
	row := r.DB.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.FullName),
		nullableString(user.GivenName),
		nullableString(user.FamilyName),
		nullableString(user.PictureURL),
	)
	stored, err := scanUser(row, &created)
	if err != nil {
		return User{}, false, err
	}
	return stored, created, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func scanUser(row *sql.Row, extra ...any) (User, error) {
	var (
		user       User
		fullName   sql.NullString
		givenName  sql.NullString
		familyName sql.NullString
		pictureURL sql.NullString
	)
	dest := []any{&user.ID, &user.Email, &fullName, &givenName, &familyName, &pictureURL, &user.CreatedAt, &user.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return User{}, err
	}
	user.FullName = fullName.String
	user.GivenName = givenName.String
	user.FamilyName = familyName.String
	user.PictureURL = pictureURL.String
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
