package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists user records. Implementations must enforce email
// uniqueness at the storage boundary: of concurrent Insert calls carrying the
// same email exactly one succeeds and the rest observe ErrDuplicateEmail.
// Update is guarded by an optimistic version stamp; a stale expectedVersion
// yields ErrConflict, never a silent overwrite.
type Repository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	ListAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user User, expectedVersion int64) (User, error)
}

const uniqueViolationCode = "23505"

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, phone_number, age, country, city, address, password_hash, version, created_at`

// ExistsByEmail reports whether a user with the email is already stored.
func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, translateStoreErr(err)
	}
	return exists, nil
}

// Insert stores a new user. A concurrent insert of the same email surfaces as
// ErrDuplicateEmail via the unique index.
func (r *PostgresRepository) Insert(ctx context.Context, user User) (User, error) {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return User{}, err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (`+userColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		userID, user.FirstName, user.LastName, user.Email, user.PhoneNumber,
		user.Age, user.Country, user.City, user.Address, user.PasswordHash,
		user.Version, user.CreatedAt.UTC())
	if err != nil {
		return User{}, translateStoreErr(err)
	}
	return user, nil
}

// FindByEmail fetches the single user registered under the email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// ListAll returns every stored user in creation order.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, translateStoreErr(err)
	}
	return users, nil
}

// Update writes the user's mutable fields guarded by the version stamp. A
// stale expectedVersion returns ErrConflict; changing the email to a taken
// value returns ErrDuplicateEmail.
func (r *PostgresRepository) Update(ctx context.Context, user User, expectedVersion int64) (User, error) {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return User{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `UPDATE users
        SET first_name = $1, last_name = $2, email = $3, phone_number = $4,
            age = $5, country = $6, city = $7, address = $8,
            version = version + 1
        WHERE id = $9 AND version = $10
        RETURNING version`,
		user.FirstName, user.LastName, user.Email, user.PhoneNumber,
		user.Age, user.Country, user.City, user.Address,
		userID, expectedVersion)

	var version int64
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No row matched: either the user is gone or the version is stale.
			if _, findErr := r.FindByID(ctx, user.ID); findErr != nil {
				return User{}, findErr
			}
			return User{}, ErrConflict
		}
		return User{}, translateStoreErr(err)
	}
	user.Version = version
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		user      User
	)
	err := row.Scan(&id, &user.FirstName, &user.LastName, &user.Email,
		&user.PhoneNumber, &user.Age, &user.Country, &user.City, &user.Address,
		&user.PasswordHash, &user.Version, &createdAt)
	if err != nil {
		return User{}, translateStoreErr(err)
	}
	user.ID = id.String()
	user.CreatedAt = createdAt.UTC()
	return user, nil
}

// translateStoreErr maps driver-level failures onto the package error
// taxonomy so callers never branch on raw pg error text.
func translateStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrUnavailable
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicateEmail
	}
	return err
}
