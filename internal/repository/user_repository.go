package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orexam/orexam-backend/internal/model"
)

// ErrUserIdentityTaken is returned when a unique index on username, nim
// or attendance_number rejects an insert. Two registrations can pass the
// pre-insert conflict check at once; the index settles the race.
var ErrUserIdentityTaken = errors.New("user identity field already taken")

// UserRepository handles user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, nim, attendance_number, username, password_hash, role, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Name, &u.NIM, &u.AttendanceNumber, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by primary key. Returns (nil, nil) if absent.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// GetByUsername retrieves a user by username. Returns (nil, nil) if absent.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// FindConflicting returns a user already holding one of the identifying
// fields a registration wants to claim, or (nil, nil) if all are free.
func (r *UserRepository) FindConflicting(ctx context.Context, username, nim, attendanceNumber string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE username = $1 OR nim = $2 OR attendance_number = $3
		 LIMIT 1`, username, nim, attendanceNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// Create inserts a new user and fills in ID and CreatedAt.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, nim, attendance_number, username, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		u.Name, u.NIM, u.AttendanceNumber, u.Username, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUserIdentityTaken
		}
		return err
	}
	return nil
}
