package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

type UserRepo struct {
	db   db.DB
	cost int
}

func NewUserRepo(db db.DB) storage.UserRepository {
	return &UserRepo{db: db, cost: bcrypt.DefaultCost}
}

func (r *UserRepo) Create(ctx context.Context, username, password, role string) (int64, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.db.ExecQueryRow(ctx,
		"INSERT INTO users (username, password, role) VALUES ($1, $2, $3) RETURNING id",
		username, string(hashedPassword), role).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrAlreadyExists
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// EnsureUser creates the user unless the username is already taken.
func (r *UserRepo) EnsureUser(ctx context.Context, username, password, role string) error {
	_, err := r.Create(ctx, username, password, role)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil
	}
	return err
}

// Authenticate returns ErrInvalidCredentials for both unknown users and wrong
// passwords.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (*repository.User, error) {
	var user repository.User
	err := r.db.Get(ctx, &user, "SELECT * FROM users WHERE username = $1", username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, repository.ErrInvalidCredentials
	}
	return &user, nil
}
