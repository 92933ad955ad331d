package repos

import (
	"database/sql"
	"errors"
	"strings"

	"swapi/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`
		INSERT INTO users(id,email,first_name,last_name,phone,password_hash,role)
		VALUES(?,?,?,?,?,?,?)
	`, u.ID, u.Email, u.FirstName, u.LastName, u.Phone, u.Hash, u.Role)
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
		SELECT id,email,first_name,last_name,phone,password_hash,role
		FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
		SELECT id,email,first_name,last_name,phone,password_hash,role
		FROM users WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
