package user

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	myErr "campusmarket/internal/types/errors"
	types "campusmarket/internal/types/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserDBRepository struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewUserDBRepository(db *sql.DB, l *zap.SugaredLogger) *UserDBRepository {
	return &UserDBRepository{
		DB:     db,
		Logger: l,
	}
}

func (ur *UserDBRepository) CreateUser(u types.CreateUser) (*User, error) {
	var exists bool
	err := ur.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", u.Email).Scan(&exists)
	if err != nil {
		ur.Logger.Errorf("Error checking existing email: %v", err)
		return nil, myErr.ErrDBInternal
	}
	if exists {
		return nil, myErr.ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		ur.Logger.Errorf("Error hashing password: %v", err)
		return nil, myErr.ErrDBInternal
	}

	query := `
	INSERT INTO users (name, email, password_hash, phone, location, role, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING user_id, name, email, COALESCE(phone, ''), COALESCE(location, ''), role, created_at
	`

	newUser := &User{}
	err = ur.DB.QueryRow(
		query,
		u.Name,
		u.Email,
		string(hash),
		nullableText(u.Phone),
		nullableText(u.Location),
		DefaultRole,
	).Scan(
		&newUser.ID,
		&newUser.Name,
		&newUser.Email,
		&newUser.Phone,
		&newUser.Location,
		&newUser.Role,
		&newUser.CreatedAt,
	)
	if err != nil {
		ur.Logger.Errorf("Error creating user: %v", err)
		return nil, myErr.ErrDBInternal
	}

	return newUser, nil
}

func (ur *UserDBRepository) CheckUser(email, password string) (*User, error) {
	query := `
	SELECT user_id, name, email, COALESCE(phone, ''), COALESCE(location, ''), role, created_at, password_hash
	FROM users
	WHERE email = $1
	`

	u := &User{}
	err := ur.DB.QueryRow(query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone,
		&u.Location, &u.Role, &u.CreatedAt, &u.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, myErr.ErrNotFound
		}
		ur.Logger.Errorf("Error fetching user by email: %v", err)
		return nil, myErr.ErrDBInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, myErr.ErrBadPassword
	}

	return u, nil
}

func (ur *UserDBRepository) Info(userID int64) (*User, error) {
	query := `
	SELECT user_id, name, email, COALESCE(phone, ''), COALESCE(location, ''), role, created_at
	FROM users
	WHERE user_id = $1
	`

	u := &User{}
	err := ur.DB.QueryRow(query, userID).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone,
		&u.Location, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, myErr.ErrNotFound
		}
		ur.Logger.Warnf("Error fetching user info: %v", err)
		return nil, myErr.ErrDBInternal
	}

	return u, nil
}

func (ur *UserDBRepository) ChangeProfile(userID int64, updateUser types.ChangeUser) (*User, error) {
	fields := []string{}
	args := []interface{}{}
	argID := 1

	if updateUser.Name != "" {
		fields = append(fields, "name = $"+strconv.Itoa(argID))
		args = append(args, updateUser.Name)
		argID++
	}
	if updateUser.Email != "" {
		fields = append(fields, "email = $"+strconv.Itoa(argID))
		args = append(args, updateUser.Email)
		argID++
	}
	if updateUser.Phone != "" {
		fields = append(fields, "phone = $"+strconv.Itoa(argID))
		args = append(args, updateUser.Phone)
		argID++
	}
	if updateUser.Location != "" {
		fields = append(fields, "location = $"+strconv.Itoa(argID))
		args = append(args, updateUser.Location)
		argID++
	}

	if len(fields) == 0 {
		return ur.Info(userID)
	}

	query := "UPDATE users SET " + strings.Join(fields, ", ") + " WHERE user_id = $" + strconv.Itoa(argID) // nolint:gosec
	args = append(args, userID)

	res, err := ur.DB.Exec(query, args...)
	if err != nil {
		ur.Logger.Warnf("Error updating profile: %v", err)
		return nil, myErr.ErrDBInternal
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		ur.Logger.Warnf("Error reading affected rows: %v", err)
		return nil, myErr.ErrDBInternal
	}

	if rowsAffected == 0 {
		return nil, myErr.ErrNotFound
	}

	return ur.Info(userID)
}

func nullableText(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
