package user

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	myErr "campusmarket/internal/types/errors"
	types "campusmarket/internal/types/user"
)

var userColumns = []string{
	"user_id", "name", "email", "phone", "location", "role", "created_at",
}

func TestUserDBRepository_CreateUser(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserDBRepository(db, zaptest.NewLogger(t).Sugar())

	u := types.CreateUser{
		Name:     "John Doe",
		Email:    "john@campus.edu",
		Password: "securepass123",
		Phone:    "555-0404",
	}

	t.Run("successfully_create_user", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)")).
			WithArgs(u.Email).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(u.Name, u.Email, sqlmock.AnyArg(), u.Phone, nil, DefaultRole).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(int64(1), u.Name, u.Email, u.Phone, "", DefaultRole, time.Now()))

		created, err := repo.CreateUser(u)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, u.Name, created.Name)
		assert.Equal(t, u.Email, created.Email)
		assert.Equal(t, DefaultRole, created.Role)
	})

	t.Run("user_already_exists", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)")).
			WithArgs(u.Email).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := repo.CreateUser(u)
		require.ErrorIs(t, err, myErr.ErrAlreadyExists)
	})
}

func TestUserDBRepository_CheckUser(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserDBRepository(db, zaptest.NewLogger(t).Sugar())

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost) // nolint:errcheck

	checkColumns := append(append([]string{}, userColumns...), "password_hash")

	tests := []struct {
		name        string
		email       string
		password    string
		mockQuery   func()
		expectError error
	}{
		{
			name:     "valid credentials",
			email:    "valid@campus.edu",
			password: "correct_password",
			mockQuery: func() {
				mock.ExpectQuery(`(?s)SELECT user_id,.*FROM users.*WHERE email = \$1`).
					WithArgs("valid@campus.edu").
					WillReturnRows(sqlmock.NewRows(checkColumns).AddRow(
						int64(3), "John", "valid@campus.edu", "", "",
						DefaultRole, time.Now(), string(hash),
					))
			},
			expectError: nil,
		},
		{
			name:     "user not found",
			email:    "nobody@campus.edu",
			password: "whatever",
			mockQuery: func() {
				mock.ExpectQuery(`(?s)SELECT user_id,.*FROM users.*WHERE email = \$1`).
					WithArgs("nobody@campus.edu").
					WillReturnError(sql.ErrNoRows)
			},
			expectError: myErr.ErrNotFound,
		},
		{
			name:     "wrong password",
			email:    "valid@campus.edu",
			password: "wrong",
			mockQuery: func() {
				mock.ExpectQuery(`(?s)SELECT user_id,.*FROM users.*WHERE email = \$1`).
					WithArgs("valid@campus.edu").
					WillReturnRows(sqlmock.NewRows(checkColumns).AddRow(
						int64(3), "John", "valid@campus.edu", "", "",
						DefaultRole, time.Now(), string(hash),
					))
			},
			expectError: myErr.ErrBadPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockQuery()

			u, err := repo.CheckUser(tt.email, tt.password)
			if tt.expectError != nil {
				require.ErrorIs(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.email, u.Email)
		})
	}
}

func TestUserDBRepository_ChangeProfile(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserDBRepository(db, zaptest.NewLogger(t).Sugar())

	t.Run("updates only provided fields", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET name = $1, location = $2 WHERE user_id = $3")).
			WithArgs("New Name", "South Dorm", int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(`(?s)SELECT user_id,.*FROM users.*WHERE user_id = \$1`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				int64(5), "New Name", "x@campus.edu", "", "South Dorm",
				DefaultRole, time.Now(),
			))

		u, err := repo.ChangeProfile(5, types.ChangeUser{Name: "New Name", Location: "South Dorm"})
		require.NoError(t, err)
		assert.Equal(t, "New Name", u.Name)
		assert.Equal(t, "South Dorm", u.Location)
	})

	t.Run("missing user", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET name = $1 WHERE user_id = $2")).
			WithArgs("Ghost", int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.ChangeProfile(404, types.ChangeUser{Name: "Ghost"})
		require.ErrorIs(t, err, myErr.ErrNotFound)
	})

	t.Run("no fields falls back to info", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT user_id,.*FROM users.*WHERE user_id = \$1`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				int64(5), "New Name", "x@campus.edu", "", "South Dorm",
				DefaultRole, time.Now(),
			))

		u, err := repo.ChangeProfile(5, types.ChangeUser{})
		require.NoError(t, err)
		assert.Equal(t, int64(5), u.ID)
	})
}
