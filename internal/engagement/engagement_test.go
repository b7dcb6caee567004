package engagement

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"campusmarket/internal/listing"
	myErr "campusmarket/internal/types/errors"
)

func newTestRepo(t *testing.T) (*EngagementDBRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewEngagementDBRepository(db, zaptest.NewLogger(t).Sugar())
	return repo, mock, func() { db.Close() }
}

func TestIncrementViews(t *testing.T) {
	t.Parallel()
	repo, mock, done := newTestRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE products SET views = COALESCE(views, 0) + 1 WHERE product_id = $1 RETURNING views",
	)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"views"}).AddRow(42))

	views, err := repo.IncrementViews(context.Background(), listing.KindProduct, 7)
	require.NoError(t, err)
	assert.Equal(t, 42, views)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementViews_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock, done := newTestRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE rental_items SET views = COALESCE(views, 0) + 1 WHERE rental_id = $1 RETURNING views",
	)).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.IncrementViews(context.Background(), listing.KindRental, 99)
	require.ErrorIs(t, err, myErr.ErrNotFound)
}

func TestIncrementViews_UnknownKind(t *testing.T) {
	t.Parallel()
	repo, _, done := newTestRepo(t)
	defer done()

	_, err := repo.IncrementViews(context.Background(), listing.Kind("bogus"), 1)
	require.ErrorIs(t, err, myErr.ErrBadID)
}

func TestToggleLike_Like(t *testing.T) {
	t.Parallel()
	repo, mock, done := newTestRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COALESCE(likes, 0) FROM products WHERE product_id = $1 FOR UPDATE",
	)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"likes"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT EXISTS(SELECT 1 FROM product_likes WHERE product_id = $1 AND user_id = $2)",
	)).
		WithArgs(int64(5), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO product_likes (product_id, user_id) VALUES ($1, $2)",
	)).
		WithArgs(int64(5), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE products SET likes = COALESCE(likes, 0) + 1 WHERE product_id = $1 RETURNING likes",
	)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"likes"}).AddRow(4))
	mock.ExpectCommit()

	liked, likes, err := repo.ToggleLike(context.Background(), listing.KindProduct, 5, 11)
	require.NoError(t, err)
	assert.Equal(t, true, liked)
	assert.Equal(t, 4, likes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike_Unlike(t *testing.T) {
	t.Parallel()
	repo, mock, done := newTestRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COALESCE(likes, 0) FROM businesses WHERE business_id = $1 FOR UPDATE",
	)).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"likes"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT EXISTS(SELECT 1 FROM business_likes WHERE business_id = $1 AND user_id = $2)",
	)).
		WithArgs(int64(8), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM business_likes WHERE business_id = $1 AND user_id = $2",
	)).
		WithArgs(int64(8), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE businesses SET likes = GREATEST(COALESCE(likes, 0) - 1, 0) WHERE business_id = $1 RETURNING likes",
	)).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"likes"}).AddRow(9))
	mock.ExpectCommit()

	liked, likes, err := repo.ToggleLike(context.Background(), listing.KindBusiness, 8, 2)
	require.NoError(t, err)
	assert.Equal(t, false, liked)
	assert.Equal(t, 9, likes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock, done := newTestRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COALESCE(likes, 0) FROM rental_items WHERE rental_id = $1 FOR UPDATE",
	)).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, _, err := repo.ToggleLike(context.Background(), listing.KindRental, 404, 1)
	require.ErrorIs(t, err, myErr.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike_InsertFailureRollsBack(t *testing.T) {
	t.Parallel()
	repo, mock, done := newTestRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COALESCE(likes, 0) FROM products WHERE product_id = $1 FOR UPDATE",
	)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"likes"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT EXISTS(SELECT 1 FROM product_likes WHERE product_id = $1 AND user_id = $2)",
	)).
		WithArgs(int64(5), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO product_likes (product_id, user_id) VALUES ($1, $2)",
	)).
		WithArgs(int64(5), int64(11)).
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	_, _, err := repo.ToggleLike(context.Background(), listing.KindProduct, 5, 11)
	require.ErrorIs(t, err, myErr.ErrDBInternal)
	require.NoError(t, mock.ExpectationsWereMet())
}
