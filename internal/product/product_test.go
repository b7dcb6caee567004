package product

import (
	"database/sql"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"campusmarket/internal/listing"
	myErr "campusmarket/internal/types/errors"
	types "campusmarket/internal/types/product"
)

var productRowColumns = []string{
	"product_id", "name", "description", "price", "category", "quantity",
	"is_second_hand", "condition", "location", "images", "views", "likes",
	"verified", "created_at",
	"seller_name", "seller_email", "seller_phone", "seller_location",
	"seller_rating", "seller_total_sales",
}

func productRow(rows *sqlmock.Rows, id int64) *sqlmock.Rows {
	return rows.AddRow(
		id, "Desk lamp", "Barely used lamp", 15.0, "furniture", 1,
		true, nil, nil, `["/img/lamp.jpg"]`, 7, 2,
		false, time.Now(),
		"Alice", "alice@campus.edu", "555-0101", "North Dorm",
		4.5, 12,
	)
}

func newTestRepo(t *testing.T) (*ProductDBRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	repo := NewProductDBRepository(db, zaptest.NewLogger(t).Sugar())
	return repo, mock, func() { db.Close() }
}

func TestProductDBRepository_List(t *testing.T) {
	t.Parallel()
	repo, mock, done := newTestRepo(t)
	defer done()

	plan := listing.CompileProductFilters(url.Values{
		"category":  {"furniture"},
		"min_price": {"10"},
	})

	mock.ExpectQuery(`SELECT(.|\n)*FROM products p(.|\n)*ORDER BY p\.created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs("furniture", 10.0, 20, 0).
		WillReturnRows(productRow(sqlmock.NewRows(productRowColumns), 1))

	products, err := repo.List(plan)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Desk lamp", p.Name)
	// Stored condition is NULL; the second-hand flag decides.
	assert.Equal(t, "Used", p.Condition)
	// Product location is NULL; it falls back to the seller's.
	assert.Equal(t, "North Dorm", p.Location)
	assert.Equal(t, []string{"/img/lamp.jpg"}, p.Images)
	assert.Equal(t, 4.5, p.Seller.Rating)
	assert.Equal(t, 12, p.Seller.TotalSales)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductDBRepository_List_EmptyResult(t *testing.T) {
	t.Parallel()
	repo, mock, done := newTestRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT(.|\n)*FROM products p`).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	products, err := repo.List(listing.CompileProductFilters(url.Values{}))
	require.NoError(t, err)
	assert.Equal(t, []Product{}, products)
}

func TestProductDBRepository_Count(t *testing.T) {
	t.Parallel()
	repo, mock, done := newTestRepo(t)
	defer done()

	plan := listing.CompileProductFilters(url.Values{"search": {"lamp"}})

	mock.ExpectQuery(`SELECT COUNT\(\*\)(.|\n)*FROM products p`).
		WithArgs("%lamp%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(37))

	total, err := repo.Count(plan)
	require.NoError(t, err)
	assert.Equal(t, 37, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductDBRepository_GetByID(t *testing.T) {
	t.Parallel()
	repo, mock, done := newTestRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT(.|\n)*FROM products p(.|\n)*AND p\.product_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(productRow(sqlmock.NewRows(productRowColumns), 5))

	p, err := repo.GetByID(5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
	assert.Equal(t, "alice@campus.edu", p.Seller.Email)
}

func TestProductDBRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock, done := newTestRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT(.|\n)*FROM products p`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(404)
	require.ErrorIs(t, err, myErr.ErrNotFound)
}

func TestProductDBRepository_Create(t *testing.T) {
	t.Parallel()
	repo, mock, done := newTestRepo(t)
	defer done()

	createdAt := time.Now()
	mock.ExpectQuery(`INSERT INTO products`).
		WithArgs(
			int64(9), "Bike", "Mountain bike", 120.0, "sports", 1,
			true, "Good", nil, `["/img/bike.jpg"]`,
		).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "created_at"}).AddRow(int64(31), createdAt))

	id, at, err := repo.Create(9, types.CreateProduct{
		Name:         "Bike",
		Description:  "Mountain bike",
		Price:        120.0,
		Category:     "sports",
		IsSecondHand: true,
		Condition:    "Good",
		Images:       []string{"/img/bike.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(31), id)
	assert.Equal(t, createdAt, at)
	require.NoError(t, mock.ExpectationsWereMet())
}
