package product

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"campusmarket/internal/listing"
	myErr "campusmarket/internal/types/errors"
	types "campusmarket/internal/types/product"

	"go.uber.org/zap"
)

type ProductDBRepository struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewProductDBRepository(db *sql.DB, l *zap.SugaredLogger) *ProductDBRepository {
	return &ProductDBRepository{
		DB:     db,
		Logger: l,
	}
}

const productColumns = `
		p.product_id, p.name, p.description, p.price, p.category, p.quantity,
		p.is_second_hand, p.condition, p.location, p.images, p.views, p.likes,
		p.verified, p.created_at,
		u.name AS seller_name, u.email AS seller_email,
		u.phone AS seller_phone, u.location AS seller_location`

func productBaseQuery() string {
	rep := listing.ReputationFor(listing.KindProduct)

	return `
	SELECT ` + productColumns + `,
		` + rep.Columns + `
	FROM products p
	JOIN users u ON p.seller_id = u.user_id
	` + rep.Join + `
	WHERE 1=1`
}

func (pr *ProductDBRepository) List(plan listing.Plan) ([]Product, error) {
	where, args := plan.WhereSQL(1)
	limit, limitArgs := plan.LimitSQL(len(args) + 1)

	query := productBaseQuery() + where + " ORDER BY " + plan.SortExpr + limit
	args = append(args, limitArgs...)

	rows, err := pr.DB.Query(query, args...)
	if err != nil {
		pr.Logger.Errorf("Error listing products: %v", err)
		return nil, myErr.ErrDBInternal
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			pr.Logger.Errorf("Error scanning product row: %v", err)
			return nil, myErr.ErrDBInternal
		}
		products = append(products, p)
	}

	return products, nil
}

// Count runs the same predicate set as List against the full relation. The
// reputation join stays in place so the two queries remain structurally
// identical.
func (pr *ProductDBRepository) Count(plan listing.Plan) (int, error) {
	rep := listing.ReputationFor(listing.KindProduct)
	where, args := plan.WhereSQL(1)

	query := `
	SELECT COUNT(*)
	FROM products p
	JOIN users u ON p.seller_id = u.user_id
	` + rep.Join + `
	WHERE 1=1` + where

	var total int
	if err := pr.DB.QueryRow(query, args...).Scan(&total); err != nil {
		pr.Logger.Errorf("Error counting products: %v", err)
		return 0, myErr.ErrDBInternal
	}

	return total, nil
}

func (pr *ProductDBRepository) GetByID(id int64) (*Product, error) {
	query := productBaseQuery() + " AND p.product_id = $1"

	p, err := scanProduct(pr.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, myErr.ErrNotFound
		}
		pr.Logger.Errorf("Error getting product by ID: %v", err)
		return nil, myErr.ErrDBInternal
	}

	return &p, nil
}

func (pr *ProductDBRepository) Create(sellerID int64, p types.CreateProduct) (int64, time.Time, error) {
	quantity := p.Quantity
	if quantity < 1 {
		quantity = 1
	}

	images := p.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return 0, time.Time{}, myErr.ErrDBInternal
	}

	query := `
	INSERT INTO products (
		seller_id, name, description, price, category, quantity,
		is_second_hand, condition, location, images, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	RETURNING product_id, created_at
	`

	var id int64
	var createdAt time.Time
	err = pr.DB.QueryRow(
		query,
		sellerID,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		quantity,
		p.IsSecondHand,
		nullableText(p.Condition),
		nullableText(p.Location),
		string(imagesJSON),
	).Scan(&id, &createdAt)

	if err != nil {
		pr.Logger.Errorf("Error creating product: %v", err)
		return 0, time.Time{}, myErr.ErrDBInternal
	}

	return id, createdAt, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row scanner) (Product, error) {
	var (
		p              Product
		condition      sql.NullString
		location       sql.NullString
		images         sql.NullString
		views, likes   sql.NullInt64
		verified       sql.NullBool
		sellerPhone    sql.NullString
		sellerLocation sql.NullString
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.Quantity,
		&p.IsSecondHand,
		&condition,
		&location,
		&images,
		&views,
		&likes,
		&verified,
		&p.CreatedAt,
		&p.Seller.Name,
		&p.Seller.Email,
		&sellerPhone,
		&sellerLocation,
		&p.Seller.Rating,
		&p.Seller.TotalSales,
	)
	if err != nil {
		return Product{}, err
	}

	p.Condition = listing.ProductCondition(condition, p.IsSecondHand)
	// A product without its own location falls back to the seller's.
	p.Location = listing.TextOr(location, sellerLocation.String)
	p.Images = listing.DecodeImages(images)
	p.Views = int(views.Int64)
	p.Likes = int(likes.Int64)
	p.Verified = verified.Bool
	p.Seller.Phone = sellerPhone.String

	return p, nil
}

func nullableText(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
