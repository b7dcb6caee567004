package rental

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"campusmarket/internal/listing"
	myErr "campusmarket/internal/types/errors"
	types "campusmarket/internal/types/rental"

	"go.uber.org/zap"
)

type RentalDBRepository struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewRentalDBRepository(db *sql.DB, l *zap.SugaredLogger) *RentalDBRepository {
	return &RentalDBRepository{
		DB:     db,
		Logger: l,
	}
}

const rentalColumns = `
		r.rental_id, r.name, r.description, r.rental_rate, r.rental_type,
		r.bedrooms, r.bathrooms, r.furnished, r.utilities_included,
		r.pet_friendly, r.location, r.available_from, r.views, r.likes,
		r.verified, r.floor, r.size, r.amenities, r.images, r.created_at,
		u.name AS owner_name, u.email AS owner_email, u.phone AS owner_phone`

func rentalSelect(base string) string {
	rep := listing.ReputationFor(listing.KindRental)

	return `
	SELECT ` + rentalColumns + `,
		` + rep.Columns + `
	FROM rental_items r
	JOIN users u ON r.owner_id = u.user_id
	` + rep.Join + `
	WHERE ` + base
}

// List only returns currently available rentals.
func (rr *RentalDBRepository) List(plan listing.Plan) ([]Rental, error) {
	where, args := plan.WhereSQL(1)
	limit, limitArgs := plan.LimitSQL(len(args) + 1)

	query := rentalSelect("r.is_available = true") + where +
		" ORDER BY " + plan.SortExpr + limit
	args = append(args, limitArgs...)

	rows, err := rr.DB.Query(query, args...)
	if err != nil {
		rr.Logger.Errorf("Error listing rentals: %v", err)
		return nil, myErr.ErrDBInternal
	}
	defer rows.Close()

	rentals := []Rental{}
	for rows.Next() {
		r, err := scanRental(rows)
		if err != nil {
			rr.Logger.Errorf("Error scanning rental row: %v", err)
			return nil, myErr.ErrDBInternal
		}
		rentals = append(rentals, r)
	}

	return rentals, nil
}

func (rr *RentalDBRepository) Count(plan listing.Plan) (int, error) {
	rep := listing.ReputationFor(listing.KindRental)
	where, args := plan.WhereSQL(1)

	query := `
	SELECT COUNT(*)
	FROM rental_items r
	JOIN users u ON r.owner_id = u.user_id
	` + rep.Join + `
	WHERE r.is_available = true` + where

	var total int
	if err := rr.DB.QueryRow(query, args...).Scan(&total); err != nil {
		rr.Logger.Errorf("Error counting rentals: %v", err)
		return 0, myErr.ErrDBInternal
	}

	return total, nil
}

func (rr *RentalDBRepository) GetByID(id int64) (*Rental, error) {
	query := rentalSelect("r.rental_id = $1")

	r, err := scanRental(rr.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, myErr.ErrNotFound
		}
		rr.Logger.Errorf("Error getting rental by ID: %v", err)
		return nil, myErr.ErrDBInternal
	}

	return &r, nil
}

func (rr *RentalDBRepository) Create(ownerID int64, r types.CreateRental) (int64, time.Time, error) {
	bedrooms := r.Bedrooms
	if bedrooms < 1 {
		bedrooms = 1
	}
	bathrooms := r.Bathrooms
	if bathrooms < 1 {
		bathrooms = 1
	}

	amenitiesJSON, err := encodeList(r.Amenities)
	if err != nil {
		return 0, time.Time{}, myErr.ErrDBInternal
	}
	imagesJSON, err := encodeList(r.Images)
	if err != nil {
		return 0, time.Time{}, myErr.ErrDBInternal
	}

	query := `
	INSERT INTO rental_items (
		owner_id, name, description, rental_rate, rental_type,
		bedrooms, bathrooms, furnished, utilities_included, pet_friendly,
		location, available_from, amenities, floor, size, images,
		is_available, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, true, NOW())
	RETURNING rental_id, created_at
	`

	var id int64
	var createdAt time.Time
	err = rr.DB.QueryRow(
		query,
		ownerID,
		r.Name,
		r.Description,
		r.RentalRate,
		r.RentalType,
		bedrooms,
		bathrooms,
		r.Furnished,
		r.UtilitiesIncluded,
		r.PetFriendly,
		r.Location,
		r.AvailableFrom,
		amenitiesJSON,
		r.Floor,
		r.Size,
		imagesJSON,
	).Scan(&id, &createdAt)

	if err != nil {
		rr.Logger.Errorf("Error creating rental: %v", err)
		return 0, time.Time{}, myErr.ErrDBInternal
	}

	return id, createdAt, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row scanner) (Rental, error) {
	var (
		r            Rental
		location     sql.NullString
		amenities    sql.NullString
		images       sql.NullString
		views, likes sql.NullInt64
		verified     sql.NullBool
		floor        sql.NullInt64
		size         sql.NullString
		ownerPhone   sql.NullString
	)

	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Description,
		&r.RentalRate,
		&r.RentalType,
		&r.Bedrooms,
		&r.Bathrooms,
		&r.Furnished,
		&r.UtilitiesIncluded,
		&r.PetFriendly,
		&location,
		&r.AvailableFrom,
		&views,
		&likes,
		&verified,
		&floor,
		&size,
		&amenities,
		&images,
		&r.CreatedAt,
		&r.Owner.Name,
		&r.Owner.Email,
		&ownerPhone,
		&r.Owner.Rating,
		&r.Owner.Properties,
	)
	if err != nil {
		return Rental{}, err
	}

	r.Location = location.String
	r.Views = int(views.Int64)
	r.Likes = int(likes.Int64)
	r.Verified = verified.Bool
	r.Floor = int(floor.Int64)
	r.Size = size.String
	r.Amenities = listing.DecodeStringList(amenities)
	r.Images = listing.DecodeImages(images)
	r.Owner.Phone = ownerPhone.String

	return r, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
