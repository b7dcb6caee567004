package business

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"campusmarket/internal/listing"
	types "campusmarket/internal/types/business"
	myErr "campusmarket/internal/types/errors"

	"go.uber.org/zap"
)

type BusinessDBRepository struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewBusinessDBRepository(db *sql.DB, l *zap.SugaredLogger) *BusinessDBRepository {
	return &BusinessDBRepository{
		DB:     db,
		Logger: l,
	}
}

const businessColumns = `
		b.business_id, b.name, b.description, b.category, b.price_range,
		b.operating_hours, b.location, b.verified, b.views, b.likes,
		b.services, b.images, b.delivery_time, b.student_discount,
		b.same_day, b.online_available, b.min_order, b.warranty,
		b.group_sessions, b.eco_friendly, b.experience, b.created_at,
		u.name AS owner_name, u.email AS owner_email, u.phone AS owner_phone`

func businessSelect(base string) string {
	rep := listing.ReputationFor(listing.KindBusiness)

	return `
	SELECT ` + businessColumns + `,
		` + rep.Columns + `
	FROM businesses b
	JOIN users u ON b.owner_id = u.user_id
	` + rep.Join + `
	WHERE ` + base
}

// List only returns active businesses.
func (br *BusinessDBRepository) List(plan listing.Plan) ([]Business, error) {
	where, args := plan.WhereSQL(1)
	limit, limitArgs := plan.LimitSQL(len(args) + 1)

	query := businessSelect("b.is_active = true") + where +
		" ORDER BY " + plan.SortExpr + limit
	args = append(args, limitArgs...)

	rows, err := br.DB.Query(query, args...)
	if err != nil {
		br.Logger.Errorf("Error listing businesses: %v", err)
		return nil, myErr.ErrDBInternal
	}
	defer rows.Close()

	businesses := []Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			br.Logger.Errorf("Error scanning business row: %v", err)
			return nil, myErr.ErrDBInternal
		}
		businesses = append(businesses, b)
	}

	return businesses, nil
}

func (br *BusinessDBRepository) Count(plan listing.Plan) (int, error) {
	rep := listing.ReputationFor(listing.KindBusiness)
	where, args := plan.WhereSQL(1)

	// The reputation join stays in the count query: the min_rating predicate
	// references it.
	query := `
	SELECT COUNT(*)
	FROM businesses b
	JOIN users u ON b.owner_id = u.user_id
	` + rep.Join + `
	WHERE b.is_active = true` + where

	var total int
	if err := br.DB.QueryRow(query, args...).Scan(&total); err != nil {
		br.Logger.Errorf("Error counting businesses: %v", err)
		return 0, myErr.ErrDBInternal
	}

	return total, nil
}

func (br *BusinessDBRepository) GetByID(id int64) (*Business, error) {
	query := businessSelect("b.business_id = $1")

	b, err := scanBusiness(br.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, myErr.ErrNotFound
		}
		br.Logger.Errorf("Error getting business by ID: %v", err)
		return nil, myErr.ErrDBInternal
	}

	return &b, nil
}

func (br *BusinessDBRepository) Create(ownerID int64, b types.CreateBusiness) (int64, time.Time, error) {
	servicesJSON, err := encodeList(b.Services)
	if err != nil {
		return 0, time.Time{}, myErr.ErrDBInternal
	}
	imagesJSON, err := encodeList(b.Images)
	if err != nil {
		return 0, time.Time{}, myErr.ErrDBInternal
	}

	query := `
	INSERT INTO businesses (
		owner_id, name, description, category, price_range, operating_hours,
		location, phone, email, services, delivery_time, student_discount,
		same_day, online_available, min_order, warranty, group_sessions,
		eco_friendly, experience, images, is_active, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		$15, $16, $17, $18, $19, $20, true, NOW())
	RETURNING business_id, created_at
	`

	var id int64
	var createdAt time.Time
	err = br.DB.QueryRow(
		query,
		ownerID,
		b.Name,
		b.Description,
		b.Category,
		b.PriceRange,
		b.OperatingHours,
		b.Location,
		b.Phone,
		b.Email,
		servicesJSON,
		b.DeliveryTime,
		b.StudentDiscount,
		b.SameDay,
		b.OnlineAvailable,
		b.MinOrder,
		b.Warranty,
		b.GroupSessions,
		b.EcoFriendly,
		b.Experience,
		imagesJSON,
	).Scan(&id, &createdAt)

	if err != nil {
		br.Logger.Errorf("Error creating business: %v", err)
		return 0, time.Time{}, myErr.ErrDBInternal
	}

	return id, createdAt, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBusiness(row scanner) (Business, error) {
	var (
		b               Business
		priceRange      sql.NullString
		operatingHours  sql.NullString
		location        sql.NullString
		verified        sql.NullBool
		views, likes    sql.NullInt64
		services        sql.NullString
		images          sql.NullString
		deliveryTime    sql.NullString
		studentDiscount sql.NullString
		sameDay         sql.NullBool
		onlineAvailable sql.NullBool
		minOrder        sql.NullString
		warranty        sql.NullString
		groupSessions   sql.NullBool
		ecoFriendly     sql.NullBool
		experience      sql.NullString
		ownerPhone      sql.NullString
	)

	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Description,
		&b.Category,
		&priceRange,
		&operatingHours,
		&location,
		&verified,
		&views,
		&likes,
		&services,
		&images,
		&deliveryTime,
		&studentDiscount,
		&sameDay,
		&onlineAvailable,
		&minOrder,
		&warranty,
		&groupSessions,
		&ecoFriendly,
		&experience,
		&b.CreatedAt,
		&b.Owner.Name,
		&b.Owner.Email,
		&ownerPhone,
		&b.Rating,
		&b.Reviews,
	)
	if err != nil {
		return Business{}, err
	}

	b.PriceRange = priceRange.String
	b.OperatingHours = operatingHours.String
	b.Location = location.String
	b.Verified = verified.Bool
	b.Views = int(views.Int64)
	b.Likes = int(likes.Int64)
	b.Services = listing.DecodeStringList(services)
	b.Images = listing.DecodeImages(images)
	b.DeliveryTime = deliveryTime.String
	b.StudentDiscount = studentDiscount.String
	b.SameDay = sameDay.Bool
	b.OnlineAvailable = onlineAvailable.Bool
	b.MinOrder = minOrder.String
	b.Warranty = warranty.String
	b.GroupSessions = groupSessions.Bool
	b.EcoFriendly = ecoFriendly.Bool
	b.Owner.Experience = experience.String
	b.Owner.Phone = ownerPhone.String

	return b, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	enc, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(enc), nil
}
