package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

type RentalRepository struct {
	DB *pgxpool.Pool
}

func NewRentalRepository(db *pgxpool.Pool) *RentalRepository {
	return &RentalRepository{DB: db}
}

const rentalSelect = `SELECT r.id, r.reference::text, r.client_name, r.client_phone, r.client_email, r.client_address,
       r.product_id, r.start_date, r.end_date, r.delivery_mode,
       r.security_deposit, r.delivery_charges, r.rental_rate, r.total_charge, r.serial_number,
       r.created_at, r.updated_at,
       p.id, p.name, p.description, p.sku, p.price_per_day, p.stock, p.security_deposit, p.delivery_charges,
       p.created_at, p.updated_at`

const rentalFrom = ` FROM rentals r JOIN products p ON p.id = r.product_id`

// scanRental reads rentalSelect columns, optionally followed by agreement_html
func scanRental(row pgx.Row, withAgreement bool) (*models.Rental, error) {
	var rt models.Rental
	var p models.Product
	dest := []any{
		&rt.ID, &rt.Reference, &rt.ClientName, &rt.ClientPhone, &rt.ClientEmail, &rt.ClientAddress,
		&rt.ProductID, &rt.StartDate, &rt.EndDate, &rt.DeliveryMode,
		&rt.SecurityDeposit, &rt.DeliveryCharges, &rt.RentalRate, &rt.TotalCharge, &rt.SerialNumber,
		&rt.CreatedAt, &rt.UpdatedAt,
		&p.ID, &p.Name, &p.Description, &p.SKU, &p.PricePerDay, &p.Stock, &p.SecurityDeposit, &p.DeliveryCharges,
		&p.CreatedAt, &p.UpdatedAt,
	}
	if withAgreement {
		dest = append(dest, &rt.AgreementHTML)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	rt.Product = &p
	return &rt, nil
}

// Create inserts the rental together with its rendered agreement in a
// single statement
func (r *RentalRepository) Create(ctx context.Context, rt *models.Rental) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO rentals(reference, client_name, client_phone, client_email, client_address,
                             product_id, start_date, end_date, delivery_mode,
                             security_deposit, delivery_charges, rental_rate, total_charge,
                             serial_number, agreement_html)
         VALUES($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
         RETURNING id, created_at, updated_at`,
		rt.Reference, rt.ClientName, rt.ClientPhone, rt.ClientEmail, rt.ClientAddress,
		rt.ProductID, rt.StartDate, rt.EndDate, rt.DeliveryMode,
		rt.SecurityDeposit, rt.DeliveryCharges, rt.RentalRate, rt.TotalCharge,
		rt.SerialNumber, rt.AgreementHTML,
	).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
	return translate("create rental", err)
}

// Get returns the rental with its product and stored agreement
func (r *RentalRepository) Get(ctx context.Context, id int) (*models.Rental, error) {
	rt, err := scanRental(r.DB.QueryRow(ctx,
		rentalSelect+`, r.agreement_html`+rentalFrom+` WHERE r.id=$1`, id), true)
	if err != nil {
		return nil, translate("get rental", err)
	}
	return rt, nil
}

// GetByReference looks a rental up by its public reference
func (r *RentalRepository) GetByReference(ctx context.Context, reference string) (*models.Rental, error) {
	rt, err := scanRental(r.DB.QueryRow(ctx,
		rentalSelect+`, r.agreement_html`+rentalFrom+` WHERE r.reference::text=$1`, reference), true)
	if err != nil {
		return nil, translate("get rental by reference", err)
	}
	return rt, nil
}

func rentalWhere(f models.RentalFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.Search != "" {
		w.add(`(r.client_name ILIKE ? OR r.client_phone ILIKE ?)`, likePattern(f.Search))
	}
	if f.CreatedFrom != nil {
		w.add(`r.created_at >= ?`, *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		w.add(`r.created_at <= ?`, *f.CreatedTo)
	}
	if f.EndFrom != nil {
		w.add(`r.end_date >= ?`, *f.EndFrom)
	}
	if f.EndBefore != nil {
		w.add(`r.end_date < ?`, *f.EndBefore)
	}
	if f.ProductID > 0 {
		w.add(`r.product_id = ?`, f.ProductID)
	}
	return w
}

// List returns one page of rentals without agreement bodies, newest first,
// plus the total match count. A zero page limit returns every match.
func (r *RentalRepository) List(ctx context.Context, f models.RentalFilter) ([]*models.Rental, int, error) {
	w := rentalWhere(f)

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM rentals r`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, translate("count rentals", err)
	}

	query := rentalSelect + rentalFrom + w.clause() + ` ORDER BY r.created_at DESC, r.id DESC`
	if f.Page.Limit > 0 {
		query += ` LIMIT ` + w.next(f.Page.Limit) + ` OFFSET ` + w.next(f.Page.Offset())
	}

	rentals, err := r.query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return rentals, total, nil
}

// ListEndingBetween returns rentals with from <= end_date < to, soonest first
func (r *RentalRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]*models.Rental, error) {
	return r.query(ctx,
		rentalSelect+rentalFrom+` WHERE r.end_date >= $1 AND r.end_date < $2 ORDER BY r.end_date ASC, r.id ASC`,
		from, to)
}

func (r *RentalRepository) query(ctx context.Context, query string, args ...any) ([]*models.Rental, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("list rentals", err)
	}
	defer rows.Close()

	rentals := []*models.Rental{}
	for rows.Next() {
		rt, err := scanRental(rows, false)
		if err != nil {
			return nil, translate("scan rental", err)
		}
		rentals = append(rentals, rt)
	}
	return rentals, translate("list rentals", rows.Err())
}

// CountEndingFrom counts rentals with end_date >= from
func (r *RentalRepository) CountEndingFrom(ctx context.Context, from time.Time) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM rentals WHERE end_date >= $1`, from).Scan(&n)
	return n, translate("count rentals", err)
}

// CountEndingBefore counts rentals with end_date < before
func (r *RentalRepository) CountEndingBefore(ctx context.Context, before time.Time) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM rentals WHERE end_date < $1`, before).Scan(&n)
	return n, translate("count rentals", err)
}

// UpdateEndDate changes only end_date. Snapshot fields and the stored
// agreement are left as booked.
func (r *RentalRepository) UpdateEndDate(ctx context.Context, id int, endDate time.Time) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE rentals SET end_date=$1, updated_at=NOW() WHERE id=$2`, endDate, id)
	if err != nil {
		return translate("extend rental", err)
	}
	if tag.RowsAffected() == 0 {
		return translate("extend rental", errNoRows)
	}
	return nil
}

func (r *RentalRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM rentals WHERE id=$1`, id)
	if err != nil {
		return translate("delete rental", err)
	}
	if tag.RowsAffected() == 0 {
		return translate("delete rental", errNoRows)
	}
	return nil
}
