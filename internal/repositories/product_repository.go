package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `id, name, description, sku, price_per_day, stock, security_deposit, delivery_charges, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.SKU, &p.PricePerDay, &p.Stock,
		&p.SecurityDeposit, &p.DeliveryCharges, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO products(name, description, sku, price_per_day, stock, security_deposit, delivery_charges)
         VALUES($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, created_at, updated_at`,
		p.Name, p.Description, p.SKU, p.PricePerDay, p.Stock, p.SecurityDeposit, p.DeliveryCharges,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return translate("create product", err)
}

func (r *ProductRepository) Get(ctx context.Context, id int) (*models.Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if err != nil {
		return nil, translate("get product", err)
	}
	return p, nil
}

// List returns one page of products matching search on name or sku, newest
// first, plus the total match count
func (r *ProductRepository) List(ctx context.Context, search string, page models.Pagination) ([]*models.Product, int, error) {
	var w whereBuilder
	if search != "" {
		w.add(`(name ILIKE ? OR sku ILIKE ?)`, likePattern(search))
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, translate("count products", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + w.clause() +
		` ORDER BY created_at DESC, id DESC LIMIT ` + w.next(page.Limit) + ` OFFSET ` + w.next(page.Offset())
	rows, err := r.DB.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, translate("list products", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, translate("scan product", err)
		}
		products = append(products, p)
	}
	return products, total, translate("list products", rows.Err())
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE products
         SET name=$1, description=$2, sku=$3, price_per_day=$4, stock=$5,
             security_deposit=$6, delivery_charges=$7, updated_at=NOW()
         WHERE id=$8
         RETURNING created_at, updated_at`,
		p.Name, p.Description, p.SKU, p.PricePerDay, p.Stock, p.SecurityDeposit, p.DeliveryCharges, p.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return translate("update product", err)
}

// Delete fails with ErrConflict while rentals still reference the product
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return translate("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return translate("delete product", errNoRows)
	}
	return nil
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, translate("count products", err)
}
