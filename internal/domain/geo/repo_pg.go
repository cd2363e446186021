package geo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rgpatients/patients/internal/platform/db"
)

// -- Country --

type countryRepoPG struct{ pool *pgxpool.Pool }

func NewCountryRepoPG(pool *pgxpool.Pool) CountryRepository {
	return &countryRepoPG{pool: pool}
}

func (r *countryRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const countryCols = `country_code, name, postal_pattern, phone_pattern, federal_sales_tax`

func (r *countryRepoPG) scanRow(row pgx.Row) (*Country, error) {
	var c Country
	if err := row.Scan(&c.Code, &c.Name, &c.PostalPattern, &c.PhonePattern, &c.FederalSalesTax); err != nil {
		return nil, db.MapError(err)
	}
	return &c, nil
}

func (r *countryRepoPG) Create(ctx context.Context, c *Country) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO country (country_code, name, postal_pattern, phone_pattern, federal_sales_tax)
		VALUES ($1, $2, $3, $4, $5)`,
		c.Code, c.Name, c.PostalPattern, c.PhonePattern, c.FederalSalesTax)
	return db.MapError(err)
}

func (r *countryRepoPG) GetByCode(ctx context.Context, code string) (*Country, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+countryCols+` FROM country WHERE country_code = $1`, code))
}

func (r *countryRepoPG) Update(ctx context.Context, c *Country) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE country SET name = $2, postal_pattern = $3, phone_pattern = $4, federal_sales_tax = $5
		WHERE country_code = $1`,
		c.Code, c.Name, c.PostalPattern, c.PhonePattern, c.FederalSalesTax)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *countryRepoPG) Delete(ctx context.Context, code string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM country WHERE country_code = $1`, code)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *countryRepoPG) List(ctx context.Context, limit, offset int) ([]*Country, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM country`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+countryCols+` FROM country ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Country
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

// -- Province --

type provinceRepoPG struct{ pool *pgxpool.Pool }

func NewProvinceRepoPG(pool *pgxpool.Pool) ProvinceRepository {
	return &provinceRepoPG{pool: pool}
}

func (r *provinceRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const provinceCols = `province_code, name, country_code, sales_tax_code, sales_tax,
	includes_federal_tax, first_postal_letter`

func (r *provinceRepoPG) scanRow(row pgx.Row) (*Province, error) {
	var p Province
	err := row.Scan(&p.Code, &p.Name, &p.CountryCode, &p.SalesTaxCode, &p.SalesTax,
		&p.IncludesFederalTax, &p.FirstPostalLetter)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &p, nil
}

func (r *provinceRepoPG) GetByCode(ctx context.Context, code string) (*Province, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+provinceCols+` FROM province WHERE province_code = $1`, code))
}

func (r *provinceRepoPG) List(ctx context.Context, countryCode string, limit, offset int) ([]*Province, int, error) {
	where := ``
	var args []interface{}
	if countryCode != "" {
		where = ` WHERE country_code = $1`
		args = append(args, countryCode)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM province`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+provinceCols+` FROM province%s ORDER BY name LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Province
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
