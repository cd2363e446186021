package patient

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rgpatients/patients/internal/platform/db"
)

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const patientCols = `patient_id, first_name, last_name, address, city, province_code,
	postal_code, ohip, date_of_birth, deceased, date_of_death, home_phone, gender`

func (r *patientRepoPG) scanRow(row pgx.Row) (*Patient, error) {
	var p Patient
	var address, city, province, postal, ohip, phone *string
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &address, &city, &province,
		&postal, &ohip, &p.DateOfBirth, &p.Deceased, &p.DateOfDeath, &phone, &p.Gender)
	if err != nil {
		return nil, db.MapError(err)
	}
	p.Address, p.City, p.ProvinceCode = deref(address), deref(city), deref(province)
	p.PostalCode, p.OHIP, p.HomePhone = deref(postal), deref(ohip), deref(phone)
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient (first_name, last_name, address, city, province_code,
			postal_code, ohip, date_of_birth, deceased, date_of_death, home_phone, gender)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING patient_id`,
		p.FirstName, p.LastName, nullable(p.Address), nullable(p.City), nullable(p.ProvinceCode),
		nullable(p.PostalCode), nullable(p.OHIP), p.DateOfBirth, p.Deceased, p.DateOfDeath,
		nullable(p.HomePhone), p.Gender).Scan(&p.ID)
	return db.MapError(err)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id int) (*Patient, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE patient_id = $1`, id))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET first_name = $2, last_name = $3, address = $4, city = $5,
			province_code = $6, postal_code = $7, ohip = $8, date_of_birth = $9,
			deceased = $10, date_of_death = $11, home_phone = $12, gender = $13
		WHERE patient_id = $1`,
		p.ID, p.FirstName, p.LastName, nullable(p.Address), nullable(p.City),
		nullable(p.ProvinceCode), nullable(p.PostalCode), nullable(p.OHIP), p.DateOfBirth,
		p.Deceased, p.DateOfDeath, nullable(p.HomePhone), p.Gender)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id int) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE patient_id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) List(ctx context.Context, name string, limit, offset int) ([]*Patient, int, error) {
	where := ``
	var args []interface{}
	if name != "" {
		where = ` WHERE first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%'`
		args = append(args, name)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+patientCols+` FROM patient%s ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
