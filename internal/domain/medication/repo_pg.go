package medication

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rgpatients/patients/internal/platform/db"
)

// -- Medication Type --

type medicationTypeRepoPG struct{ pool *pgxpool.Pool }

func NewMedicationTypeRepoPG(pool *pgxpool.Pool) MedicationTypeRepository {
	return &medicationTypeRepoPG{pool: pool}
}

func (r *medicationTypeRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *medicationTypeRepoPG) Create(ctx context.Context, t *MedicationType) error {
	err := r.conn(ctx).QueryRow(ctx,
		`INSERT INTO medication_type (name) VALUES ($1) RETURNING medication_type_id`, t.Name).Scan(&t.ID)
	return db.MapError(err)
}

func (r *medicationTypeRepoPG) GetByID(ctx context.Context, id int) (*MedicationType, error) {
	var t MedicationType
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT medication_type_id, name FROM medication_type WHERE medication_type_id = $1`, id).Scan(&t.ID, &t.Name)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &t, nil
}

func (r *medicationTypeRepoPG) Update(ctx context.Context, t *MedicationType) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE medication_type SET name = $2 WHERE medication_type_id = $1`, t.ID, t.Name)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *medicationTypeRepoPG) Delete(ctx context.Context, id int) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medication_type WHERE medication_type_id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *medicationTypeRepoPG) List(ctx context.Context, limit, offset int) ([]*MedicationType, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medication_type`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT medication_type_id, name FROM medication_type ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*MedicationType
	for rows.Next() {
		var t MedicationType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, 0, err
		}
		items = append(items, &t)
	}
	return items, total, rows.Err()
}

// -- Medication --

type medicationRepoPG struct{ pool *pgxpool.Pool }

func NewMedicationRepoPG(pool *pgxpool.Pool) MedicationRepository {
	return &medicationRepoPG{pool: pool}
}

func (r *medicationRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const medCols = `m.din, m.name, m.image, m.medication_type_id, m.dispensing_code,
	m.concentration, m.concentration_code, mt.name`

const medFrom = ` FROM medication m JOIN medication_type mt ON mt.medication_type_id = m.medication_type_id`

func (r *medicationRepoPG) scanRow(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.DIN, &m.Name, &m.Image, &m.MedicationTypeID, &m.DispensingCode,
		&m.Concentration, &m.ConcentrationCode, &m.MedicationTypeName)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &m, nil
}

func (r *medicationRepoPG) Create(ctx context.Context, m *Medication) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medication (din, name, image, medication_type_id, dispensing_code, concentration, concentration_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.DIN, m.Name, m.Image, m.MedicationTypeID, m.DispensingCode, m.Concentration, m.ConcentrationCode)
	return db.MapError(err)
}

func (r *medicationRepoPG) GetByDIN(ctx context.Context, din string) (*Medication, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+medCols+medFrom+` WHERE m.din = $1`, din))
}

func (r *medicationRepoPG) Update(ctx context.Context, m *Medication) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medication SET name = $2, image = $3, medication_type_id = $4, dispensing_code = $5,
			concentration = $6, concentration_code = $7
		WHERE din = $1`,
		m.DIN, m.Name, m.Image, m.MedicationTypeID, m.DispensingCode, m.Concentration, m.ConcentrationCode)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *medicationRepoPG) Delete(ctx context.Context, din string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medication WHERE din = $1`, din)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *medicationRepoPG) ListByType(ctx context.Context, typeID, limit, offset int) ([]*Medication, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medication WHERE medication_type_id = $1`, typeID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+medCols+medFrom+` WHERE m.medication_type_id = $1
		ORDER BY m.name, m.concentration LIMIT $2 OFFSET $3`, typeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Medication
	for rows.Next() {
		m, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

func (r *medicationRepoPG) ExistsStrength(ctx context.Context, name string, concentration float64, concentrationCode, excludeDIN string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM medication
			WHERE name = $1 AND concentration = $2 AND concentration_code = $3 AND din <> $4
		)`, name, concentration, concentrationCode, excludeDIN).Scan(&exists)
	return exists, err
}
