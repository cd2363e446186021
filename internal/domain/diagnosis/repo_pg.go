package diagnosis

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rgpatients/patients/internal/platform/db"
)

// -- Category --

type categoryRepoPG struct{ pool *pgxpool.Pool }

func NewCategoryRepoPG(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepoPG{pool: pool}
}

func (r *categoryRepoPG) List(ctx context.Context) ([]*Category, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT id, name FROM diagnosis_category ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		items = append(items, &c)
	}
	return items, rows.Err()
}

// -- Diagnosis --

type diagnosisRepoPG struct{ pool *pgxpool.Pool }

func NewDiagnosisRepoPG(pool *pgxpool.Pool) DiagnosisRepository {
	return &diagnosisRepoPG{pool: pool}
}

func (r *diagnosisRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const diagnosisCols = `d.diagnosis_id, d.name, d.diagnosis_category_id, c.name`
const diagnosisFrom = ` FROM diagnosis d JOIN diagnosis_category c ON c.id = d.diagnosis_category_id`

func (r *diagnosisRepoPG) scanRow(row pgx.Row) (*Diagnosis, error) {
	var d Diagnosis
	if err := row.Scan(&d.ID, &d.Name, &d.CategoryID, &d.CategoryName); err != nil {
		return nil, db.MapError(err)
	}
	return &d, nil
}

func (r *diagnosisRepoPG) GetByID(ctx context.Context, id int) (*Diagnosis, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+diagnosisCols+diagnosisFrom+` WHERE d.diagnosis_id = $1`, id))
}

func (r *diagnosisRepoPG) List(ctx context.Context, categoryID, limit, offset int) ([]*Diagnosis, int, error) {
	where := ``
	var args []interface{}
	if categoryID > 0 {
		where = ` WHERE d.diagnosis_category_id = $1`
		args = append(args, categoryID)
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM diagnosis d`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT `+diagnosisCols+diagnosisFrom+`%s ORDER BY d.name LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Diagnosis
	for rows.Next() {
		d, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

// -- Patient Diagnosis --

type patientDiagnosisRepoPG struct{ pool *pgxpool.Pool }

func NewPatientDiagnosisRepoPG(pool *pgxpool.Pool) PatientDiagnosisRepository {
	return &patientDiagnosisRepoPG{pool: pool}
}

func (r *patientDiagnosisRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const pdCols = `pd.patient_diagnosis_id, pd.patient_id, pd.diagnosis_id, pd.comments,
	p.last_name || ', ' || p.first_name, d.name`

const pdFrom = ` FROM patient_diagnosis pd
	JOIN patient p ON p.patient_id = pd.patient_id
	JOIN diagnosis d ON d.diagnosis_id = pd.diagnosis_id`

func (r *patientDiagnosisRepoPG) scanRow(row pgx.Row) (*PatientDiagnosis, error) {
	var pd PatientDiagnosis
	err := row.Scan(&pd.ID, &pd.PatientID, &pd.DiagnosisID, &pd.Comments, &pd.PatientName, &pd.DiagnosisName)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &pd, nil
}

func (r *patientDiagnosisRepoPG) Create(ctx context.Context, pd *PatientDiagnosis) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient_diagnosis (patient_id, diagnosis_id, comments)
		VALUES ($1, $2, $3) RETURNING patient_diagnosis_id`,
		pd.PatientID, pd.DiagnosisID, pd.Comments).Scan(&pd.ID)
	return db.MapError(err)
}

func (r *patientDiagnosisRepoPG) GetByID(ctx context.Context, id int) (*PatientDiagnosis, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+pdCols+pdFrom+` WHERE pd.patient_diagnosis_id = $1`, id))
}

func (r *patientDiagnosisRepoPG) Update(ctx context.Context, pd *PatientDiagnosis) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient_diagnosis SET patient_id = $2, diagnosis_id = $3, comments = $4
		WHERE patient_diagnosis_id = $1`,
		pd.ID, pd.PatientID, pd.DiagnosisID, pd.Comments)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *patientDiagnosisRepoPG) Delete(ctx context.Context, id int) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient_diagnosis WHERE patient_diagnosis_id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *patientDiagnosisRepoPG) List(ctx context.Context, patientID, limit, offset int) ([]*PatientDiagnosis, int, error) {
	where := ``
	var args []interface{}
	if patientID > 0 {
		where = ` WHERE pd.patient_id = $1`
		args = append(args, patientID)
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient_diagnosis pd`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT `+pdCols+pdFrom+`%s ORDER BY p.last_name, p.first_name, pd.patient_diagnosis_id LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*PatientDiagnosis
	for rows.Next() {
		pd, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, pd)
	}
	return items, total, rows.Err()
}
