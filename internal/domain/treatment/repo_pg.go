package treatment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rgpatients/patients/internal/platform/db"
)

// -- Treatment --

type treatmentRepoPG struct{ pool *pgxpool.Pool }

func NewTreatmentRepoPG(pool *pgxpool.Pool) TreatmentRepository {
	return &treatmentRepoPG{pool: pool}
}

func (r *treatmentRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const treatmentCols = `treatment_id, name, description, diagnosis_id`

func (r *treatmentRepoPG) scanRow(row pgx.Row) (*Treatment, error) {
	var t Treatment
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.DiagnosisID); err != nil {
		return nil, db.MapError(err)
	}
	return &t, nil
}

func (r *treatmentRepoPG) GetByID(ctx context.Context, id int) (*Treatment, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+treatmentCols+` FROM treatment WHERE treatment_id = $1`, id))
}

func (r *treatmentRepoPG) List(ctx context.Context, diagnosisID, limit, offset int) ([]*Treatment, int, error) {
	where := ``
	var args []interface{}
	if diagnosisID > 0 {
		where = ` WHERE diagnosis_id = $1`
		args = append(args, diagnosisID)
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM treatment`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT `+treatmentCols+` FROM treatment%s ORDER BY name LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Treatment
	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

func (r *treatmentRepoPG) Medications(ctx context.Context, treatmentID int) ([]*TreatmentMedication, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT m.din, m.name FROM treatment_medication tm
		JOIN medication m ON m.din = tm.din
		WHERE tm.treatment_id = $1 ORDER BY m.name`, treatmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*TreatmentMedication
	for rows.Next() {
		var m TreatmentMedication
		if err := rows.Scan(&m.DIN, &m.Name); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

// -- Patient Treatment --

type patientTreatmentRepoPG struct{ pool *pgxpool.Pool }

func NewPatientTreatmentRepoPG(pool *pgxpool.Pool) PatientTreatmentRepository {
	return &patientTreatmentRepoPG{pool: pool}
}

func (r *patientTreatmentRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const ptCols = `pt.patient_treatment_id, pt.treatment_id, pt.date_prescribed, pt.comments,
	pt.patient_diagnosis_id, t.name`
const ptFrom = ` FROM patient_treatment pt JOIN treatment t ON t.treatment_id = pt.treatment_id`

func (r *patientTreatmentRepoPG) scanRow(row pgx.Row) (*PatientTreatment, error) {
	var pt PatientTreatment
	if err := row.Scan(&pt.ID, &pt.TreatmentID, &pt.DatePrescribed, &pt.Comments,
		&pt.PatientDiagnosisID, &pt.TreatmentName); err != nil {
		return nil, db.MapError(err)
	}
	return &pt, nil
}

func (r *patientTreatmentRepoPG) Create(ctx context.Context, pt *PatientTreatment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient_treatment (treatment_id, date_prescribed, comments, patient_diagnosis_id)
		VALUES ($1, COALESCE($2, NOW()), $3, $4) RETURNING patient_treatment_id`,
		pt.TreatmentID, pt.DatePrescribed, pt.Comments, pt.PatientDiagnosisID).Scan(&pt.ID)
	return db.MapError(err)
}

func (r *patientTreatmentRepoPG) GetByID(ctx context.Context, id int) (*PatientTreatment, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+ptCols+ptFrom+` WHERE pt.patient_treatment_id = $1`, id))
}

func (r *patientTreatmentRepoPG) Update(ctx context.Context, pt *PatientTreatment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient_treatment SET treatment_id = $2, date_prescribed = COALESCE($3, date_prescribed),
			comments = $4, patient_diagnosis_id = $5
		WHERE patient_treatment_id = $1`,
		pt.ID, pt.TreatmentID, pt.DatePrescribed, pt.Comments, pt.PatientDiagnosisID)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *patientTreatmentRepoPG) Delete(ctx context.Context, id int) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient_treatment WHERE patient_treatment_id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *patientTreatmentRepoPG) List(ctx context.Context, patientDiagnosisID, limit, offset int) ([]*PatientTreatment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patient_treatment WHERE patient_diagnosis_id = $1`, patientDiagnosisID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+ptCols+ptFrom+`
		WHERE pt.patient_diagnosis_id = $1
		ORDER BY pt.date_prescribed DESC, pt.patient_treatment_id DESC LIMIT $2 OFFSET $3`,
		patientDiagnosisID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*PatientTreatment
	for rows.Next() {
		pt, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, pt)
	}
	return items, total, rows.Err()
}

// -- Patient Medication --

type patientMedicationRepoPG struct{ pool *pgxpool.Pool }

func NewPatientMedicationRepoPG(pool *pgxpool.Pool) PatientMedicationRepository {
	return &patientMedicationRepoPG{pool: pool}
}

func (r *patientMedicationRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const pmCols = `pm.patient_medication_id, pm.patient_treatment_id, pm.din, pm.dose, pm.frequency,
	pm.frequency_period, pm.exact_min_max, pm.comments, m.name`
const pmFrom = ` FROM patient_medication pm JOIN medication m ON m.din = pm.din`

func (r *patientMedicationRepoPG) scanRow(row pgx.Row) (*PatientMedication, error) {
	var pm PatientMedication
	if err := row.Scan(&pm.ID, &pm.PatientTreatmentID, &pm.DIN, &pm.Dose, &pm.Frequency,
		&pm.FrequencyPeriod, &pm.ExactMinMax, &pm.Comments, &pm.MedicationName); err != nil {
		return nil, db.MapError(err)
	}
	return &pm, nil
}

func (r *patientMedicationRepoPG) Create(ctx context.Context, pm *PatientMedication) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient_medication (patient_treatment_id, din, dose, frequency, frequency_period, exact_min_max, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING patient_medication_id`,
		pm.PatientTreatmentID, pm.DIN, pm.Dose, pm.Frequency, pm.FrequencyPeriod, pm.ExactMinMax, pm.Comments).Scan(&pm.ID)
	return db.MapError(err)
}

func (r *patientMedicationRepoPG) GetByID(ctx context.Context, id int) (*PatientMedication, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+pmCols+pmFrom+` WHERE pm.patient_medication_id = $1`, id))
}

func (r *patientMedicationRepoPG) Delete(ctx context.Context, id int) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient_medication WHERE patient_medication_id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *patientMedicationRepoPG) List(ctx context.Context, patientTreatmentID int) ([]*PatientMedication, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+pmCols+pmFrom+`
		WHERE pm.patient_treatment_id = $1 ORDER BY m.name`, patientTreatmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*PatientMedication
	for rows.Next() {
		pm, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, pm)
	}
	return items, rows.Err()
}
