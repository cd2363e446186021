package units

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rgpatients/patients/internal/platform/db"
)

type table struct {
	name, column string
}

var tables = map[Kind]table{
	Concentration: {name: "concentration_unit", column: "concentration_code"},
	Dispensing:    {name: "dispensing_unit", column: "dispensing_code"},
}

type unitRepoPG struct{ pool *pgxpool.Pool }

func NewUnitRepoPG(pool *pgxpool.Pool) UnitRepository {
	return &unitRepoPG{pool: pool}
}

func (r *unitRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func tableFor(kind Kind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, fmt.Errorf("unknown unit kind %q", kind)
	}
	return t, nil
}

func (r *unitRepoPG) Create(ctx context.Context, kind Kind, u *Unit) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1)`, t.name, t.column), u.Code)
	return db.MapError(err)
}

func (r *unitRepoPG) Get(ctx context.Context, kind Kind, code string) (*Unit, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	var u Unit
	err = r.conn(ctx).QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, t.column, t.name, t.column), code).Scan(&u.Code)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &u, nil
}

func (r *unitRepoPG) Delete(ctx context.Context, kind Kind, code string) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.name, t.column), code)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *unitRepoPG) List(ctx context.Context, kind Kind, limit, offset int) ([]*Unit, int, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM `+t.name).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s LIMIT $1 OFFSET $2`, t.column, t.name, t.column), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Unit
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.Code); err != nil {
			return nil, 0, err
		}
		items = append(items, &u)
	}
	return items, total, rows.Err()
}
