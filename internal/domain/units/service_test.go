package units

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rgpatients/patients/internal/platform/db"
	"github.com/rgpatients/patients/internal/platform/validation"
)

type mockUnitRepo struct {
	units map[Kind]map[string]*Unit
}

func newMockUnitRepo() *mockUnitRepo {
	return &mockUnitRepo{units: map[Kind]map[string]*Unit{
		Concentration: {},
		Dispensing:    {},
	}}
}

func (m *mockUnitRepo) Create(_ context.Context, kind Kind, u *Unit) error {
	if _, ok := m.units[kind][u.Code]; ok {
		return db.ErrConflict
	}
	m.units[kind][u.Code] = u
	return nil
}

func (m *mockUnitRepo) Get(_ context.Context, kind Kind, code string) (*Unit, error) {
	u, ok := m.units[kind][code]
	if !ok {
		return nil, db.ErrNotFound
	}
	return u, nil
}

func (m *mockUnitRepo) Delete(_ context.Context, kind Kind, code string) error {
	if _, ok := m.units[kind][code]; !ok {
		return db.ErrNotFound
	}
	delete(m.units[kind], code)
	return nil
}

func (m *mockUnitRepo) List(_ context.Context, kind Kind, limit, offset int) ([]*Unit, int, error) {
	var result []*Unit
	for _, u := range m.units[kind] {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, len(result), nil
}

func TestCreateUnit(t *testing.T) {
	svc := NewService(newMockUnitRepo())
	u := &Unit{Code: " mg "}
	if err := svc.Create(context.Background(), Concentration, u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Code != "mg" {
		t.Errorf("expected trimmed code, got %q", u.Code)
	}
	if _, err := svc.Get(context.Background(), Dispensing, "mg"); !errors.Is(err, db.ErrNotFound) {
		t.Error("unit kinds must not share codes")
	}
}

func TestCreateUnit_Required(t *testing.T) {
	svc := NewService(newMockUnitRepo())
	err := svc.Create(context.Background(), Dispensing, &Unit{Code: "   "})
	if _, ok := validation.AsError(err); !ok {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateUnit_Duplicate(t *testing.T) {
	svc := NewService(newMockUnitRepo())
	svc.Create(context.Background(), Dispensing, &Unit{Code: "tablet"})
	err := svc.Create(context.Background(), Dispensing, &Unit{Code: "tablet"})
	if !errors.Is(err, db.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestListAndDeleteUnits(t *testing.T) {
	svc := NewService(newMockUnitRepo())
	ctx := context.Background()
	for _, code := range []string{"tablet", "capsule", "mL"} {
		svc.Create(ctx, Dispensing, &Unit{Code: code})
	}
	items, total, _ := svc.List(ctx, Dispensing, 20, 0)
	if total != 3 || items[0].Code != "capsule" {
		t.Errorf("unexpected list %d/%v", total, items)
	}
	if err := svc.Delete(ctx, Dispensing, "mL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, Dispensing, "mL"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}
