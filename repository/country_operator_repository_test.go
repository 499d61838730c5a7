package repository

import (
	"context"
	"errors"
	"testing"

	"smsDashboard/internal/db"
	"smsDashboard/models"
)

func TestCountryOperatorRepository_CRUD(t *testing.T) {
	d, err := db.Open("file:corepo?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	repo := NewCountryOperatorRepository(d)
	ctx := context.Background()

	a, err := repo.Create(ctx, &models.CountryOperator{Country: "US", Operator: "T-Mobile"})
	if err != nil || a.ID == 0 {
		t.Fatalf("create a: %v %+v", err, a)
	}
	b, err := repo.Create(ctx, &models.CountryOperator{Country: "IN", Operator: "Airtel", IsHighPriority: true})
	if err != nil || b.ID <= a.ID {
		t.Fatalf("create b: %v %+v", err, b)
	}
	if _, err := repo.Create(ctx, &models.CountryOperator{Country: "US", Operator: "T-Mobile"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate pair, got %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil || len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID || !list[1].IsHighPriority {
		t.Fatalf("list: %v %+v", err, list)
	}

	upd := &models.CountryOperator{ID: a.ID, Country: "US", Operator: "AT&T", IsHighPriority: true}
	if err := repo.Update(ctx, upd); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetByID(ctx, a.ID)
	if err != nil || got == nil || *got != *upd {
		t.Fatalf("after update: %v %+v", err, got)
	}
	if byPair, _ := repo.GetByPair(ctx, "US", "AT&T"); byPair == nil || byPair.ID != a.ID {
		t.Fatalf("GetByPair mismatch: %+v", byPair)
	}
	if err := repo.Update(ctx, &models.CountryOperator{ID: 999, Country: "X", Operator: "Y"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update of missing id, got %v", err)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	list, _ = repo.List(ctx)
	if len(list) != 1 || list[0] != *b {
		t.Fatalf("remaining entry altered: %+v", list)
	}
}
