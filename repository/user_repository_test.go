package repository

import (
    "context"
    "errors"
    "testing"

    "smsDashboard/internal/db"
)

func TestUserRepository_CRUDAndQueries(t *testing.T) {
    d, err := db.Open("file:userrepo?mode=memory&cache=shared")
    if err != nil {
        t.Fatalf("open db: %v", err)
    }
    t.Cleanup(func() { _ = d.Close() })

    repo := NewUserRepository(d)
    ctx := context.Background()

    // Create
    u, err := repo.Create(ctx, "alice", "alice@example.com", "hash")
    if err != nil {
        t.Fatalf("create: %v", err)
    }
    if u.ID == 0 || u.Username != "alice" || u.Email != "alice@example.com" {
        t.Fatalf("unexpected created user: %+v", u)
    }

    // Duplicate username
    if _, err := repo.Create(ctx, "alice", "other@example.com", "hash"); !errors.Is(err, ErrConflict) {
        t.Fatalf("expected ErrConflict for duplicate username, got %v", err)
    }

    // GetByID
    g, err := repo.GetByID(ctx, u.ID)
    if err != nil || g == nil || g.Username != "alice" {
        t.Fatalf("get by id: %v %+v", err, g)
    }

    // GetCredentials
    g2, hash, err := repo.GetCredentials(ctx, "alice")
    if err != nil || g2 == nil || g2.ID != u.ID || hash != "hash" {
        t.Fatalf("get credentials: %v %+v %q", err, g2, hash)
    }
    if missing, _ := repo.GetByUsername(ctx, "nobody"); missing != nil {
        t.Fatalf("expected nil for unknown user, got %+v", missing)
    }

    // Delete
    if err := repo.Delete(ctx, u.ID); err != nil {
        t.Fatalf("delete: %v", err)
    }
    gone, err := repo.GetByID(ctx, u.ID)
    if err != nil || gone != nil {
        t.Fatalf("expected user deleted, got: %+v err=%v", gone, err)
    }
}
