package stores

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stashline/stashline-backend/pkg/db/models"
	pkgerrors "github.com/stashline/stashline-backend/pkg/errors"
)

type fakeStoreRepo struct {
	stores map[uuid.UUID]*models.Store
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: make(map[uuid.UUID]*models.Store)}
}

func (f *fakeStoreRepo) Create(_ context.Context, store *models.Store) (*models.Store, error) {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	f.stores[store.ID] = store
	return store, nil
}

func (f *fakeStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	store, ok := f.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return store, nil
}

func (f *fakeStoreRepo) FindBySlug(_ context.Context, slug string) (*models.Store, error) {
	for _, store := range f.stores {
		if store.Slug == slug {
			return store, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStoreRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Store, error) {
	var out []models.Store
	for _, store := range f.stores {
		if store.OwnerID == ownerID {
			out = append(out, *store)
		}
	}
	return out, nil
}

func (f *fakeStoreRepo) Update(_ context.Context, store *models.Store) error {
	if _, ok := f.stores[store.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.stores[store.ID] = store
	return nil
}

func newTestService(t *testing.T) (Service, *fakeStoreRepo) {
	t.Helper()
	repo := newFakeStoreRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func TestCreateStore(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("creates with defaults", func(t *testing.T) {
		svc, _ := newTestService(t)

		dto, err := svc.CreateStore(ctx, ownerID, CreateStoreInput{
			Slug: "Green-Door ",
			Name: " Green Door ",
		})
		if err != nil {
			t.Fatalf("create store: %v", err)
		}
		if dto.Slug != "green-door" {
			t.Fatalf("expected normalized slug, got %q", dto.Slug)
		}
		if dto.Name != "Green Door" {
			t.Fatalf("expected trimmed name, got %q", dto.Name)
		}
		if dto.Timezone != "UTC" {
			t.Fatalf("expected UTC default, got %q", dto.Timezone)
		}
		if !dto.IsActive {
			t.Fatal("expected new store to be active")
		}
		if dto.OwnerID != ownerID {
			t.Fatalf("expected owner %s, got %s", ownerID, dto.OwnerID)
		}
	})

	t.Run("rejects duplicate slug", func(t *testing.T) {
		svc, _ := newTestService(t)
		if _, err := svc.CreateStore(ctx, ownerID, CreateStoreInput{Slug: "green-door", Name: "First"}); err != nil {
			t.Fatalf("seed store: %v", err)
		}

		_, err := svc.CreateStore(ctx, uuid.New(), CreateStoreInput{Slug: "green-door", Name: "Second"})
		expectCode(t, err, pkgerrors.CodeConflict)
	})

	t.Run("rejects malformed slug", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.CreateStore(ctx, ownerID, CreateStoreInput{Slug: "green door!", Name: "Store"})
		expectCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.CreateStore(ctx, ownerID, CreateStoreInput{
			Slug:     "green-door",
			Name:     "Store",
			Timezone: "Mars/Olympus",
		})
		expectCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.CreateStore(ctx, uuid.Nil, CreateStoreInput{Slug: "green-door", Name: "Store"})
		expectCode(t, err, pkgerrors.CodeValidation)
	})
}

func TestGetStoreBySlug(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateStore(ctx, uuid.New(), CreateStoreInput{Slug: "green-door", Name: "Store"})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	t.Run("found", func(t *testing.T) {
		dto, err := svc.GetStoreBySlug(ctx, " GREEN-DOOR ")
		if err != nil {
			t.Fatalf("get by slug: %v", err)
		}
		if dto.ID != created.ID {
			t.Fatalf("expected store %s, got %s", created.ID, dto.ID)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.GetStoreBySlug(ctx, "no-such-store")
		expectCode(t, err, pkgerrors.CodeNotFound)
	})

	t.Run("blank slug", func(t *testing.T) {
		_, err := svc.GetStoreBySlug(ctx, "  ")
		expectCode(t, err, pkgerrors.CodeValidation)
	})
}

func TestUpdateStore(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	seed := func(t *testing.T) (Service, *StoreDTO) {
		svc, _ := newTestService(t)
		created, err := svc.CreateStore(ctx, ownerID, CreateStoreInput{Slug: "green-door", Name: "Store"})
		if err != nil {
			t.Fatalf("create store: %v", err)
		}
		return svc, created
	}

	t.Run("updates fields", func(t *testing.T) {
		svc, created := seed(t)
		name := "Renamed"
		tz := "America/Denver"
		inactive := false

		updated, err := svc.UpdateStore(ctx, ownerID, created.ID, UpdateStoreInput{
			Name:     &name,
			Timezone: &tz,
			IsActive: &inactive,
		})
		if err != nil {
			t.Fatalf("update store: %v", err)
		}
		if updated.Name != "Renamed" {
			t.Fatalf("expected renamed store, got %q", updated.Name)
		}
		if updated.Timezone != "America/Denver" {
			t.Fatalf("expected timezone update, got %q", updated.Timezone)
		}
		if updated.IsActive {
			t.Fatal("expected store deactivated")
		}
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		svc, created := seed(t)
		name := "Hijacked"
		_, err := svc.UpdateStore(ctx, uuid.New(), created.ID, UpdateStoreInput{Name: &name})
		expectCode(t, err, pkgerrors.CodeForbidden)
	})

	t.Run("missing store", func(t *testing.T) {
		svc, _ := seed(t)
		name := "Ghost"
		_, err := svc.UpdateStore(ctx, ownerID, uuid.New(), UpdateStoreInput{Name: &name})
		expectCode(t, err, pkgerrors.CodeNotFound)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		svc, created := seed(t)
		blank := "  "
		_, err := svc.UpdateStore(ctx, ownerID, created.ID, UpdateStoreInput{Name: &blank})
		expectCode(t, err, pkgerrors.CodeValidation)
	})
}
