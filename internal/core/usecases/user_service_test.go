package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ecoruta/ecoruta/internal/core/domain"
	"github.com/ecoruta/ecoruta/internal/core/usecases"
)

// --- Mock UserRepository ---

type mockUserRepo struct {
	createFn         func(ctx context.Context, name string) (*domain.User, error)
	getByNameFn      func(ctx context.Context, name string) (*domain.User, error)
	findOrCreateFn   func(ctx context.Context, name string) (*domain.User, error)
	incrementScoreFn func(ctx context.Context, name string, amount int64) (*domain.User, error)
	creditForPointFn func(ctx context.Context, pointID, name string, amount int64) (*domain.User, error)
	topFn            func(ctx context.Context, limit int) ([]domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, name string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, name)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByName(ctx context.Context, name string) (*domain.User, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name)
	}
	return nil, nil
}

func (m *mockUserRepo) FindOrCreate(ctx context.Context, name string) (*domain.User, error) {
	if m.findOrCreateFn != nil {
		return m.findOrCreateFn(ctx, name)
	}
	return nil, nil
}

func (m *mockUserRepo) IncrementScore(ctx context.Context, name string, amount int64) (*domain.User, error) {
	if m.incrementScoreFn != nil {
		return m.incrementScoreFn(ctx, name, amount)
	}
	return nil, nil
}

func (m *mockUserRepo) CreditForPoint(ctx context.Context, pointID, name string, amount int64) (*domain.User, error) {
	if m.creditForPointFn != nil {
		return m.creditForPointFn(ctx, pointID, name, amount)
	}
	return nil, nil
}

func (m *mockUserRepo) Top(ctx context.Context, limit int) ([]domain.User, error) {
	if m.topFn != nil {
		return m.topFn(ctx, limit)
	}
	return nil, nil
}

// --- Tests ---

func TestUserService_Register_NormalizesName(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, name string) (*domain.User, error) {
			if name != "marta_93" {
				t.Errorf("expected normalized name 'marta_93', got %q", name)
			}
			return &domain.User{ID: "u1", Name: name}, nil
		},
	}

	svc := usecases.NewUserService(repo, nil)
	u, err := svc.Register(context.Background(), "  Marta_93  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name != "marta_93" {
		t.Errorf("expected marta_93, got %s", u.Name)
	}
}

func TestUserService_Register_InvalidNames(t *testing.T) {
	svc := usecases.NewUserService(&mockUserRepo{}, nil)

	for _, name := range []string{"", "ab", "has space", "emoji😀", "this_name_is_way_too_long_for_the_rules"} {
		_, err := svc.Register(context.Background(), name)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Register(%q): expected ErrValidation, got %v", name, err)
		}
	}
}

func TestUserService_Register_Conflict(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, name string) (*domain.User, error) {
			return nil, domain.ErrConflict
		},
	}

	svc := usecases.NewUserService(repo, nil)
	_, err := svc.Register(context.Background(), "taken")
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestUserService_GetByName_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		getByNameFn: func(ctx context.Context, name string) (*domain.User, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := usecases.NewUserService(repo, nil)
	_, err := svc.GetByName(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_Credit_NegativeAmount(t *testing.T) {
	svc := usecases.NewUserService(&mockUserRepo{}, nil)
	_, err := svc.Credit(context.Background(), "marta", -5)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestUserService_Credit_Increments(t *testing.T) {
	repo := &mockUserRepo{
		incrementScoreFn: func(ctx context.Context, name string, amount int64) (*domain.User, error) {
			if amount != 10 {
				t.Errorf("expected amount 10, got %d", amount)
			}
			return &domain.User{Name: name, Score: 110, Level: domain.LevelIntermediate}, nil
		},
	}

	svc := usecases.NewUserService(repo, nil)
	u, err := svc.Credit(context.Background(), "marta", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Score != 110 {
		t.Errorf("expected score 110, got %d", u.Score)
	}
}

func TestUserService_CreditForPoint_RequiresPointID(t *testing.T) {
	svc := usecases.NewUserService(&mockUserRepo{}, nil)
	_, err := svc.CreditForPoint(context.Background(), "", "marta", 1)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestUserService_Leaderboard_ClampsLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 25},
		{-1, 25},
		{10, 10},
		{999, 100},
	}

	for _, tc := range cases {
		var got int
		repo := &mockUserRepo{
			topFn: func(ctx context.Context, limit int) ([]domain.User, error) {
				got = limit
				return []domain.User{{Name: "marta", Score: 500}}, nil
			},
		}

		svc := usecases.NewUserService(repo, nil)
		users, err := svc.Leaderboard(context.Background(), tc.in)
		if err != nil {
			t.Fatalf("limit %d: unexpected error: %v", tc.in, err)
		}
		if len(users) != 1 {
			t.Fatalf("limit %d: expected 1 user, got %d", tc.in, len(users))
		}
		if got != tc.want {
			t.Errorf("limit %d: expected clamp to %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"  Marta  ": "marta",
		"JAVI":      "javi",
		"ana_22":    "ana_22",
	}
	for in, want := range cases {
		if got := usecases.NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
