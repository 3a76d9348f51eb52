package foodbag

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/takumi/fukubukuro/internal/model"
	"github.com/takumi/fukubukuro/internal/repository"
)

// --- モック定義 ---

type mockFoodBagRepository struct {
	createFn        func(ctx context.Context, bag *model.FoodBag) error
	findByIDFn      func(ctx context.Context, id int64) (*model.FoodBag, error)
	findByOwnerFn   func(ctx context.Context, ownerID, id int64) (*model.FoodBag, error)
	updateFn        func(ctx context.Context, bag *model.FoodBag) error
	deleteFn        func(ctx context.Context, ownerID, id int64) error
	listAvailableFn func(ctx context.Context) ([]*model.FoodBag, error)
}

func (m *mockFoodBagRepository) Create(ctx context.Context, bag *model.FoodBag) error {
	if m.createFn != nil {
		return m.createFn(ctx, bag)
	}
	return nil
}

func (m *mockFoodBagRepository) FindByID(ctx context.Context, id int64) (*model.FoodBag, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockFoodBagRepository) FindByOwnerAndID(ctx context.Context, ownerID, id int64) (*model.FoodBag, error) {
	if m.findByOwnerFn != nil {
		return m.findByOwnerFn(ctx, ownerID, id)
	}
	return nil, nil
}

func (m *mockFoodBagRepository) Update(ctx context.Context, bag *model.FoodBag) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, bag)
	}
	return nil
}

func (m *mockFoodBagRepository) Delete(ctx context.Context, ownerID, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ownerID, id)
	}
	return nil
}

func (m *mockFoodBagRepository) ListAvailable(ctx context.Context) ([]*model.FoodBag, error) {
	if m.listAvailableFn != nil {
		return m.listAvailableFn(ctx)
	}
	return nil, nil
}

var _ repository.FoodBagRepository = (*mockFoodBagRepository)(nil)

// passthroughSanitizer は入力をそのまま返すテスト用サニタイザー。
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string { return raw }

// markingSanitizer は呼び出しを記録するテスト用サニタイザー。
type markingSanitizer struct {
	calls []string
}

func (m *markingSanitizer) Sanitize(raw string) string {
	m.calls = append(m.calls, raw)
	return "clean:" + raw
}

var (
	establishment = &model.User{ID: 10, Name: "bakery", Role: model.RoleEstablishment}
	client        = &model.User{ID: 20, Name: "sakura", Role: model.RoleClient}
)

// --- Create ---

func TestCreate_Success(t *testing.T) {
	repo := &mockFoodBagRepository{
		createFn: func(ctx context.Context, bag *model.FoodBag) error {
			bag.ID = 1
			return nil
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	until := time.Now().Add(6 * time.Hour)
	bag, err := svc.Create(context.Background(), establishment, CreateParams{
		Name:          "パンの詰め合わせ",
		Description:   "閉店前のお楽しみ袋",
		Price:         500,
		AvailableBags: 3,
		Address:       "渋谷区1-2-3",
		UntilTime:     until,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if bag.ID != 1 {
		t.Errorf("bag.ID = %d, want 1", bag.ID)
	}
	if bag.OwnerID != establishment.ID {
		t.Errorf("bag.OwnerID = %d, want %d", bag.OwnerID, establishment.ID)
	}
	if bag.AvailableBags != 3 {
		t.Errorf("bag.AvailableBags = %d, want 3", bag.AvailableBags)
	}
}

// 在庫0での出品も受け付ける。
func TestCreate_ZeroStockAllowed(t *testing.T) {
	repo := &mockFoodBagRepository{
		createFn: func(ctx context.Context, bag *model.FoodBag) error {
			bag.ID = 1
			return nil
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	bag, err := svc.Create(context.Background(), establishment, CreateParams{
		Name:          "売り切れ予定の袋",
		AvailableBags: 0,
		UntilTime:     time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if bag.AvailableBags != 0 {
		t.Errorf("bag.AvailableBags = %d, want 0", bag.AvailableBags)
	}
}

func TestCreate_ClientForbidden(t *testing.T) {
	svc := NewService(&mockFoodBagRepository{}, passthroughSanitizer{})

	_, err := svc.Create(context.Background(), client, CreateParams{Name: "x"})
	assertAPIErrorCode(t, err, model.ErrCodeForbidden)
}

// テキスト項目がサニタイズされ、画像URLはそのまま保持されることを確認する。
func TestCreate_SanitizesTextFields(t *testing.T) {
	sanitizer := &markingSanitizer{}
	repo := &mockFoodBagRepository{}

	svc := NewService(repo, sanitizer)

	bag, err := svc.Create(context.Background(), establishment, CreateParams{
		Name:        "name",
		Description: "desc",
		Address:     "addr",
		Image:       "https://example.com/bag.png",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if bag.Name != "clean:name" || bag.Description != "clean:desc" || bag.Address != "clean:addr" {
		t.Errorf("text fields not sanitized: %+v", bag)
	}
	if bag.Image != "https://example.com/bag.png" {
		t.Errorf("image was altered: %q", bag.Image)
	}
	if len(sanitizer.calls) != 3 {
		t.Errorf("sanitizer called %d times, want 3", len(sanitizer.calls))
	}
}

// --- Update ---

// ゼロ値のフィールドは未指定と同じ扱いで無視されることを確認する。
func TestUpdate_ZeroValuesAreIgnored(t *testing.T) {
	existing := &model.FoodBag{
		ID:            1,
		Name:          "元の名前",
		Description:   "元の説明",
		Price:         500,
		AvailableBags: 3,
		Address:       "元の住所",
		OwnerID:       establishment.ID,
		UntilTime:     time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
	}

	repo := &mockFoodBagRepository{
		findByOwnerFn: func(ctx context.Context, ownerID, id int64) (*model.FoodBag, error) {
			copied := *existing
			return &copied, nil
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	emptyName := ""
	zeroPrice := 0.0
	zeroStock := 0
	zeroTime := time.Time{}
	newDesc := "新しい説明"

	bag, err := svc.Update(context.Background(), establishment, 1, UpdateParams{
		Name:          &emptyName,
		Price:         &zeroPrice,
		AvailableBags: &zeroStock,
		UntilTime:     &zeroTime,
		Description:   &newDesc,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if bag.Name != "元の名前" {
		t.Errorf("empty name overwrote existing value: %q", bag.Name)
	}
	if bag.Price != 500 {
		t.Errorf("zero price overwrote existing value: %v", bag.Price)
	}
	if bag.AvailableBags != 3 {
		t.Errorf("zero stock overwrote existing value: %d", bag.AvailableBags)
	}
	if !bag.UntilTime.Equal(existing.UntilTime) {
		t.Errorf("zero time overwrote existing value: %v", bag.UntilTime)
	}
	if bag.Description != "新しい説明" {
		t.Errorf("description not updated: %q", bag.Description)
	}
}

func TestUpdate_NilFieldsAreIgnored(t *testing.T) {
	existing := &model.FoodBag{ID: 1, Name: "元の名前", Price: 500, OwnerID: establishment.ID}

	repo := &mockFoodBagRepository{
		findByOwnerFn: func(ctx context.Context, ownerID, id int64) (*model.FoodBag, error) {
			copied := *existing
			return &copied, nil
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	bag, err := svc.Update(context.Background(), establishment, 1, UpdateParams{})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if bag.Name != "元の名前" || bag.Price != 500 {
		t.Errorf("update without fields changed the bag: %+v", bag)
	}
}

// 対象が存在しない場合と所有者でない場合が同じエラーになることを確認する。
func TestUpdate_MissingAndNotOwnedAreIndistinguishable(t *testing.T) {
	repo := &mockFoodBagRepository{
		findByOwnerFn: func(ctx context.Context, ownerID, id int64) (*model.FoodBag, error) {
			// 不在でも非所有でもリポジトリはnilを返す
			return nil, nil
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	_, err := svc.Update(context.Background(), establishment, 999, UpdateParams{})
	assertAPIErrorCode(t, err, model.ErrCodeForbidden)
}

func TestUpdate_Unauthenticated(t *testing.T) {
	svc := NewService(&mockFoodBagRepository{}, passthroughSanitizer{})

	_, err := svc.Update(context.Background(), nil, 1, UpdateParams{})
	assertAPIErrorCode(t, err, model.ErrCodeUnauthenticated)
}

// --- Delete ---

func TestDelete_Success(t *testing.T) {
	var deletedOwner, deletedID int64
	repo := &mockFoodBagRepository{
		deleteFn: func(ctx context.Context, ownerID, id int64) error {
			deletedOwner, deletedID = ownerID, id
			return nil
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	if err := svc.Delete(context.Background(), establishment, 7); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if deletedOwner != establishment.ID || deletedID != 7 {
		t.Errorf("Delete called with (%d, %d), want (%d, 7)", deletedOwner, deletedID, establishment.ID)
	}
}

func TestDelete_MissingAndNotOwnedAreIndistinguishable(t *testing.T) {
	repo := &mockFoodBagRepository{
		deleteFn: func(ctx context.Context, ownerID, id int64) error {
			return repository.ErrNotFound
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	err := svc.Delete(context.Background(), establishment, 999)
	assertAPIErrorCode(t, err, model.ErrCodeForbidden)
}

// --- ListAvailable / GetByID ---

func TestListAvailable_Success(t *testing.T) {
	repo := &mockFoodBagRepository{
		listAvailableFn: func(ctx context.Context) ([]*model.FoodBag, error) {
			return []*model.FoodBag{
				{ID: 1, Name: "袋A", AvailableBags: 2},
				{ID: 2, Name: "袋B", AvailableBags: 1},
			}, nil
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	bags, err := svc.ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("ListAvailable returned error: %v", err)
	}
	if len(bags) != 2 {
		t.Errorf("len(bags) = %d, want 2", len(bags))
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(&mockFoodBagRepository{}, passthroughSanitizer{})

	_, err := svc.GetByID(context.Background(), 999)
	assertAPIErrorCode(t, err, model.ErrCodeBagNotFound)
}

// --- ヘルパー ---

func assertAPIErrorCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	if err == nil {
		t.Fatalf("error is nil, want code %q", wantCode)
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != wantCode {
		t.Errorf("code = %q, want %q", apiErr.Code, wantCode)
	}
}
