package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/takumi/fukubukuro/internal/foodbag"
	"github.com/takumi/fukubukuro/internal/middleware"
	"github.com/takumi/fukubukuro/internal/model"
)

// BagServiceInterface はバッグハンドラーが必要とするサービスインターフェース。
type BagServiceInterface interface {
	Create(ctx context.Context, owner *model.User, params foodbag.CreateParams) (*model.FoodBag, error)
	Update(ctx context.Context, caller *model.User, bagID int64, params foodbag.UpdateParams) (*model.FoodBag, error)
	Delete(ctx context.Context, caller *model.User, bagID int64) error
	ListAvailable(ctx context.Context) ([]*model.FoodBag, error)
	GetByID(ctx context.Context, bagID int64) (*model.FoodBag, error)
}

// BagHandler はフードバッグ管理のHTTPハンドラー。
type BagHandler struct {
	service BagServiceInterface
}

// NewBagHandler はBagHandlerを生成する。
func NewBagHandler(service BagServiceInterface) *BagHandler {
	return &BagHandler{service: service}
}

// createBagRequest はフードバッグ作成リクエストのボディ。
type createBagRequest struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Image         string    `json:"image"`
	Price         float64   `json:"price"`
	AvailableBags int       `json:"available_bags"`
	Address       string    `json:"address"`
	UntilTime     time.Time `json:"until_time"`
}

// updateBagRequest はフードバッグ部分更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateBagRequest struct {
	Name          *string    `json:"name"`
	Description   *string    `json:"description"`
	Image         *string    `json:"image"`
	Price         *float64   `json:"price"`
	AvailableBags *int       `json:"available_bags"`
	Address       *string    `json:"address"`
	UntilTime     *time.Time `json:"until_time"`
}

// bagResponse はフードバッグ情報のAPIレスポンス。
type bagResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Image         string    `json:"image,omitempty"`
	Price         float64   `json:"price"`
	AvailableBags int       `json:"available_bags"`
	Address       string    `json:"address"`
	OwnerID       int64     `json:"owner_id"`
	UntilTime     time.Time `json:"until_time"`
}

// CreateBag はフードバッグを登録する。
// POST /api/bags
func (h *BagHandler) CreateBag(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req createBagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("nameは必須です"))
		return
	}

	bag, err := h.service.Create(r.Context(), user, foodbag.CreateParams{
		Name:          req.Name,
		Description:   req.Description,
		Image:         req.Image,
		Price:         req.Price,
		AvailableBags: req.AvailableBags,
		Address:       req.Address,
		UntilTime:     req.UntilTime,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBagResponse(bag))
}

// ListBags は在庫のあるフードバッグの一覧を返す。認証不要。
// GET /api/bags
func (h *BagHandler) ListBags(w http.ResponseWriter, r *http.Request) {
	bags, err := h.service.ListAvailable(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]bagResponse, 0, len(bags))
	for _, bag := range bags {
		responses = append(responses, toBagResponse(bag))
	}

	writeJSON(w, http.StatusOK, responses)
}

// GetBag はフードバッグ詳細を取得する。
// GET /api/bags/{id}
func (h *BagHandler) GetBag(w http.ResponseWriter, r *http.Request) {
	bagID, ok := parseBagID(w, r)
	if !ok {
		return
	}

	bag, err := h.service.GetByID(r.Context(), bagID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBagResponse(bag))
}

// UpdateBag はフードバッグを部分更新する。
// PATCH /api/bags/{id}
func (h *BagHandler) UpdateBag(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	bagID, ok := parseBagID(w, r)
	if !ok {
		return
	}

	var req updateBagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	bag, err := h.service.Update(r.Context(), user, bagID, foodbag.UpdateParams{
		Name:          req.Name,
		Description:   req.Description,
		Image:         req.Image,
		Price:         req.Price,
		AvailableBags: req.AvailableBags,
		Address:       req.Address,
		UntilTime:     req.UntilTime,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBagResponse(bag))
}

// DeleteBag はフードバッグを削除する。
// DELETE /api/bags/{id}
func (h *BagHandler) DeleteBag(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	bagID, ok := parseBagID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), user, bagID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseBagID はURLパラメータからバッグIDを取得する。
// 不正な場合は400を書き込み、falseを返す。
func parseBagID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	bagID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || bagID <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("バッグIDは正の整数で指定してください"))
		return 0, false
	}
	return bagID, true
}

// toBagResponse はモデルをAPIレスポンスに変換する。
func toBagResponse(bag *model.FoodBag) bagResponse {
	return bagResponse{
		ID:            bag.ID,
		Name:          bag.Name,
		Description:   bag.Description,
		Image:         bag.Image,
		Price:         bag.Price,
		AvailableBags: bag.AvailableBags,
		Address:       bag.Address,
		OwnerID:       bag.OwnerID,
		UntilTime:     bag.UntilTime,
	}
}
