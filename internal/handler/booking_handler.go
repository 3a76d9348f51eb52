package handler

import (
	"context"
	"net/http"

	"github.com/takumi/fukubukuro/internal/booking"
	"github.com/takumi/fukubukuro/internal/middleware"
	"github.com/takumi/fukubukuro/internal/model"
)

// BookingServiceInterface は予約ハンドラーが必要とするサービスインターフェース。
type BookingServiceInterface interface {
	Book(ctx context.Context, client *model.User, bagID int64) (*booking.Result, error)
}

// BookingHandler はフードバッグ予約のHTTPハンドラー。
type BookingHandler struct {
	service BookingServiceInterface
}

// NewBookingHandler はBookingHandlerを生成する。
func NewBookingHandler(service BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: service}
}

// bookingResponse は予約確定のAPIレスポンス。
type bookingResponse struct {
	Message   string `json:"message"`
	BookingID int64  `json:"booking_id"`
}

// BookBag はフードバッグを1袋予約する。
// POST /api/bags/{id}/bookings
func (h *BookingHandler) BookBag(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	bagID, ok := parseBagID(w, r)
	if !ok {
		return
	}

	result, err := h.service.Book(r.Context(), user, bagID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, bookingResponse{
		Message:   result.Message,
		BookingID: result.Booking.ID,
	})
}
