package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iSnowdy/Frostel/internal/application"
	"github.com/iSnowdy/Frostel/internal/domain/payment"
)

type PaymentHandler struct {
	service PaymentServiceInterface
}

func NewPaymentHandler(s PaymentServiceInterface) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type RecordPaymentRequest struct {
	BookingType     string  `json:"booking_type" validate:"required,oneof=hotel flight package" example:"hotel"`
	ReservationID   *string `json:"reservation_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	FlightBookingID *string `json:"flight_booking_id,omitempty"`
	Amount          int64   `json:"amount" validate:"required,gt=0" example:"37500"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=processing completed failed refunded" example:"completed"`
}

type PaymentResponse struct {
	ID              string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Reference       string    `json:"reference" example:"PAY-20260910-9C5D1E3B"`
	UserID          string    `json:"user_id" example:"user-123"`
	BookingType     string    `json:"booking_type" example:"hotel"`
	ReservationID   *string   `json:"reservation_id,omitempty"`
	FlightBookingID *string   `json:"flight_booking_id,omitempty"`
	Amount          int64     `json:"amount" example:"37500"`
	Status          string    `json:"status" example:"pending"`
	CreatedAt       time.Time `json:"created_at"`
}

func toPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID: p.ID, Reference: p.Reference, UserID: p.UserID,
		BookingType:   string(p.BookingType),
		ReservationID: p.ReservationID, FlightBookingID: p.FlightBookingID,
		Amount: p.Amount, Status: string(p.Status), CreatedAt: p.CreatedAt,
	}
}

// Create godoc
// @Summary 決済を記録
// @Description 決済を PENDING 状態で記録します。決済種別と予約参照の組み合わせは事前に検証されます
// @Tags payments
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body RecordPaymentRequest true "決済情報"
// @Success 201 {object} PaymentResponse
// @Failure 400 {object} map[string]string "種別と参照の組み合わせが不正"
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string "参照先の予約が存在しない"
// @Router /payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	var req RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := h.service.RecordPayment(c.Request().Context(), application.RecordPaymentInput{
		UserID:          userID,
		BookingType:     payment.BookingType(req.BookingType),
		ReservationID:   req.ReservationID,
		FlightBookingID: req.FlightBookingID,
		Amount:          req.Amount,
	})
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toPaymentResponse(p))
}

// GetByID godoc
// @Summary 決済を取得
// @Tags payments
// @Produce json
// @Param id path string true "決済ID"
// @Success 200 {object} PaymentResponse
// @Failure 404 {object} map[string]string
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetByID(c echo.Context) error {
	p, err := h.service.GetPayment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// GetUserPayments godoc
// @Summary ユーザーの決済一覧を取得
// @Tags payments
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} PaymentResponse
// @Failure 401 {object} map[string]string
// @Router /payments [get]
func (h *PaymentHandler) GetUserPayments(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	payments, err := h.service.GetUserPayments(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return domainHTTPError(err)
	}
	resp := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary 決済状態を更新
// @Description 決済ゲートウェイからの結果を反映します。completed では参照先の予約が同時に確定されます
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "決済ID"
// @Param request body UpdatePaymentStatusRequest true "遷移先の状態"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} map[string]string "不正な遷移"
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "並行更新と競合"
// @Router /payments/{id}/status [post]
func (h *PaymentHandler) UpdateStatus(c echo.Context) error {
	var req UpdatePaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := h.service.UpdatePaymentStatus(c.Request().Context(), c.Param("id"), payment.Status(req.Status), actorID(c))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}
