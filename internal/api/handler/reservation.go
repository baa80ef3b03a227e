package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iSnowdy/Frostel/internal/application"
	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/reservation"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type CreateReservationRequest struct {
	HotelID    string `json:"hotel_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	RoomID     string `json:"room_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440001"`
	RoomTypeID string `json:"room_type_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440002"`
	CheckIn    string `json:"check_in" validate:"required" example:"2026-09-10"`
	CheckOut   string `json:"check_out" validate:"required" example:"2026-09-12"`
	Guests     int    `json:"guests" validate:"required,min=1" example:"2"`
}

type AdvanceRequest struct {
	Status string `json:"status" validate:"required" example:"checked_in"`
}

type ReservationResponse struct {
	ID             string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Reference      string    `json:"reference" example:"HB-20260910-3F2A9C1D"`
	UserID         string    `json:"user_id" example:"user-123"`
	HotelID        string    `json:"hotel_id"`
	RoomID         string    `json:"room_id"`
	RoomTypeID     string    `json:"room_type_id"`
	CheckIn        time.Time `json:"check_in"`
	CheckOut       time.Time `json:"check_out"`
	Guests         int       `json:"guests" example:"2"`
	BasePrice      int64     `json:"base_price" example:"50000"`
	DiscountAmount int64     `json:"discount_amount" example:"12500"`
	TotalPrice     int64     `json:"total_price" example:"37500"`
	Status         string    `json:"status" example:"pending"`
	CreatedAt      time.Time `json:"created_at"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID: r.ID, Reference: r.Reference, UserID: r.UserID,
		HotelID: r.HotelID, RoomID: r.RoomID, RoomTypeID: r.RoomTypeID,
		CheckIn: r.CheckIn, CheckOut: r.CheckOut, Guests: r.Guests,
		BasePrice: r.BasePrice, DiscountAmount: r.DiscountAmount, TotalPrice: r.TotalPrice,
		Status: string(r.Status), CreatedAt: r.CreatedAt,
	}
}

// dateLayout は日付のみのリクエストフィールドの書式
const dateLayout = "2006-01-02"

// Create godoc
// @Summary ホテル予約を作成
// @Description 部屋の空きを確認し、割引適用後の価格を確定して予約を作成します
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CreateReservationRequest true "予約情報"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string "部屋が既に予約済み"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "チェックイン日の形式が不正です")
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "チェックアウト日の形式が不正です")
	}
	r, err := h.service.CreateReservation(c.Request().Context(), application.CreateReservationInput{
		UserID: userID, HotelID: req.HotelID, RoomID: req.RoomID, RoomTypeID: req.RoomTypeID,
		CheckIn: checkIn, CheckOut: checkOut, Guests: req.Guests,
	})
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// GetByID godoc
// @Summary ホテル予約を取得
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	r, err := h.service.GetReservation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// GetUserReservations godoc
// @Summary ユーザーのホテル予約一覧を取得
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ReservationResponse
// @Failure 401 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) GetUserReservations(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	reservations, err := h.service.GetUserReservations(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return domainHTTPError(err)
	}
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// Advance godoc
// @Summary ホテル予約の状態を前進させる
// @Description pending → confirmed → checked_in → checked_out の順に1段階だけ前進できます
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path string true "予約ID"
// @Param request body AdvanceRequest true "遷移先の状態"
// @Success 200 {object} ReservationResponse
// @Failure 400 {object} map[string]string "不正な遷移"
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "並行更新と競合"
// @Router /reservations/{id}/advance [post]
func (h *ReservationHandler) Advance(c echo.Context) error {
	var req AdvanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	r, err := h.service.AdvanceReservation(c.Request().Context(), c.Param("id"), booking.Status(req.Status), actorID(c))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// Cancel godoc
// @Summary ホテル予約をキャンセル
// @Description 非終端状態の予約をキャンセルし、部屋の占有を解放します
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 400 {object} map[string]string "既に終端状態"
// @Failure 404 {object} map[string]string
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	r, err := h.service.CancelReservation(c.Request().Context(), c.Param("id"), actorID(c))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// actorID は操作ユーザーを監査記録用に取り出す
// 未設定の場合は nil（システム操作）
func actorID(c echo.Context) *string {
	if id := c.Request().Header.Get("X-User-ID"); id != "" {
		return &id
	}
	return nil
}
