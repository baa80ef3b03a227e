package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iSnowdy/Frostel/internal/application"
	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/flight"
)

type FlightBookingHandler struct {
	service FlightBookingServiceInterface
}

func NewFlightBookingHandler(s FlightBookingServiceInterface) *FlightBookingHandler {
	return &FlightBookingHandler{service: s}
}

type CreateFlightBookingRequest struct {
	FlightID       string `json:"flight_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	FlightClassID  string `json:"flight_class_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440001"`
	PassengerName  string `json:"passenger_name" validate:"required" example:"山田 太郎"`
	PassengerEmail string `json:"passenger_email" validate:"required,email" example:"taro@example.com"`
}

type FlightBookingResponse struct {
	ID             string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Reference      string    `json:"reference" example:"FB-20260910-7B4E2F8A"`
	UserID         string    `json:"user_id" example:"user-123"`
	FlightID       string    `json:"flight_id"`
	FlightClassID  string    `json:"flight_class_id"`
	PassengerName  string    `json:"passenger_name"`
	PassengerEmail string    `json:"passenger_email"`
	BasePrice      int64     `json:"base_price" example:"30000"`
	DiscountAmount int64     `json:"discount_amount" example:"3000"`
	TotalPrice     int64     `json:"total_price" example:"27000"`
	Status         string    `json:"status" example:"pending"`
	CreatedAt      time.Time `json:"created_at"`
}

func toFlightBookingResponse(b *flight.Booking) FlightBookingResponse {
	return FlightBookingResponse{
		ID: b.ID, Reference: b.Reference, UserID: b.UserID,
		FlightID: b.FlightID, FlightClassID: b.FlightClassID,
		PassengerName: b.PassengerName, PassengerEmail: b.PassengerEmail,
		BasePrice: b.BasePrice, DiscountAmount: b.DiscountAmount, TotalPrice: b.TotalPrice,
		Status: string(b.Status), CreatedAt: b.CreatedAt,
	}
}

// Create godoc
// @Summary フライト予約を作成
// @Description 搭乗クラスの空席を1つ確保し、割引適用後の価格を確定して予約を作成します
// @Tags flight-bookings
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CreateFlightBookingRequest true "予約情報"
// @Success 201 {object} FlightBookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string "空席なし"
// @Router /flight-bookings [post]
func (h *FlightBookingHandler) Create(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	var req CreateFlightBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateFlightBookingInput{
		UserID: userID, FlightID: req.FlightID, FlightClassID: req.FlightClassID,
		PassengerName: req.PassengerName, PassengerEmail: req.PassengerEmail,
	})
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toFlightBookingResponse(b))
}

// GetByID godoc
// @Summary フライト予約を取得
// @Tags flight-bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} FlightBookingResponse
// @Failure 404 {object} map[string]string
// @Router /flight-bookings/{id} [get]
func (h *FlightBookingHandler) GetByID(c echo.Context) error {
	b, err := h.service.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, toFlightBookingResponse(b))
}

// GetUserBookings godoc
// @Summary ユーザーのフライト予約一覧を取得
// @Tags flight-bookings
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} FlightBookingResponse
// @Failure 401 {object} map[string]string
// @Router /flight-bookings [get]
func (h *FlightBookingHandler) GetUserBookings(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	bookings, err := h.service.GetUserBookings(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return domainHTTPError(err)
	}
	resp := make([]FlightBookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toFlightBookingResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}

// Advance godoc
// @Summary フライト予約の状態を前進させる
// @Description pending → confirmed → checked_in → boarded → completed の順に1段階だけ前進できます
// @Tags flight-bookings
// @Accept json
// @Produce json
// @Param id path string true "予約ID"
// @Param request body AdvanceRequest true "遷移先の状態"
// @Success 200 {object} FlightBookingResponse
// @Failure 400 {object} map[string]string "不正な遷移"
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "並行更新と競合"
// @Router /flight-bookings/{id}/advance [post]
func (h *FlightBookingHandler) Advance(c echo.Context) error {
	var req AdvanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.service.AdvanceBooking(c.Request().Context(), c.Param("id"), booking.Status(req.Status), actorID(c))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, toFlightBookingResponse(b))
}

type AvailabilityResponse struct {
	FlightClassID  string `json:"flight_class_id"`
	AvailableSeats int    `json:"available_seats" example:"42"`
}

// Availability godoc
// @Summary 搭乗クラスの空席数を取得
// @Tags flight-bookings
// @Produce json
// @Param id path string true "搭乗クラスID"
// @Success 200 {object} AvailabilityResponse
// @Failure 404 {object} map[string]string
// @Router /flight-classes/{id}/availability [get]
func (h *FlightBookingHandler) Availability(c echo.Context) error {
	id := c.Param("id")
	count, err := h.service.CountAvailableSeats(c.Request().Context(), id)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{FlightClassID: id, AvailableSeats: count})
}

// Cancel godoc
// @Summary フライト予約をキャンセル
// @Description 非終端状態の予約をキャンセルし、座席を解放します
// @Tags flight-bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} FlightBookingResponse
// @Failure 400 {object} map[string]string "既に終端状態"
// @Failure 404 {object} map[string]string
// @Router /flight-bookings/{id}/cancel [post]
func (h *FlightBookingHandler) Cancel(c echo.Context) error {
	b, err := h.service.CancelBooking(c.Request().Context(), c.Param("id"), actorID(c))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, toFlightBookingResponse(b))
}
