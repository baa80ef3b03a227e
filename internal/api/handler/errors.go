package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/flight"
	"github.com/iSnowdy/Frostel/internal/domain/inventory"
	"github.com/iSnowdy/Frostel/internal/domain/payment"
	"github.com/iSnowdy/Frostel/internal/domain/reservation"
)

// domainHTTPError はドメインエラーをHTTPエラーへ変換する
// 対応の取れないエラーは 500 として扱う
func domainHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, reservation.ErrReservationNotFound),
		errors.Is(err, flight.ErrBookingNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, inventory.ErrRoomNotFound),
		errors.Is(err, inventory.ErrFlightClassNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, booking.ErrConcurrentConflict),
		errors.Is(err, inventory.ErrInsufficientInventory):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrAlreadyFinal),
		errors.Is(err, payment.ErrInvalidPaymentTransition),
		errors.Is(err, payment.ErrPaymentAlreadyFinal),
		errors.Is(err, payment.ErrInvalidLinkage),
		errors.Is(err, inventory.ErrRoomNotBookable),
		errors.Is(err, reservation.ErrInvalidStayRange),
		errors.Is(err, reservation.ErrInvalidGuestCount),
		errors.Is(err, reservation.ErrUserIDRequired),
		errors.Is(err, reservation.ErrHotelIDRequired),
		errors.Is(err, reservation.ErrRoomIDRequired),
		errors.Is(err, reservation.ErrRoomTypeIDRequired),
		errors.Is(err, flight.ErrUserIDRequired),
		errors.Is(err, flight.ErrFlightIDRequired),
		errors.Is(err, flight.ErrFlightClassIDRequired),
		errors.Is(err, flight.ErrPassengerNameRequired),
		errors.Is(err, flight.ErrPassengerEmailRequired),
		errors.Is(err, payment.ErrUserIDRequired),
		errors.Is(err, payment.ErrInvalidAmount):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
