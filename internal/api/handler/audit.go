package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iSnowdy/Frostel/internal/domain/audit"
)

type AuditHandler struct {
	service AuditServiceInterface
}

func NewAuditHandler(s AuditServiceInterface) *AuditHandler {
	return &AuditHandler{service: s}
}

type AuditEntryResponse struct {
	ID        int64          `json:"id" example:"42"`
	TableName string         `json:"table_name" example:"reservations"`
	Operation string         `json:"operation" example:"UPDATE"`
	RecordID  string         `json:"record_id"`
	UserID    *string        `json:"user_id,omitempty"`
	OldData   map[string]any `json:"old_data,omitempty"`
	NewData   map[string]any `json:"new_data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func toAuditEntryResponse(e *audit.Entry) AuditEntryResponse {
	return AuditEntryResponse{
		ID: e.ID, TableName: e.TableName, Operation: string(e.Operation),
		RecordID: e.RecordID, UserID: e.UserID,
		OldData: e.OldData, NewData: e.NewData, CreatedAt: e.CreatedAt,
	}
}

func toAuditEntryResponses(entries []*audit.Entry) []AuditEntryResponse {
	resp := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toAuditEntryResponse(e)
	}
	return resp
}

// ListByRecord godoc
// @Summary レコードの監査履歴を取得
// @Description 指定テーブル・レコードIDの変更履歴を新しい順に返します
// @Tags audit
// @Produce json
// @Param table query string true "テーブル名" example(reservations)
// @Param record_id query string true "レコードID"
// @Param limit query int false "取得件数" default(50)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} AuditEntryResponse
// @Failure 400 {object} map[string]string
// @Router /audit [get]
func (h *AuditHandler) ListByRecord(c echo.Context) error {
	tableName := c.QueryParam("table")
	recordID := c.QueryParam("record_id")
	if tableName == "" || recordID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "table と record_id は必須です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	entries, err := h.service.ListByRecord(c.Request().Context(), tableName, recordID, limit, offset)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, toAuditEntryResponses(entries))
}

// ListByUser godoc
// @Summary ユーザーの操作履歴を取得
// @Tags audit
// @Produce json
// @Param id path string true "ユーザーID"
// @Param limit query int false "取得件数" default(50)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} AuditEntryResponse
// @Router /audit/users/{id} [get]
func (h *AuditHandler) ListByUser(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	entries, err := h.service.ListByUser(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, toAuditEntryResponses(entries))
}

// ListByTimeRange godoc
// @Summary 期間内の監査履歴を取得
// @Tags audit
// @Produce json
// @Param from query string true "開始時刻 (RFC3339)" example(2026-08-01T00:00:00Z)
// @Param to query string true "終了時刻 (RFC3339)" example(2026-09-01T00:00:00Z)
// @Param limit query int false "取得件数" default(50)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} AuditEntryResponse
// @Failure 400 {object} map[string]string
// @Router /audit/range [get]
func (h *AuditHandler) ListByTimeRange(c echo.Context) error {
	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "from の形式が不正です")
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "to の形式が不正です")
	}
	if !to.After(from) {
		return echo.NewHTTPError(http.StatusBadRequest, "to は from より後である必要があります")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	entries, err := h.service.ListByTimeRange(c.Request().Context(), from, to, limit, offset)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, toAuditEntryResponses(entries))
}
