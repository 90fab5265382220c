package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	ledgerapp "ubi-server/internal/application/ledger"
)

// AdminHandler 管理API用ハンドラー
type AdminHandler struct {
	ledgerService *ledgerapp.LedgerApplicationService
}

// NewAdminHandler 新しいAdminHandlerを作成
func NewAdminHandler(ledgerService *ledgerapp.LedgerApplicationService) *AdminHandler {
	return &AdminHandler{
		ledgerService: ledgerService,
	}
}

// RegisterAccount アカウント登録ハンドラー（管理API用）
// @Summary アカウントを登録（管理API）
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param request body RegisterAccountRequest true "アカウント登録リクエスト"
// @Success 201 {object} AccountResponse "登録成功"
// @Failure 400 {object} ErrorResponse "アカウント名が不正"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 409 {object} ErrorResponse "既に登録済み"
// @Router /api/v1/accounts [post]
func (h *AdminHandler) RegisterAccount(c echo.Context) error {
	var reqBody RegisterAccountRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.ledgerService.RegisterAccount(c.Request().Context(), reqBody.Name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, AccountResponse{
		Name:      resp.Name,
		CreatedAt: resp.CreatedAt,
	})
}

// Audit 供給量監査ハンドラー（管理API用）
// @Summary 供給量を監査（管理API）
// @Description 供給量が残高合計と一致し、最大供給量以下であるかを検査します
// @Tags admin
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param symbol path string true "通貨コード" example(UBI)
// @Success 200 {object} AuditResponse "検査結果"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 404 {object} ErrorResponse "通貨が存在しない"
// @Router /admin/currencies/{symbol}/audit [get]
func (h *AdminHandler) Audit(c echo.Context) error {
	resp, err := h.ledgerService.Audit(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AuditResponse{
		Symbol:      resp.Symbol,
		Supply:      resp.Supply,
		MaxSupply:   resp.MaxSupply,
		Circulating: resp.Circulating,
		Consistent:  resp.Consistent,
	})
}
