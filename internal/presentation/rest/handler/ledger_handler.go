package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	ledgerapp "ubi-server/internal/application/ledger"
)

// LedgerHandler 台帳操作ハンドラー
type LedgerHandler struct {
	ledgerService *ledgerapp.LedgerApplicationService
}

// NewLedgerHandler 新しいLedgerHandlerを作成
func NewLedgerHandler(ledgerService *ledgerapp.LedgerApplicationService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// CreateCurrency 通貨作成ハンドラー
// @Summary 通貨を作成
// @Description 最大供給量と発行者を指定して通貨を作成します。発行者の承認が必要です
// @Tags currency
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateCurrencyRequest true "通貨作成リクエスト"
// @Success 201 {object} CurrencyStatsResponse "作成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 403 {object} ErrorResponse "承認がない"
// @Failure 409 {object} ErrorResponse "通貨が既に存在する"
// @Router /api/v1/currencies [post]
func (h *LedgerHandler) CreateCurrency(c echo.Context) error {
	var reqBody CreateCurrencyRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.ledgerService.CreateCurrency(c.Request().Context(), &ledgerapp.CreateCurrencyRequest{
		Issuer:    reqBody.Issuer,
		MaxSupply: reqBody.MaxSupply,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toCurrencyStatsResponse(resp))
}

// GetSupply 供給量取得ハンドラー
// @Summary 供給量を取得
// @Tags currency
// @Produce json
// @Security Bearer
// @Param symbol path string true "通貨コード" example(UBI)
// @Success 200 {object} SupplyResponse "取得成功"
// @Failure 404 {object} ErrorResponse "通貨が存在しない"
// @Router /api/v1/currencies/{symbol}/supply [get]
func (h *LedgerHandler) GetSupply(c echo.Context) error {
	resp, err := h.ledgerService.GetSupply(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SupplyResponse{
		Symbol:    resp.Symbol,
		Supply:    resp.Supply,
		MaxSupply: resp.MaxSupply,
	})
}

// GetStats 通貨統計取得ハンドラー
// @Summary 通貨統計を取得
// @Tags currency
// @Produce json
// @Security Bearer
// @Param symbol path string true "通貨コード" example(UBI)
// @Success 200 {object} CurrencyStatsResponse "取得成功"
// @Failure 404 {object} ErrorResponse "通貨が存在しない"
// @Router /api/v1/currencies/{symbol}/stats [get]
func (h *LedgerHandler) GetStats(c echo.Context) error {
	resp, err := h.ledgerService.GetStats(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCurrencyStatsResponse(resp))
}

// Issue 発行ハンドラー
// @Summary 通貨を発行
// @Description 発行者の承認で新規発行し、受取人に送金します
// @Tags currency
// @Accept json
// @Produce json
// @Security Bearer
// @Param symbol path string true "通貨コード" example(UBI)
// @Param request body IssueRequest true "発行リクエスト"
// @Success 200 {object} OperationResult "発行成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 403 {object} ErrorResponse "承認がない"
// @Failure 409 {object} ErrorResponse "供給上限を超える"
// @Router /api/v1/currencies/{symbol}/issue [post]
func (h *LedgerHandler) Issue(c echo.Context) error {
	var reqBody IssueRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.ledgerService.Issue(c.Request().Context(), &ledgerapp.IssueRequest{
		Symbol:   c.Param("symbol"),
		To:       reqBody.To,
		Quantity: reqBody.Quantity,
		Memo:     reqBody.Memo,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toOperationResult(resp))
}

// Retire 償却ハンドラー
// @Summary 通貨を償却
// @Description 発行者の残高から償却し供給量を減らします
// @Tags currency
// @Accept json
// @Produce json
// @Security Bearer
// @Param symbol path string true "通貨コード" example(UBI)
// @Param request body RetireRequest true "償却リクエスト"
// @Success 200 {object} OperationResult "償却成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 403 {object} ErrorResponse "承認がない"
// @Failure 409 {object} ErrorResponse "残高不足"
// @Router /api/v1/currencies/{symbol}/retire [post]
func (h *LedgerHandler) Retire(c echo.Context) error {
	var reqBody RetireRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.ledgerService.Retire(c.Request().Context(), &ledgerapp.RetireRequest{
		Symbol:   c.Param("symbol"),
		Quantity: reqBody.Quantity,
		Memo:     reqBody.Memo,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toOperationResult(resp))
}

// Transfer 送金ハンドラー
// @Summary 送金
// @Description 送金前に両者の未請求インカムを確定します
// @Tags transfer
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body TransferRequest true "送金リクエスト"
// @Success 200 {object} OperationResult "送金成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 403 {object} ErrorResponse "承認がない"
// @Failure 404 {object} ErrorResponse "受取人が存在しない"
// @Failure 409 {object} ErrorResponse "残高不足"
// @Router /api/v1/transfers [post]
func (h *LedgerHandler) Transfer(c echo.Context) error {
	var reqBody TransferRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.ledgerService.Transfer(c.Request().Context(), &ledgerapp.TransferRequest{
		From:     reqBody.From,
		To:       reqBody.To,
		Quantity: reqBody.Quantity,
		Memo:     reqBody.Memo,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toOperationResult(resp))
}

// OpenBalance 残高レコード作成ハンドラー
// @Summary 残高レコードを作成
// @Description ゼロ残高レコードを作成し、対象アカウントのインカムを請求します
// @Tags balance
// @Accept json
// @Produce json
// @Security Bearer
// @Param owner path string true "所有者アカウント" example(alice.jc)
// @Param request body OpenBalanceRequest true "残高レコード作成リクエスト"
// @Success 201 {object} OperationResult "作成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 403 {object} ErrorResponse "承認がない"
// @Failure 404 {object} ErrorResponse "通貨またはアカウントが存在しない"
// @Router /api/v1/accounts/{owner}/balances [post]
func (h *LedgerHandler) OpenBalance(c echo.Context) error {
	var reqBody OpenBalanceRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.ledgerService.Open(c.Request().Context(), &ledgerapp.OpenRequest{
		Owner:  c.Param("owner"),
		Symbol: reqBody.Symbol,
		Payer:  reqBody.Payer,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toOperationResult(resp))
}

// CloseBalance 残高レコード削除ハンドラー
// @Summary 残高レコードを削除
// @Description ゼロ残高レコードを削除します。当日分の請求済みウィンドウがある場合は拒否されます
// @Tags balance
// @Produce json
// @Security Bearer
// @Param owner path string true "所有者アカウント" example(alice.jc)
// @Param symbol path string true "通貨コード" example(UBI)
// @Success 200 {object} OperationResult "削除成功"
// @Failure 403 {object} ErrorResponse "承認がない"
// @Failure 404 {object} ErrorResponse "残高レコードが存在しない"
// @Failure 409 {object} ErrorResponse "残高がゼロではない、または当日請求済み"
// @Router /api/v1/accounts/{owner}/balances/{symbol} [delete]
func (h *LedgerHandler) CloseBalance(c echo.Context) error {
	resp, err := h.ledgerService.Close(c.Request().Context(), &ledgerapp.CloseRequest{
		Owner:  c.Param("owner"),
		Symbol: c.Param("symbol"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toOperationResult(resp))
}

// GetBalance 残高取得ハンドラー
// @Summary 残高を取得
// @Tags balance
// @Produce json
// @Security Bearer
// @Param owner path string true "所有者アカウント" example(alice.jc)
// @Param symbol path string true "通貨コード" example(UBI)
// @Success 200 {object} BalanceResponse "取得成功"
// @Failure 404 {object} ErrorResponse "残高レコードが存在しない"
// @Router /api/v1/accounts/{owner}/balances/{symbol} [get]
func (h *LedgerHandler) GetBalance(c echo.Context) error {
	resp, err := h.ledgerService.GetBalance(c.Request().Context(), c.Param("owner"), c.Param("symbol"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, BalanceResponse{
		Owner:   resp.Owner,
		Symbol:  resp.Symbol,
		Balance: resp.Balance,
		Payer:   resp.Payer,
	})
}

// GetClaimWindow 請求ウィンドウ取得ハンドラー
// @Summary 請求ウィンドウを取得
// @Description 最終請求日と、現時点で請求した場合の付与量を返します
// @Tags balance
// @Produce json
// @Security Bearer
// @Param owner path string true "所有者アカウント" example(alice.jc)
// @Param symbol path string true "通貨コード" example(UBI)
// @Success 200 {object} ClaimWindowResponse "取得成功"
// @Failure 404 {object} ErrorResponse "ウィンドウが存在しない"
// @Router /api/v1/accounts/{owner}/claims/{symbol} [get]
func (h *LedgerHandler) GetClaimWindow(c echo.Context) error {
	resp, err := h.ledgerService.GetClaimWindow(c.Request().Context(), c.Param("owner"), c.Param("symbol"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ClaimWindowResponse{
		Owner:           resp.Owner,
		Symbol:          resp.Symbol,
		Eligible:        resp.Eligible,
		LastClaimDay:    resp.LastClaimDay,
		NextClaimDay:    resp.NextClaimDay,
		Today:           resp.Today,
		PendingQuantity: resp.PendingQuantity,
		PendingLostDays: resp.PendingLostDays,
	})
}

func toCurrencyStatsResponse(resp *ledgerapp.CurrencyResponse) CurrencyStatsResponse {
	return CurrencyStatsResponse{
		Symbol:         resp.Symbol,
		Precision:      resp.Precision,
		Supply:         resp.Supply,
		MaxSupply:      resp.MaxSupply,
		Issuer:         resp.Issuer,
		RetireIsPublic: resp.RetireIsPublic,
	}
}

func toOperationResult(resp *ledgerapp.OperationResponse) OperationResult {
	claims := make([]ClaimItem, len(resp.Claims))
	for i, cl := range resp.Claims {
		claims[i] = ClaimItem{
			Account:      cl.Account,
			Quantity:     cl.Quantity,
			NextClaimDay: cl.NextClaimDay,
			LostDays:     cl.LostDays,
			Memo:         cl.Memo,
		}
	}
	return OperationResult{
		TransactionID: resp.TransactionID,
		Status:        resp.Status,
		Claims:        claims,
	}
}
