package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	authapp "ubi-server/internal/application/auth"
	"ubi-server/internal/domain/account"
	"ubi-server/internal/domain/claim"
	"ubi-server/internal/domain/ledger"
	"ubi-server/internal/domain/transaction"
	"ubi-server/internal/infrastructure/lock"
)

var statusCodes = []struct {
	target error
	code   codes.Code
}{
	{ledger.ErrInvalidSymbol, codes.InvalidArgument},
	{ledger.ErrInvalidAmount, codes.InvalidArgument},
	{ledger.ErrSymbolMismatch, codes.InvalidArgument},
	{ledger.ErrOverflow, codes.InvalidArgument},
	{ledger.ErrMemoTooLong, codes.InvalidArgument},
	{account.ErrInvalidAccountName, codes.InvalidArgument},
	{ledger.ErrUnauthorized, codes.PermissionDenied},
	{authapp.ErrInvalidToken, codes.Unauthenticated},
	{ledger.ErrCurrencyNotFound, codes.NotFound},
	{ledger.ErrNoBalance, codes.NotFound},
	{ledger.ErrBalanceNotFound, codes.NotFound},
	{ledger.ErrAccountNotFound, codes.NotFound},
	{account.ErrAccountNotFound, codes.NotFound},
	{claim.ErrWindowNotFound, codes.NotFound},
	{transaction.ErrTransactionNotFound, codes.NotFound},
	{ledger.ErrDuplicateCurrency, codes.AlreadyExists},
	{account.ErrAccountAlreadyExists, codes.AlreadyExists},
	{ledger.ErrSupplyExceeded, codes.FailedPrecondition},
	{ledger.ErrInsufficientSupply, codes.FailedPrecondition},
	{ledger.ErrInsufficientBalance, codes.FailedPrecondition},
	{ledger.ErrNonZeroBalance, codes.FailedPrecondition},
	{ledger.ErrClaimPending, codes.FailedPrecondition},
	{lock.ErrLockTimeout, codes.Unavailable},
	{context.DeadlineExceeded, codes.DeadlineExceeded},
	{context.Canceled, codes.Canceled},
}

// handleError エラーをgRPCステータスコードに変換
func handleError(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, sc := range statusCodes {
		if errors.Is(err, sc.target) {
			return status.Error(sc.code, err.Error())
		}
	}
	if errors.Is(err, claim.ErrNonMonotonic) {
		return status.Error(codes.Internal, "ledger invariant violated")
	}
	return status.Error(codes.Internal, "internal server error")
}
