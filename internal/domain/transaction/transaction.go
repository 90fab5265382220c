package transaction

import (
	"regexp"
	"time"

	"ubi-server/internal/domain/asset"
)

// MaxMemoBytes メモの最大バイト数
const MaxMemoBytes = 256

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]{1,64}$`)

// Transaction 台帳操作の履歴エンティティ
type Transaction struct {
	transactionID   string
	account         string
	counterparty    string // 送金先など（存在しない場合は空）
	transactionType TransactionType
	quantity        asset.Asset
	memo            string
	createdAt       time.Time
}

// NewTransaction 新しいTransactionエンティティを作成
func NewTransaction(
	transactionID string,
	account string,
	counterparty string,
	transactionType TransactionType,
	quantity asset.Asset,
	memo string,
) (*Transaction, error) {
	return RestoreTransaction(transactionID, account, counterparty, transactionType, quantity, memo, time.Now())
}

// RestoreTransaction 永続化された値からTransactionを復元
func RestoreTransaction(
	transactionID string,
	account string,
	counterparty string,
	transactionType TransactionType,
	quantity asset.Asset,
	memo string,
	createdAt time.Time,
) (*Transaction, error) {
	if !idRegex.MatchString(transactionID) {
		return nil, ErrInvalidTransaction
	}
	if account == "" {
		return nil, ErrInvalidTransaction
	}
	if !transactionType.Valid() {
		return nil, ErrInvalidTransaction
	}
	if !quantity.IsValid() || quantity.Amount() < 0 {
		return nil, ErrInvalidTransaction
	}
	if len(memo) > MaxMemoBytes {
		return nil, ErrInvalidTransaction
	}
	return &Transaction{
		transactionID:   transactionID,
		account:         account,
		counterparty:    counterparty,
		transactionType: transactionType,
		quantity:        quantity,
		memo:            memo,
		createdAt:       createdAt,
	}, nil
}

// TransactionID トランザクションIDを返す
func (t *Transaction) TransactionID() string {
	return t.transactionID
}

// Account 操作の主体アカウントを返す
func (t *Transaction) Account() string {
	return t.account
}

// Counterparty 相手アカウントを返す
func (t *Transaction) Counterparty() string {
	return t.counterparty
}

// TransactionType トランザクションタイプを返す
func (t *Transaction) TransactionType() TransactionType {
	return t.transactionType
}

// Quantity 数量を返す
func (t *Transaction) Quantity() asset.Asset {
	return t.quantity
}

// Memo メモを返す
func (t *Transaction) Memo() string {
	return t.memo
}

// CreatedAt 作成日時を返す
func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}

// MustNewTransaction テスト用ヘルパー: NewTransactionを呼び出し、エラーが発生した場合はpanicする
func MustNewTransaction(
	transactionID string,
	account string,
	counterparty string,
	transactionType TransactionType,
	quantity asset.Asset,
	memo string,
) *Transaction {
	tx, err := NewTransaction(transactionID, account, counterparty, transactionType, quantity, memo)
	if err != nil {
		panic(err)
	}
	return tx
}
