package account

import (
	"context"
	"errors"
	"regexp"
	"time"
)

var (
	// ErrInvalidAccountName アカウント名が無効
	ErrInvalidAccountName = errors.New("invalid account name")
	// ErrAccountNotFound アカウントが存在しない
	ErrAccountNotFound = errors.New("account does not exist")
	// ErrAccountAlreadyExists アカウントが既に存在する
	ErrAccountAlreadyExists = errors.New("account already exists")
)

var nameRegex = regexp.MustCompile(`^[a-z1-5.]{1,12}$`)

// ValidateName アカウント名を検証
func ValidateName(name string) error {
	if !nameRegex.MatchString(name) || name[len(name)-1] == '.' {
		return ErrInvalidAccountName
	}
	return nil
}

// Account 台帳に登録されたアカウント
type Account struct {
	name      string
	createdAt time.Time
}

// NewAccount 新しいAccountを作成
func NewAccount(name string) (*Account, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &Account{name: name, createdAt: time.Now()}, nil
}

// RestoreAccount 永続化された値からAccountを復元
func RestoreAccount(name string, createdAt time.Time) *Account {
	return &Account{name: name, createdAt: createdAt}
}

// Name アカウント名を返す
func (a *Account) Name() string {
	return a.name
}

// CreatedAt 作成日時を返す
func (a *Account) CreatedAt() time.Time {
	return a.createdAt
}

// Directory 既存アカウントのディレクトリ
type Directory interface {
	// Exists アカウントが存在するか
	Exists(ctx context.Context, name string) (bool, error)

	// Register アカウントを登録（既に存在する場合はErrAccountAlreadyExists）
	Register(ctx context.Context, account *Account) error
}
