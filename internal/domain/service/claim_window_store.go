package service

import (
	"context"
	"errors"
	"fmt"

	"ubi-server/internal/domain/claim"
)

// ClaimWindowStore 請求ウィンドウを管理するドメインサービス
type ClaimWindowStore struct {
	windowRepo claim.WindowRepository
}

// NewClaimWindowStore 新しいClaimWindowStoreを作成
func NewClaimWindowStore(windowRepo claim.WindowRepository) *ClaimWindowStore {
	return &ClaimWindowStore{windowRepo: windowRepo}
}

// CreateWindow 請求ウィンドウを作成する
func (s *ClaimWindowStore) CreateWindow(ctx context.Context, owner, code string, seedDay claim.Day) (*claim.Window, error) {
	if _, err := s.windowRepo.Find(ctx, owner, code); err == nil {
		return nil, claim.ErrAlreadyExists
	} else if !errors.Is(err, claim.ErrWindowNotFound) {
		return nil, fmt.Errorf("failed to find claim window: %w", err)
	}

	window := claim.NewWindow(owner, code, seedDay)
	if err := s.windowRepo.Create(ctx, window); err != nil {
		return nil, err
	}
	return window, nil
}

// Get 請求ウィンドウを取得する
func (s *ClaimWindowStore) Get(ctx context.Context, owner, code string) (*claim.Window, error) {
	return s.windowRepo.Find(ctx, owner, code)
}

// Advance 最終請求日を進めて保存する
func (s *ClaimWindowStore) Advance(ctx context.Context, window *claim.Window, day claim.Day) error {
	if err := window.Advance(day); err != nil {
		return err
	}
	return s.windowRepo.Save(ctx, window)
}

// Erase 請求ウィンドウを削除する
func (s *ClaimWindowStore) Erase(ctx context.Context, owner, code string) error {
	if _, err := s.windowRepo.Find(ctx, owner, code); err != nil {
		return err
	}
	return s.windowRepo.Delete(ctx, owner, code)
}
