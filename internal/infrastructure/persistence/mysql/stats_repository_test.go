package mysql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"ubi-server/internal/domain/asset"
	"ubi-server/internal/domain/ledger"
)

var ubi = asset.MustNewSymbol("UBI", 4)

func newStatsRepo(t *testing.T) (*StatsRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &StatsRepository{db: &DB{DB: db}, tracer: otel.Tracer("test")}, mock
}

func TestStatsRepository_FindBySymbol(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      *ledger.CurrencyStats
		wantError error
	}{
		{
			name: "正常系: 通貨が見つかる",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"symbol_code", "symbol_precision", "supply", "max_supply", "issuer", "retire_is_public"}).
					AddRow("UBI", 4, 5000, 1000000, "ubi.jc", true)
				mock.ExpectQuery(`SELECT symbol_code, symbol_precision, supply, max_supply, issuer, retire_is_public`).
					WithArgs("UBI").
					WillReturnRows(rows)
			},
			want: ledger.MustRestoreCurrencyStats(asset.MustNew(5000, ubi), asset.MustNew(1000000, ubi), "ubi.jc", true),
		},
		{
			name: "異常系: 通貨が見つからない",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT symbol_code`).WithArgs("UBI").WillReturnError(sql.ErrNoRows)
			},
			wantError: ledger.ErrCurrencyNotFound,
		},
		{
			name: "異常系: DBエラー",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT symbol_code`).WithArgs("UBI").WillReturnError(sql.ErrConnDone)
			},
			wantError: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newStatsRepo(t)
			tt.setupMock(mock)

			got, err := repo.FindBySymbol(context.Background(), "UBI")
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStatsRepository_Create(t *testing.T) {
	stats, err := ledger.NewCurrencyStats("ubi.jc", asset.MustNew(1000000, ubi), true)
	require.NoError(t, err)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantError error
	}{
		{
			name: "正常系: 通貨を作成",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO currency_stats`).
					WithArgs("UBI", 4, 0, 1000000, "ubi.jc", true).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "異常系: 重複",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO currency_stats`).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'UBI'"})
			},
			wantError: ledger.ErrDuplicateCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newStatsRepo(t)
			tt.setupMock(mock)

			err := repo.Create(context.Background(), stats)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStatsRepository_Save(t *testing.T) {
	stats := ledger.MustRestoreCurrencyStats(asset.MustNew(7000, ubi), asset.MustNew(1000000, ubi), "ubi.jc", true)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantError error
	}{
		{
			name: "正常系: 供給量を保存",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE currency_stats`).
					WithArgs(7000, "UBI").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "異常系: 通貨が存在しない",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE currency_stats`).
					WithArgs(7000, "UBI").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantError: ledger.ErrCurrencyNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newStatsRepo(t)
			tt.setupMock(mock)

			err := repo.Save(context.Background(), stats)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
