package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tradewatch/internal/model"
)

// Store keeps trades in a local SQLite file.
type Store struct {
	db *gorm.DB
}

// New opens (and creates, if needed) the SQLite database at path.
func New(path string) (*Store, error) {
	if !isMemory(path) {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrapf(err, "create database directory %s", dir)
			}
		}
	}

	db, err := gorm.Open(gormsqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", path)
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an already opened gorm handle.
func NewWithDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

func isMemory(path string) bool {
	return strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory")
}

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&tradeRow{}); err != nil {
		return errors.Wrap(err, "auto migrate trades")
	}
	return nil
}

func (s *Store) TradeExists(ctx context.Context, key model.TradeKey) (bool, error) {
	query := s.db.WithContext(ctx).Model(&tradeRow{}).
		Where("politician_name = ?", key.PoliticianName).
		Where("ticker = ?", key.Ticker).
		Where("transaction_type = ?", key.TransactionType)
	if key.TransactionDate == nil {
		query = query.Where("transaction_date IS NULL")
	} else {
		query = query.Where("transaction_date = ?", key.TransactionDate.UTC())
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "query trade by dedup key")
	}
	return count > 0, nil
}

func (s *Store) AddTrade(ctx context.Context, trade model.Trade) (model.Trade, error) {
	trade.ID = 0
	trade.CreatedAt = time.Now().UTC()
	row := newTradeRow(trade)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.Trade{}, errors.Wrap(err, "insert trade")
	}
	return row.toModel(), nil
}

func (s *Store) MarkNotified(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Model(&tradeRow{}).
		Where("id = ?", id).
		Update("notified", true).Error
	if err != nil {
		return errors.Wrapf(err, "mark trade %d notified", id)
	}
	return nil
}

func (s *Store) RecentTrades(ctx context.Context, politician string, days int) ([]model.Trade, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	query := s.db.WithContext(ctx).Model(&tradeRow{}).Where("disclosure_date >= ?", cutoff)
	if politician != "" {
		query = query.Where("politician_name = ?", politician)
	}

	var rows []tradeRow
	if err := query.Order("disclosure_date desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query recent trades")
	}
	return toModels(rows), nil
}

func (s *Store) UnnotifiedTrades(ctx context.Context) ([]model.Trade, error) {
	var rows []tradeRow
	if err := s.db.WithContext(ctx).Where("notified = ?", false).Order("id asc").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query unnotified trades")
	}
	return toModels(rows), nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql handle")
	}
	return sqlDB.Close()
}

func toModels(rows []tradeRow) []model.Trade {
	items := make([]model.Trade, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items
}
