package tracker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tradewatch/internal/config"
	"tradewatch/internal/database"
	"tradewatch/internal/model"
	"tradewatch/internal/notify"
	"tradewatch/internal/source"
)

// Tracker runs the fetch, dedup, persist and notify cycle.
type Tracker struct {
	logger   *zap.Logger
	repo     database.Repository
	source   source.Client
	notifier notify.Notifier
	cfg      *config.Config
	now      func() time.Time
}

// NewTracker creates a new instance of the Tracker.
func NewTracker(logger *zap.Logger, repo database.Repository, src source.Client, notifier notify.Notifier, cfg *config.Config) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		logger:   logger,
		repo:     repo,
		source:   src,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// CheckForNewTrades runs one complete cycle. Failures are logged, never
// returned, so a scheduler can keep calling it.
func (t *Tracker) CheckForNewTrades(ctx context.Context) {
	logger := t.logger.With(zap.String("cycle_id", uuid.NewString()))
	defer func() {
		if r := recover(); r != nil {
			logger.Error("trade check panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	start := t.now()
	logger.Info("checking for new trades", zap.String("source", t.source.GetName()))

	newTrades := t.processNewTrades(ctx, logger)
	if len(newTrades) == 0 {
		logger.Info("no new trades found", zap.Duration("elapsed", t.now().Sub(start)))
		return
	}

	logger.Info("found new trades", zap.Int("count", len(newTrades)))
	// Trades already persisted are announced even when shutdown has begun.
	if err := t.sendNotifications(context.WithoutCancel(ctx), logger, newTrades); err != nil {
		logger.Error("failed to send notifications", zap.Error(err))
	}
	logger.Info("check completed", zap.Duration("elapsed", t.now().Sub(start)))
}

// ProcessNewTrades fetches the feed and persists every tracked trade not seen
// before. The returned slice holds the stored rows, in feed order.
func (t *Tracker) ProcessNewTrades(ctx context.Context) []model.Trade {
	return t.processNewTrades(ctx, t.logger)
}

func (t *Tracker) processNewTrades(ctx context.Context, logger *zap.Logger) []model.Trade {
	raw, err := t.source.FetchDisclosures(ctx)
	if err != nil {
		logger.Error("failed to fetch trades", zap.String("source", t.source.GetName()), zap.Error(err))
		return nil
	}
	if len(raw) == 0 {
		logger.Info("no trades fetched")
		return nil
	}
	logger.Info("fetched transactions", zap.Int("total", len(raw)))

	candidates := make([]model.Trade, 0, len(raw))
	for i, record := range raw {
		trade, err := t.normalize(record)
		if err != nil {
			logger.Error("failed to normalize trade", zap.Int("index", i), zap.Error(err))
			continue
		}
		candidates = append(candidates, trade)
	}
	tracked := FilterTracked(candidates, t.cfg.Politicians)
	logger.Debug("filtered transactions", zap.Int("tracked", len(tracked)))

	var newTrades []model.Trade
	for i, trade := range tracked {
		if err := ctx.Err(); err != nil {
			logger.Warn("cycle interrupted", zap.Int("processed", i), zap.Int("total", len(tracked)))
			break
		}

		exists, err := t.repo.TradeExists(ctx, trade.Key())
		if err != nil {
			logger.Error("failed to check trade", zap.String("politician", trade.PoliticianName), zap.String("ticker", trade.Ticker), zap.Error(err))
			continue
		}
		if exists {
			continue
		}

		stored, err := t.repo.AddTrade(ctx, trade)
		if err != nil {
			logger.Error("failed to store trade", zap.String("politician", trade.PoliticianName), zap.String("ticker", trade.Ticker), zap.Error(err))
			continue
		}
		newTrades = append(newTrades, stored)
		logger.Info("new trade",
			zap.Int64("id", stored.ID),
			zap.String("politician", stored.PoliticianName),
			zap.String("ticker", stored.Ticker),
			zap.String("type", stored.TransactionType),
		)
	}
	return newTrades
}

// normalize guards NormalizeTrade so a bad record only costs itself.
func (t *Tracker) normalize(record model.RawDisclosure) (trade model.Trade, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("normalize panicked: %v", r)
		}
	}()
	return NormalizeTrade(record, t.now()), nil
}

// SendNotifications delivers one alert for trades and, on success, marks each
// of them notified. Disabled notifications count as success.
func (t *Tracker) SendNotifications(ctx context.Context, trades []model.Trade) error {
	return t.sendNotifications(ctx, t.logger, trades)
}

func (t *Tracker) sendNotifications(ctx context.Context, logger *zap.Logger, trades []model.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	if !t.cfg.Email.Enabled {
		logger.Info("email notifications disabled")
		return nil
	}

	if err := t.notifier.SendTradeAlert(ctx, trades); err != nil {
		return err
	}

	var failed int
	for _, trade := range trades {
		if err := t.repo.MarkNotified(ctx, trade.ID); err != nil {
			failed++
			logger.Error("failed to mark trade notified", zap.Int64("id", trade.ID), zap.Error(err))
		}
	}
	logger.Info("notified trades", zap.Int("count", len(trades)-failed))
	if failed > 0 {
		return errors.Errorf("alert sent but %d of %d trades could not be marked notified", failed, len(trades))
	}
	return nil
}
