package repositories

import (
	"context"
	"time"

	"github.com/ellavondegurechaff/hyelevel/hyelevel/database/models"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/logger"
	"github.com/uptrace/bun"
)

type LedgerRepository interface {
	GetAll(ctx context.Context) ([]*models.XPLedger, error)
	UpsertAll(ctx context.Context, ledgers []*models.XPLedger) error
}

type ledgerRepository struct {
	db *bun.DB
}

func NewLedgerRepository(db *bun.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetAll(ctx context.Context) ([]*models.XPLedger, error) {
	start := time.Now()
	var ledgers []*models.XPLedger
	err := r.db.NewSelect().
		Model(&ledgers).
		Scan(ctx)
	logger.LogQuery("xp_ledgers.GetAll", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return ledgers, nil
}

func (r *ledgerRepository) UpsertAll(ctx context.Context, ledgers []*models.XPLedger) error {
	if len(ledgers) == 0 {
		return nil
	}

	start := time.Now()
	_, err := r.db.NewInsert().
		Model(&ledgers).
		On("CONFLICT (guild_id, member_id) DO UPDATE").
		Set("total_xp = EXCLUDED.total_xp").
		Set("text_xp = EXCLUDED.text_xp").
		Set("voice_xp = EXCLUDED.voice_xp").
		Exec(ctx)
	logger.LogQuery("xp_ledgers.UpsertAll", time.Since(start), err)
	return err
}
