package repositories

import (
	"context"
	"time"

	"github.com/ellavondegurechaff/hyelevel/hyelevel/database/models"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/logger"
	"github.com/uptrace/bun"
)

type MemberMetaRepository interface {
	GetAll(ctx context.Context) ([]*models.MemberMeta, error)
	UpsertAll(ctx context.Context, metas []*models.MemberMeta) error
}

type memberMetaRepository struct {
	db *bun.DB
}

func NewMemberMetaRepository(db *bun.DB) MemberMetaRepository {
	return &memberMetaRepository{db: db}
}

func (r *memberMetaRepository) GetAll(ctx context.Context) ([]*models.MemberMeta, error) {
	start := time.Now()
	var metas []*models.MemberMeta
	err := r.db.NewSelect().
		Model(&metas).
		Scan(ctx)
	logger.LogQuery("member_metas.GetAll", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return metas, nil
}

func (r *memberMetaRepository) UpsertAll(ctx context.Context, metas []*models.MemberMeta) error {
	if len(metas) == 0 {
		return nil
	}

	start := time.Now()
	_, err := r.db.NewInsert().
		Model(&metas).
		On("CONFLICT (guild_id, member_id) DO UPDATE").
		Set("joined_at = EXCLUDED.joined_at").
		Set("newbie_since = EXCLUDED.newbie_since").
		Set("original_nick = EXCLUDED.original_nick").
		Exec(ctx)
	logger.LogQuery("member_metas.UpsertAll", time.Since(start), err)
	return err
}
