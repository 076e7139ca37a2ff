package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/stashline/stashline-backend/pkg/db/models"
	"github.com/stashline/stashline-backend/pkg/enums"
	"github.com/stashline/stashline-backend/pkg/logger"
	"github.com/stashline/stashline-backend/pkg/outbox"
	"github.com/stashline/stashline-backend/pkg/outbox/payloads"
)

// PromotionExpiryJobParams configures the scheduled promotion sweep.
type PromotionExpiryJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	PromotionRepo promotionExpiryRepo
	Outbox        outboxEmitter
	Cache         promotionCacheInvalidator
}

type promotionExpiryRepo interface {
	FindOverdue(ctx context.Context, now time.Time) ([]models.Promotion, error)
	DeactivateTx(tx *gorm.DB, ids []uuid.UUID) error
}

type outboxEmitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type promotionCacheInvalidator interface {
	Invalidate(storeID uuid.UUID)
}

// NewPromotionExpiryJob constructs the promotion expiry cron job. Cache is
// optional; when present the store's promotion list is invalidated after each
// successful deactivation.
func NewPromotionExpiryJob(params PromotionExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.PromotionRepo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &promotionExpiryJob{
		logg:   params.Logger,
		db:     params.DB,
		repo:   params.PromotionRepo,
		outbox: params.Outbox,
		cache:  params.Cache,
		now:    time.Now,
	}, nil
}

type promotionExpiryJob struct {
	logg   *logger.Logger
	db     txRunner
	repo   promotionExpiryRepo
	outbox outboxEmitter
	cache  promotionCacheInvalidator
	now    func() time.Time
}

func (j *promotionExpiryJob) Name() string { return "promotion-expiry" }

// Run deactivates promotions whose end time has passed. Each promotion is
// handled in its own transaction so one failure does not block the rest of
// the sweep; failures are combined into the returned error.
func (j *promotionExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	overdue, err := j.repo.FindOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("query overdue promotions: %w", err)
	}

	var errs []error
	expired := 0
	for i := range overdue {
		if err := j.expirePromotion(ctx, &overdue[i], now); err != nil {
			errs = append(errs, fmt.Errorf("expire promotion %s: %w", overdue[i].ID, err))
			continue
		}
		expired++
		if j.cache != nil {
			j.cache.Invalidate(overdue[i].StoreID)
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"overdue": len(overdue),
		"expired": expired,
		"failed":  len(errs),
	})
	j.logg.Info(logCtx, "promotion expiry sweep complete")
	return multierr.Combine(errs...)
}

func (j *promotionExpiryJob) expirePromotion(ctx context.Context, promo *models.Promotion, now time.Time) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := j.repo.DeactivateTx(tx, []uuid.UUID{promo.ID}); err != nil {
			return err
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventPromotionExpired,
			AggregateType: enums.AggregatePromotion,
			AggregateID:   promo.ID,
			Data: payloads.PromotionExpiredEvent{
				PromotionID: promo.ID,
				StoreID:     promo.StoreID,
				Name:        promo.Name,
				EndTime:     *promo.EndTime,
				ExpiredAt:   now,
			},
			Version:    1,
			OccurredAt: now,
		}
		return j.outbox.EmitIfNotExists(ctx, tx, event)
	})
}
