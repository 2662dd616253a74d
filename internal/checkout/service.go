package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/fixpointhq/fixpoint-backend/internal/cart"
	"github.com/fixpointhq/fixpoint-backend/internal/lifecycle"
	"github.com/fixpointhq/fixpoint-backend/pkg/db/models"
	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
	pkgerrors "github.com/fixpointhq/fixpoint-backend/pkg/errors"
	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CartSource is the slice of the cart engine checkout reads and clears.
type CartSource interface {
	Items() []cart.Item
	Clear()
}

type changePublisher interface {
	Publish(ctx context.Context, event lifecycle.Event) error
}

// Input carries the customer identity attached to the created orders.
type Input struct {
	SessionID     string
	CustomerName  string
	CustomerPhone string
}

// Service turns a session cart into pending order records. One record is
// created per cart line inside a single transaction; the cart is cleared
// only after the transaction commits.
type Service interface {
	Execute(ctx context.Context, source CartSource, input Input) ([]models.OrderRecord, error)
}

type service struct {
	tx   txRunner
	repo Repository
	feed changePublisher
	logg *logger.Logger
}

// NewService builds the checkout service.
func NewService(tx txRunner, repo Repository, feed changePublisher, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if feed == nil {
		return nil, fmt.Errorf("change feed required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{tx: tx, repo: repo, feed: feed, logg: logg}, nil
}

func (s *service) Execute(ctx context.Context, source CartSource, input Input) ([]models.OrderRecord, error) {
	if source == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart required")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}

	items := source.Items()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	sessionID := strings.TrimSpace(input.SessionID)
	records := make([]models.OrderRecord, 0, len(items))
	for _, item := range items {
		record := models.OrderRecord{
			CustomerName:  input.CustomerName,
			CustomerPhone: input.CustomerPhone,
			ProductName:   item.Name,
			PriceCents:    item.Price.Shift(2).Round(0).IntPart(),
			Quantity:      item.Quantity,
			Status:        enums.OrderStatusPending,
		}
		if sessionID != "" {
			record.CartSessionID = &sessionID
		}
		records = append(records, record)
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateOrderRecords(ctx, records)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order records")
	}

	source.Clear()

	for _, record := range records {
		event := lifecycle.Event{
			Table:     enums.RecordKindOrder.Table(),
			EventType: enums.ChangeEventInsert,
			RecordID:  record.ID,
		}
		if err := s.feed.Publish(ctx, event); err != nil {
			// The orders are committed; peers converge on their next refresh.
			s.logg.Error(ctx, "publishing order insert event failed", err)
		}
	}

	return records, nil
}
