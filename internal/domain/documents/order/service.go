package order

import (
	"context"
	"fmt"

	"bistro/internal/core/id"
	"bistro/internal/core/sequence"
	"bistro/internal/core/tx"
	"bistro/internal/domain"
	"bistro/pkg/logger"
)

// Service provides business operations for orders.
type Service struct {
	repo      Repository
	numbers   sequence.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Order]
}

// NewService creates a new order service.
func NewService(repo Repository, numbers sequence.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numbers:   numbers,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Order](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Order] {
	return s.hooks
}

// Create numbers, prices and stores a new order.
//
// Totals are computed before a number is drawn, so an order with invalid items
// never consumes an order number.
func (s *Service) Create(ctx context.Context, doc *Order) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if err := doc.Recalculate(); err != nil {
		return err
	}

	if !doc.HasNumber() {
		number, err := s.numbers.Next(ctx, NumberSequence)
		if err != nil {
			return fmt.Errorf("generate order number: %w", err)
		}
		doc.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := s.repo.SaveItems(ctx, doc.ID, doc.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "order created",
		"id", doc.ID,
		"number", doc.Number,
		"total", doc.Total.String())

	return nil
}

// GetByID retrieves an order with its items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Order, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, doc)
}

// GetByNumber retrieves an order by its sequence number.
func (s *Service) GetByNumber(ctx context.Context, number int64) (*Order, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, doc)
}

func (s *Service) withItems(ctx context.Context, doc *Order) (*Order, error) {
	items, err := s.repo.GetItems(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items
	return doc, nil
}

// UpdateItems replaces the order lines and recomputes totals.
func (s *Service) UpdateItems(ctx context.Context, docID id.ID, items []Item) (*Order, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := doc.CanModify(); err != nil {
		return nil, err
	}

	doc.SetItems(items)

	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}
	if err := doc.Recalculate(); err != nil {
		return nil, err
	}

	if err := s.save(ctx, doc, true); err != nil {
		return nil, err
	}

	logger.Info(ctx, "order items updated",
		"id", doc.ID,
		"number", doc.Number,
		"total", doc.Total.String())

	return doc, nil
}

// SetStatus applies an explicit status transition.
func (s *Service) SetStatus(ctx context.Context, docID id.ID, status Status) (*Order, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := doc.TransitionTo(status); err != nil {
		return nil, err
	}

	if err := s.save(ctx, doc, false); err != nil {
		return nil, err
	}
	return doc, nil
}

// SetBilled freezes the order once a bill references it, and releases it
// again when that bill is deleted.
func (s *Service) SetBilled(ctx context.Context, docID id.ID, billed bool) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if doc.Billed == billed {
		return nil
	}
	doc.Billed = billed
	return s.save(ctx, doc, false)
}

// Complete closes the order after payment.
func (s *Service) Complete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := doc.Complete(); err != nil {
		return err
	}
	return s.save(ctx, doc, false)
}

// save runs update hooks and persists the header (and items when withItems).
func (s *Service) save(ctx context.Context, doc *Order, withItems bool) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if withItems {
			if err := s.repo.SaveItems(ctx, doc.ID, doc.Items); err != nil {
				return fmt.Errorf("save items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	doc.Touch()

	if err := s.hooks.RunAfterUpdate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}
	return nil
}

// Delete soft-deletes an order that has not been billed.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if doc.Billed {
		return doc.CanModify()
	}
	return s.repo.Delete(ctx, docID)
}

// List retrieves orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error) {
	return s.repo.List(ctx, filter)
}
