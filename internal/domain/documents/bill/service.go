package bill

import (
	"context"
	"fmt"
	"time"

	"bistro/internal/core/apperror"
	"bistro/internal/core/id"
	"bistro/internal/core/sequence"
	"bistro/internal/core/tx"
	"bistro/internal/core/types"
	"bistro/internal/domain"
	"bistro/internal/domain/documents/order"
	"bistro/pkg/logger"
)

// Orders is the part of the order service a bill needs.
type Orders interface {
	GetByID(ctx context.Context, docID id.ID) (*order.Order, error)
	SetBilled(ctx context.Context, docID id.ID, billed bool) error
	Complete(ctx context.Context, docID id.ID) error
}

// Request carries the caller-supplied part of a new bill.
type Request struct {
	Tip           types.Money
	Discount      types.Money
	PaymentMethod PaymentMethod
}

// Service provides business operations for bills.
type Service struct {
	repo      Repository
	orders    Orders
	numbers   sequence.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Bill]
	now       func() time.Time
}

// NewService creates a new bill service.
func NewService(repo Repository, orders Orders, numbers sequence.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		orders:    orders,
		numbers:   numbers,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Bill](),
		now:       time.Now,
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Bill] {
	return s.hooks
}

// CreateForOrder bills an order. The order must exist, must not be cancelled
// and must not already have a live bill.
func (s *Service) CreateForOrder(ctx context.Context, orderID id.ID, req Request) (*Bill, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == order.StatusCancelled {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "Cannot bill a cancelled order").
			WithDetail("order_id", orderID.String())
	}
	if o.Billed {
		return nil, apperror.NewConflict("Order already has a bill").
			WithDetail("order_id", orderID.String())
	}

	doc := NewBill(o)
	doc.SetAdjustments(req.Tip, req.Discount)
	doc.PaymentMethod = req.PaymentMethod

	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return nil, err
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}
	if err := doc.Recalculate(); err != nil {
		return nil, err
	}

	number, err := s.numbers.Next(ctx, NumberSequence)
	if err != nil {
		return nil, fmt.Errorf("generate bill number: %w", err)
	}
	doc.Number = number

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create bill: %w", err)
		}
		if err := s.orders.SetBilled(ctx, orderID, true); err != nil {
			return fmt.Errorf("mark order billed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "bill created",
		"id", doc.ID,
		"number", doc.Number,
		"order_number", doc.OrderNumber,
		"total", doc.Total.String())

	return doc, nil
}

// GetByID retrieves a bill.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Bill, error) {
	return s.repo.GetByID(ctx, docID)
}

// GetByOrderID retrieves the live bill of an order.
func (s *Service) GetByOrderID(ctx context.Context, orderID id.ID) (*Bill, error) {
	return s.repo.GetByOrderID(ctx, orderID)
}

// UpdateAdjustments replaces tip and discount of an unpaid bill.
func (s *Service) UpdateAdjustments(ctx context.Context, docID id.ID, tip, discount types.Money) (*Bill, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := doc.CanModify(); err != nil {
		return nil, err
	}

	doc.SetAdjustments(tip, discount)
	if err := doc.Recalculate(); err != nil {
		return nil, err
	}

	if err := s.save(ctx, doc, nil); err != nil {
		return nil, err
	}

	logger.Info(ctx, "bill adjusted",
		"id", doc.ID,
		"number", doc.Number,
		"tip", doc.Tip.String(),
		"discount", doc.Discount.String(),
		"total", doc.Total.String())

	return doc, nil
}

// MarkPaid settles the bill and completes its order in one transaction.
func (s *Service) MarkPaid(ctx context.Context, docID id.ID, method PaymentMethod) (*Bill, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := doc.MarkPaid(method, s.now()); err != nil {
		return nil, err
	}

	err = s.save(ctx, doc, func(ctx context.Context) error {
		if err := s.orders.Complete(ctx, doc.OrderID); err != nil {
			return fmt.Errorf("complete order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "bill paid",
		"id", doc.ID,
		"number", doc.Number,
		"method", string(doc.PaymentMethod),
		"total", doc.Total.String())

	return doc, nil
}

// save runs update hooks and persists the bill; also runs inside the same transaction.
func (s *Service) save(ctx context.Context, doc *Bill, also func(ctx context.Context) error) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update bill: %w", err)
		}
		if also != nil {
			return also(ctx)
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

// Delete soft-deletes an unpaid bill and releases its order for re-billing.
// The bill number stays consumed.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := doc.CanModify(); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, docID); err != nil {
			return fmt.Errorf("delete bill: %w", err)
		}
		if err := s.orders.SetBilled(ctx, doc.OrderID, false); err != nil {
			return fmt.Errorf("release order: %w", err)
		}
		return nil
	})
}

// List retrieves bills with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Bill], error) {
	return s.repo.List(ctx, filter)
}
