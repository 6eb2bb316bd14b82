package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bistro/internal/core/id"
	"bistro/internal/domain"
	"bistro/internal/domain/documents/bill"
	"bistro/internal/infrastructure/storage/postgres"
)

const billsTable = "bills"

// BillRepo implements bill.Repository.
type BillRepo struct {
	*BaseDocumentRepo[*bill.Bill]
}

var _ bill.Repository = (*BillRepo)(nil)

// NewBillRepo creates a new bill repository.
func NewBillRepo(txm *postgres.TxManager) *BillRepo {
	return &BillRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			billsTable,
			"bill",
			postgres.ExtractDBColumns[bill.Bill](),
			func() *bill.Bill { return &bill.Bill{} },
		),
	}
}

// GetByOrderID retrieves the live bill of an order.
func (r *BillRepo) GetByOrderID(ctx context.Context, orderID id.ID) (*bill.Bill, error) {
	return r.getOne(ctx, squirrel.Eq{"order_id": orderID}, orderID.String())
}

// List retrieves bills with filtering.
func (r *BillRepo) List(ctx context.Context, filter bill.ListFilter) (domain.ListResult[*bill.Bill], error) {
	return r.list(ctx, filter.ListFilter, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		return applyBillFilter(q, filter)
	})
}

func applyBillFilter(q squirrel.SelectBuilder, filter bill.ListFilter) squirrel.SelectBuilder {
	if filter.PaymentStatus != nil {
		q = q.Where(squirrel.Eq{"payment_status": string(*filter.PaymentStatus)})
	}
	if filter.PaymentMethod != nil {
		q = q.Where(squirrel.Eq{"payment_method": string(*filter.PaymentMethod)})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"date": *filter.DateTo})
	}
	return q
}
