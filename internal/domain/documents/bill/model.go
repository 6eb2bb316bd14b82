// Package bill provides the Bill document: the payable amount for one order.
package bill

import (
	"context"
	"time"

	"bistro/internal/core/apperror"
	"bistro/internal/core/entity"
	"bistro/internal/core/id"
	"bistro/internal/core/sequence"
	"bistro/internal/core/types"
	"bistro/internal/domain/billing"
	"bistro/internal/domain/documents/order"
)

// PaymentMethod is how the guest settled the bill.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentUPI   PaymentMethod = "upi"
	PaymentOther PaymentMethod = "other"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentOther:
		return true
	}
	return false
}

// PaymentStatus tracks settlement.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Bill represents the amount due for an order after tip and discount.
type Bill struct {
	entity.Document

	OrderID     id.ID `db:"order_id" json:"orderId"`
	OrderNumber int64 `db:"order_number" json:"orderNumber"`

	// Copied from the order when the bill is created
	Subtotal types.Money `db:"subtotal" json:"subtotal"`
	Tax      types.Money `db:"tax" json:"tax"`

	Tip      types.Money `db:"tip" json:"tip"`
	Discount types.Money `db:"discount" json:"discount"`

	// Total is derived by billing.ComputeBillTotals
	Total types.Money `db:"total" json:"total"`

	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod,omitempty"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`
	PaidAt        *time.Time    `db:"paid_at" json:"paidAt,omitempty"`
}

// NewBill creates an unpaid bill carrying the order's subtotal and tax.
func NewBill(o *order.Order) *Bill {
	return &Bill{
		Document:      entity.NewDocument(),
		OrderID:       o.ID,
		OrderNumber:   o.Number,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		Tip:           types.Zero(),
		Discount:      types.Zero(),
		Total:         o.Total,
		PaymentStatus: PaymentUnpaid,
	}
}

// DisplayNumber renders the bill number as BILL-00042.
func (b *Bill) DisplayNumber() string {
	return sequence.Format(NumberPrefix, b.Number, sequence.DefaultPadWidth)
}

// SetAdjustments replaces tip and discount. Totals are not touched until Recalculate.
func (b *Bill) SetAdjustments(tip, discount types.Money) {
	b.Tip = tip
	b.Discount = discount
}

// Recalculate derives Total from subtotal, tax, tip and discount.
// On error the previous total is left untouched.
func (b *Bill) Recalculate() error {
	totals, err := billing.ComputeBillTotals(billing.BillInput{
		Subtotal: b.Subtotal,
		Tax:      b.Tax,
		Tip:      b.Tip,
		Discount: b.Discount,
	})
	if err != nil {
		return err
	}
	b.Total = totals.Total
	return nil
}

// Validate implements entity.Validatable.
func (b *Bill) Validate(ctx context.Context) error {
	if err := b.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(b.OrderID) {
		return apperror.NewValidation("order is required").
			WithDetail("field", "orderId")
	}

	if b.PaymentMethod != "" && !b.PaymentMethod.IsValid() {
		return apperror.NewValidation("unknown payment method").
			WithDetail("field", "paymentMethod").
			WithDetail("paymentMethod", string(b.PaymentMethod))
	}

	return nil
}

// CanModify checks whether adjustments may still change.
func (b *Bill) CanModify() error {
	if b.PaymentStatus == PaymentPaid {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "Bill is already paid").
			WithDetail("bill_id", b.ID.String())
	}
	return nil
}

// MarkPaid settles the bill.
func (b *Bill) MarkPaid(method PaymentMethod, at time.Time) error {
	if err := b.CanModify(); err != nil {
		return err
	}
	if method == "" {
		method = b.PaymentMethod
	}
	if !method.IsValid() {
		return apperror.NewValidation("payment method is required").
			WithDetail("field", "paymentMethod")
	}

	b.PaymentMethod = method
	b.PaymentStatus = PaymentPaid
	paidAt := at.UTC()
	b.PaidAt = &paidAt
	return nil
}
