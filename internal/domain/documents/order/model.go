// Package order provides the Order document: what a table asked for and what it costs.
package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"bistro/internal/core/apperror"
	"bistro/internal/core/entity"
	"bistro/internal/core/id"
	"bistro/internal/core/sequence"
	"bistro/internal/core/types"
	"bistro/internal/domain/billing"
)

// Status is the kitchen/service state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusServed    Status = "served"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions lists the statuses reachable by an explicit status change.
// Completion normally happens through bill payment (see Complete).
var transitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusServed, StatusCancelled},
	StatusServed:    {StatusCompleted, StatusCancelled},
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusServed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsFinal reports whether no further changes are possible.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Order represents a restaurant order with its line items and derived totals.
type Order struct {
	entity.Document

	TableNumber  int    `db:"table_number" json:"tableNumber,omitempty"`
	CustomerName string `db:"customer_name" json:"customerName,omitempty"`
	Status       Status `db:"status" json:"status"`

	// Billed is set once a bill references this order; items are frozen from then on.
	Billed bool `db:"billed" json:"billed"`

	// Totals (derived from Items by billing.ComputeOrderTotals)
	Subtotal types.Money `db:"subtotal" json:"subtotal"`
	Tax      types.Money `db:"tax" json:"tax"`
	Total    types.Money `db:"total" json:"total"`

	// Table part: ordered dishes
	Items []Item `db:"-" json:"items"`
}

// Item is one ordered dish.
type Item struct {
	LineID   id.ID       `db:"line_id" json:"lineId"`
	LineNo   int         `db:"line_no" json:"lineNo"`
	Name     string      `db:"name" json:"name"`
	Price    types.Money `db:"price" json:"price"`
	Quantity int         `db:"quantity" json:"quantity"`
	Notes    string      `db:"notes" json:"notes,omitempty"`
}

// NewOrder creates a new pending order.
func NewOrder() *Order {
	return &Order{
		Document: entity.NewDocument(),
		Status:   StatusPending,
		Subtotal: types.Zero(),
		Tax:      types.Zero(),
		Total:    types.Zero(),
		Items:    make([]Item, 0),
	}
}

// DisplayNumber renders the order number as ORD-00042.
func (o *Order) DisplayNumber() string {
	return sequence.Format(NumberPrefix, o.Number, sequence.DefaultPadWidth)
}

// AddItem appends a line. Totals are not touched until Recalculate.
func (o *Order) AddItem(name string, price types.Money, quantity int, notes string) {
	o.Items = append(o.Items, Item{
		LineID:   id.New(),
		LineNo:   len(o.Items) + 1,
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Notes:    notes,
	})
}

// SetItems replaces all lines and renumbers them.
func (o *Order) SetItems(items []Item) {
	o.Items = make([]Item, 0, len(items))
	for _, item := range items {
		o.AddItem(item.Name, item.Price, item.Quantity, item.Notes)
	}
}

// Recalculate derives Subtotal, Tax and Total from Items.
// On error the previous totals are left untouched.
func (o *Order) Recalculate() error {
	totals, err := billing.ComputeOrderTotals(lo.Map(o.Items, func(item Item, _ int) billing.LineItem {
		return billing.LineItem{Price: item.Price, Quantity: item.Quantity}
	}))
	if err != nil {
		return err
	}

	o.Subtotal = totals.Subtotal
	o.Tax = totals.Tax
	o.Total = totals.Total
	return nil
}

// Validate implements entity.Validatable.
func (o *Order) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if !o.Status.IsValid() {
		return apperror.NewValidation("unknown order status").
			WithDetail("field", "status").
			WithDetail("status", string(o.Status))
	}

	if o.TableNumber < 0 {
		return apperror.NewValidation("table number must not be negative").
			WithDetail("field", "tableNumber")
	}

	for _, item := range o.Items {
		if strings.TrimSpace(item.Name) == "" {
			return apperror.NewValidation("item name is required").
				WithDetail("field", "items").
				WithDetail("lineNo", item.LineNo)
		}
	}

	return nil
}

// CanModify checks whether items may still change.
func (o *Order) CanModify() error {
	if o.Billed {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "Order is already billed").
			WithDetail("order_id", o.ID.String())
	}
	if o.Status.IsFinal() {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			fmt.Sprintf("Cannot modify %s order", o.Status)).
			WithDetail("order_id", o.ID.String())
	}
	return nil
}

// TransitionTo moves the order to next if the change is allowed.
func (o *Order) TransitionTo(next Status) error {
	if !next.IsValid() {
		return apperror.NewValidation("unknown order status").
			WithDetail("status", string(next))
	}
	if next == StatusCancelled && o.Billed {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "Cannot cancel a billed order").
			WithDetail("order_id", o.ID.String())
	}
	if !lo.Contains(transitions[o.Status], next) {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, next)).
			WithDetail("order_id", o.ID.String())
	}

	o.Status = next
	return nil
}

// Complete closes the order after its bill was paid.
func (o *Order) Complete() error {
	if o.Status == StatusCancelled {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "Cannot complete a cancelled order").
			WithDetail("order_id", o.ID.String())
	}
	o.Status = StatusCompleted
	return nil
}
