package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro/internal/core/apperror"
	"bistro/internal/core/id"
	"bistro/internal/core/sequence"
	"bistro/internal/core/tx"
	"bistro/internal/core/types"
	"bistro/internal/domain"
)

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	docs     map[id.ID]*Order
	items    map[id.ID][]Item
	failNext error
}

func newMemRepo() *memRepo {
	return &memRepo{docs: map[id.ID]*Order{}, items: map[id.ID][]Item{}}
}

func (r *memRepo) Create(_ context.Context, doc *Order) error {
	if r.failNext != nil {
		return r.failNext
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, docID id.ID) (*Order, error) {
	doc, ok := r.docs[docID]
	if !ok || doc.DeletionMark {
		return nil, apperror.NewNotFound("order", docID)
	}
	cp := *doc
	return &cp, nil
}

func (r *memRepo) GetByNumber(_ context.Context, number int64) (*Order, error) {
	for _, doc := range r.docs {
		if doc.Number == number && !doc.DeletionMark {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("order", number)
}

func (r *memRepo) Update(_ context.Context, doc *Order) error {
	stored, ok := r.docs[doc.ID]
	if !ok {
		return apperror.NewNotFound("order", doc.ID)
	}
	if stored.Version != doc.Version {
		return apperror.NewConcurrentModification("order", doc.ID)
	}
	cp := *doc
	cp.Version++
	r.docs[doc.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, docID id.ID) error {
	doc, ok := r.docs[docID]
	if !ok {
		return apperror.NewNotFound("order", docID)
	}
	doc.DeletionMark = true
	return nil
}

func (r *memRepo) GetItems(_ context.Context, docID id.ID) ([]Item, error) {
	return append([]Item(nil), r.items[docID]...), nil
}

func (r *memRepo) SaveItems(_ context.Context, docID id.ID, items []Item) error {
	r.items[docID] = append([]Item(nil), items...)
	return nil
}

func (r *memRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Order], error) {
	var out []*Order
	for _, doc := range r.docs {
		out = append(out, doc)
	}
	return domain.ListResult[*Order]{Items: out, TotalCount: int64(len(out))}, nil
}

func newTestService() (*Service, *memRepo, *sequence.MockGenerator) {
	repo := newMemRepo()
	numbers := &sequence.MockGenerator{}
	return NewService(repo, numbers, tx.Noop{}), repo, numbers
}

func newTestOrder() *Order {
	o := NewOrder()
	o.TableNumber = 4
	o.AddItem("Biryani", types.MustMoney("320"), 1, "")
	o.AddItem("Raita", types.MustMoney("45.25"), 2, "")
	return o
}

func TestService_Create(t *testing.T) {
	svc, repo, numbers := newTestService()
	ctx := context.Background()

	first := newTestOrder()
	require.NoError(t, svc.Create(ctx, first))
	second := newTestOrder()
	require.NoError(t, svc.Create(ctx, second))

	assert.Equal(t, int64(1), first.Number)
	assert.Equal(t, int64(2), second.Number)
	assert.Equal(t, []string{NumberSequence, NumberSequence}, numbers.Calls)

	assert.Equal(t, "410.5", first.Subtotal.String())
	assert.Equal(t, "73.89", first.Tax.String())
	assert.Equal(t, "484.39", first.Total.String())

	stored, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	assert.True(t, stored.Total.Equal(first.Total))
	assert.Len(t, repo.docs, 2)
}

func TestService_SubCentPricesSurviveReload(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	doc := NewOrder()
	doc.TableNumber = 2
	doc.AddItem("Chai", types.MustMoney("33.333"), 3, "")
	require.NoError(t, svc.Create(ctx, doc))

	assert.Equal(t, "100", doc.Subtotal.String())
	assert.Equal(t, "18", doc.Tax.String())
	assert.Equal(t, "118", doc.Total.String())

	stored, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "33.333", stored.Items[0].Price.String())

	updated, err := svc.UpdateItems(ctx, doc.ID, stored.Items)
	require.NoError(t, err)
	assert.True(t, updated.Subtotal.Equal(doc.Subtotal))
	assert.True(t, updated.Total.Equal(doc.Total))
}

func TestService_CreateInvalidItemDoesNotConsumeNumber(t *testing.T) {
	svc, repo, numbers := newTestService()

	o := NewOrder()
	o.AddItem("Soup", types.MustMoney("-5"), 1, "")

	err := svc.Create(context.Background(), o)

	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidItem))
	assert.Empty(t, numbers.Calls)
	assert.Empty(t, repo.docs)
}

func TestService_CreateSequenceUnavailable(t *testing.T) {
	svc, repo, numbers := newTestService()
	numbers.NextFunc = func(context.Context, string) (int64, error) {
		return 0, apperror.NewStorageUnavailable(errors.New("dial tcp: refused"))
	}

	err := svc.Create(context.Background(), newTestOrder())

	require.Error(t, err)
	assert.True(t, apperror.IsStorageUnavailable(err))
	assert.Empty(t, repo.docs)
}

func TestService_CreateKeepsImportedNumber(t *testing.T) {
	svc, _, numbers := newTestService()

	o := newTestOrder()
	o.Number = 900
	require.NoError(t, svc.Create(context.Background(), o))

	assert.Equal(t, int64(900), o.Number)
	assert.Empty(t, numbers.Calls)
}

func TestService_CreateHooks(t *testing.T) {
	svc, repo, _ := newTestService()
	svc.Hooks().OnBeforeCreate(func(_ context.Context, o *Order) error {
		if o.TableNumber == 13 {
			return apperror.NewValidation("table 13 is closed")
		}
		return nil
	})
	var created []int64
	svc.Hooks().OnAfterCreate(func(_ context.Context, o *Order) error {
		created = append(created, o.Number)
		return errors.New("ignored")
	})

	closed := newTestOrder()
	closed.TableNumber = 13
	assert.Error(t, svc.Create(context.Background(), closed))

	require.NoError(t, svc.Create(context.Background(), newTestOrder()))
	assert.Equal(t, []int64{1}, created)
	assert.Len(t, repo.docs, 1)
}

func TestService_UpdateItems(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	o := newTestOrder()
	require.NoError(t, svc.Create(ctx, o))

	updated, err := svc.UpdateItems(ctx, o.ID, []Item{
		{Name: "Thali", Price: types.MustMoney("199.99"), Quantity: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, "599.97", updated.Subtotal.String())
	assert.Equal(t, "107.99", updated.Tax.String())
	assert.Equal(t, "707.96", updated.Total.String())
	assert.Equal(t, 2, updated.Version)
	assert.Len(t, repo.items[o.ID], 1)
	assert.Equal(t, int64(1), updated.Number)
}

func TestService_UpdateItemsRejectedWhenBilled(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	o := newTestOrder()
	require.NoError(t, svc.Create(ctx, o))
	require.NoError(t, svc.SetBilled(ctx, o.ID, true))

	_, err := svc.UpdateItems(ctx, o.ID, []Item{{Name: "Tea", Price: types.MustMoney("20"), Quantity: 1}})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeBusinessRule))
}

func TestService_SetStatusAndComplete(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	o := newTestOrder()
	require.NoError(t, svc.Create(ctx, o))

	got, err := svc.SetStatus(ctx, o.ID, StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, got.Status)

	_, err = svc.SetStatus(ctx, o.ID, StatusPending)
	assert.Error(t, err)

	require.NoError(t, svc.Complete(ctx, o.ID))
	got, err = svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestService_Delete(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	billed := newTestOrder()
	require.NoError(t, svc.Create(ctx, billed))
	require.NoError(t, svc.SetBilled(ctx, billed.ID, true))
	assert.Error(t, svc.Delete(ctx, billed.ID))

	open := newTestOrder()
	require.NoError(t, svc.Create(ctx, open))
	require.NoError(t, svc.Delete(ctx, open.ID))

	_, err := svc.GetByID(ctx, open.ID)
	assert.True(t, apperror.IsNotFound(err))
}
