package cartview

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repairdepot/storefront/pkg/storefront"
)

type fakeCartAPI struct {
	mu      sync.Mutex
	cart    *storefront.Cart
	getErr  error
	mutErr  error
	gets    int
	updates []int
	removed []string
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeCartAPI) GetCart(context.Context) (*storefront.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.cart, nil
}

func (f *fakeCartAPI) UpdateCartItem(_ context.Context, itemID string, quantity int) (*storefront.Cart, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, quantity)
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	for i := range f.cart.Items {
		if f.cart.Items[i].ID == itemID {
			f.cart.Items[i].Quantity = quantity
		}
	}
	return f.cart, nil
}

func (f *fakeCartAPI) RemoveFromCart(_ context.Context, itemID string) (*storefront.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	f.removed = append(f.removed, itemID)
	kept := f.cart.Items[:0]
	for _, item := range f.cart.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	f.cart.Items = kept
	return f.cart, nil
}

type manualTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.stopped = true
	return true
}

type timerRecorder struct {
	timers []*manualTimer
}

func (r *timerRecorder) AfterFunc(d time.Duration, fn func()) Timer {
	t := &manualTimer{d: d, fn: fn}
	r.timers = append(r.timers, t)
	return t
}

func sampleCart(subtotalCents int64) *storefront.Cart {
	return &storefront.Cart{
		Items: []storefront.CartItem{
			{ID: "item-1", ProductID: "p1", Quantity: 1, Product: storefront.CartProduct{SKU: "SCR-IP13", Name: "iPhone 13 Screen", StockQty: 4}, Pricing: storefront.CartPricing{UnitPriceCents: subtotalCents, SubtotalCents: subtotalCents}},
		},
		Summary: storefront.CartSummary{SubtotalCents: subtotalCents, ItemCount: 1},
	}
}

func loadedModel(t *testing.T, api *fakeCartAPI, opts Options) *Model {
	t.Helper()
	m := New(api, opts)
	require.NoError(t, m.Load(context.Background()))
	return m
}

func TestUpdateQuantityNeverSendsBelowOne(t *testing.T) {
	api := &fakeCartAPI{cart: sampleCart(4000)}
	m := loadedModel(t, api, Options{})

	require.NoError(t, m.UpdateQuantity(context.Background(), "item-1", -5))
	require.NoError(t, m.UpdateQuantity(context.Background(), "item-1", 2))

	assert.Equal(t, []int{1, 3}, api.updates)
	assert.Equal(t, 3, api.gets, "each mutation reloads the snapshot")
	assert.False(t, m.ItemBusy("item-1"))
}

func TestUpdateQuantityRejectsDuplicateInFlight(t *testing.T) {
	api := &fakeCartAPI{cart: sampleCart(4000), block: make(chan struct{}), entered: make(chan struct{}, 1)}
	m := loadedModel(t, api, Options{})

	done := make(chan error, 1)
	go func() { done <- m.UpdateQuantity(context.Background(), "item-1", 1) }()
	<-api.entered

	assert.True(t, m.ItemBusy("item-1"))
	assert.ErrorIs(t, m.UpdateQuantity(context.Background(), "item-1", 1), ErrItemBusy)
	assert.ErrorIs(t, m.RemoveItem(context.Background(), "item-1"), ErrItemBusy)
	assert.True(t, m.View().Lines[0].Busy)

	close(api.block)
	require.NoError(t, <-done)
	assert.False(t, m.ItemBusy("item-1"))
}

func TestPaddedItemIDCannotBypassInFlightGuard(t *testing.T) {
	api := &fakeCartAPI{cart: sampleCart(4000), block: make(chan struct{}), entered: make(chan struct{}, 1)}
	m := loadedModel(t, api, Options{})

	done := make(chan error, 1)
	go func() { done <- m.UpdateQuantity(context.Background(), "item-1", 1) }()
	<-api.entered

	assert.ErrorIs(t, m.UpdateQuantity(context.Background(), "item-1 ", 1), ErrItemNotFound)
	assert.ErrorIs(t, m.RemoveItem(context.Background(), " item-1"), ErrItemNotFound)

	close(api.block)
	require.NoError(t, <-done)
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, []int{2}, api.updates)
	assert.Empty(t, api.removed)
}

func TestMutationFailureFillsErrorSlotAndClearsFlag(t *testing.T) {
	api := &fakeCartAPI{cart: sampleCart(4000)}
	m := loadedModel(t, api, Options{})
	api.mutErr = &storefront.APIError{Status: http.StatusConflict, Message: "Only 4 left in stock"}

	err := m.UpdateQuantity(context.Background(), "item-1", 10)
	require.Error(t, err)
	assert.Equal(t, "Only 4 left in stock", m.Error())
	assert.False(t, m.ItemBusy("item-1"))
	assert.Equal(t, 1, api.gets, "no reload after a failed mutation")
	assert.Len(t, m.View().Lines, 1)
}

func TestRemoveItemReloadsIntoEmptyState(t *testing.T) {
	api := &fakeCartAPI{cart: sampleCart(4000)}
	m := loadedModel(t, api, Options{})

	require.NoError(t, m.RemoveItem(context.Background(), "item-1"))
	v := m.View()
	require.NotNil(t, v.Empty)
	assert.Equal(t, "/shop", v.Empty.LinkHref)
	assert.Nil(t, v.Summary)
	assert.Empty(t, v.Lines)
	assert.ErrorIs(t, m.RemoveItem(context.Background(), "item-1"), ErrItemNotFound)
}

func TestLoadFailureKeepsPriorItems(t *testing.T) {
	api := &fakeCartAPI{cart: sampleCart(4000)}
	m := loadedModel(t, api, Options{})
	api.getErr = errors.New("network down")

	require.Error(t, m.Load(context.Background()))
	assert.Equal(t, "network down", m.Error())
	assert.Len(t, m.View().Lines, 1)
}

func TestLoadFailureWithoutItemsShowsEmpty(t *testing.T) {
	api := &fakeCartAPI{getErr: errors.New("network down")}
	m := New(api, Options{})

	require.Error(t, m.Load(context.Background()))
	v := m.View()
	assert.NotNil(t, v.Empty)
	assert.Equal(t, "network down", v.Error)
}

func TestUnauthorizedSwitchesToGuest(t *testing.T) {
	api := &fakeCartAPI{getErr: &storefront.APIError{Status: http.StatusUnauthorized, Message: "missing credentials"}}
	m := New(api, Options{})

	require.NoError(t, m.Load(context.Background()))
	assert.True(t, m.Guest())
	assert.Empty(t, m.Error())

	require.NoError(t, m.Load(context.Background()))
	assert.Equal(t, 1, api.gets, "guest mode skips the fetch")
	assert.True(t, m.Totals().Total.IsZero())
}

func TestGuestModeSkipsFetch(t *testing.T) {
	api := &fakeCartAPI{cart: sampleCart(4000)}
	m := New(api, Options{Guest: true})

	require.NoError(t, m.Load(context.Background()))
	assert.Zero(t, api.gets)
	assert.NotNil(t, m.View().Empty)
}

func TestApplyCouponCaseInsensitiveClearsInput(t *testing.T) {
	api := &fakeCartAPI{cart: sampleCart(4000)}
	m := loadedModel(t, api, Options{})

	m.SetCouponInput("save10")
	assert.True(t, m.ApplyCoupon())

	v := m.View()
	assert.Empty(t, v.CouponInput)
	assert.Equal(t, "SAVE10", v.Summary.CouponCode)
	assert.True(t, v.Summary.Totals.CouponDiscount.Equal(decimal.RequireFromString("4")))
	assert.True(t, v.Summary.Totals.Total.Equal(decimal.RequireFromString("36")))
}

func TestInvalidCouponErrorClearsAfterTimer(t *testing.T) {
	timers := &timerRecorder{}
	api := &fakeCartAPI{cart: sampleCart(4000)}
	m := loadedModel(t, api, Options{AfterFunc: timers.AfterFunc})

	m.SetCouponInput("FREESTUFF")
	assert.False(t, m.ApplyCoupon())
	assert.Equal(t, "Invalid coupon code", m.View().CouponError)
	assert.Equal(t, "FREESTUFF", m.View().CouponInput)

	require.Len(t, timers.timers, 1)
	assert.Equal(t, CouponErrorTTL, timers.timers[0].d)
	timers.timers[0].fn()
	assert.Empty(t, m.View().CouponError)
}

func TestNewerCouponErrorOutlivesOlderTimer(t *testing.T) {
	timers := &timerRecorder{}
	m := loadedModel(t, &fakeCartAPI{cart: sampleCart(4000)}, Options{AfterFunc: timers.AfterFunc})

	m.SetCouponInput("bad1")
	m.ApplyCoupon()
	m.SetCouponInput("bad2")
	m.ApplyCoupon()
	require.Len(t, timers.timers, 2)
	assert.True(t, timers.timers[0].stopped)

	timers.timers[0].fn()
	assert.Equal(t, "Invalid coupon code", m.View().CouponError)
	timers.timers[1].fn()
	assert.Empty(t, m.View().CouponError)
}

func TestRemoveCoupon(t *testing.T) {
	m := loadedModel(t, &fakeCartAPI{cart: sampleCart(4000)}, Options{})
	m.SetCouponInput("welcome")
	require.True(t, m.ApplyCoupon())
	m.RemoveCoupon()
	assert.Zero(t, m.Totals().CouponPercent)
}

func TestShippingEstimate(t *testing.T) {
	m := loadedModel(t, &fakeCartAPI{cart: sampleCart(4000)}, Options{})

	_, ok := m.SetZip("9410")
	assert.False(t, ok)
	assert.False(t, m.Totals().ShippingKnown)

	est, ok := m.SetZip("abcde")
	assert.True(t, ok, "zip content is not checked")
	assert.True(t, est.Cost.Equal(decimal.RequireFromString("9.99")))
	assert.True(t, m.Totals().Total.Equal(decimal.RequireFromString("49.99")))
}

func TestShippingFreeStrictlyAboveFifty(t *testing.T) {
	m := loadedModel(t, &fakeCartAPI{cart: sampleCart(5000)}, Options{})
	est, _ := m.SetZip("94107")
	assert.False(t, est.Free(), "exactly 50 still pays")

	m = loadedModel(t, &fakeCartAPI{cart: sampleCart(5001)}, Options{})
	est, _ = m.SetZip("94107")
	assert.True(t, est.Free())
}

func TestTotalsFollowReload(t *testing.T) {
	api := &fakeCartAPI{cart: sampleCart(4000)}
	m := loadedModel(t, api, Options{})
	m.SetZip("94107")
	assert.False(t, m.Totals().Shipping.IsZero())

	api.mu.Lock()
	api.cart = sampleCart(6000)
	api.mu.Unlock()
	require.NoError(t, m.Load(context.Background()))
	assert.True(t, m.Totals().Shipping.IsZero(), "shipping is derived from the current subtotal")
}

type fakeQuoter struct {
	got storefront.QuoteRequest
}

func (f *fakeQuoter) Quote(_ context.Context, req storefront.QuoteRequest) (*storefront.Quote, error) {
	f.got = req
	return &storefront.Quote{TotalCents: 4599}, nil
}

func TestQuoteSendsCurrentState(t *testing.T) {
	quoter := &fakeQuoter{}
	m := loadedModel(t, &fakeCartAPI{cart: sampleCart(4000)}, Options{Quoter: quoter})
	m.SetCouponInput("save10")
	m.ApplyCoupon()
	m.SetZip("94107")

	quote, err := m.Quote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4599), quote.TotalCents)
	assert.Equal(t, storefront.QuoteRequest{SubtotalCents: 4000, CouponCode: "SAVE10", Zip: "94107"}, quoter.got)
}
