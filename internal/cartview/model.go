package cartview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/repairdepot/storefront/internal/pricing"
	"github.com/repairdepot/storefront/pkg/logger"
	"github.com/repairdepot/storefront/pkg/storefront"
)

// CouponErrorTTL is how long an invalid coupon message stays visible.
const CouponErrorTTL = 3 * time.Second

var (
	// ErrItemBusy rejects a second request for a line that already has one
	// in flight.
	ErrItemBusy = errors.New("cart item request already in flight")
	// ErrItemNotFound is returned for an item id missing from the snapshot.
	ErrItemNotFound = errors.New("cart item not found")
)

// CartAPI is the remote cart store.
type CartAPI interface {
	GetCart(ctx context.Context) (*storefront.Cart, error)
	UpdateCartItem(ctx context.Context, itemID string, quantity int) (*storefront.Cart, error)
	RemoveFromCart(ctx context.Context, itemID string) (*storefront.Cart, error)
}

// Quoter asks the server for the authoritative total.
type Quoter interface {
	Quote(ctx context.Context, req storefront.QuoteRequest) (*storefront.Quote, error)
}

// Timer is the part of *time.Timer the model uses.
type Timer interface {
	Stop() bool
}

// Options configures a Model.
type Options struct {
	// Guest skips every remote call and presents an empty cart.
	Guest  bool
	Policy PricingPolicy
	Quoter Quoter
	// AfterFunc schedules the coupon error reset. Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) Timer
	Logger    *logger.Logger
}

// Model is the cart view-model. The mutex guards state only; remote calls
// run without it.
type Model struct {
	api       CartAPI
	policy    PricingPolicy
	quoter    Quoter
	afterFunc func(time.Duration, func()) Timer
	logg      *logger.Logger

	mu          sync.Mutex
	guest       bool
	loading     bool
	items       []storefront.CartItem
	summary     storefront.CartSummary
	busy        map[string]bool
	errMsg      string
	couponInput string
	coupon      *pricing.Coupon
	couponErr   string
	couponTimer Timer
	couponGen   int
	zip         string
}

// New builds a model over api.
func New(api CartAPI, opts Options) *Model {
	m := &Model{
		api:       api,
		policy:    opts.Policy,
		quoter:    opts.Quoter,
		afterFunc: opts.AfterFunc,
		logg:      opts.Logger,
		guest:     opts.Guest || api == nil,
		busy:      map[string]bool{},
	}
	if m.policy == nil {
		m.policy = LocalPolicy{}
	}
	if m.afterFunc == nil {
		m.afterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	if m.logg == nil {
		m.logg = logger.Nop()
	}
	return m
}

// Load refreshes the snapshot. On failure the message goes to the error
// slot and earlier items are kept when there were any. A 401 switches the
// model to guest mode.
func (m *Model) Load(ctx context.Context) error {
	m.mu.Lock()
	if m.guest {
		m.items = nil
		m.summary = storefront.CartSummary{}
		m.mu.Unlock()
		return nil
	}
	m.loading = true
	m.mu.Unlock()

	cart, err := m.api.GetCart(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		if storefront.IsUnauthorized(err) {
			m.guest = true
			m.items = nil
			m.summary = storefront.CartSummary{}
			m.errMsg = ""
			return nil
		}
		m.errMsg = err.Error()
		if len(m.items) == 0 {
			m.items = nil
			m.summary = storefront.CartSummary{}
		}
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "cartview.load_failed")
		return err
	}
	m.errMsg = ""
	m.applyLocked(cart)
	return nil
}

// UpdateQuantity moves a line by delta, never below one, then reloads.
func (m *Model) UpdateQuantity(ctx context.Context, itemID string, delta int) error {
	m.mu.Lock()
	item, ok := m.findLocked(itemID)
	if !ok {
		m.mu.Unlock()
		return ErrItemNotFound
	}
	if m.busy[itemID] {
		m.mu.Unlock()
		return ErrItemBusy
	}
	quantity := item.Quantity + delta
	if quantity < 1 {
		quantity = 1
	}
	m.busy[itemID] = true
	m.mu.Unlock()
	defer m.release(itemID)

	if _, err := m.api.UpdateCartItem(ctx, itemID, quantity); err != nil {
		m.fail(ctx, "cartview.update_failed", err)
		return err
	}
	return m.Load(ctx)
}

// RemoveItem deletes a line, then reloads.
func (m *Model) RemoveItem(ctx context.Context, itemID string) error {
	m.mu.Lock()
	if _, ok := m.findLocked(itemID); !ok {
		m.mu.Unlock()
		return ErrItemNotFound
	}
	if m.busy[itemID] {
		m.mu.Unlock()
		return ErrItemBusy
	}
	m.busy[itemID] = true
	m.mu.Unlock()
	defer m.release(itemID)

	if _, err := m.api.RemoveFromCart(ctx, itemID); err != nil {
		m.fail(ctx, "cartview.remove_failed", err)
		return err
	}
	return m.Load(ctx)
}

// ItemBusy reports whether a request for the line is in flight.
func (m *Model) ItemBusy(itemID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy[itemID]
}

// Error returns the current error message, or "".
func (m *Model) Error() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

// DismissError clears the error slot.
func (m *Model) DismissError() {
	m.mu.Lock()
	m.errMsg = ""
	m.mu.Unlock()
}

// Guest reports whether the model is in guest mode.
func (m *Model) Guest() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.guest
}

// SetCouponInput mirrors the coupon text field.
func (m *Model) SetCouponInput(code string) {
	m.mu.Lock()
	m.couponInput = code
	m.mu.Unlock()
}

// ApplyCoupon applies the code in the input field. A match is stored and
// the field cleared; anything else shows an error for CouponErrorTTL.
func (m *Model) ApplyCoupon() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	coupon, err := m.policy.Coupon(m.couponInput)
	if err != nil {
		m.couponErr = "Invalid coupon code"
		m.scheduleCouponResetLocked()
		return false
	}
	m.coupon = &coupon
	m.couponInput = ""
	m.clearCouponErrLocked()
	return true
}

// RemoveCoupon drops the applied coupon.
func (m *Model) RemoveCoupon() {
	m.mu.Lock()
	m.coupon = nil
	m.mu.Unlock()
}

// SetZip records the shipping zip and returns the estimate it yields.
func (m *Model) SetZip(zip string) (pricing.ShippingEstimate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zip = zip
	return m.policy.Shipping(zip, pricing.FromCents(m.summary.SubtotalCents))
}

// Totals is recomputed from current state on every call.
func (m *Model) Totals() pricing.Totals {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalsLocked()
}

// Quote asks the server to compose the total for the current state.
func (m *Model) Quote(ctx context.Context) (*storefront.Quote, error) {
	if m.quoter == nil {
		return nil, errors.New("no quoter configured")
	}
	m.mu.Lock()
	req := storefront.QuoteRequest{
		SubtotalCents:         m.summary.SubtotalCents,
		WholesaleSavingsCents: m.summary.WholesaleSavingsCents,
		Zip:                   m.zip,
	}
	if m.coupon != nil {
		req.CouponCode = m.coupon.Code
	}
	m.mu.Unlock()
	return m.quoter.Quote(ctx, req)
}

func (m *Model) totalsLocked() pricing.Totals {
	subtotal := pricing.FromCents(m.summary.SubtotalCents)
	in := pricing.TotalInput{
		Subtotal:         subtotal,
		WholesaleSavings: pricing.FromCents(m.summary.WholesaleSavingsCents),
		Coupon:           m.coupon,
	}
	if est, ok := m.policy.Shipping(m.zip, subtotal); ok {
		in.Shipping = &est
	}
	return m.policy.Compose(in)
}

func (m *Model) scheduleCouponResetLocked() {
	if m.couponTimer != nil {
		m.couponTimer.Stop()
	}
	m.couponGen++
	gen := m.couponGen
	m.couponTimer = m.afterFunc(CouponErrorTTL, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// A newer error owns the slot.
		if m.couponGen == gen {
			m.couponErr = ""
			m.couponTimer = nil
		}
	})
}

func (m *Model) clearCouponErrLocked() {
	if m.couponTimer != nil {
		m.couponTimer.Stop()
		m.couponTimer = nil
	}
	m.couponGen++
	m.couponErr = ""
}

func (m *Model) applyLocked(cart *storefront.Cart) {
	if cart == nil {
		m.items = nil
		m.summary = storefront.CartSummary{}
		return
	}
	m.items = append([]storefront.CartItem(nil), cart.Items...)
	m.summary = cart.Summary
}

func (m *Model) findLocked(itemID string) (storefront.CartItem, bool) {
	for _, item := range m.items {
		if item.ID == itemID {
			return item, true
		}
	}
	return storefront.CartItem{}, false
}

func (m *Model) release(itemID string) {
	m.mu.Lock()
	delete(m.busy, itemID)
	m.mu.Unlock()
}

func (m *Model) fail(ctx context.Context, event string, err error) {
	m.mu.Lock()
	m.errMsg = err.Error()
	m.mu.Unlock()
	m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), event)
}
