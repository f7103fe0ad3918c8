package quickorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/repairdepot/storefront/internal/localstore"
	"github.com/repairdepot/storefront/internal/pricing"
	"github.com/repairdepot/storefront/pkg/logger"
	"github.com/repairdepot/storefront/pkg/storefront"
)

// Line is one quick-order row. Placeholder lines come from a template and
// carry no product id or price until the order is placed.
type Line struct {
	SKU         string
	ProductID   string
	Name        string
	Quantity    int
	UnitPrice   decimal.Decimal
	Placeholder bool
}

// LineTotal is the unit price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ErrPlaceOrder aborts a batch. Lines before the failing one stay in the
// cart.
type ErrPlaceOrder struct {
	SKU   string
	Added int
	Cause error
}

func (e *ErrPlaceOrder) Error() string {
	return fmt.Sprintf("quick order stopped at %s after %d added: %v", e.SKU, e.Added, e.Cause)
}

func (e *ErrPlaceOrder) Unwrap() error {
	return e.Cause
}

var (
	// ErrEmptyOrder is returned by PlaceOrder with no lines.
	ErrEmptyOrder = errors.New("quick order has no lines")
	// ErrNoStore is returned by template operations without a local store.
	ErrNoStore = errors.New("no local store configured")
	// ErrTemplateName rejects a blank template name.
	ErrTemplateName = errors.New("template name is required")
)

// CartAdder is the add-to-cart endpoint.
type CartAdder interface {
	AddToCart(ctx context.Context, productID string, quantity int) (*storefront.Cart, error)
}

// TemplateStore persists saved SKU lists.
type TemplateStore interface {
	Templates() ([]localstore.Template, error)
	Template(name string) (localstore.Template, bool, error)
	SaveTemplate(t localstore.Template) error
	DeleteTemplate(name string) (bool, error)
}

// Options configures an Order.
type Options struct {
	Search    Searcher
	Cart      CartAdder
	Resolver  Resolver
	Templates TemplateStore
	Logger    *logger.Logger
	Now       func() time.Time
}

// Order builds a wholesale order by SKU before it is sent to the cart.
type Order struct {
	search    Searcher
	cart      CartAdder
	resolver  Resolver
	templates TemplateStore
	logg      *logger.Logger
	now       func() time.Time

	mu      sync.Mutex
	results []storefront.Product
	lines   []Line
}

// New builds an Order. The resolver defaults to a SearchResolver over the
// same searcher.
func New(opts Options) (*Order, error) {
	if opts.Cart == nil {
		return nil, errors.New("cart adder required")
	}
	o := &Order{
		search:    opts.Search,
		cart:      opts.Cart,
		resolver:  opts.Resolver,
		templates: opts.Templates,
		logg:      opts.Logger,
		now:       opts.Now,
	}
	if o.resolver == nil {
		if opts.Search == nil {
			return nil, errors.New("resolver or searcher required")
		}
		o.resolver = SearchResolver{Search: opts.Search}
	}
	if o.logg == nil {
		o.logg = logger.Nop()
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o, nil
}

// Search queries products and remembers the page for AddBySKU.
func (o *Order) Search(ctx context.Context, term string) ([]storefront.Product, error) {
	if o.search == nil {
		return nil, errors.New("no searcher configured")
	}
	page, err := o.search.SearchProducts(ctx, storefront.SearchParams{Search: strings.TrimSpace(term)})
	if err != nil {
		return nil, err
	}
	var products []storefront.Product
	if page != nil {
		products = append(products, page.Products...)
	}
	o.mu.Lock()
	o.results = products
	o.mu.Unlock()
	return append([]storefront.Product(nil), products...), nil
}

// Results returns the last search page.
func (o *Order) Results() []storefront.Product {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]storefront.Product(nil), o.results...)
}

// AddBySKU adds qty of sku when it is in the last search results. Anything
// else is a silent no-op reported as false.
func (o *Order) AddBySKU(sku string, qty int) bool {
	sku = strings.TrimSpace(sku)
	if sku == "" || qty < 1 {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, p := range o.results {
		if strings.EqualFold(p.SKU, sku) {
			o.addLocked(p, qty)
			return true
		}
	}
	return false
}

// AddProduct adds qty of p directly.
func (o *Order) AddProduct(p storefront.Product, qty int) {
	if qty < 1 {
		return
	}
	o.mu.Lock()
	o.addLocked(p, qty)
	o.mu.Unlock()
}

// SetQuantity replaces a line quantity. Values below one remove the line.
func (o *Order) SetQuantity(sku string, qty int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	i := o.indexLocked(sku)
	if i < 0 {
		return false
	}
	if qty < 1 {
		o.lines = append(o.lines[:i], o.lines[i+1:]...)
		return true
	}
	o.lines[i].Quantity = qty
	return true
}

// RemoveLine drops the line for sku.
func (o *Order) RemoveLine(sku string) bool {
	return o.SetQuantity(sku, 0)
}

// Lines returns a copy of the order lines.
func (o *Order) Lines() []Line {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Line(nil), o.lines...)
}

// Subtotal sums the known line prices. Placeholder lines count as zero.
func (o *Order) Subtotal() decimal.Decimal {
	o.mu.Lock()
	defer o.mu.Unlock()
	total := decimal.Zero
	for _, l := range o.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Clear drops every line.
func (o *Order) Clear() {
	o.mu.Lock()
	o.lines = nil
	o.mu.Unlock()
}

// PlaceOrder resolves and adds each line in order. The first failure stops
// the batch; nothing already added is rolled back.
func (o *Order) PlaceOrder(ctx context.Context) (int, error) {
	lines := o.Lines()
	if len(lines) == 0 {
		return 0, ErrEmptyOrder
	}

	added := 0
	for _, line := range lines {
		productID := line.ProductID
		if productID == "" || line.Placeholder {
			p, err := o.resolver.Resolve(ctx, line.SKU)
			if err != nil {
				return added, o.abort(ctx, line.SKU, added, err)
			}
			productID = p.ID
		}
		if _, err := o.cart.AddToCart(ctx, productID, line.Quantity); err != nil {
			return added, o.abort(ctx, line.SKU, added, err)
		}
		added++
	}

	o.Clear()
	o.logg.Info(o.logg.WithField(ctx, "lines", added), "quickorder.placed")
	return added, nil
}

// SaveTemplate stores the current SKUs and quantities under name.
func (o *Order) SaveTemplate(name string) error {
	if o.templates == nil {
		return ErrNoStore
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrTemplateName
	}
	lines := o.Lines()
	t := localstore.Template{Name: name, SavedAt: o.now().UTC(), Lines: make([]localstore.TemplateLine, 0, len(lines))}
	for _, l := range lines {
		t.Lines = append(t.Lines, localstore.TemplateLine{SKU: l.SKU, Name: l.Name, Quantity: l.Quantity})
	}
	return o.templates.SaveTemplate(t)
}

// LoadTemplate replaces the lines with zero-priced placeholders from the
// named template. Prices and ids stay unknown until PlaceOrder.
func (o *Order) LoadTemplate(name string) (bool, error) {
	if o.templates == nil {
		return false, ErrNoStore
	}
	t, ok, err := o.templates.Template(name)
	if err != nil || !ok {
		return false, err
	}
	lines := make([]Line, 0, len(t.Lines))
	for _, tl := range t.Lines {
		if tl.Quantity < 1 {
			continue
		}
		lines = append(lines, Line{
			SKU:         tl.SKU,
			Name:        tl.Name,
			Quantity:    tl.Quantity,
			UnitPrice:   decimal.Zero,
			Placeholder: true,
		})
	}
	o.mu.Lock()
	o.lines = lines
	o.mu.Unlock()
	return true, nil
}

// Templates lists saved templates.
func (o *Order) Templates() ([]localstore.Template, error) {
	if o.templates == nil {
		return nil, ErrNoStore
	}
	return o.templates.Templates()
}

// DeleteTemplate removes a saved template.
func (o *Order) DeleteTemplate(name string) (bool, error) {
	if o.templates == nil {
		return false, ErrNoStore
	}
	return o.templates.DeleteTemplate(name)
}

func (o *Order) addLocked(p storefront.Product, qty int) {
	if i := o.indexLocked(p.SKU); i >= 0 {
		line := &o.lines[i]
		line.Quantity += qty
		if line.Placeholder {
			line.ProductID = p.ID
			line.Name = p.Name
			line.UnitPrice = pricing.FromCents(p.PriceCents)
			line.Placeholder = false
		}
		return
	}
	o.lines = append(o.lines, Line{
		SKU:       p.SKU,
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  qty,
		UnitPrice: pricing.FromCents(p.PriceCents),
	})
}

func (o *Order) indexLocked(sku string) int {
	sku = strings.TrimSpace(sku)
	for i, l := range o.lines {
		if strings.EqualFold(l.SKU, sku) {
			return i
		}
	}
	return -1
}

func (o *Order) abort(ctx context.Context, sku string, added int, cause error) error {
	ctx = o.logg.WithFields(ctx, map[string]any{"sku": sku, "added": added})
	o.logg.Error(ctx, "quickorder.place_failed", cause)
	return &ErrPlaceOrder{SKU: sku, Added: added, Cause: cause}
}
