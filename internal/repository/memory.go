package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"grindgears/internal/domain"

	"github.com/google/uuid"
)

// memory holds every collection of the in-memory repositories behind one
// lock, so cart and wishlist joins see a consistent catalog.
type memory struct {
	mu         sync.RWMutex
	categories []domain.Category
	gears      []Gear
	cart       []cartEntry
	wishlist   []string
	addresses  []domain.Address
	orders     []domain.Order
}

type cartEntry struct {
	gearID   string
	quantity int
}

// NewMemory returns repositories that keep everything in process memory
func NewMemory() *Repositories {
	m := &memory{}
	return &Repositories{
		Categories: memCategories{m},
		Gears:      memGears{m},
		Cart:       memCart{m},
		Wishlist:   memWishlist{m},
		Addresses:  memAddresses{m},
		Orders:     memOrders{m},
	}
}

// gear must be called with mu held.
func (m *memory) gear(id string) (Gear, bool) {
	for _, g := range m.gears {
		if g.Product.ID == id {
			return g, true
		}
	}
	return Gear{}, false
}

type memCategories struct{ *memory }

func (r memCategories) Create(ctx context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	r.categories = append(r.categories, *category)
	return nil
}

func (r memCategories) List(ctx context.Context) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]*domain.Category, 0, len(r.categories))
	for i := range r.categories {
		c := r.categories[i]
		categories = append(categories, &c)
	}
	sort.SliceStable(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r memCategories) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, ErrCategoryNotFound
}

type memGears struct{ *memory }

func (r memGears) Create(ctx context.Context, gear *Gear) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for _, c := range r.categories {
		if c.ID == gear.Category.ID {
			gear.Category = c
			found = true
			break
		}
	}
	if !found {
		return ErrCategoryNotFound
	}

	if gear.Product.ID == "" {
		gear.Product.ID = uuid.NewString()
	}
	gear.Product.Category = gear.Category.Name
	r.gears = append(r.gears, *gear)
	return nil
}

func (r memGears) List(ctx context.Context) ([]*Gear, error) {
	return r.filter(func(Gear) bool { return true }), nil
}

func (r memGears) ListByCategorySlug(ctx context.Context, slug string) ([]*Gear, error) {
	return r.filter(func(g Gear) bool { return g.Category.Slug == slug }), nil
}

func (r memGears) filter(keep func(Gear) bool) []*Gear {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gears := []*Gear{}
	for i := range r.gears {
		if g := r.gears[i]; keep(g) {
			gears = append(gears, &g)
		}
	}
	return gears
}

func (r memGears) FindByID(ctx context.Context, id string) (*Gear, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if g, ok := r.gear(id); ok {
		return &g, nil
	}
	return nil, ErrGearNotFound
}

type memCart struct{ *memory }

func (r memCart) List(ctx context.Context) ([]*CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := []*CartLine{}
	for _, e := range r.cart {
		if g, ok := r.gear(e.gearID); ok {
			lines = append(lines, &CartLine{Gear: g, Quantity: e.quantity})
		}
	}
	return lines, nil
}

func (r memCart) Add(ctx context.Context, gearID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.gear(gearID); !ok {
		return ErrGearNotFound
	}
	for i := range r.cart {
		if r.cart[i].gearID == gearID {
			r.cart[i].quantity += quantity
			return nil
		}
	}
	r.cart = append(r.cart, cartEntry{gearID: gearID, quantity: quantity})
	return nil
}

func (r memCart) SetQuantity(ctx context.Context, gearID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.cart {
		if r.cart[i].gearID == gearID {
			r.cart[i].quantity = quantity
			return nil
		}
	}
	return ErrCartItemNotFound
}

func (r memCart) Remove(ctx context.Context, gearID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.cart {
		if r.cart[i].gearID == gearID {
			r.cart = append(r.cart[:i], r.cart[i+1:]...)
			return nil
		}
	}
	return ErrCartItemNotFound
}

func (r memCart) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cart = nil
	return nil
}

type memWishlist struct{ *memory }

func (r memWishlist) List(ctx context.Context) ([]*Gear, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gears := []*Gear{}
	for _, id := range r.wishlist {
		if g, ok := r.gear(id); ok {
			gears = append(gears, &g)
		}
	}
	return gears, nil
}

func (r memWishlist) Add(ctx context.Context, gearID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.gear(gearID); !ok {
		return ErrGearNotFound
	}
	for _, id := range r.wishlist {
		if id == gearID {
			return nil
		}
	}
	r.wishlist = append(r.wishlist, gearID)
	return nil
}

func (r memWishlist) Remove(ctx context.Context, gearID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, id := range r.wishlist {
		if id == gearID {
			r.wishlist = append(r.wishlist[:i], r.wishlist[i+1:]...)
			return nil
		}
	}
	return ErrGearNotFound
}

type memAddresses struct{ *memory }

func (r memAddresses) Create(ctx context.Context, address *domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	address.ID = uuid.NewString()
	r.addresses = append(r.addresses, *address)
	return nil
}

func (r memAddresses) List(ctx context.Context) ([]*domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	addresses := make([]*domain.Address, 0, len(r.addresses))
	for i := range r.addresses {
		a := r.addresses[i]
		addresses = append(addresses, &a)
	}
	return addresses, nil
}

func (r memAddresses) Update(ctx context.Context, address *domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.addresses {
		if r.addresses[i].ID == address.ID {
			r.addresses[i] = *address
			return nil
		}
	}
	return ErrAddressNotFound
}

func (r memAddresses) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.addresses {
		if r.addresses[i].ID == id {
			r.addresses = append(r.addresses[:i], r.addresses[i+1:]...)
			return nil
		}
	}
	return ErrAddressNotFound
}

type memOrders struct{ *memory }

func (r memOrders) Create(ctx context.Context, order *domain.Order) error {
	for _, line := range order.Lines {
		if line.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = uuid.NewString()
	order.CreatedAt = time.Now().UTC()

	stored := *order
	stored.Lines = append([]domain.OrderLine{}, order.Lines...)
	r.orders = append(r.orders, stored)
	return nil
}

func (r memOrders) List(ctx context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*domain.Order, 0, len(r.orders))
	for i := len(r.orders) - 1; i >= 0; i-- {
		o := r.orders[i]
		o.Lines = append([]domain.OrderLine{}, o.Lines...)
		orders = append(orders, &o)
	}
	return orders, nil
}
