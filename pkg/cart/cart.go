package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// StorageKey is the local storage key holding the serialized cart.
const StorageKey = "carrito"

var (
	ErrNotInCart    = errors.New("item not in cart")
	ErrInvalidPrice = errors.New("price must be >= 0")
)

type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

type Item struct {
	ID       uint64          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
	Category string          `json:"category,omitempty"`
	Quantity int             `json:"quantity"`
}

func (it Item) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Cart is an ordered list of items kept in local storage. Every mutation is
// written through; when the write fails the in-memory state is rolled back.
type Cart struct {
	mu      sync.Mutex
	storage Storage
	items   []Item
}

// Load restores the cart from storage. A missing or unreadable value yields an
// empty cart, and lines without a positive quantity are dropped.
func Load(storage Storage) *Cart {
	c := &Cart{storage: storage}
	raw, ok := storage.Get(StorageKey)
	if !ok || raw == "" {
		return c
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return c
	}
	for _, it := range items {
		if it.Quantity > 0 {
			c.items = append(c.items, it)
		}
	}
	return c
}

// Add puts one unit of p in the cart. A line with the same id, or the same
// name, is incremented instead of duplicated.
func (c *Cart) Add(p Item) (Item, error) {
	if p.Price.IsNegative() {
		return Item{}, ErrInvalidPrice
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(p); i >= 0 {
		var out Item
		err := c.mutate(func(items []Item) []Item {
			items[i].Quantity++
			out = items[i]
			return items
		})
		return out, err
	}

	p.Quantity = 1
	err := c.mutate(func(items []Item) []Item {
		return append(items, p)
	})
	return p, err
}

func (c *Cart) Increment(id uint64) (Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexByID(id)
	if i < 0 {
		return Item{}, fmt.Errorf("%w: %d", ErrNotInCart, id)
	}
	var out Item
	err := c.mutate(func(items []Item) []Item {
		items[i].Quantity++
		out = items[i]
		return items
	})
	return out, err
}

// Decrement takes one unit away. A line at quantity 1 is removed, in which case
// removed is true.
func (c *Cart) Decrement(id uint64) (removed bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexByID(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %d", ErrNotInCart, id)
	}
	if c.items[i].Quantity > 1 {
		return false, c.mutate(func(items []Item) []Item {
			items[i].Quantity--
			return items
		})
	}
	return true, c.mutate(func(items []Item) []Item {
		return append(items[:i], items[i+1:]...)
	})
}

func (c *Cart) Remove(id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexByID(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotInCart, id)
	}
	return c.mutate(func(items []Item) []Item {
		return append(items[:i], items[i+1:]...)
	})
}

func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.mutate(func([]Item) []Item { return nil })
}

func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item(nil), c.items...)
}

func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Count is the number of units, shown on the cart badge.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) indexByID(id uint64) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) indexOf(p Item) int {
	for i, it := range c.items {
		if it.ID == p.ID {
			return i
		}
		if p.Name != "" && it.Name == p.Name {
			return i
		}
	}
	return -1
}

// mutate applies fn to a copy of the items and persists the result. The copy
// becomes current only after storage accepted it. Caller holds mu.
func (c *Cart) mutate(fn func([]Item) []Item) error {
	next := fn(append([]Item(nil), c.items...))

	raw, err := json.Marshal(nonNil(next))
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.storage.Set(StorageKey, string(raw)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	c.items = next
	return nil
}

func nonNil(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return items
}
