package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RootAnto/wayfinder/kvstore"
	"github.com/RootAnto/wayfinder/validate"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	// ErrPackageExists is returned when a second package is added to a cart.
	ErrPackageExists = errors.New("cart already holds a package")

	// ErrDetailMismatch is returned when the detail struct carried by a new
	// item does not match its type tag.
	ErrDetailMismatch = errors.New("item detail does not match its type")

	// ErrPackagePrice is returned when a package price differs from the sum
	// of its component prices.
	ErrPackagePrice = errors.New("package price does not equal the sum of its components")
)

// Store holds one ordered item collection per user on top of a pluggable
// key-value medium. Missing or corrupt persisted state degrades to an empty
// cart and is never surfaced as an error.
type Store struct {
	kv  kvstore.Store
	log logrus.FieldLogger
}

func NewStore(kv kvstore.Store, log logrus.FieldLogger) *Store {
	return &Store{kv: kv, log: log}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

// Items returns a copy of the user's cart, order preserved.
func (s *Store) Items(ctx context.Context, userID string) []Item {
	if userID == "" {
		return nil
	}

	raw, ok, err := s.kv.Get(ctx, cartKey(userID))
	if err != nil {
		s.log.WithField("user_id", userID).Warnf("loading cart: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		s.log.WithField("user_id", userID).Warnf("resetting corrupt cart: %v", err)
		return nil
	}

	return items
}

// Add validates the new item against the cart invariants, assigns it an id
// and appends it to the user's collection.
func (s *Store) Add(ctx context.Context, userID string, n ItemNew) (Item, error) {
	item := Item{
		ID:       validate.GenerateID(),
		Type:     n.Type,
		Price:    n.Price,
		Currency: n.Currency,
		Flight:   n.Flight,
		Hotel:    n.Hotel,
		Vehicle:  n.Vehicle,
		Package:  n.Package,
	}

	if err := checkDetail(item); err != nil {
		return Item{}, err
	}

	items := s.Items(ctx, userID)

	if item.Type == TypePackage {
		for _, it := range items {
			if it.Type == TypePackage {
				return Item{}, ErrPackageExists
			}
		}
	}

	items = append(items, item)
	if err := s.persist(ctx, userID, items); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Remove drops the item with the given id. A missing id is a no-op.
func (s *Store) Remove(ctx context.Context, userID string, itemID string) error {
	items := s.Items(ctx, userID)

	kept := items[:0]
	for _, it := range items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}

	if len(kept) == len(items) {
		return nil
	}

	return s.persist(ctx, userID, kept)
}

// Clear empties the collection and drops the persisted key.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.kv.Remove(ctx, cartKey(userID)); err != nil {
		return fmt.Errorf("clearing cart for user[%s]: %w", userID, err)
	}
	return nil
}

func (s *Store) persist(ctx context.Context, userID string, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshaling cart for user[%s]: %w", userID, err)
	}

	if err := s.kv.Set(ctx, cartKey(userID), raw); err != nil {
		return fmt.Errorf("persisting cart for user[%s]: %w", userID, err)
	}
	return nil
}

// checkDetail verifies that exactly the detail struct named by the type tag
// is present, and that a package price equals the sum of its component
// prices at two decimals.
func checkDetail(item Item) error {
	switch item.Type {
	case TypeFlight:
		if item.Flight == nil || item.Hotel != nil || item.Vehicle != nil || item.Package != nil {
			return ErrDetailMismatch
		}

	case TypeHotel:
		if item.Hotel == nil || item.Flight != nil || item.Vehicle != nil || item.Package != nil {
			return ErrDetailMismatch
		}

	case TypeVehicle:
		if item.Vehicle == nil || item.Flight != nil || item.Hotel != nil || item.Package != nil {
			return ErrDetailMismatch
		}

	case TypePackage:
		if item.Package == nil || item.Flight != nil || item.Hotel != nil || item.Vehicle != nil {
			return ErrDetailMismatch
		}

		sum := decimal.NewFromFloat(item.Package.Flight.Price).
			Add(decimal.NewFromFloat(item.Package.Hotel.Price))
		if v := item.Package.Vehicle; v != nil {
			sum = sum.Add(decimal.NewFromFloat(v.Price))
		}

		if !sum.Round(2).Equal(decimal.NewFromFloat(item.Price).Round(2)) {
			return ErrPackagePrice
		}

	default:
		return ErrDetailMismatch
	}

	return nil
}
