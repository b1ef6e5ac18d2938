package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/RootAnto/wayfinder/kvstore"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func newTestStore() *Store {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewStore(kvstore.NewMemory(), log)
}

func flightNew() ItemNew {
	return ItemNew{
		Type:     TypeFlight,
		Price:    100,
		Currency: "EUR",
		Flight: &Flight{
			Origin:      "MAD",
			Destination: "NYC",
			Departure:   "2025-06-15",
			ReturnDate:  "2025-06-18",
			Airline:     "Iberia",
			Passengers:  "2 Adultos, Turista",
		},
	}
}

func packageNew() ItemNew {
	return ItemNew{
		Type:     TypePackage,
		Price:    360,
		Currency: "EUR",
		Package: &Package{
			Flight: Flight{Origin: "MAD", Destination: "ROM", Departure: "2025-07-01",
				ReturnDate: "2025-07-05", Airline: "Vueling", Price: 200},
			Hotel:   Hotel{Name: "Trastevere Suites", Nights: 4, Price: 100},
			Vehicle: &Vehicle{Model: "Fiat 500", Days: 4, Price: 60},
		},
	}
}

func TestStoreAddRemoveClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	const user = "u1"

	f, err := s.Add(ctx, user, flightNew())
	if err != nil {
		t.Fatal(err)
	}
	if f.ID == "" {
		t.Fatal("expected an assigned id")
	}

	h, err := s.Add(ctx, user, ItemNew{
		Type: TypeHotel, Price: 50, Currency: "EUR",
		Hotel: &Hotel{Name: "Hotel Central", Nights: 3, PricePerDay: 16.67},
	})
	if err != nil {
		t.Fatal(err)
	}

	items := s.Items(ctx, user)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != f.ID || items[1].ID != h.ID {
		t.Fatal("insertion order was not preserved")
	}

	// Adding the hotel must not have touched the flight.
	if diff := cmp.Diff(f, items[0]); diff != "" {
		t.Fatalf("first item changed after a later add (-want +got):\n%s", diff)
	}

	if err := s.Remove(ctx, user, f.ID); err != nil {
		t.Fatal(err)
	}
	if items := s.Items(ctx, user); len(items) != 1 || items[0].ID != h.ID {
		t.Fatalf("expected only the hotel to remain, got %+v", items)
	}

	// Removing an unknown id is a no-op.
	if err := s.Remove(ctx, user, "nope"); err != nil {
		t.Fatal(err)
	}
	if items := s.Items(ctx, user); len(items) != 1 {
		t.Fatalf("no-op removal changed the cart: %+v", items)
	}

	if err := s.Clear(ctx, user); err != nil {
		t.Fatal(err)
	}
	if items := s.Items(ctx, user); len(items) != 0 {
		t.Fatalf("expected an empty cart after clear, got %+v", items)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	s := NewStore(kv, log)
	const user = "u1"

	added := make([]Item, 0, 2)
	for _, n := range []ItemNew{flightNew(), packageNew()} {
		it, err := s.Add(ctx, user, n)
		if err != nil {
			t.Fatal(err)
		}
		added = append(added, it)
	}

	// A fresh store over the same medium must reproduce an equal collection.
	reloaded := NewStore(kv, log).Items(ctx, user)
	if diff := cmp.Diff(added, reloaded); diff != "" {
		t.Fatalf("persisted cart did not round-trip (-want +got):\n%s", diff)
	}
}

func TestStoreIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	if _, err := s.Add(ctx, "u1", flightNew()); err != nil {
		t.Fatal(err)
	}

	if items := s.Items(ctx, "u2"); len(items) != 0 {
		t.Fatalf("u2 sees u1's cart: %+v", items)
	}
	if items := s.Items(ctx, ""); len(items) != 0 {
		t.Fatalf("anonymous user sees a cart: %+v", items)
	}
}

func TestStorePackageExclusivity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	const user = "u1"

	if _, err := s.Add(ctx, user, packageNew()); err != nil {
		t.Fatal(err)
	}

	_, err := s.Add(ctx, user, packageNew())
	if !errors.Is(err, ErrPackageExists) {
		t.Fatalf("expected ErrPackageExists, got %v", err)
	}

	// Individual items are still welcome next to a package.
	if _, err := s.Add(ctx, user, flightNew()); err != nil {
		t.Fatal(err)
	}
}

func TestStorePackagePriceInvariant(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	n := packageNew()
	n.Price = 300 // components sum to 360

	_, err := s.Add(ctx, "u1", n)
	if !errors.Is(err, ErrPackagePrice) {
		t.Fatalf("expected ErrPackagePrice, got %v", err)
	}
}

func TestStoreDetailMismatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	tests := []ItemNew{
		{Type: TypeFlight, Price: 10, Currency: "EUR", Hotel: &Hotel{Name: "x"}},
		{Type: TypeHotel, Price: 10, Currency: "EUR"},
		{Type: TypeVehicle, Price: 10, Currency: "EUR", Vehicle: &Vehicle{Model: "x"}, Flight: &Flight{}},
		{Type: "boat", Price: 10, Currency: "EUR"},
	}

	for i, n := range tests {
		if _, err := s.Add(ctx, "u1", n); !errors.Is(err, ErrDetailMismatch) {
			t.Errorf("case %d: expected ErrDetailMismatch, got %v", i, err)
		}
	}
}

func TestStoreCorruptStateResetsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	if err := kv.Set(ctx, "cart:u1", []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	s := NewStore(kv, log)
	if items := s.Items(ctx, "u1"); len(items) != 0 {
		t.Fatalf("expected corrupt state to degrade to an empty cart, got %+v", items)
	}

	// The cart is usable again after the reset.
	if _, err := s.Add(ctx, "u1", flightNew()); err != nil {
		t.Fatal(err)
	}
	if items := s.Items(ctx, "u1"); len(items) != 1 {
		t.Fatalf("expected 1 item, got %+v", items)
	}
}
