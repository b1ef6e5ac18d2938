package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RootAnto/wayfinder/api"
	"github.com/RootAnto/wayfinder/core/cart"
	"github.com/RootAnto/wayfinder/core/pricing"
	"github.com/RootAnto/wayfinder/core/trip"
	"github.com/RootAnto/wayfinder/kvstore"
	"github.com/alexedwards/scs/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

type testEnv struct {
	server  *httptest.Server
	backend *httptest.Server
	client  *http.Client
	created *int32
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	var created int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&created, 1)
		json.NewEncoder(w).Encode(trip.Trip{ID: fmt.Sprintf("t%d", n)})
	}))
	t.Cleanup(backend.Close)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	session := scs.New()
	session.Lifetime = time.Hour

	cartStore := cart.NewStore(kvstore.NewMemory(), log)
	trips := trip.NewClient(backend.URL, time.Second)

	mux := api.APIMux(api.APIConfig{
		Log:      log,
		Session:  session,
		Cart:     cartStore,
		Trips:    trips,
		Checkout: trip.NewOrchestrator(cartStore, trips, log),
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	return &testEnv{
		server:  server,
		backend: backend,
		client:  &http.Client{Jar: jar},
		created: &created,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	r, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")

	w, err := e.client.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if out != nil {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s response: %v", method, path, err)
		}
	}
	return w.StatusCode
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()

	login := map[string]string{"id": "u1", "email": "ana@example.com", "name": "Ana"}
	if code := e.do(t, http.MethodPost, "/auth/login", login, nil); code != http.StatusNoContent {
		t.Fatalf("login answered status %d", code)
	}
}

func TestCartRequiresAuth(t *testing.T) {
	e := newTestEnv(t)

	if code := e.do(t, http.MethodGet, "/cart", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", code)
	}
}

func TestCartFlow(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	var items []cart.Item
	if code := e.do(t, http.MethodGet, "/cart", nil, &items); code != http.StatusOK {
		t.Fatalf("show cart answered status %d", code)
	}
	if len(items) != 0 {
		t.Fatalf("expected an empty cart, got %+v", items)
	}

	flight := cart.ItemNew{
		Type: cart.TypeFlight, Price: 100, Currency: "EUR",
		Flight: &cart.Flight{Origin: "MAD", Destination: "NYC",
			Departure: "2025-06-15", ReturnDate: "2025-06-18",
			Airline: "Iberia", Passengers: "2 Adultos y 1 Niños, Turista"},
	}
	hotel := cart.ItemNew{
		Type: cart.TypeHotel, Price: 50, Currency: "EUR",
		Hotel: &cart.Hotel{Name: "Hotel Central"},
	}

	var added cart.Item
	if code := e.do(t, http.MethodPut, "/cart/items", flight, &added); code != http.StatusCreated {
		t.Fatalf("add flight answered status %d", code)
	}
	if code := e.do(t, http.MethodPut, "/cart/items", hotel, nil); code != http.StatusCreated {
		t.Fatalf("add hotel answered status %d", code)
	}

	var quote pricing.Quote
	if code := e.do(t, http.MethodGet, "/cart/quote", nil, &quote); code != http.StatusOK {
		t.Fatalf("quote answered status %d", code)
	}

	want := pricing.Quote{Subtotal: 150, Tax: 31.5, ChildDiscount: 30, Total: 151.5}
	if diff := cmp.Diff(want, quote); diff != "" {
		t.Fatalf("unexpected quote (-want +got):\n%s", diff)
	}

	if code := e.do(t, http.MethodDelete, "/cart/items/"+added.ID, nil, nil); code != http.StatusNoContent {
		t.Fatal("could not remove the flight")
	}
	if e.do(t, http.MethodGet, "/cart", nil, &items); len(items) != 1 {
		t.Fatalf("expected 1 item after removal, got %+v", items)
	}
}

func TestCheckoutFlow(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	flight := cart.ItemNew{
		Type: cart.TypeFlight, Price: 100, Currency: "EUR",
		Flight: &cart.Flight{Origin: "MAD", Destination: "NYC",
			Departure: "2025-06-15", ReturnDate: "2025-06-18",
			Airline: "Iberia", Passengers: "1 Adulto, Turista"},
	}
	hotel := cart.ItemNew{
		Type: cart.TypeHotel, Price: 50, Currency: "EUR",
		Hotel: &cart.Hotel{Name: "Hotel Central"},
	}

	e.do(t, http.MethodPut, "/cart/items", flight, nil)
	e.do(t, http.MethodPut, "/cart/items", hotel, nil)

	var res trip.Result
	if code := e.do(t, http.MethodPost, "/checkout", nil, &res); code != http.StatusCreated {
		t.Fatalf("checkout answered status %d", code)
	}
	if len(res.TripIDs) != 1 {
		t.Fatalf("expected 1 trip, got %+v", res.TripIDs)
	}

	var items []cart.Item
	e.do(t, http.MethodGet, "/cart", nil, &items)
	if len(items) != 0 {
		t.Fatalf("expected the cart to be empty after checkout, got %+v", items)
	}

	// Checking out the now-empty cart is a validation error.
	if code := e.do(t, http.MethodPost, "/checkout", nil, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an empty cart, got %d", code)
	}
}

func TestSecondPackageRejected(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	pkg := cart.ItemNew{
		Type: cart.TypePackage, Price: 300, Currency: "EUR",
		Package: &cart.Package{
			Flight: cart.Flight{Origin: "MAD", Destination: "ROM",
				Departure: "2025-07-01", ReturnDate: "2025-07-03", Price: 200},
			Hotel: cart.Hotel{Name: "Trastevere Suites", Price: 100},
		},
	}

	if code := e.do(t, http.MethodPut, "/cart/items", pkg, nil); code != http.StatusCreated {
		t.Fatalf("first package answered status %d", code)
	}
	if code := e.do(t, http.MethodPut, "/cart/items", pkg, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for a second package, got %d", code)
	}
}

func TestLogoutDropsIdentity(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	if code := e.do(t, http.MethodPost, "/auth/logout", nil, nil); code != http.StatusNoContent {
		t.Fatal("logout failed")
	}
	if code := e.do(t, http.MethodGet, "/cart", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", code)
	}
}
