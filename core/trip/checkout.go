package trip

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/RootAnto/wayfinder/core/cart"
	"github.com/RootAnto/wayfinder/core/claims"
	"github.com/sirupsen/logrus"
)

var (
	// ErrCheckoutInFlight is returned when a user starts a second checkout
	// while one is still running.
	ErrCheckoutInFlight = errors.New("a checkout is already in flight for this user")

	// ErrNothingToBook is returned when the cart yields no bookable trip.
	ErrNothingToBook = errors.New("cart holds no bookable trip")
)

// CheckoutError reports a failed submission along with how many trips were
// already created. Created trips are not rolled back; the backend owns any
// compensating action.
type CheckoutError struct {
	Created int
	Total   int
	Err     error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout failed after %d of %d trips were created: %v", e.Created, e.Total, e.Err)
}

func (e *CheckoutError) Unwrap() error { return e.Err }

// Result lists the trips created by a successful checkout, in submission
// order.
type Result struct {
	TripIDs []string `json:"tripIds"`
}

// Orchestrator sequences payload submission and reconciles the cart. One
// checkout at a time per user; submissions run strictly in builder order.
type Orchestrator struct {
	cart   *cart.Store
	client *Client
	log    logrus.FieldLogger

	mu       sync.Mutex
	inflight map[string]bool
}

func NewOrchestrator(cart *cart.Store, client *Client, log logrus.FieldLogger) *Orchestrator {
	return &Orchestrator{
		cart:     cart,
		client:   client,
		log:      log,
		inflight: make(map[string]bool),
	}
}

// Checkout submits every payload built from the user's cart, one request at
// a time, and clears the cart only after all of them succeeded. On failure
// the cart is left untouched so nothing already paid for silently vanishes.
func (o *Orchestrator) Checkout(ctx context.Context, user claims.Claims) (Result, error) {
	if !o.begin(user.UserID) {
		return Result{}, ErrCheckoutInFlight
	}
	defer o.end(user.UserID)

	items := o.cart.Items(ctx, user.UserID)

	payloads := BuildPayloads(user, items)
	if len(payloads) == 0 {
		return Result{}, ErrNothingToBook
	}

	ids := make([]string, 0, len(payloads))
	for i, p := range payloads {
		t, err := o.client.Create(ctx, user.Email, p)
		if err != nil {
			return Result{TripIDs: ids}, &CheckoutError{Created: i, Total: len(payloads), Err: err}
		}
		ids = append(ids, t.ID)
	}

	// Clearing is a local persistence concern; its failure never turns a
	// fully booked checkout into a reported error.
	if err := o.cart.Clear(ctx, user.UserID); err != nil {
		o.log.WithField("user_id", user.UserID).Warnf("clearing cart after checkout: %v", err)
	}

	return Result{TripIDs: ids}, nil
}

func (o *Orchestrator) begin(userID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.inflight[userID] {
		return false
	}
	o.inflight[userID] = true
	return true
}

func (o *Orchestrator) end(userID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.inflight, userID)
}
