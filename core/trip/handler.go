package trip

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/RootAnto/wayfinder/api/web"
	"github.com/RootAnto/wayfinder/api/weberr"
	"github.com/RootAnto/wayfinder/core/claims"
	"github.com/RootAnto/wayfinder/validate"
)

// checkoutFailure is the response body of a failed checkout. TripsCreated
// lets the front end tell "nothing was booked" apart from "some trips were
// booked, one failed", which needs a look at the booking list instead of a
// blind retry.
type checkoutFailure struct {
	Error        string `json:"error"`
	TripsCreated int    `json:"tripsCreated"`
	TripsTotal   int    `json:"tripsTotal"`
}

func HandleCheckout(orch *Orchestrator) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		res, err := orch.Checkout(ctx, clm)

		switch {
		case errors.Is(err, ErrCheckoutInFlight):
			return weberr.Conflict(err)

		case errors.Is(err, ErrNothingToBook):
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)

		case err != nil:
			var cerr *CheckoutError
			if errors.As(err, &cerr) {
				body := checkoutFailure{
					Error:        backendDetail(cerr.Err),
					TripsCreated: cerr.Created,
					TripsTotal:   cerr.Total,
				}
				return weberr.Wrap(err, weberr.WithResponse(&body, http.StatusBadGateway))
			}
			return err
		}

		return web.Respond(ctx, w, res, http.StatusCreated)
	}
}

func HandleList(client *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		trips, err := client.FetchByUser(ctx, clm.UserID)
		if err != nil {
			return proxyError(err)
		}

		return web.Respond(ctx, w, trips, http.StatusOK)
	}
}

func HandleShow(client *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		tripID := web.Param(r, "id")

		t, err := client.Fetch(ctx, tripID)
		if err != nil {
			return proxyError(err)
		}

		return web.Respond(ctx, w, t, http.StatusOK)
	}
}

func HandleUpdate(client *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		tripID := web.Param(r, "id")

		var up TripUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		t, err := client.Update(ctx, tripID, up)
		if err != nil {
			return proxyError(err)
		}

		return web.Respond(ctx, w, t, http.StatusOK)
	}
}

func HandlePaymentIntent(client *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if _, err := claims.Get(ctx); err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		tripID := web.Param(r, "id")

		secret, err := client.PaymentIntent(ctx, tripID)
		if err != nil {
			return proxyError(err)
		}

		out := struct {
			ClientSecret string `json:"client_secret"`
		}{secret}

		return web.Respond(ctx, w, out, http.StatusOK)
	}
}

func HandleConfirm(client *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		tripID := web.Param(r, "id")

		if err := client.Confirm(ctx, tripID, clm.Email); err != nil {
			return proxyError(err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

// proxyError relays the backend status and detail when the upstream
// answered, and degrades to a bad gateway when it did not.
func proxyError(err error) error {
	var be *BackendError
	if errors.As(err, &be) {
		msg := be.Detail
		if msg == "" {
			msg = http.StatusText(be.StatusCode)
		}
		return weberr.NewError(err, msg, be.StatusCode)
	}

	return weberr.NewError(err, "the trips backend is unreachable", http.StatusBadGateway)
}

func backendDetail(err error) string {
	var be *BackendError
	if errors.As(err, &be) && be.Detail != "" {
		return be.Detail
	}
	return fmt.Sprintf("the booking could not be created: %v", err)
}
