package pricing

import (
	"context"
	"errors"
	"net/http"

	"github.com/RootAnto/wayfinder/api/web"
	"github.com/RootAnto/wayfinder/api/weberr"
	"github.com/RootAnto/wayfinder/core/cart"
	"github.com/RootAnto/wayfinder/core/claims"
)

// HandleQuote prices the current cart without mutating it.
func HandleQuote(store *cart.Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		quote := Compute(store.Items(ctx, clm.UserID))

		return web.Respond(ctx, w, quote, http.StatusOK)
	}
}
