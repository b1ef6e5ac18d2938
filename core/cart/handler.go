package cart

import (
	"context"
	"errors"
	"net/http"

	"github.com/RootAnto/wayfinder/api/web"
	"github.com/RootAnto/wayfinder/api/weberr"
	"github.com/RootAnto/wayfinder/core/claims"
	"github.com/RootAnto/wayfinder/validate"
)

func HandleShow(store *Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		items := store.Items(ctx, clm.UserID)
		if items == nil {
			items = []Item{}
		}

		return web.Respond(ctx, w, items, http.StatusOK)
	}
}

func HandleCreateItem(store *Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var n ItemNew
		if err := web.Decode(w, r, &n); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(n); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		item, err := store.Add(ctx, clm.UserID, n)
		switch {
		case errors.Is(err, ErrPackageExists),
			errors.Is(err, ErrDetailMismatch),
			errors.Is(err, ErrPackagePrice):
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		case err != nil:
			return err
		}

		return web.Respond(ctx, w, item, http.StatusCreated)
	}
}

func HandleDeleteItem(store *Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		// Removing an id that is not in the cart is a no-op, not an error.
		if err := store.Remove(ctx, clm.UserID, web.Param(r, "id")); err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleDelete(store *Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		if err := store.Clear(ctx, clm.UserID); err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
