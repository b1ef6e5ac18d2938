// Package auth binds the scs session to the request chain. Credential
// verification lives upstream; this service only carries the identity the
// front end established there.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/RootAnto/wayfinder/api/web"
	"github.com/RootAnto/wayfinder/api/weberr"
	"github.com/RootAnto/wayfinder/core/claims"
	"github.com/RootAnto/wayfinder/validate"
	"github.com/alexedwards/scs/v2"
)

const (
	sessionUserID = "user_id"
	sessionEmail  = "user_email"
	sessionName   = "user_name"
)

// LoadAndSave adapts the scs cookie round-trip to the web.Middleware shape
// so handler errors still flow out to the error middleware.
func LoadAndSave(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var err error

			sh := session.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			}))
			sh.ServeHTTP(w, r)

			return err
		}
		return h
	}
	return m
}

// Authenticate rejects requests without a session identity and stores the
// claims in the context for downstream handlers.
func Authenticate(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			userID := session.GetString(ctx, sessionUserID)
			if userID == "" {
				return weberr.NotAuthorized(errors.New("no authenticated user in session"))
			}

			ctx = claims.Set(ctx, claims.Claims{
				UserID: userID,
				Email:  session.GetString(ctx, sessionEmail),
				Name:   session.GetString(ctx, sessionName),
			})

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

type Login struct {
	UserID string `json:"id" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name"`
}

func HandleLogin(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var l Login
		if err := web.Decode(w, r, &l); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(l); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		// Renew the token on privilege change, then bind the identity.
		if err := session.RenewToken(ctx); err != nil {
			return err
		}

		session.Put(ctx, sessionUserID, l.UserID)
		session.Put(ctx, sessionEmail, l.Email)
		session.Put(ctx, sessionName, l.Name)

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleLogout(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := session.Destroy(ctx); err != nil {
			return err
		}
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
