package api

import (
	"context"
	"net/http"

	"github.com/RootAnto/wayfinder/api/middleware"
	"github.com/RootAnto/wayfinder/api/web"
	"github.com/RootAnto/wayfinder/core/auth"
	"github.com/RootAnto/wayfinder/core/cart"
	"github.com/RootAnto/wayfinder/core/pricing"
	"github.com/RootAnto/wayfinder/core/trip"
	"github.com/RootAnto/wayfinder/rate"
	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin string
	Log        logrus.FieldLogger
	Session    *scs.SessionManager
	Cart       *cart.Store
	Trips      *trip.Client
	Checkout   *trip.Orchestrator
	Limiter    *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

// APIMux builds the router with the full middleware chain and every route
// of the booking front end.
func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.Limiter != nil {
		a.mw = append(a.mw, middleware.RateLimit(cfg.Limiter))
	}

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Session)

	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.Session))
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session))

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(cfg.Cart), authen)
	a.Handle(http.MethodGet, "/cart/quote", pricing.HandleQuote(cfg.Cart), authen)
	a.Handle(http.MethodPut, "/cart/items", cart.HandleCreateItem(cfg.Cart), authen)
	a.Handle(http.MethodDelete, "/cart/items/{id}", cart.HandleDeleteItem(cfg.Cart), authen)
	a.Handle(http.MethodDelete, "/cart", cart.HandleDelete(cfg.Cart), authen)

	a.Handle(http.MethodPost, "/checkout", trip.HandleCheckout(cfg.Checkout), authen)

	a.Handle(http.MethodGet, "/bookings", trip.HandleList(cfg.Trips), authen)
	a.Handle(http.MethodGet, "/bookings/{id}", trip.HandleShow(cfg.Trips), authen)
	a.Handle(http.MethodPut, "/bookings/{id}", trip.HandleUpdate(cfg.Trips), authen)
	a.Handle(http.MethodPost, "/bookings/{id}/payment-intent", trip.HandlePaymentIntent(cfg.Trips), authen)
	a.Handle(http.MethodPost, "/bookings/{id}/confirm", trip.HandleConfirm(cfg.Trips), authen)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
