package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/RootAnto/wayfinder/api/web"
	"github.com/RootAnto/wayfinder/api/weberr"
	"github.com/RootAnto/wayfinder/rate"
)

// RateLimit throttles requests per client address.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			if !lim.Check(clientKey(r)) {
				return weberr.NewError(
					errors.New("rate limit exceeded"),
					"too many requests",
					http.StatusTooManyRequests,
				)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
