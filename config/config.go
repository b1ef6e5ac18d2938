package config

import "time"

type Config struct {
	Web     Web
	Cors    Cors
	Session Session
	Store   Store
	Trips   Trips
	Rate    Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:3000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string `conf:"default:http://localhost:3001"`
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`
}

// Store selects the cart persistence backend.
type Store struct {
	Backend       string `conf:"default:memory,help:one of memory redis postgres"`
	RedisAddr     string `conf:"default:localhost:6379"`
	RedisPassword string `conf:"mask"`
	RedisDB       int    `conf:"default:0"`
	PostgresDSN   string `conf:"mask"`
}

// Trips points at the remote booking backend.
type Trips struct {
	URL     string        `conf:"default:http://localhost:8000"`
	Timeout time.Duration `conf:"default:10s"`
}

type Rate struct {
	Enabled       bool    `conf:"default:true"`
	Burst         int     `conf:"default:20"`
	RPS           float64 `conf:"default:10"`
	ExpiryMinutes int     `conf:"default:10"`
}
