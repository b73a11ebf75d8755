// Package httpclient builds the HTTP client the provider adapter uses.
package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// Config tunes the client for the miner's traffic shape: many small GETs
// against one API host, a handful of feeds in flight at once.
type Config struct {
	// RequestTimeout bounds one attempt end to end; the retry loop above
	// this client spans attempts with its own context deadline.
	RequestTimeout time.Duration

	DialTimeout           time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration

	// MaxConnsPerHost caps connections to the provider so a fetch --all
	// burst cannot open more sockets than the plan's rate limit tolerates.
	MaxConnsPerHost int
	IdleConnTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestTimeout:        30 * time.Second,
		DialTimeout:           5 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		MaxConnsPerHost:       8,
		IdleConnTimeout:       90 * time.Second,
	}
}

func New(cfg Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: 30 * time.Second,
	}

	tr := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DialContext:       dialer.DialContext,
		ForceAttemptHTTP2: true,

		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},

		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		MaxIdleConnsPerHost: cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,

		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.RequestTimeout,
	}
}
