// Package network provides the pre-configured HTTP clients used for manifest
// expansion and by Lua extractors.
package network

import (
	"net/http"
	"time"
)

// Client is the shared plain HTTP client.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport. Manifest fetches fan out to
// many CDN hosts at once, hence the generous per-host limits.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 16
	t.MaxConnsPerHost = 32
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 20 * time.Second
	t.ExpectContinueTimeout = 5 * time.Second
	return t
}

// For returns the fingerprinted client when fingerprint is set, the plain one otherwise.
func For(fingerprint bool) *http.Client {
	if fingerprint {
		return Fingerprinted
	}
	return Client
}
