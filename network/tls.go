package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"github.com/vidscout/vidscout/constant"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

// Fingerprinted is an HTTP client whose TLS handshake mimics Chrome 120.
// Some CDNs refuse playlists to clients with a Go TLS fingerprint.
var Fingerprinted = &http.Client{
	Timeout:   time.Minute,
	Transport: chromeTransport{},
}

var (
	h2Transport     *http2.Transport
	h2TransportOnce sync.Once
)

func getH2Transport() *http2.Transport {
	h2TransportOnce.Do(func() {
		h2Transport = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, nil)
			},
		}
	})
	return h2Transport
}

var h1Transport = &http.Transport{
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialTLS(ctx, network, addr, []string{"http/1.1"})
	},
}

// chromeTransport tries HTTP/2 first and falls back to HTTP/1.1 when the
// server refuses h2. Plain http:// requests go straight to HTTP/1.1.
type chromeTransport struct{}

func (chromeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return http.DefaultTransport.RoundTrip(req)
	}

	resp, err := getH2Transport().RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.Body != nil {
		if req.GetBody == nil {
			return nil, err
		}
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, bodyErr
		}
		retry.Body = body
	}

	return h1Transport.RoundTrip(retry)
}

// dialTLS creates a TLS connection with Chrome's ClientHello. nextProtos
// forces ALPN when set.
func dialTLS(ctx context.Context, network, addr string, nextProtos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: nextProtos,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}

// Do performs a request with browser-like default headers and returns the body
// and status code. headers override the defaults.
func Do(ctx context.Context, client *http.Client, method, rawURL string, headers map[string]string, body string) (string, int, error) {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return string(respBody), resp.StatusCode, nil
}
