package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"syscall"
	"time"
)

// DefaultMaxBytes caps a downloaded image.
const DefaultMaxBytes = 10 << 20

var (
	ErrTooLarge          = errors.New("image exceeds size limit")
	ErrUnsupportedScheme = errors.New("only http and https image urls are fetched")
	ErrBlockedAddress    = errors.New("image host resolves to a non-public address")
)

type dialControl func(network, address string, c syscall.RawConn) error

// HTTPFetcher downloads remote images such as AI logos and backgrounds.
// Every connection, including redirects, is checked after DNS resolution
// so client-supplied URLs cannot reach loopback or private networks.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

func New(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	return newFetcher(timeout, maxBytes, publicOnly)
}

func newFetcher(timeout time.Duration, maxBytes int64, control dialControl) *HTTPFetcher {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	dialer := &net.Dialer{Timeout: timeout, Control: control}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: timeout,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout, Transport: transport},
		maxBytes: maxBytes,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid image url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrUnsupportedScheme
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image url: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// publicOnly runs on the resolved address of every outbound connection.
func publicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	ip = ip.Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ip)
	}
	return nil
}
