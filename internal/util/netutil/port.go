// Package netutil provides TCP reachability probes for dependency gating.
package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

const defaultDialTimeout = 2 * time.Second

// ErrResolve marks probe failures caused by name resolution. Callers treat
// these as hard failures rather than transient ones.
var ErrResolve = errors.New("host resolution failed")

// ProbeTCP attempts a single TCP connection to host:port.
//
// A nil return means the port accepted a connection. Connection refused and
// dial timeouts return a plain error (the dependency may simply not be up
// yet). Name resolution failures wrap ErrResolve.
func ProbeTCP(ctx context.Context, host string, port int) error {
	address := net.JoinHostPort(host, strconv.Itoa(port))

	d := net.Dialer{Timeout: defaultDialTimeout}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err == nil {
		_ = conn.Close()
		return nil
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %s: %v", ErrResolve, host, dnsErr)
	}

	return fmt.Errorf("%s not reachable: %w", address, err)
}

// WaitForPort waits for a TCP port to accept connections, polling at the
// given interval until the timeout elapses or ctx is cancelled.
func WaitForPort(ctx context.Context, host string, port int, interval, timeout time.Duration) error {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		if err := ProbeTCP(ctx, host, port); err == nil {
			return nil
		} else if errors.Is(err, ErrResolve) {
			return err
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("timeout waiting for %s", address)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
