package transport

import (
	"context"
	"net"
)

// TCPDialer opens plain, unencrypted TCP connections.
type TCPDialer struct {
	Dialer net.Dialer
}

func (d *TCPDialer) Dial(ctx context.Context, _, addr string) (Conn, error) {
	return d.Dialer.DialContext(ctx, "tcp", addr)
}
