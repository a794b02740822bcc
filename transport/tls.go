package transport

import (
	"context"
	"crypto/tls"
	"net"
)

// TLSDialer opens TLS-wrapped TCP connections, handshaking before Dial
// returns so the session engine never has to special-case the first read.
type TLSDialer struct {
	Config  *tls.Config
	Dialer  net.Dialer
}

func (d *TLSDialer) Dial(ctx context.Context, _, addr string) (Conn, error) {
	tcp, err := d.Dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	conn := tls.Client(tcp, d.Config)
	if err := conn.HandshakeContext(ctx); err != nil {
		_ = tcp.Close()
		return nil, err
	}
	return conn, nil
}
