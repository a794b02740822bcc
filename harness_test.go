package mqttclient

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/golang-io/mqttclient/packet"
	"github.com/golang-io/mqttclient/transport"
)

// fakeDialer hands back a preopened net.Pipe half instead of opening a real
// socket, so session-engine tests can drive the wire protocol directly.
type fakeDialer struct {
	conn net.Conn
}

func (d *fakeDialer) Dial(ctx context.Context, network, addr string) (transport.Conn, error) {
	return d.conn, nil
}

// fakeBroker is the other half of the pipe: a tiny scripted server that
// decodes whatever the client sends and lets the test assert on it or queue
// a reply, without needing a real broker.
type fakeBroker struct {
	t       *testing.T
	conn    net.Conn
	version byte
	dec     packet.FrameDecoder
	buf     []byte
}

func newFakeClient(t *testing.T, version byte, opts ...Option) (*Client, *fakeBroker) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	all := append([]Option{
		WithClientID("test-client"),
		WithVersion(version),
		WithConnectTimeout(2 * time.Second),
		WithAckTimeout(2 * time.Second),
		WithDisablePing(true),
	}, opts...)
	c, err := New(all...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.dialer = &fakeDialer{conn: clientConn}

	b := &fakeBroker{t: t, conn: serverConn, version: version, buf: make([]byte, 4096)}
	return c, b
}

// next blocks until one full packet has been decoded from the client.
func (b *fakeBroker) next() packet.Packet {
	b.t.Helper()
	for {
		fixed, body, ok, err := b.dec.Next()
		if err != nil {
			b.t.Fatalf("fake broker decode: %v", err)
		}
		if ok {
			fixed.Version = b.version
			pkt, err := packet.Decode(fixed, body)
			if err != nil {
				b.t.Fatalf("fake broker decode packet: %v", err)
			}
			return pkt
		}
		n, err := b.conn.Read(b.buf)
		if err != nil {
			b.t.Fatalf("fake broker read: %v", err)
		}
		b.dec.Feed(b.buf[:n])
	}
}

func (b *fakeBroker) send(pkt packet.Packet) {
	b.t.Helper()
	if err := packet.Encode(b.conn, b.version, pkt); err != nil {
		b.t.Fatalf("fake broker encode: %v", err)
	}
}

func (b *fakeBroker) close() {
	_ = b.conn.Close()
}

func connectAndAccept(t *testing.T, c *Client, b *fakeBroker, sessionPresent bool) error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- c.Connect(context.Background()) }()

	connectPkt := b.next()
	if _, ok := connectPkt.(*packet.Connect); !ok {
		t.Fatalf("expected CONNECT, got %T", connectPkt)
	}
	b.send(&packet.Connack{SessionPresent: sessionPresent, ReasonCode: packet.CodeSuccess})
	return <-errCh
}
