// Package mqttclient is a client library for MQTT 3.1.1 and 5.0: it
// maintains a long-lived session with a broker over a byte-stream transport,
// publishes and receives application messages under all three QoS levels,
// manages subscriptions, and keeps the session alive with periodic PINGREQ
// probes.
package mqttclient

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/golang-io/mqttclient/packet"
	"github.com/golang-io/mqttclient/transport"
)

// ConnState is the per-connection state machine named in the session engine
// design: Closed -> Connecting -> {Active | Authenticating -> Active}, with
// any state collapsing back to Closed on DISCONNECT or an I/O error.
type ConnState int32

const (
	StateClosed ConnState = iota
	StateConnecting
	StateActive
	StateAuthenticating
)

func (s ConnState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateAuthenticating:
		return "authenticating"
	default:
		return "unknown"
	}
}

// AuthWorkflow answers a server AUTH challenge during v5 enhanced
// authentication: given the server's reason and properties, it returns the
// properties for the client's next AUTH packet.
type AuthWorkflow func(reason packet.ReasonCode, props packet.Properties) (packet.Properties, error)

// Client is a single MQTT session. It is safe for concurrent use: publish,
// subscribe, ping and disconnect calls from any goroutine are serialized
// onto the connection's own executor before they touch shared state.
type Client struct {
	cfg    Config
	url    *url.URL
	dialer transport.Dialer

	log     *zap.Logger
	metrics *clientMetrics

	state atomic.Int32

	mu      sync.Mutex
	conn    transport.Conn
	version byte

	negotiated negotiatedParams

	inflight *inflightStore
	ids      packetIDAllocator
	// pendingIDs holds every packet identifier handed out by allocateID
	// (publishes and SUBSCRIBE/UNSUBSCRIBE alike) until releaseID frees it.
	// Executor-only.
	pendingIDs map[uint16]struct{}
	correlator *correlator
	listeners    *listenerRegistry
	authWorkflow AuthWorkflow

	// inboundQoS2 holds server-originated QoS 2 publishes between PUBREC and
	// the matching PUBREL; only ever touched on the executor goroutine.
	inboundQoS2 map[uint16]*packet.Publish

	// jobs is the single-consumer command queue: every operation that
	// touches session state or writes to conn runs as one job on the
	// executor goroutine, so nothing downstream of it needs a lock.
	jobs    chan func()
	cancel  context.CancelFunc
	done    chan struct{} // closed when the executor goroutines have exited
	closing bool          // guards teardown against double-run; only ever touched on the executor goroutine

	keepAlive *keepAliveScheduler
}

// negotiatedParams holds the CONNACK-supplied limits that shape subsequent
// operations (§3 "Connection parameters").
type negotiatedParams struct {
	maxQoS            uint8
	maxPacketSize     uint32
	retainAvailable   bool
	topicAliasMaximum uint16
	assignedClientID  string
	serverKeepAlive   uint16
}

func defaultNegotiatedParams() negotiatedParams {
	return negotiatedParams{maxQoS: 2, retainAvailable: true, maxPacketSize: 0}
}

// New constructs a Client. It does not dial; call Connect to open the
// transport and run the CONNECT handshake.
func New(opts ...Option) (*Client, error) {
	cfg := newConfig(opts...)
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("mqtt: parse url %q: %w", cfg.URL, err)
	}

	c := &Client{
		cfg:        cfg,
		url:        u,
		log:        newLogger(),
		metrics:    newClientMetrics(cfg.ClientID),
		version:    cfg.Version,
		negotiated: defaultNegotiatedParams(),
		inflight:    newInflightStore(),
		pendingIDs:  make(map[uint16]struct{}),
		correlator:  newCorrelator(),
		listeners:   newListenerRegistry(),
		inboundQoS2: make(map[uint16]*packet.Publish),
	}
	c.dialer = c.buildDialer()
	c.state.Store(int32(StateClosed))
	return c, nil
}

func (c *Client) buildDialer() transport.Dialer {
	switch {
	case c.cfg.UseWebsockets:
		return &transport.WebsocketDialer{
			Path:      c.cfg.WebsocketPath,
			TLSConfig: c.cfg.TLSConfig,
			MaxFrame:  c.cfg.WebsocketMaxFrame,
		}
	case c.cfg.UseSSL:
		return &transport.TLSDialer{Config: c.cfg.TLSConfig}
	default:
		return &transport.TCPDialer{}
	}
}

// State reports the current connection state.
func (c *Client) State() ConnState {
	return ConnState(c.state.Load())
}

func (c *Client) setState(s ConnState) {
	old := ConnState(c.state.Swap(int32(s)))
	if old != s {
		c.log.Info("connection state transition", zap.String("from", old.String()), zap.String("to", s.String()), zap.String("client_id", c.cfg.ClientID))
	}
}

// AddPublishListener registers fn under name to observe inbound application
// messages. Re-registering the same name replaces the previous listener.
func (c *Client) AddPublishListener(name string, fn PublishListenerFunc) {
	c.listeners.AddPublishListener(name, fn)
}

func (c *Client) RemovePublishListener(name string) {
	c.listeners.RemovePublishListener(name)
}

// AddCloseListener registers fn under name to be notified once when the
// connection ends.
func (c *Client) AddCloseListener(name string, fn CloseListenerFunc) {
	c.listeners.AddCloseListener(name, fn)
}

func (c *Client) RemoveCloseListener(name string) {
	c.listeners.RemoveCloseListener(name)
}

// RegisterMetrics exposes this client's Prometheus collectors on reg, the
// way the teacher's stat.go registers its broker-wide counters. Callers that
// don't want this client's traffic scraped simply never call it.
func (c *Client) RegisterMetrics(reg prometheus.Registerer) error {
	return c.metrics.Register(reg)
}

// SetAuthWorkflow installs the callback used to answer server-initiated v5
// AUTH challenges. Required before calling Connect if the broker is
// configured for enhanced authentication.
func (c *Client) SetAuthWorkflow(fn AuthWorkflow) {
	c.authWorkflow = fn
}

// dial opens the transport for the configured URL. Scheme selection mirrors
// the dial-by-scheme fallthrough used across the example pack's clients:
// mqtts/tls/ssl upgrade immediately, ws/wss use the WebSocket dialer
// regardless of cfg.UseWebsockets (an explicit scheme wins), and any other
// scheme (tcp, mqtt) uses the dialer picked by buildDialer, which is plain
// TCP unless cfg.UseWebsockets or cfg.UseSSL is set.
func (c *Client) dial(ctx context.Context) (transport.Conn, error) {
	addr := c.url.Host
	switch c.url.Scheme {
	case "ws", "wss":
		d := &transport.WebsocketDialer{Path: c.cfg.WebsocketPath, TLSConfig: c.cfg.TLSConfig, MaxFrame: c.cfg.WebsocketMaxFrame}
		if c.url.Scheme == "wss" && d.TLSConfig == nil {
			d.TLSConfig = c.cfg.TLSConfig
		}
		return d.Dial(ctx, c.url.Scheme, addr)
	case "mqtts", "tls", "ssl":
		return (&transport.TLSDialer{Config: c.cfg.TLSConfig}).Dial(ctx, "tls", addr)
	default:
		return c.dialer.Dial(ctx, "tcp", addr)
	}
}
