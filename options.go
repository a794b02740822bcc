package mqttclient

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/golang-io/requests"

	"github.com/golang-io/mqttclient/packet"
)

// Config collects everything the session engine needs that is not part of
// the wire protocol itself: negotiation defaults, timeouts, credentials and
// the transport selection knobs named in the external interface.
type Config struct {
	URL      string
	ClientID string
	Version  byte

	CleanStart bool
	Username   string
	Password   []byte
	Will       *packet.Will

	KeepAlive          time.Duration
	PingInterval       time.Duration // override; zero means derive from KeepAlive
	DisablePing        bool
	ConnectTimeout     time.Duration
	AckTimeout         time.Duration

	UseSSL           bool
	TLSConfig        *tls.Config
	SNIServerName    string
	UseWebsockets    bool
	WebsocketPath    string
	WebsocketMaxFrame int

	Properties Properties // v5 CONNECT properties, e.g. SessionExpiryInterval, ReceiveMaximum
}

// Properties is re-exported at this layer so callers needn't import packet
// directly just to build a CONNECT property list.
type Properties = packet.Properties

const (
	defaultKeepAlive       = 90 * time.Second
	defaultConnectTimeout  = 10 * time.Second
	defaultAckTimeout      = 20 * time.Second
	defaultWebsocketFrame  = 16384
)

func newConfig(opts ...Option) Config {
	cfg := Config{
		URL:               "mqtt://127.0.0.1:1883",
		ClientID:          "mqtt-" + requests.GenId(),
		Version:           packet.VERSION311,
		KeepAlive:         defaultKeepAlive,
		ConnectTimeout:    defaultConnectTimeout,
		AckTimeout:        defaultAckTimeout,
		WebsocketMaxFrame: defaultWebsocketFrame,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Option configures a Client at construction time.
type Option func(*Config)

func WithURL(url string) Option {
	return func(c *Config) { c.URL = url }
}

func WithClientID(id string) Option {
	return func(c *Config) { c.ClientID = id }
}

// WithVersion accepts either a raw protocol level byte (packet.VERSION311 /
// packet.VERSION500) or the dotted string form used in broker documentation.
func WithVersion[T ~string | ~byte](version T) Option {
	return func(c *Config) {
		switch v := any(version).(type) {
		case byte:
			c.Version = v
		case string:
			switch v {
			case "5.0.0", "5.0":
				c.Version = packet.VERSION500
			case "3.1.1":
				c.Version = packet.VERSION311
			default:
				panic(fmt.Errorf("mqtt: version %q not supported", v))
			}
		}
	}
}

func WithCredentials(username string, password []byte) Option {
	return func(c *Config) {
		c.Username = username
		c.Password = password
	}
}

func WithCleanStart(clean bool) Option {
	return func(c *Config) { c.CleanStart = clean }
}

func WithWill(will *packet.Will) Option {
	return func(c *Config) { c.Will = will }
}

func WithKeepAlive(d time.Duration) Option {
	return func(c *Config) { c.KeepAlive = d }
}

func WithPingInterval(d time.Duration) Option {
	return func(c *Config) { c.PingInterval = d }
}

func WithDisablePing(disable bool) Option {
	return func(c *Config) { c.DisablePing = disable }
}

func WithConnectTimeout(d time.Duration) Option {
	return func(c *Config) { c.ConnectTimeout = d }
}

func WithAckTimeout(d time.Duration) Option {
	return func(c *Config) { c.AckTimeout = d }
}

func WithTLS(cfg *tls.Config, sniServerName string) Option {
	return func(c *Config) {
		c.UseSSL = true
		c.TLSConfig = cfg
		c.SNIServerName = sniServerName
	}
}

func WithWebsocket(path string, maxFrame int) Option {
	return func(c *Config) {
		c.UseWebsockets = true
		c.WebsocketPath = path
		if maxFrame > 0 {
			c.WebsocketMaxFrame = maxFrame
		}
	}
}

func WithProperties(props ...packet.Property) Option {
	return func(c *Config) { c.Properties = append(c.Properties, props...) }
}

// pingInterval derives the keep-alive probe interval per the spec's rule:
// keep-alive minus 5s when keep-alive exceeds 5s, otherwise the raw
// keep-alive value — and a zero keep-alive disables the scheduler entirely
// rather than producing a negative or zero interval that would busy-loop.
func pingInterval(keepAlive, override time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	if keepAlive <= 0 {
		return 0
	}
	if keepAlive > 5*time.Second {
		return keepAlive - 5*time.Second
	}
	return keepAlive
}
