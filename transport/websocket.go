package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
)

// WebsocketDialer dials the client-side WebSocket upgrade handshake and
// wraps the resulting connection so it satisfies Conn: MQTT frames are
// carried one-or-more to a binary WebSocket message (MQTT-6.0.0-3), so the
// wrapper must let a Read span multiple WS messages and must flush on every
// Write rather than trying to frame writes itself.
type WebsocketDialer struct {
	Path      string
	TLSConfig *tls.Config
	MaxFrame  int
}

func (d *WebsocketDialer) Dial(ctx context.Context, network, addr string) (Conn, error) {
	scheme := "ws"
	if network == "wss" || d.TLSConfig != nil {
		scheme = "wss"
	}
	path := d.Path
	if path == "" {
		path = "/mqtt"
	}
	u := url.URL{Scheme: scheme, Host: addr, Path: path}

	dialer := websocket.Dialer{
		Subprotocols:    []string{"mqtt"},
		TLSClientConfig: d.TLSConfig,
	}
	if d.MaxFrame > 0 {
		dialer.ReadBufferSize = d.MaxFrame
		dialer.WriteBufferSize = d.MaxFrame
	}

	conn, _, err := dialer.DialContext(ctx, u.String(), http.Header{})
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn}, nil
}

// wsConn adapts a *websocket.Conn (message-oriented) to io.Reader/io.Writer
// (stream-oriented), buffering the tail of a partially-consumed inbound
// message across Read calls.
type wsConn struct {
	conn *websocket.Conn
	rest bytes.Buffer
}

func (c *wsConn) Read(p []byte) (int, error) {
	if c.rest.Len() > 0 {
		return c.rest.Read(p)
	}
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if kind != websocket.BinaryMessage || len(data) == 0 {
			continue
		}
		c.rest.Write(data)
		return c.rest.Read(p)
	}
}

func (c *wsConn) Write(p []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
