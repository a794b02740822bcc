package mqttclient

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/golang-io/mqttclient/packet"
)

// Connect dials the configured URL and runs the CONNECT handshake. It
// returns once the session is Active (or Authenticating has resolved to
// Active via the v5 enhanced-auth loop), or with an error if the broker
// rejected the connection, the handshake timed out, or the transport never
// came up.
func (c *Client) Connect(ctx context.Context) error {
	if c.State() != StateClosed {
		return ErrAlreadyConnected
	}
	return c.connectLadder(ctx)
}

// Reconnect repeats the handshake on a fresh transport, preserving whatever
// the inflight store and packet-id allocator already hold. Pass
// WithCleanStart(false) at construction (or flip cfg.CleanStart before
// calling) to request session resume; a broker that reports
// session-present=false still clears the inflight store and fails whatever
// was pending for it (§4.G "Reconnect policy").
func (c *Client) Reconnect(ctx context.Context) error {
	if c.State() != StateClosed {
		return ErrAlreadyConnected
	}
	c.metrics.reconnects.Inc()
	return c.connectLadder(ctx)
}

func (c *Client) connectLadder(ctx context.Context) error {
	connectCtx := ctx
	var cancel context.CancelFunc
	if c.cfg.ConnectTimeout > 0 {
		connectCtx, cancel = context.WithTimeout(ctx, c.cfg.ConnectTimeout)
		defer cancel()
	}

	conn, err := c.dial(connectCtx)
	if err != nil {
		return fmt.Errorf("mqtt: dial: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.setState(StateConnecting)
	c.startExecutor(context.Background())

	connectPkt := &packet.Connect{
		CleanStart: c.cfg.CleanStart,
		KeepAlive:  uint16(c.cfg.KeepAlive.Seconds()),
		ClientID:   c.cfg.ClientID,
		Username:   c.cfg.Username,
		Password:   c.cfg.Password,
		Will:       c.cfg.Will,
		Properties: c.cfg.Properties,
	}

	var task *pendingTask
	c.submit(func() {
		task = c.correlator.Register(awaitingConnack, 0, c.cfg.ConnectTimeout)
		if werr := c.writePacket(connectPkt); werr != nil {
			c.correlator.resolve(task, taskResult{err: werr})
		}
	})

	for {
		select {
		case <-connectCtx.Done():
			c.submit(func() { c.teardown(connectCtx.Err()) })
			return connectCtx.Err()
		case res := <-task.result:
			if res.err != nil {
				c.submit(func() { c.teardown(res.err) })
				return res.err
			}
			switch pkt := res.pkt.(type) {
			case *packet.Connack:
				return c.handleConnack(pkt)
			case *packet.Auth:
				c.setState(StateAuthenticating)
				next, authErr := c.runAuthStep(pkt)
				if authErr != nil {
					c.submit(func() { c.teardown(authErr) })
					return authErr
				}
				task = next
				continue
			default:
				err := &UnexpectedMessage{Kind: res.pkt.Kind()}
				c.submit(func() { c.teardown(err) })
				return err
			}
		}
	}
}

// handleConnack validates the broker's response and, on success, applies
// negotiated parameters and replays or clears the inflight store.
func (c *Client) handleConnack(ack *packet.Connack) error {
	if c.version != packet.VERSION500 {
		if ack.ReasonCode.Code != packet.CodeSuccess.Code {
			err := &ConnectionError{ReasonCode: ack.ReasonCode}
			c.submit(func() { c.teardown(err) })
			return err
		}
	} else if ack.ReasonCode.Failed() {
		err := &ConnectionError{ReasonCode: ack.ReasonCode}
		c.submit(func() { c.teardown(err) })
		return err
	}

	c.submit(func() {
		c.applyNegotiatedParams(ack.Properties)
		c.setState(StateActive)
		c.metrics.connected.Set(1)

		interval := pingInterval(c.cfg.KeepAlive, c.cfg.PingInterval)
		if v, ok := ack.Properties.Uint16(packet.ServerKeepAlive); ok {
			interval = 0
			if v > 0 {
				interval = pingInterval(time.Duration(v)*time.Second, c.cfg.PingInterval)
			}
		}
		if c.cfg.DisablePing {
			interval = 0
		}
		c.keepAlive = newKeepAliveScheduler(c, interval)
		c.keepAlive.Start()

		if ack.SessionPresent {
			c.resendInflight()
		} else {
			c.inflight.Clear()
		}
	})

	c.log.Info("connected", zap.String("client_id", c.cfg.ClientID), zap.Bool("session_present", ack.SessionPresent))
	return nil
}

// resendInflight re-issues every stored outbound packet in original send
// order, per scenario 5: PUBLISH entries go out with dup=true, PUBREL
// entries are re-sent unchanged. Must be called from the executor.
func (c *Client) resendInflight() {
	for _, entry := range c.inflight.Snapshot() {
		switch pkt := entry.pkt.(type) {
		case *packet.Publish:
			dup := *pkt
			dup.Dup = true
			_ = c.writePacket(&dup)
		default:
			_ = c.writePacket(entry.pkt)
		}
	}
}

// runAuthStep invokes the configured auth workflow for one server AUTH
// challenge, sends the reply, and registers the next task to await.
func (c *Client) runAuthStep(challenge *packet.Auth) (*pendingTask, error) {
	if c.authWorkflow == nil {
		return nil, ErrAuthWorkflowRequired
	}
	props, err := c.authWorkflow(challenge.ReasonCode, challenge.Properties)
	if err != nil {
		return nil, err
	}
	var task *pendingTask
	c.submit(func() {
		task = c.correlator.Register(awaitingConnack, 0, c.cfg.ConnectTimeout)
		reply := &packet.Auth{ReasonCode: packet.CodeContinueAuthentication, Properties: props}
		if werr := c.writePacket(reply); werr != nil {
			c.correlator.resolve(task, taskResult{err: werr})
		}
	})
	return task, nil
}

// applyNegotiatedParams reads the subset of CONNACK properties the session
// engine cares about. Unset properties keep their connection defaults.
func (c *Client) applyNegotiatedParams(props packet.Properties) {
	p := defaultNegotiatedParams()
	if v, ok := props.Byte(packet.MaximumQoS); ok {
		p.maxQoS = v
	}
	if v, ok := props.Uint32(packet.MaximumPacketSize); ok {
		p.maxPacketSize = v
	}
	if v, ok := props.Byte(packet.RetainAvailable); ok {
		p.retainAvailable = v != 0
	} else {
		p.retainAvailable = true
	}
	if v, ok := props.Uint16(packet.TopicAliasMaximum); ok {
		p.topicAliasMaximum = v
	}
	if v, ok := props.String(packet.AssignedClientIdentifier); ok {
		p.assignedClientID = v
		c.cfg.ClientID = v
	}
	if v, ok := props.Uint16(packet.ServerKeepAlive); ok {
		p.serverKeepAlive = v
	}
	c.negotiated = p
}

// allocateID reserves a packet identifier not already held by an inflight
// entry or another in-flight SUBSCRIBE/UNSUBSCRIBE. Executor-only.
func (c *Client) allocateID() uint16 {
	for {
		id := c.ids.next1()
		if _, busy := c.inflight.Get(id); busy {
			continue
		}
		if _, busy := c.pendingIDs[id]; busy {
			continue
		}
		c.pendingIDs[id] = struct{}{}
		return id
	}
}

// releaseID frees an id reserved by allocateID once its operation
// completes. Safe to call for an id that was also placed in the inflight
// store (QoS 1/2 publishes) — the two tracks are independent.
func (c *Client) releaseID(id uint16) {
	delete(c.pendingIDs, id)
}

// Ping sends an unsolicited PINGREQ and waits for PINGRESP. Most callers
// never need this directly; the keep-alive scheduler sends its own pings.
func (c *Client) Ping(ctx context.Context) error {
	if c.State() != StateActive {
		return ErrNoConnection
	}
	var task *pendingTask
	c.submit(func() {
		task = c.correlator.Register(awaitingPingresp, 0, c.cfg.AckTimeout)
		if err := c.writePacket(&packet.Pingreq{}); err != nil {
			c.correlator.resolve(task, taskResult{err: err})
		}
	})
	select {
	case res := <-task.result:
		return res.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Authenticate initiates a client-triggered v5 re-authentication exchange
// (MQTT-3.15.0-1). It is not valid on a v3.1.1 connection.
func (c *Client) Authenticate(ctx context.Context, props packet.Properties) error {
	if c.version != packet.VERSION500 {
		return ErrBadParameter
	}
	if c.State() != StateActive {
		return ErrNoConnection
	}
	var task *pendingTask
	c.submit(func() {
		task = c.correlator.Register(awaitingConnack, 0, c.cfg.AckTimeout)
		pkt := &packet.Auth{ReasonCode: packet.CodeReAuthenticate, Properties: props}
		if err := c.writePacket(pkt); err != nil {
			c.correlator.resolve(task, taskResult{err: err})
		}
	})
	select {
	case res := <-task.result:
		if res.err != nil {
			return res.err
		}
		if auth, ok := res.pkt.(*packet.Auth); ok && auth.ReasonCode.Failed() {
			return &ReasonError{ReasonCode: auth.ReasonCode}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Disconnect sends DISCONNECT (v5 may carry a reason and properties),
// closes the transport, and fails any pending operations with
// ServerClosedConnection. It does not wait for a broker reply.
func (c *Client) Disconnect(ctx context.Context, reason packet.ReasonCode, props packet.Properties) error {
	if c.State() == StateClosed {
		return nil
	}
	c.submit(func() {
		pkt := &packet.Disconnect{ReasonCode: reason, Properties: props}
		_ = c.writePacket(pkt)
		c.teardown(nil)
	})
	if c.cancel != nil {
		c.cancel()
	}
	select {
	case <-c.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// dispatch routes one decoded inbound packet. It runs on the executor
// goroutine only (called from jobLoop).
func (c *Client) dispatch(pkt packet.Packet) {
	c.metrics.packetsRecv.Inc()
	switch p := pkt.(type) {
	case *packet.Publish:
		c.handleInboundPublish(p)
	case *packet.Puback:
		if !c.correlator.Offer(awaitingPuback, p.PacketID, p) {
			c.log.Warn("puback matched no pending publish", zap.Uint16("packet_id", p.PacketID))
		}
	case *packet.Pubrec:
		c.handlePubrec(p)
	case *packet.Pubrel:
		c.handlePubrel(p)
	case *packet.Pubcomp:
		if !c.correlator.Offer(awaitingPubcomp, p.PacketID, p) {
			c.log.Warn("pubcomp matched no pending publish", zap.Uint16("packet_id", p.PacketID))
		}
	case *packet.Suback:
		c.correlator.Offer(awaitingSuback, p.PacketID, p)
	case *packet.Unsuback:
		c.correlator.Offer(awaitingUnsuback, p.PacketID, p)
	case *packet.Pingresp:
		c.correlator.Offer(awaitingPingresp, 0, p)
	case *packet.Connack:
		c.correlator.Offer(awaitingConnack, 0, p)
	case *packet.Auth:
		c.correlator.Offer(awaitingConnack, 0, p)
	case *packet.Disconnect:
		c.correlator.FailAll(&ServerDisconnection{ReasonCode: p.ReasonCode, Properties: p.Properties})
		c.teardown(&ServerDisconnection{ReasonCode: p.ReasonCode, Properties: p.Properties})
	default:
		c.log.Warn("unexpected inbound packet", zap.Uint8("kind", pkt.Kind()))
	}
}
