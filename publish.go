package mqttclient

import (
	"context"

	"go.uber.org/zap"

	"github.com/golang-io/mqttclient/packet"
	"github.com/golang-io/mqttclient/topic"
)

// PublishRequest is one outbound application message.
type PublishRequest struct {
	Topic      string
	Payload    []byte
	QoS        uint8
	Retain     bool
	Properties packet.Properties
}

// PublishResult carries whatever a QoS 1/2 broker ack returned. QoS 0 calls
// never populate it (Publish returns nil immediately after the write).
type PublishResult struct {
	ReasonCode packet.ReasonCode
	Properties packet.Properties
}

// Publish sends an application message, enforcing the broker's negotiated
// limits before it ever reaches the wire (§4.G "Publish ladders"
// validation). QoS 0 completes on flush; QoS 1/2 suspend until their ladder
// finishes, fails with *ReasonError for a ≥0x80 ack, or ErrTimeout.
func (c *Client) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	if c.State() != StateActive {
		return nil, ErrNoConnection
	}
	if err := c.validatePublish(req); err != nil {
		return nil, err
	}

	switch req.QoS {
	case 0:
		c.submit(func() {
			_ = c.writePacket(&packet.Publish{
				Topic: req.Topic, Payload: req.Payload, Retain: req.Retain, Properties: req.Properties,
			})
		})
		return nil, nil
	case 1:
		return c.publishAwaiting(ctx, req, awaitingPuback)
	case 2:
		return c.publishQoS2(ctx, req)
	default:
		return nil, ErrQosInvalid
	}
}

func (c *Client) validatePublish(req PublishRequest) error {
	if req.QoS > 2 {
		return ErrQosInvalid
	}
	if req.QoS > c.negotiated.maxQoS {
		return ErrQosInvalid
	}
	if req.Retain && !c.negotiated.retainAvailable {
		return ErrRetainUnavailable
	}
	if err := topic.ValidateName(req.Topic); err != nil {
		return ErrInvalidTopicName
	}
	if _, ok := req.Properties.Get(packet.SubscriptionIdentifier); ok {
		return ErrPublishIncludesSubscription
	}
	if alias, ok := req.Properties.Uint16(packet.TopicAlias); ok {
		if alias == 0 || (c.negotiated.topicAliasMaximum > 0 && alias > c.negotiated.topicAliasMaximum) {
			return ErrTopicAliasOutOfRange
		}
	}
	return nil
}

// publishAwaiting drives the QoS 1 ladder: assign id, store inflight, send,
// wait for PUBACK.
func (c *Client) publishAwaiting(ctx context.Context, req PublishRequest, kind awaitKind) (*PublishResult, error) {
	var task *pendingTask
	var id uint16
	c.submit(func() {
		id = c.allocateID()
		pkt := &packet.Publish{
			Topic: req.Topic, Payload: req.Payload, QoS: req.QoS, Retain: req.Retain,
			PacketID: id, Properties: req.Properties,
		}
		c.inflight.Put(id, pkt)
		task = c.correlator.Register(kind, id, c.cfg.AckTimeout)
		if err := c.writePacket(pkt); err != nil {
			c.correlator.resolve(task, taskResult{err: err})
		}
	})

	select {
	case res := <-task.result:
		return c.finishPuback(id, res)
	case <-ctx.Done():
		go func() { c.finishPuback(id, <-task.result) }()
		return nil, ctx.Err()
	}
}

// finishPuback interprets a QoS 1 ladder's result. A connection-loss or
// local-timeout error leaves the inflight entry in place — the message is
// still outstanding and must be replayed with Dup=true on reconnect (§4.G
// "Reconnect policy") — only a genuine PUBACK (success or failure reason)
// clears it.
func (c *Client) finishPuback(id uint16, res taskResult) (*PublishResult, error) {
	if res.err != nil {
		c.submit(func() { c.releaseID(id) })
		c.metrics.publishFailed.Inc()
		return nil, res.err
	}
	ack := res.pkt.(*packet.Puback)
	c.submit(func() { c.inflight.Remove(id); c.releaseID(id) })
	if ack.ReasonCode.Failed() {
		c.metrics.publishFailed.Inc()
		return nil, &ReasonError{ReasonCode: ack.ReasonCode}
	}
	c.metrics.publishAcked.Inc()
	return &PublishResult{ReasonCode: ack.ReasonCode, Properties: ack.Properties}, nil
}

// publishQoS2 drives PUBLISH → PUBREC → PUBREL → PUBCOMP, replacing the
// stored inflight entry with the PUBREL once PUBREC arrives.
func (c *Client) publishQoS2(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	var task *pendingTask
	var id uint16
	c.submit(func() {
		id = c.allocateID()
		pkt := &packet.Publish{
			Topic: req.Topic, Payload: req.Payload, QoS: 2, Retain: req.Retain,
			PacketID: id, Properties: req.Properties,
		}
		c.inflight.Put(id, pkt)
		task = c.correlator.Register(awaitingPubrec, id, c.cfg.AckTimeout)
		if err := c.writePacket(pkt); err != nil {
			c.correlator.resolve(task, taskResult{err: err})
		}
	})

	select {
	case res := <-task.result:
		if res.err != nil {
			c.submit(func() { c.releaseID(id) })
			c.metrics.publishFailed.Inc()
			return nil, res.err
		}
		rec := res.pkt.(*packet.Pubrec)
		if rec.ReasonCode.Failed() {
			c.submit(func() { c.inflight.Remove(id); c.releaseID(id) })
			c.metrics.publishFailed.Inc()
			return nil, &ReasonError{ReasonCode: rec.ReasonCode}
		}
		return c.completeQoS2(ctx, id)
	case <-ctx.Done():
		go func() {
			res := <-task.result
			if res.err != nil {
				c.submit(func() { c.releaseID(id) })
				return
			}
			if rec, ok := res.pkt.(*packet.Pubrec); ok && !rec.ReasonCode.Failed() {
				c.completeQoS2(context.Background(), id)
				return
			}
			c.submit(func() { c.inflight.Remove(id); c.releaseID(id) })
		}()
		return nil, ctx.Err()
	}
}

func (c *Client) completeQoS2(ctx context.Context, id uint16) (*PublishResult, error) {
	var task *pendingTask
	c.submit(func() {
		rel := packet.NewPubrel(id)
		c.inflight.Put(id, rel) // PUBLISH slot now holds the PUBREL, same id (MQTT-4.3.3-x)
		task = c.correlator.Register(awaitingPubcomp, id, c.cfg.AckTimeout)
		if err := c.writePacket(rel); err != nil {
			c.correlator.resolve(task, taskResult{err: err})
		}
	})

	select {
	case res := <-task.result:
		if res.err != nil {
			c.submit(func() { c.releaseID(id) })
			c.metrics.publishFailed.Inc()
			return nil, res.err
		}
		c.submit(func() { c.inflight.Remove(id); c.releaseID(id) })
		comp := res.pkt.(*packet.Pubcomp)
		if comp.ReasonCode.Failed() {
			c.metrics.publishFailed.Inc()
			return nil, &ReasonError{ReasonCode: comp.ReasonCode}
		}
		c.metrics.publishAcked.Inc()
		return &PublishResult{ReasonCode: comp.ReasonCode, Properties: comp.Properties}, nil
	case <-ctx.Done():
		go func() {
			res := <-task.result
			if res.err != nil {
				c.submit(func() { c.releaseID(id) })
				return
			}
			c.submit(func() { c.inflight.Remove(id); c.releaseID(id) })
		}()
		return nil, ctx.Err()
	}
}

// handleInboundPublish implements the server-originated publish ladders of
// §4.G: QoS 0 delivers immediately, QoS 1 acks then delivers, QoS 2 acks
// with PUBREC and defers delivery to the matching PUBREL (with retry
// handling for a duplicate PUBLISH arriving before that PUBREL).
func (c *Client) handleInboundPublish(p *packet.Publish) {
	switch p.QoS {
	case 0:
		c.deliverPublish(p)
	case 1:
		if err := c.writePacket(packet.NewPuback(p.PacketID, packet.CodeSuccess)); err != nil {
			c.log.Warn("puback write failed", zap.Error(err))
		}
		c.deliverPublish(p)
	case 2:
		c.inboundQoS2[p.PacketID] = p
		if err := c.writePacket(packet.NewPubrec(p.PacketID, packet.CodeSuccess)); err != nil {
			c.log.Warn("pubrec write failed", zap.Error(err))
		}
	}
}

// handlePubrec answers a broker PUBREC for one of our own QoS 2 sends; it
// only routes to the correlator, the actual ladder continuation lives in
// completeQoS2 (invoked by the blocked Publish caller once the task
// resolves).
func (c *Client) handlePubrec(p *packet.Pubrec) {
	if c.correlator.Offer(awaitingPubrec, p.PacketID, p) {
		return
	}
	c.log.Warn("pubrec matched no pending publish", zap.Uint16("packet_id", p.PacketID))
	if c.version != packet.VERSION500 {
		return
	}
	rel := packet.NewPubrel(p.PacketID)
	rel.ReasonCode = packet.ErrPacketIdentifierNotFound
	if err := c.writePacket(rel); err != nil {
		c.log.Warn("auto pubrel write failed", zap.Error(err))
	}
}

// handlePubrel answers an inbound QoS 2 receive's PUBREL: may arrive more
// than once if the broker thinks its PUBREC was lost, so PUBCOMP must be
// resent every time without re-delivering to listeners after the first.
func (c *Client) handlePubrel(p *packet.Pubrel) {
	msg, ok := c.inboundQoS2[p.PacketID]
	reason := packet.CodeSuccess
	if !ok {
		reason = packet.ErrPacketIdentifierNotFound
	}
	comp := packet.NewPubcomp(p.PacketID, reason)
	if err := c.writePacket(comp); err != nil {
		c.log.Warn("pubcomp write failed", zap.Error(err))
	}
	if ok {
		delete(c.inboundQoS2, p.PacketID)
		c.deliverPublish(msg)
	}
}

func (c *Client) deliverPublish(p *packet.Publish) {
	c.listeners.NotifyPublish(&PublishMessage{
		Topic: p.Topic, Payload: p.Payload, QoS: p.QoS, Retain: p.Retain,
	}, nil)
}
