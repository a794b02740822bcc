package mqttclient

import (
	"context"

	"github.com/golang-io/mqttclient/packet"
	"github.com/golang-io/mqttclient/topic"
)

// SubscribeResult is the broker's SUBACK or UNSUBACK: one reason code per
// filter, in the same order the filters were requested. A v3.1.1 UNSUBACK
// carries no reason codes, so ReasonCodes is then empty.
type SubscribeResult struct {
	ReasonCodes []packet.ReasonCode
	Properties  packet.Properties
}

// Subscribe requests filters be added to the session and waits for SUBACK.
// At least one filter is required.
func (c *Client) Subscribe(ctx context.Context, filters []packet.SubscribeOption, props packet.Properties) (*SubscribeResult, error) {
	if c.State() != StateActive {
		return nil, ErrNoConnection
	}
	if len(filters) == 0 {
		return nil, ErrAtLeastOneTopicRequired
	}
	for _, f := range filters {
		if err := topic.ValidateFilter(f.Filter); err != nil {
			return nil, ErrInvalidTopicName
		}
		if f.QoS > c.negotiated.maxQoS {
			return nil, ErrQosInvalid
		}
	}

	var task *pendingTask
	c.submit(func() {
		id := c.allocateID()
		pkt := &packet.Subscribe{PacketID: id, Filters: filters, Properties: props}
		task = c.correlator.Register(awaitingSuback, id, c.cfg.AckTimeout)
		if err := c.writePacket(pkt); err != nil {
			c.correlator.resolve(task, taskResult{err: err})
		}
	})

	select {
	case res := <-task.result:
		c.submit(func() { c.releaseID(task.packetID) })
		if res.err != nil {
			return nil, res.err
		}
		ack := res.pkt.(*packet.Suback)
		return &SubscribeResult{ReasonCodes: ack.ReasonCodes, Properties: ack.Properties}, nil
	case <-ctx.Done():
		go func() {
			<-task.result
			c.submit(func() { c.releaseID(task.packetID) })
		}()
		return nil, ctx.Err()
	}
}

// Unsubscribe requests filters be removed from the session and waits for
// UNSUBACK.
func (c *Client) Unsubscribe(ctx context.Context, filters []string, props packet.Properties) (*SubscribeResult, error) {
	if c.State() != StateActive {
		return nil, ErrNoConnection
	}
	if len(filters) == 0 {
		return nil, ErrAtLeastOneTopicRequired
	}

	var task *pendingTask
	c.submit(func() {
		id := c.allocateID()
		pkt := &packet.Unsubscribe{PacketID: id, Filters: filters, Properties: props}
		task = c.correlator.Register(awaitingUnsuback, id, c.cfg.AckTimeout)
		if err := c.writePacket(pkt); err != nil {
			c.correlator.resolve(task, taskResult{err: err})
		}
	})

	select {
	case res := <-task.result:
		c.submit(func() { c.releaseID(task.packetID) })
		if res.err != nil {
			return nil, res.err
		}
		ack := res.pkt.(*packet.Unsuback)
		return &SubscribeResult{ReasonCodes: ack.ReasonCodes, Properties: ack.Properties}, nil
	case <-ctx.Done():
		go func() {
			<-task.result
			c.submit(func() { c.releaseID(task.packetID) })
		}()
		return nil, ctx.Err()
	}
}
