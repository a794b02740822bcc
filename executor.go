package mqttclient

import (
	"bytes"
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"

	"github.com/golang-io/mqttclient/packet"
)

// inboundFrame is what the reader goroutine hands to the executor: either a
// decoded packet or the error that ended the read loop (io.EOF, a transport
// fault, or a framing violation).
type inboundFrame struct {
	pkt packet.Packet
	err error
}

// startExecutor launches the reader and job-processing goroutines for a live
// connection and returns once both have been scheduled. Every subsequent
// touch of session state (inflight, correlator, listeners, negotiated
// params) happens inside the job loop, so only one goroutine ever mutates
// them concurrently with a wire write.
func (c *Client) startExecutor(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.jobs = make(chan func(), 64)
	c.done = make(chan struct{})
	c.closing = false

	inbound := make(chan inboundFrame, 16)
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		c.readLoop(egCtx, inbound)
		return nil
	})
	eg.Go(func() error {
		c.jobLoop(egCtx, inbound)
		return nil
	})

	go func() {
		_ = eg.Wait()
		close(c.done)
	}()
}

// readLoop pulls bytes off the transport, frames them, decodes them against
// the negotiated protocol version, and forwards the result to the job loop.
// It never touches session state directly.
func (c *Client) readLoop(ctx context.Context, inbound chan<- inboundFrame) {
	defer close(inbound)
	var dec packet.FrameDecoder
	buf := make([]byte, 4096)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			c.metrics.bytesRecv.Add(float64(n))
			dec.Feed(buf[:n])
			for {
				fixed, body, ok, decErr := dec.Next()
				if decErr != nil {
					select {
					case inbound <- inboundFrame{err: &DecodeError{Err: decErr}}:
					case <-ctx.Done():
					}
					return
				}
				if !ok {
					break
				}
				fixed.Version = c.version
				pkt, decErr := packet.Decode(fixed, body)
				if decErr != nil {
					select {
					case inbound <- inboundFrame{err: &DecodeError{Err: decErr}}:
					case <-ctx.Done():
					}
					return
				}
				select {
				case inbound <- inboundFrame{pkt: pkt}:
				case <-ctx.Done():
					return
				}
			}
		}
		if err != nil {
			wrapped := err
			if errors.Is(err, io.EOF) {
				wrapped = ErrServerClosedConnection
			}
			select {
			case inbound <- inboundFrame{err: wrapped}:
			case <-ctx.Done():
			}
			return
		}
	}
}

// jobLoop is the executor: it serializes submitted jobs, the keep-alive
// ticker's probes, and inbound-packet dispatch onto one goroutine.
func (c *Client) jobLoop(ctx context.Context, inbound <-chan inboundFrame) {
	for {
		select {
		case <-ctx.Done():
			c.teardown(ctx.Err())
			return
		case job, ok := <-c.jobs:
			if !ok {
				return
			}
			job()
		case frame, ok := <-inbound:
			if !ok {
				continue
			}
			if frame.err != nil {
				c.teardown(frame.err)
				return
			}
			c.dispatch(frame.pkt)
		}
	}
}

// submit hands fn to the executor goroutine and blocks until it has run.
// If the executor has exited, submit returns without fn having run.
// Callers outside the executor (Publish, Subscribe, Disconnect, ...) use
// this for every operation that reads or writes session state.
func (c *Client) submit(fn func()) {
	done := make(chan struct{})
	select {
	case c.jobs <- func() { fn(); close(done) }:
		select {
		case <-done:
		case <-c.done:
		}
	case <-c.done:
	}
}

// writePacket encodes and writes pkt on the current connection. Only ever
// called from the executor goroutine.
func (c *Client) writePacket(pkt packet.Packet) error {
	var buf bytes.Buffer
	if err := packet.Encode(&buf, c.version, pkt); err != nil {
		return err
	}
	n, err := c.conn.Write(buf.Bytes())
	if err != nil {
		return err
	}
	c.metrics.packetsSent.Inc()
	c.metrics.bytesSent.Add(float64(n))
	if c.keepAlive != nil {
		c.keepAlive.noteWrite()
	}
	return nil
}

// teardown runs once, from the executor goroutine, when the connection ends
// for any reason: it fails every pending correlator task, notifies close
// listeners, and releases the transport.
func (c *Client) teardown(err error) {
	if c.closing {
		return
	}
	c.closing = true

	c.setState(StateClosed)
	if c.keepAlive != nil {
		c.keepAlive.Stop()
	}
	c.correlator.FailAll(err)
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.metrics.connected.Set(0)
	if err == context.Canceled {
		err = nil
	}
	c.listeners.NotifyClose(err)
	c.log.Info("connection closed", zap.Error(err), zap.String("client_id", c.cfg.ClientID))
	if c.cancel != nil {
		c.cancel()
	}
}
