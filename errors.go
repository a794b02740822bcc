package mqttclient

import (
	"errors"
	"fmt"

	"github.com/golang-io/mqttclient/packet"
)

// Misuse errors: the caller asked for something the client's current state
// cannot satisfy.
var (
	ErrAlreadyConnected       = errors.New("mqtt: already connected")
	ErrNoConnection           = errors.New("mqtt: no connection")
	ErrAtLeastOneTopicRequired = errors.New("mqtt: at least one topic filter is required")
	ErrQosInvalid             = errors.New("mqtt: qos must be 0, 1 or 2")
	ErrRetainUnavailable      = errors.New("mqtt: broker does not support retained messages")
	ErrTopicAliasOutOfRange   = errors.New("mqtt: topic alias exceeds the broker's maximum")
	ErrInvalidTopicName       = errors.New("mqtt: invalid topic name")
	ErrPublishIncludesSubscription = errors.New("mqtt: publish must not carry a subscription identifier")
	ErrBadParameter           = errors.New("mqtt: bad parameter")
	ErrAuthWorkflowRequired   = errors.New("mqtt: server requested AUTH but no workflow was configured")
)

// ErrFailedToConnect means the first packet the broker sent was not a
// CONNACK (or AUTH, for v5 enhanced auth).
var ErrFailedToConnect = errors.New("mqtt: unexpected first packet from broker")

// ErrServerClosedConnection means the transport closed without a DISCONNECT.
var ErrServerClosedConnection = errors.New("mqtt: server closed connection")

// ErrTimeout means a pending operation's correlator task was never matched
// before its deadline.
var ErrTimeout = errors.New("mqtt: operation timed out")

// ConnectionError wraps the CONNACK return code (v3.1.1) or failure reason
// code (v5) that rejected the connection attempt.
type ConnectionError struct {
	ReasonCode packet.ReasonCode
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mqtt: connect rejected: %s", e.ReasonCode.Reason)
}

// ReasonError wraps a v5 failure reason code returned on a PUBACK, PUBREC or
// PUBCOMP, or on an AUTH during re-authentication. SUBACK and UNSUBACK
// reason codes are returned per filter in SubscribeResult instead.
type ReasonError struct {
	ReasonCode packet.ReasonCode
}

func (e *ReasonError) Error() string {
	return fmt.Sprintf("mqtt: %s", e.ReasonCode.Reason)
}

// ServerDisconnection wraps a broker-initiated v5 DISCONNECT.
type ServerDisconnection struct {
	ReasonCode packet.ReasonCode
	Properties packet.Properties
}

func (e *ServerDisconnection) Error() string {
	return fmt.Sprintf("mqtt: server disconnected: %s", e.ReasonCode.Reason)
}

// UnexpectedMessage means a wire-legal packet arrived in a context the
// session engine does not permit (e.g. a reply to CONNECT that is neither
// CONNACK nor AUTH).
type UnexpectedMessage struct {
	Kind byte
}

func (e *UnexpectedMessage) Error() string {
	return fmt.Sprintf("mqtt: unexpected %s in current state", packet.Kind[e.Kind])
}

// DecodeError wraps a framing/codec failure on inbound data.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("mqtt: decode error: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// BadResponse means a reply packet was structurally well-formed but did not
// satisfy the correlator predicate it was expected to match (e.g. a PUBACK
// with the wrong packet id never arrives, but something else unmatched did).
var ErrBadResponse = errors.New("mqtt: bad response")
