package packet

import "errors"

// ErrIncompletePacket signals that a field ran past the end of the bytes
// available to decode it. FrameDecoder never returns it (a short frame is
// reported as ok == false); from Decode, whose body is already a whole frame,
// it means the packet's fields overrun its remaining length.
var ErrIncompletePacket = errors.New("mqtt: incomplete packet")

// ReasonCode is the 8-bit status code shared by CONNACK, PUBACK, PUBREC, PUBREL,
// PUBCOMP, SUBACK, UNSUBACK, DISCONNECT and AUTH. Values below 128 are success,
// values at or above 128 are failures. It implements error so decode-time
// violations (which reuse the same taxonomy) can be returned directly.
type ReasonCode struct {
	Code   uint8
	Reason string
}

func (rc ReasonCode) Error() string {
	return rc.Reason
}

// Failed reports whether the code represents an unsuccessful outcome.
func (rc ReasonCode) Failed() bool {
	return rc.Code >= 0x80
}

// Success / common reason codes (0x00-0x02), meaning varies by packet type.
var (
	CodeSuccess                   = ReasonCode{0x00, "success"}
	CodeNormalDisconnection       = ReasonCode{0x00, "normal disconnection"}
	CodeGrantedQoS0               = ReasonCode{0x00, "granted qos 0"}
	CodeGrantedQoS1               = ReasonCode{0x01, "granted qos 1"}
	CodeGrantedQoS2               = ReasonCode{0x02, "granted qos 2"}
	CodeDisconnectWithWillMessage = ReasonCode{0x04, "disconnect with will message"}
	CodeNoMatchingSubscribers     = ReasonCode{0x10, "no matching subscribers"}
	CodeNoSubscriptionExisted     = ReasonCode{0x11, "no subscription existed"}
	CodeContinueAuthentication    = ReasonCode{0x18, "continue authentication"}
	CodeReAuthenticate            = ReasonCode{0x19, "re-authenticate"}
)

// Failure reason codes (0x80+), shared across the ack packet types named in
// the MQTT v5.0 reason code tables (sections 3.2.2.2, 3.4.2.1, 3.14.2.1, ...).
var (
	ErrUnspecifiedError                    = ReasonCode{0x80, "unspecified error"}
	ErrMalformedPacket                     = ReasonCode{0x81, "malformed packet"}
	ErrProtocolErr                         = ReasonCode{0x82, "protocol error"}
	ErrImplementationSpecificError         = ReasonCode{0x83, "implementation specific error"}
	ErrUnsupportedProtocolVersion          = ReasonCode{0x84, "unsupported protocol version"}
	ErrClientIdentifierNotValid            = ReasonCode{0x85, "client identifier not valid"}
	ErrBadUsernameOrPassword               = ReasonCode{0x86, "bad username or password"}
	ErrNotAuthorized                       = ReasonCode{0x87, "not authorized"}
	ErrServerUnavailable                   = ReasonCode{0x88, "server unavailable"}
	ErrServerBusy                          = ReasonCode{0x89, "server busy"}
	ErrBanned                              = ReasonCode{0x8A, "banned"}
	ErrServerShuttingDown                  = ReasonCode{0x8B, "server shutting down"}
	ErrBadAuthenticationMethod             = ReasonCode{0x8C, "bad authentication method"}
	ErrKeepAliveTimeout                    = ReasonCode{0x8D, "keep alive timeout"}
	ErrSessionTakenOver                    = ReasonCode{0x8E, "session taken over"}
	ErrTopicFilterInvalid                  = ReasonCode{0x8F, "topic filter invalid"}
	ErrTopicNameInvalid                    = ReasonCode{0x90, "topic name invalid"}
	ErrPacketIdentifierInUse               = ReasonCode{0x91, "packet identifier in use"}
	ErrPacketIdentifierNotFound            = ReasonCode{0x92, "packet identifier not found"}
	ErrReceiveMaximumExceeded              = ReasonCode{0x93, "receive maximum exceeded"}
	ErrTopicAliasInvalid                   = ReasonCode{0x94, "topic alias invalid"}
	ErrPacketTooLarge                      = ReasonCode{0x95, "packet too large"}
	ErrMessageRateTooHigh                  = ReasonCode{0x96, "message rate too high"}
	ErrQuotaExceeded                       = ReasonCode{0x97, "quota exceeded"}
	ErrAdministrativeAction                = ReasonCode{0x98, "administrative action"}
	ErrPayloadFormatInvalid                = ReasonCode{0x99, "payload format invalid"}
	ErrRetainNotSupported                  = ReasonCode{0x9A, "retain not supported"}
	ErrQoSNotSupported                     = ReasonCode{0x9B, "qos not supported"}
	ErrUseAnotherServer                    = ReasonCode{0x9C, "use another server"}
	ErrServerMoved                         = ReasonCode{0x9D, "server moved"}
	ErrSharedSubscriptionsNotSupported     = ReasonCode{0x9E, "shared subscriptions not supported"}
	ErrConnectionRateExceeded              = ReasonCode{0x9F, "connection rate exceeded"}
	ErrMaximumConnectTime                  = ReasonCode{0xA0, "maximum connect time"}
	ErrSubscriptionIdentifiersNotSupported = ReasonCode{0xA1, "subscription identifiers not supported"}
	ErrWildcardSubscriptionsNotSupported   = ReasonCode{0xA2, "wildcard subscriptions not supported"}
)

// v3.1.1 CONNACK return codes, a separate namespace from the v5 reason codes
// above but carried in the same wire field.
var (
	ErrV3UnacceptableProtocolVersion = ReasonCode{0x01, "unacceptable protocol version"}
	ErrV3IdentifierRejected          = ReasonCode{0x02, "identifier rejected"}
	ErrV3ServerUnavailable           = ReasonCode{0x03, "server unavailable"}
	ErrV3BadUsernameOrPassword       = ReasonCode{0x04, "bad username or password"}
	ErrV3NotAuthorized               = ReasonCode{0x05, "not authorized"}
)

// Malformed-packet errors raised while decoding a specific field. These are all
// ReasonCode 0x81 (malformed packet) so they can be reported verbatim in a
// CONNACK/DISCONNECT reason when the local peer is the one rejecting the packet.
var (
	ErrMalformedProtocolName        = ReasonCode{0x81, "malformed packet: protocol name"}
	ErrMalformedProtocolVersion     = ReasonCode{0x81, "malformed packet: protocol version"}
	ErrMalformedFlags               = ReasonCode{0x81, "malformed packet: flags"}
	ErrMalformedPacketID            = ReasonCode{0x81, "malformed packet: packet identifier"}
	ErrMalformedTopic               = ReasonCode{0x81, "malformed packet: topic"}
	ErrMalformedUTF8String          = ReasonCode{0x81, "malformed packet: invalid utf-8 string"}
	ErrMalformedVariableByteInteger = ReasonCode{0x81, "malformed packet: variable byte integer out of range"}
	ErrMalformedProperty            = ReasonCode{0x81, "malformed packet: unknown property identifier"}
	ErrMalformedProperties          = ReasonCode{0x81, "malformed packet: properties"}
	ErrMalformedReasonCode          = ReasonCode{0x81, "malformed packet: reason code"}
)

// Protocol violations (0x82) detected structurally rather than field-by-field.
var (
	ErrProtocolViolationQosOutOfRange       = ReasonCode{0x82, "protocol violation: qos out of range"}
	ErrProtocolViolationSecondConnect       = ReasonCode{0x82, "protocol violation: second connect packet"}
	ErrProtocolViolationRequireFirstConnect = ReasonCode{0x82, "protocol violation: first packet must be connect"}
	ErrProtocolViolationWillFlagNoPayload   = ReasonCode{0x82, "protocol violation: will flag set without will payload"}
	ErrProtocolViolationSurplusWildcard     = ReasonCode{0x82, "protocol violation: topic name contains wildcards"}
	ErrProtocolViolationNoFilters           = ReasonCode{0x82, "protocol violation: subscribe must contain at least one filter"}
	ErrProtocolViolationSurplusSubID        = ReasonCode{0x82, "protocol violation: publish carries a subscription identifier"}
)
