package packet

import "bytes"

// PropertyID is the wire identifier of an MQTT v5 property. The identifier
// selects both the property's meaning and its on-wire value type (section
// 2.2.2.2, table 2-4 of the v5.0 spec).
type PropertyID byte

const (
	PayloadFormatIndicator           PropertyID = 0x01
	MessageExpiryInterval            PropertyID = 0x02
	ContentType                      PropertyID = 0x03
	ResponseTopic                    PropertyID = 0x08
	CorrelationData                  PropertyID = 0x09
	SubscriptionIdentifier           PropertyID = 0x0B
	SessionExpiryInterval            PropertyID = 0x11
	AssignedClientIdentifier         PropertyID = 0x12
	ServerKeepAlive                  PropertyID = 0x13
	AuthenticationMethod             PropertyID = 0x15
	AuthenticationData               PropertyID = 0x16
	RequestProblemInformation        PropertyID = 0x17
	WillDelayInterval                PropertyID = 0x18
	RequestResponseInformation       PropertyID = 0x19
	ResponseInformation              PropertyID = 0x1A
	ServerReference                  PropertyID = 0x1C
	ReasonString                     PropertyID = 0x1F
	ReceiveMaximum                   PropertyID = 0x21
	TopicAliasMaximum                PropertyID = 0x22
	TopicAlias                       PropertyID = 0x23
	MaximumQoS                       PropertyID = 0x24
	RetainAvailable                  PropertyID = 0x25
	UserProperty                     PropertyID = 0x26
	MaximumPacketSize                PropertyID = 0x27
	WildcardSubscriptionAvailable    PropertyID = 0x28
	SubscriptionIdentifiersAvailable PropertyID = 0x29
	SharedSubscriptionAvailable      PropertyID = 0x2A
)

// valueKind is the wire representation of a property's value, per table 2-4.
type valueKind int

const (
	kindByte valueKind = iota
	kindUint16
	kindUint32
	kindVarInt
	kindString
	kindStringPair
	kindBinary
)

type propertyDef struct {
	name    string
	kind    valueKind
	repeats bool // MAY appear more than once (User Property, and Subscription Identifier in SUBSCRIBE)
}

var propertyTable = map[PropertyID]propertyDef{
	PayloadFormatIndicator:           {"Payload Format Indicator", kindByte, false},
	MessageExpiryInterval:            {"Message Expiry Interval", kindUint32, false},
	ContentType:                      {"Content Type", kindString, false},
	ResponseTopic:                    {"Response Topic", kindString, false},
	CorrelationData:                  {"Correlation Data", kindBinary, false},
	SubscriptionIdentifier:           {"Subscription Identifier", kindVarInt, true},
	SessionExpiryInterval:            {"Session Expiry Interval", kindUint32, false},
	AssignedClientIdentifier:         {"Assigned Client Identifier", kindString, false},
	ServerKeepAlive:                  {"Server Keep Alive", kindUint16, false},
	AuthenticationMethod:             {"Authentication Method", kindString, false},
	AuthenticationData:               {"Authentication Data", kindBinary, false},
	RequestProblemInformation:        {"Request Problem Information", kindByte, false},
	WillDelayInterval:                {"Will Delay Interval", kindUint32, false},
	RequestResponseInformation:       {"Request Response Information", kindByte, false},
	ResponseInformation:              {"Response Information", kindString, false},
	ServerReference:                  {"Server Reference", kindString, false},
	ReasonString:                     {"Reason String", kindString, false},
	ReceiveMaximum:                   {"Receive Maximum", kindUint16, false},
	TopicAliasMaximum:                {"Topic Alias Maximum", kindUint16, false},
	TopicAlias:                       {"Topic Alias", kindUint16, false},
	MaximumQoS:                       {"Maximum QoS", kindByte, false},
	RetainAvailable:                  {"Retain Available", kindByte, false},
	UserProperty:                     {"User Property", kindStringPair, true},
	MaximumPacketSize:                {"Maximum Packet Size", kindUint32, false},
	WildcardSubscriptionAvailable:    {"Wildcard Subscription Available", kindByte, false},
	SubscriptionIdentifiersAvailable: {"Subscription Identifiers Available", kindByte, false},
	SharedSubscriptionAvailable:      {"Shared Subscription Available", kindByte, false},
}

// Property is one (identifier, value) pair from a property block. Exactly one
// of the value fields is meaningful, selected by propertyTable[ID].kind.
type Property struct {
	ID      PropertyID
	Byte    uint8
	Uint16  uint16
	Uint32  uint32
	VarInt  uint32
	Str     string
	StrPair [2]string
	Bin     []byte
}

// Properties is the ordered list of properties carried by a v5 packet. Order
// is preserved end to end so repeated User Property entries round-trip, which
// a keyed map representation cannot guarantee.
type Properties []Property

func NewByteProperty(id PropertyID, v uint8) Property    { return Property{ID: id, Byte: v} }
func NewUint16Property(id PropertyID, v uint16) Property { return Property{ID: id, Uint16: v} }
func NewUint32Property(id PropertyID, v uint32) Property { return Property{ID: id, Uint32: v} }
func NewVarIntProperty(id PropertyID, v uint32) Property { return Property{ID: id, VarInt: v} }
func NewStringProperty(id PropertyID, v string) Property { return Property{ID: id, Str: v} }
func NewBinaryProperty(id PropertyID, v []byte) Property { return Property{ID: id, Bin: v} }
func NewUserProperty(key, value string) Property {
	return Property{ID: UserProperty, StrPair: [2]string{key, value}}
}

// Get returns the first property with the given id.
func (ps Properties) Get(id PropertyID) (Property, bool) {
	for _, p := range ps {
		if p.ID == id {
			return p, true
		}
	}
	return Property{}, false
}

// All returns every property with the given id, in encounter order — used for
// repeatable properties (User Property, Subscription Identifier).
func (ps Properties) All(id PropertyID) []Property {
	var out []Property
	for _, p := range ps {
		if p.ID == id {
			out = append(out, p)
		}
	}
	return out
}

func (ps Properties) Uint32(id PropertyID) (uint32, bool) {
	p, ok := ps.Get(id)
	if !ok {
		return 0, false
	}
	if propertyTable[id].kind == kindVarInt {
		return p.VarInt, true
	}
	return p.Uint32, true
}

func (ps Properties) Uint16(id PropertyID) (uint16, bool) {
	p, ok := ps.Get(id)
	return p.Uint16, ok
}

func (ps Properties) Byte(id PropertyID) (uint8, bool) {
	p, ok := ps.Get(id)
	return p.Byte, ok
}

func (ps Properties) String(id PropertyID) (string, bool) {
	p, ok := ps.Get(id)
	return p.Str, ok
}

func (ps Properties) Binary(id PropertyID) ([]byte, bool) {
	p, ok := ps.Get(id)
	return p.Bin, ok
}

// encodeValue writes a single property's value, without its identifier.
func encodeValue(kind valueKind, p Property) []byte {
	switch kind {
	case kindByte:
		return []byte{p.Byte}
	case kindUint16:
		return encodeUint16(p.Uint16)
	case kindUint32:
		return encodeUint32(p.Uint32)
	case kindVarInt:
		b, _ := encodeVarInt(p.VarInt) // caller-constructed; always <= maxVarInt4 for the fields we use this on
		return b
	case kindString:
		return encodeString(p.Str)
	case kindBinary:
		return encodeBinary(p.Bin)
	case kindStringPair:
		out := encodeString(p.StrPair[0])
		return append(out, encodeString(p.StrPair[1])...)
	default:
		return nil
	}
}

// Encode serializes the property block: a variable byte integer length
// followed by each (identifier, value) pair in the order supplied.
func (ps Properties) Encode() ([]byte, error) {
	var body bytes.Buffer
	for _, p := range ps {
		def, ok := propertyTable[p.ID]
		if !ok {
			return nil, ErrMalformedProperty
		}
		idBytes, err := encodeVarInt(uint32(p.ID))
		if err != nil {
			return nil, err
		}
		body.Write(idBytes)
		body.Write(encodeValue(def.kind, p))
	}
	lenBytes, err := encodeVarInt(uint32(body.Len()))
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(lenBytes)+body.Len())
	out = append(out, lenBytes...)
	out = append(out, body.Bytes()...)
	return out, nil
}

// DecodeProperties reads a property block off buf: length prefix, then that
// many bytes of (identifier, value) pairs. It restarts from an empty list on
// every call — there is no carry-over state between packets.
func DecodeProperties(buf *bytes.Buffer) (Properties, error) {
	length, err := decodeVarInt(buf)
	if err != nil {
		return nil, err
	}
	if buf.Len() < int(length) {
		return nil, ErrIncompletePacket
	}
	sub := bytes.NewBuffer(buf.Next(int(length)))

	var props Properties
	seen := map[PropertyID]bool{}
	for sub.Len() > 0 {
		idVal, err := decodeVarInt(sub)
		if err != nil {
			return nil, ErrMalformedProperties
		}
		id := PropertyID(idVal)
		def, ok := propertyTable[id]
		if !ok {
			return nil, ErrMalformedProperty
		}
		if seen[id] && !def.repeats {
			return nil, ErrProtocolErr
		}
		seen[id] = true

		p := Property{ID: id}
		switch def.kind {
		case kindByte:
			if p.Byte, err = decodeByte(sub); err != nil {
				return nil, err
			}
		case kindUint16:
			if p.Uint16, err = decodeUint16(sub); err != nil {
				return nil, err
			}
		case kindUint32:
			if p.Uint32, err = decodeUint32(sub); err != nil {
				return nil, err
			}
		case kindVarInt:
			if p.VarInt, err = decodeVarInt(sub); err != nil {
				return nil, err
			}
		case kindString:
			if p.Str, err = decodeString(sub); err != nil {
				return nil, err
			}
		case kindBinary:
			if p.Bin, err = decodeBinary(sub); err != nil {
				return nil, err
			}
		case kindStringPair:
			if p.StrPair[0], err = decodeString(sub); err != nil {
				return nil, err
			}
			if p.StrPair[1], err = decodeString(sub); err != nil {
				return nil, err
			}
		}
		props = append(props, p)
	}
	return props, nil
}
