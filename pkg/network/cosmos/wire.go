// pkg/network/cosmos/wire.go
package cosmos

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// EncodeVarint encodes v as a base-128 varint.
func EncodeVarint(v uint64) []byte {
	return protowire.AppendVarint(nil, v)
}

// DecodeVarint decodes a varint from the start of b and returns the value and the
// number of bytes consumed.
func DecodeVarint(b []byte) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, fmt.Errorf("decode varint: %w", protowire.ParseError(n))
	}
	return v, n, nil
}

// Concat joins byte slices in order.
func Concat(parts ...[]byte) []byte {
	size := 0
	for _, p := range parts {
		size += len(p)
	}
	out := make([]byte, 0, size)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// FieldTag returns the encoded tag for a field: (num << 3) | typ.
func FieldTag(num protowire.Number, typ protowire.Type) []byte {
	return protowire.AppendTag(nil, num, typ)
}

// appendString appends a length-delimited string field. Empty strings are still written.
func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// appendBytes appends a length-delimited bytes or nested message field.
func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// appendVarint appends a varint field (wire type 0).
func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// rawField is a single decoded field, used to read back envelopes.
type rawField struct {
	Num    protowire.Number
	Type   protowire.Type
	Varint uint64
	Bytes  []byte
}

// decodeFields splits a message into its top-level fields. Only varint and
// length-delimited fields are accepted since those are the only ones this codec writes.
func decodeFields(b []byte) ([]rawField, error) {
	var fields []rawField
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("decode tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		f := rawField{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return nil, fmt.Errorf("decode field %d: %w", num, protowire.ParseError(m))
			}
			f.Varint = v
			b = b[m:]
		case protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, fmt.Errorf("decode field %d: %w", num, protowire.ParseError(m))
			}
			f.Bytes = v
			b = b[m:]
		default:
			return nil, fmt.Errorf("decode field %d: unexpected wire type %d", num, typ)
		}
		fields = append(fields, f)
	}
	return fields, nil
}
