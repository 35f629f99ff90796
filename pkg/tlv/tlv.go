// Package tlv implements the two-digit ASCII Tag-Length-Value format used by
// EMVCo merchant-presented QR codes: a 2 character numeric tag, a 2 digit
// decimal length and the value itself.
package tlv

import (
	"fmt"
	"strings"
)

const (
	tagLen    = 2
	lenLen    = 2
	headerLen = tagLen + lenLen
	maxValue  = 99
)

// Record is a single decoded tag/value pair.
type Record struct {
	Tag   string
	Value string
}

// Encode renders the record as tag + length + value.
func (r Record) Encode() (string, error) {
	return Encode(r.Tag, r.Value)
}

// Records keeps every decoded record in wire order, duplicates included.
type Records []Record

// Get returns the value of the last record carrying tag.
func (rs Records) Get(tag string) (string, bool) {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i].Tag == tag {
			return rs[i].Value, true
		}
	}
	return "", false
}

// Value is Get without the presence flag.
func (rs Records) Value(tag string) string {
	v, _ := rs.Get(tag)
	return v
}

// Map is the last-write-wins view of the records.
func (rs Records) Map() map[string]string {
	m := make(map[string]string, len(rs))
	for _, r := range rs {
		m[r.Tag] = r.Value
	}
	return m
}

// Encode re-encodes every record in order.
func (rs Records) Encode() (string, error) {
	var sb strings.Builder
	for _, r := range rs {
		s, err := r.Encode()
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// Decode parses s left to right. A trailing fragment shorter than a tag and
// length header is ignored; any other structural problem fails the whole call.
func Decode(s string) (Records, error) {
	records := make(Records, 0, 16)

	offset := 0
	for len(s)-offset >= headerLen {
		tag := s[offset : offset+tagLen]
		if !isDigits(tag) {
			return nil, &MalformedError{Tag: tag, Offset: offset, Reason: "tag is not numeric"}
		}

		lengthStr := s[offset+tagLen : offset+headerLen]
		if !isDigits(lengthStr) {
			return nil, &MalformedError{Tag: tag, Offset: offset, Reason: fmt.Sprintf("length %q is not numeric", lengthStr)}
		}
		length := int(lengthStr[0]-'0')*10 + int(lengthStr[1]-'0')

		start := offset + headerLen
		if start+length > len(s) {
			return nil, &MalformedError{
				Tag:    tag,
				Offset: offset,
				Reason: fmt.Sprintf("length %d exceeds remaining %d bytes", length, len(s)-start),
			}
		}

		records = append(records, Record{Tag: tag, Value: s[start : start+length]})
		offset = start + length
	}

	return records, nil
}

// Encode renders tag + zero padded two digit length + value.
func Encode(tag, value string) (string, error) {
	if len(tag) != tagLen || !isDigits(tag) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTagLen, tag)
	}
	if len(value) > maxValue {
		return "", fmt.Errorf("%w: tag %s has %d bytes", ErrValueTooLong, tag, len(value))
	}
	return fmt.Sprintf("%s%02d%s", tag, len(value), value), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
