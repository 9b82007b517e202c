// Package api defines the JSON wire types of the storefront HTTP API and
// their jx codecs. The server and the catalog client share them.
package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// AdminKeyHeader carries the shared admin secret.
const AdminKeyHeader = "X-Admin-Key"

// Encoder is a type that writes itself as JSON.
type Encoder interface {
	Encode(e *jx.Encoder)
}

// Marshal encodes v into a fresh buffer.
func Marshal(v Encoder) []byte {
	var e jx.Encoder
	v.Encode(&e)
	return e.Bytes()
}

// Decoder is a type that reads itself from JSON.
type Decoder interface {
	Decode(d *jx.Decoder) error
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v Decoder) error {
	return v.Decode(jx.DecodeBytes(data))
}

func encodeDecimal(e *jx.Encoder, v decimal.Decimal) {
	e.Num(jx.Num(v.String()))
}

func encodeTime(e *jx.Encoder, field string, t time.Time) {
	if t.IsZero() {
		return
	}
	e.FieldStart(field)
	e.Str(t.UTC().Format(time.RFC3339Nano))
}

func decodeTime(d *jx.Decoder) (time.Time, error) {
	s, err := d.Str()
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, s)
}

// looseString reads a number or a string as its textual form. Null and
// blank strings report ok == false.
func looseString(d *jx.Decoder) (raw string, ok bool, err error) {
	switch d.Next() {
	case jx.Null:
		return "", false, d.Null()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return "", false, err
		}
		s = strings.TrimSpace(s)
		return s, s != "", nil
	default:
		n, err := d.Num()
		if err != nil {
			return "", false, err
		}
		return n.String(), true, nil
	}
}

func decodeLooseDecimal(d *jx.Decoder) (*decimal.Decimal, error) {
	raw, ok, err := looseString(d)
	if err != nil || !ok {
		return nil, err
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", raw)
	}
	return &v, nil
}

func decodeLooseInt64(d *jx.Decoder) (*int64, error) {
	raw, ok, err := looseString(d)
	if err != nil || !ok {
		return nil, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", raw)
	}
	return &v, nil
}

func decodeOptString(d *jx.Decoder) (*string, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	s, err := d.Str()
	if err != nil {
		return nil, err
	}
	return &s, nil
}
