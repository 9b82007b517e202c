package api

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Message is the body of error responses and of delete confirmations.
type Message struct {
	Message string
	// Errors lists validation failures.
	Errors []string
}

// Encode implements Encoder.
func (m *Message) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("message")
	e.Str(m.Message)
	if len(m.Errors) > 0 {
		e.FieldStart("errors")
		e.ArrStart()
		for _, s := range m.Errors {
			e.Str(s)
		}
		e.ArrEnd()
	}
	e.ObjEnd()
}

// Decode implements Decoder.
func (m *Message) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "message":
			m.Message, err = d.Str()
		case "errors":
			err = d.Arr(func(d *jx.Decoder) error {
				s, err := d.Str()
				if err != nil {
					return err
				}
				m.Errors = append(m.Errors, s)
				return nil
			})
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
}
