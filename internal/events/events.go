// Package events publishes catalog change notifications.
package events

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Event types published for admin catalog changes. The type doubles as the
// message subject.
const (
	ProductCreated  = "catalog.product.created"
	ProductUpdated  = "catalog.product.updated"
	ProductDeleted  = "catalog.product.deleted"
	CategoryCreated = "catalog.category.created"
	CategoryDeleted = "catalog.category.deleted"
)

// Event describes a single catalog change.
type Event struct {
	Type string
	// ID is the product id or the decimal category id.
	ID string
	At time.Time
}

// Encode writes e as a JSON object.
func (e Event) Encode() []byte {
	var enc jx.Encoder
	enc.ObjStart()
	enc.FieldStart("type")
	enc.Str(e.Type)
	enc.FieldStart("id")
	enc.Str(e.ID)
	enc.FieldStart("at")
	enc.Str(e.At.UTC().Format(time.RFC3339Nano))
	enc.ObjEnd()
	return enc.Bytes()
}

// Decode parses an event encoded by Encode.
func Decode(data []byte) (Event, error) {
	var e Event
	err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "type":
			v, err := d.Str()
			e.Type = v
			return err
		case "id":
			v, err := d.Str()
			e.ID = v
			return err
		case "at":
			v, err := d.Str()
			if err != nil {
				return err
			}
			e.At, err = time.Parse(time.RFC3339Nano, v)
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return Event{}, errors.Wrap(err, "decode event")
	}
	return e, nil
}

// Publisher delivers catalog events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }
