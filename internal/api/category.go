package api

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/product"
)

// Category is the wire form of a product category.
type Category struct {
	ID          int64
	Name        string
	Description string
}

// FromCategory converts a domain category.
func FromCategory(c product.Category) Category {
	return Category(c)
}

// Domain converts c back into a domain category.
func (c Category) Domain() product.Category {
	return product.Category(c)
}

// Encode implements Encoder.
func (c *Category) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(c.ID)
	e.FieldStart("name")
	e.Str(c.Name)
	e.FieldStart("description")
	e.Str(c.Description)
	e.ObjEnd()
}

// Decode implements Decoder.
func (c *Category) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			var v *int64
			if v, err = decodeLooseInt64(d); v != nil {
				c.ID = *v
			}
		case "name":
			c.Name, err = d.Str()
		case "description":
			c.Description, err = d.Str()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
}

// Categories is a JSON array of categories.
type Categories []Category

// FromCategories converts domain categories.
func FromCategories(categories []product.Category) Categories {
	out := make(Categories, len(categories))
	for i, c := range categories {
		out[i] = Category(c)
	}
	return out
}

// Domain converts the list back into domain categories.
func (l Categories) Domain() []product.Category {
	out := make([]product.Category, len(l))
	for i, c := range l {
		out[i] = product.Category(c)
	}
	return out
}

// Encode implements Encoder.
func (l Categories) Encode(e *jx.Encoder) {
	e.ArrStart()
	for i := range l {
		l[i].Encode(e)
	}
	e.ArrEnd()
}

// Decode implements Decoder.
func (l *Categories) Decode(d *jx.Decoder) error {
	out := Categories{}
	if err := d.Arr(func(d *jx.Decoder) error {
		var c Category
		if err := c.Decode(d); err != nil {
			return errors.Wrapf(err, "category %d", len(out))
		}
		out = append(out, c)
		return nil
	}); err != nil {
		return err
	}
	*l = out
	return nil
}
