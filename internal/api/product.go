package api

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

// Product is the wire form of a catalog product.
type Product struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal
	CategoryID   int64
	CategoryName string
	ImageURL     string
	Stock        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FromProduct converts a domain product.
func FromProduct(p product.Product) Product {
	return Product(p)
}

// Domain converts p back into a domain product.
func (p Product) Domain() product.Product {
	return product.Product(p)
}

// Encode implements Encoder.
func (p *Product) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("price")
	encodeDecimal(e, p.Price)
	e.FieldStart("categoryId")
	e.Int64(p.CategoryID)
	e.FieldStart("categoryName")
	e.Str(p.CategoryName)
	e.FieldStart("imageUrl")
	e.Str(p.ImageURL)
	e.FieldStart("stock")
	e.Int(p.Stock)
	encodeTime(e, "createdAt", p.CreatedAt)
	encodeTime(e, "updatedAt", p.UpdatedAt)
	e.ObjEnd()
}

// Decode implements Decoder.
func (p *Product) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			p.ID, err = d.Str()
		case "name":
			p.Name, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "price":
			var v *decimal.Decimal
			if v, err = decodeLooseDecimal(d); v != nil {
				p.Price = *v
			}
		case "categoryId":
			var v *int64
			if v, err = decodeLooseInt64(d); v != nil {
				p.CategoryID = *v
			}
		case "categoryName":
			p.CategoryName, err = d.Str()
		case "imageUrl":
			p.ImageURL, err = d.Str()
		case "stock":
			p.Stock, err = d.Int()
		case "createdAt":
			p.CreatedAt, err = decodeTime(d)
		case "updatedAt":
			p.UpdatedAt, err = decodeTime(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
}

// Products is a JSON array of products.
type Products []Product

// FromProducts converts domain products.
func FromProducts(products []product.Product) Products {
	out := make(Products, len(products))
	for i, p := range products {
		out[i] = FromProduct(p)
	}
	return out
}

// Domain converts the list back into domain products.
func (l Products) Domain() []product.Product {
	out := make([]product.Product, len(l))
	for i, p := range l {
		out[i] = p.Domain()
	}
	return out
}

// Encode implements Encoder.
func (l Products) Encode(e *jx.Encoder) {
	e.ArrStart()
	for i := range l {
		l[i].Encode(e)
	}
	e.ArrEnd()
}

// Decode implements Decoder.
func (l *Products) Decode(d *jx.Decoder) error {
	out := Products{}
	if err := d.Arr(func(d *jx.Decoder) error {
		var p Product
		if err := p.Decode(d); err != nil {
			return errors.Wrapf(err, "product %d", len(out))
		}
		out = append(out, p)
		return nil
	}); err != nil {
		return err
	}
	*l = out
	return nil
}
