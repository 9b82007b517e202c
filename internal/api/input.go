package api

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

// ProductInput is the body of product create and update requests. Every
// field is optional on the wire; numeric fields accept numbers or numeric
// strings, as HTML forms send them.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *int64
	Stock       *int64
	ImageURL    *string
}

// FromCreateInput converts a create request.
func FromCreateInput(in product.CreateInput) ProductInput {
	stock := int64(in.Stock)
	return ProductInput{
		Name:        &in.Name,
		Description: &in.Description,
		Price:       &in.Price,
		CategoryID:  &in.CategoryID,
		Stock:       &stock,
		ImageURL:    &in.ImageURL,
	}
}

// FromUpdateInput converts a partial update request.
func FromUpdateInput(in product.UpdateInput) ProductInput {
	out := ProductInput{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		ImageURL:    in.ImageURL,
	}
	if in.Stock != nil {
		stock := int64(*in.Stock)
		out.Stock = &stock
	}
	return out
}

// CreateInput returns the create request; absent fields are zero.
func (in ProductInput) CreateInput() product.CreateInput {
	var out product.CreateInput
	if in.Name != nil {
		out.Name = *in.Name
	}
	if in.Description != nil {
		out.Description = *in.Description
	}
	if in.Price != nil {
		out.Price = *in.Price
	}
	if in.CategoryID != nil {
		out.CategoryID = *in.CategoryID
	}
	if in.Stock != nil {
		out.Stock = clampInt(*in.Stock)
	}
	if in.ImageURL != nil {
		out.ImageURL = *in.ImageURL
	}
	return out
}

// UpdateInput returns the partial update request.
func (in ProductInput) UpdateInput() product.UpdateInput {
	out := product.UpdateInput{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		ImageURL:    in.ImageURL,
	}
	if in.Stock != nil {
		stock := clampInt(*in.Stock)
		out.Stock = &stock
	}
	return out
}

func clampInt(v int64) int {
	const maxInt = int64(^uint(0) >> 1)
	switch {
	case v > maxInt:
		return int(maxInt)
	case v < -maxInt-1:
		return int(-maxInt - 1)
	default:
		return int(v)
	}
}

// Encode implements Encoder. Nil fields are omitted.
func (in *ProductInput) Encode(e *jx.Encoder) {
	e.ObjStart()
	if in.Name != nil {
		e.FieldStart("name")
		e.Str(*in.Name)
	}
	if in.Description != nil {
		e.FieldStart("description")
		e.Str(*in.Description)
	}
	if in.Price != nil {
		e.FieldStart("price")
		encodeDecimal(e, *in.Price)
	}
	if in.CategoryID != nil {
		e.FieldStart("categoryId")
		e.Int64(*in.CategoryID)
	}
	if in.Stock != nil {
		e.FieldStart("stock")
		e.Int64(*in.Stock)
	}
	if in.ImageURL != nil {
		e.FieldStart("imageUrl")
		e.Str(*in.ImageURL)
	}
	e.ObjEnd()
}

// Decode implements Decoder.
func (in *ProductInput) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "name":
			in.Name, err = decodeOptString(d)
		case "description":
			in.Description, err = decodeOptString(d)
		case "price":
			in.Price, err = decodeLooseDecimal(d)
		case "categoryId":
			in.CategoryID, err = decodeLooseInt64(d)
		case "stock":
			in.Stock, err = decodeLooseInt64(d)
		case "imageUrl":
			in.ImageURL, err = decodeOptString(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
}

// CategoryInput is the body of category create requests.
type CategoryInput struct {
	Name        string
	Description string
}

// Encode implements Encoder.
func (in *CategoryInput) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(in.Name)
	e.FieldStart("description")
	e.Str(in.Description)
	e.ObjEnd()
}

// Decode implements Decoder.
func (in *CategoryInput) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var (
			v   *string
			err error
		)
		switch string(key) {
		case "name":
			if v, err = decodeOptString(d); v != nil {
				in.Name = *v
			}
		case "description":
			if v, err = decodeOptString(d); v != nil {
				in.Description = *v
			}
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
}

// Domain converts the request for the catalog service.
func (in CategoryInput) Domain() product.CreateCategoryInput {
	return product.CreateCategoryInput(in)
}
