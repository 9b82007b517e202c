package cart

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

func encodeItems(items []LineItem) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, it := range items {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(it.ProductID)
		e.FieldStart("name")
		e.Str(it.Name)
		e.FieldStart("price")
		e.Num(jx.Num(it.Price.String()))
		e.FieldStart("imageUrl")
		e.Str(it.ImageURL)
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.FieldStart("stockLimit")
		e.Int(it.StockLimit)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeItems(data []byte) ([]LineItem, error) {
	d := jx.DecodeBytes(data)
	if d.Next() == jx.Null {
		if err := d.Null(); err != nil {
			return nil, err
		}
		return nil, ensureEnd(d)
	}
	items := []LineItem{}
	if err := d.Arr(func(d *jx.Decoder) error {
		it, err := decodeItem(d)
		if err != nil {
			return errors.Wrapf(err, "item %d", len(items))
		}
		items = append(items, it)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := ensureEnd(d); err != nil {
		return nil, err
	}
	return items, nil
}

// ensureEnd fails when anything but whitespace follows the decoded value.
func ensureEnd(d *jx.Decoder) error {
	if tt := d.Next(); tt != jx.Invalid {
		return errors.Errorf("unexpected %s after cart payload", tt)
	}
	return nil
}

func decodeItem(d *jx.Decoder) (LineItem, error) {
	var it LineItem
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "productId":
			it.ProductID, err = d.Str()
		case "name":
			it.Name, err = d.Str()
		case "price":
			it.Price, err = decodePrice(d)
		case "imageUrl":
			it.ImageURL, err = d.Str()
		case "quantity":
			it.Quantity, err = d.Int()
		// "stock" is the field name written by older storefront clients.
		case "stockLimit", "stock":
			it.StockLimit, err = d.Int()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
	return it, err
}

func decodePrice(d *jx.Decoder) (decimal.Decimal, error) {
	var raw string
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		raw = s
	default:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		raw = n.String()
	}
	return decimal.NewFromString(raw)
}
