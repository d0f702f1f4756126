package money

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// MarshalBSONValue stores the amount as a decimal string, mirroring the JSON
// encoding so archived documents stay exact and grep-able.
func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(m.value.String())
}

// UnmarshalBSONValue decodes the string form written by MarshalBSONValue.
// Signed values are accepted, as with JSON decoding.
func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var s string
	raw := bson.RawValue{Type: t, Value: data}
	if err := raw.Unmarshal(&s); err != nil {
		return err
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.value = d
	return nil
}
