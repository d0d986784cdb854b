package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// AudienceValue holds an event's audience selector. Degree and course audiences carry Text,
// student audiences carry Students, and "all" carries neither.
// It encodes as a JSON/BSON string, a string array or null.
type AudienceValue struct {
	Text     string
	Students []string
}

// AudienceText builds a string valued audience.
func AudienceText(v string) AudienceValue { return AudienceValue{Text: v} }

// AudienceStudentIDs builds a list valued audience.
func AudienceStudentIDs(ids ...string) AudienceValue {
	return AudienceValue{Students: append([]string{}, ids...)}
}

// IsList reports whether the value is an array of student IDs.
func (a AudienceValue) IsList() bool { return a.Students != nil }

// IsZero reports whether no selector is set.
func (a AudienceValue) IsZero() bool { return a.Students == nil && a.Text == "" }

// MarshalJSON implements json.Marshaler.
func (a AudienceValue) MarshalJSON() ([]byte, error) {
	switch {
	case a.IsList():
		return json.Marshal(a.Students)
	case a.Text != "":
		return json.Marshal(a.Text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *AudienceValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = AudienceValue{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &a.Text)
	case '[':
		ids := []string{}
		if err := json.Unmarshal(data, &ids); err != nil {
			return fmt.Errorf("audienceValue: %w", err)
		}
		a.Students = ids
		return nil
	default:
		return fmt.Errorf("audienceValue must be a string or an array of strings")
	}
}

// MarshalBSONValue implements bson.ValueMarshaler.
func (a AudienceValue) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch {
	case a.IsList():
		return bson.MarshalValue(a.Students)
	case a.Text != "":
		return bson.MarshalValue(a.Text)
	default:
		return bson.TypeNull, nil, nil
	}
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (a *AudienceValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*a = AudienceValue{}
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		return nil
	case bson.TypeString:
		a.Text = raw.StringValue()
		return nil
	case bson.TypeArray:
		ids := []string{}
		if err := raw.Unmarshal(&ids); err != nil {
			return fmt.Errorf("audienceValue: %w", err)
		}
		a.Students = ids
		return nil
	default:
		return fmt.Errorf("audienceValue: unsupported bson type %s", t)
	}
}

// Value implements driver.Valuer, storing the JSON form in a JSONB column.
func (a AudienceValue) Value() (driver.Value, error) {
	return a.MarshalJSON()
}

// Scan implements sql.Scanner.
func (a *AudienceValue) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = AudienceValue{}
		return nil
	case []byte:
		return a.UnmarshalJSON(v)
	case string:
		return a.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("audienceValue: unsupported scan type %T", src)
	}
}
