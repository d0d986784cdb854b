package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day at local midnight.
type Date struct {
	time.Time
}

// NewDate truncates t to its local calendar day.
func NewDate(t time.Time) Date {
	t = t.In(time.Local)
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)}
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(DateLayout, raw, time.Local); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", raw)
	}
	return NewDate(t), nil
}

// String renders the date as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBSONValue stores the date as a sortable YYYY-MM-DD string.
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d.IsZero() {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(d.String())
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*d = Date{}
		return nil
	case bson.TypeString:
		parsed, err := ParseDate(raw.StringValue())
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case bson.TypeDateTime:
		*d = NewDate(raw.Time())
		return nil
	default:
		return fmt.Errorf("date: unsupported bson type %s", t)
	}
}

// Value implements driver.Valuer for DATE columns.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner. DATE columns arrive at UTC midnight and are re-anchored locally.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = Date{Time: time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.Local)}
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("date: unsupported scan type %T", src)
	}
}

func (d *Date) scanString(raw string) error {
	if len(raw) >= len(DateLayout) {
		raw = raw[:len(DateLayout)]
	}
	parsed, err := time.ParseInLocation(DateLayout, raw, time.Local)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	*d = Date{Time: parsed}
	return nil
}
