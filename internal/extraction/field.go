package extraction

import (
	"fmt"
	"time"

	apperrors "github.com/anime-shed/doc-insight-go/internal/errors"
)

// FieldType is the value type the analysis service declares for a field
type FieldType string

const (
	FieldTypeString        FieldType = "string"
	FieldTypeNumber        FieldType = "number"
	FieldTypeInteger       FieldType = "integer"
	FieldTypeDate          FieldType = "date"
	FieldTypeTime          FieldType = "time"
	FieldTypePhoneNumber   FieldType = "phoneNumber"
	FieldTypeCountryRegion FieldType = "countryRegion"
	FieldTypeSelectionMark FieldType = "selectionMark"
	FieldTypeSignature     FieldType = "signature"
	FieldTypeBoolean       FieldType = "boolean"
	FieldTypeCurrency      FieldType = "currency"
	FieldTypeAddress       FieldType = "address"
	FieldTypeArray         FieldType = "array"
	FieldTypeObject        FieldType = "object"
)

// Currency is a recognized monetary amount
type Currency struct {
	Amount float64 `json:"amount"`
	Symbol string  `json:"currencySymbol,omitempty"`
	Code   string  `json:"currencyCode,omitempty"`
}

// Address is a recognized postal address
type Address struct {
	HouseNumber   string `json:"houseNumber,omitempty"`
	PoBox         string `json:"poBox,omitempty"`
	Road          string `json:"road,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	CountryRegion string `json:"countryRegion,omitempty"`
	StreetAddress string `json:"streetAddress,omitempty"`
	Unit          string `json:"unit,omitempty"`
}

// Field is one named value recognized within a document.
//
// Value is nil when the service located the field but could not produce a
// typed value. Otherwise its dynamic type matches Type:
// string for string-like types, float64 for number, int64 for integer,
// time.Time for date, Currency, Address, bool for boolean,
// []*Field for array and map[string]*Field for object.
type Field struct {
	Type       FieldType `json:"type"`
	Value      any       `json:"value,omitempty"`
	Content    string    `json:"content,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
}

// Fields maps schema keys to recognized fields. A key that was not
// recognized is simply missing from the map.
type Fields map[string]*Field

// Lookup returns the field stored under name. It never fails; a missing key
// reports ok == false.
func Lookup(fields Fields, name string) (*Field, bool) {
	if fields == nil {
		return nil, false
	}
	f, ok := fields[name]
	return f, ok
}

// Validate reports whether the field can be interpreted at all.
func (f *Field) Validate() error {
	if f == nil {
		return fmt.Errorf("field entry is nil")
	}
	if f.Value == nil {
		if !f.Type.known() {
			return fmt.Errorf("unknown field type %q", f.Type)
		}
		return nil
	}

	var ok bool
	switch f.Type {
	case FieldTypeString, FieldTypePhoneNumber, FieldTypeCountryRegion,
		FieldTypeSelectionMark, FieldTypeSignature, FieldTypeTime:
		_, ok = f.Value.(string)
	case FieldTypeNumber:
		_, ok = f.Value.(float64)
	case FieldTypeInteger:
		_, ok = f.Value.(int64)
	case FieldTypeDate:
		_, ok = f.Value.(time.Time)
	case FieldTypeBoolean:
		_, ok = f.Value.(bool)
	case FieldTypeCurrency:
		_, ok = f.Value.(Currency)
	case FieldTypeAddress:
		_, ok = f.Value.(Address)
	case FieldTypeArray:
		_, ok = f.Value.([]*Field)
	case FieldTypeObject:
		_, ok = f.Value.(map[string]*Field)
	default:
		return fmt.Errorf("unknown field type %q", f.Type)
	}
	if !ok {
		return fmt.Errorf("value of type %T does not match declared type %q", f.Value, f.Type)
	}
	return nil
}

func (t FieldType) known() bool {
	switch t {
	case FieldTypeString, FieldTypeNumber, FieldTypeInteger, FieldTypeDate,
		FieldTypeTime, FieldTypePhoneNumber, FieldTypeCountryRegion,
		FieldTypeSelectionMark, FieldTypeSignature, FieldTypeBoolean,
		FieldTypeCurrency, FieldTypeAddress, FieldTypeArray, FieldTypeObject:
		return true
	}
	return false
}

// ValueOf resolves the output value of a present field. ok is false when the
// field carries no value for the requested source. A field that cannot be
// interpreted yields a malformed field error.
func ValueOf(name string, f *Field, source Source) (value any, ok bool, err error) {
	if vErr := f.Validate(); vErr != nil {
		return nil, false, apperrors.NewMalformedFieldError(name, vErr)
	}

	switch source {
	case SourceContent:
		if f.Content == "" {
			return nil, false, nil
		}
		return f.Content, true, nil
	case SourceValue:
		if f.Value == nil {
			return nil, false, nil
		}
		return f.Value, true, nil
	default:
		return nil, false, apperrors.NewMalformedFieldError(name, fmt.Errorf("source %q cannot be read from a field", source))
	}
}
