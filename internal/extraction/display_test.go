package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplay(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, ""},
		{"string", "Contoso", "Contoso"},
		{"number", 12.5, "12.5"},
		{"integer", int64(3), "3"},
		{"boolean", true, "true"},
		{"date", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), "2024-03-09"},
		{"currency symbol", Currency{Amount: 110, Symbol: "$", Code: "USD"}, "$ 110.00"},
		{"currency code", Currency{Amount: 9.5, Code: "EUR"}, "EUR 9.50"},
		{"currency bare", Currency{Amount: 1}, "1.00"},
		{
			"address",
			Address{HouseNumber: "123", Road: "Main St", City: "Redmond", State: "WA", PostalCode: "98052"},
			"123 Main St, Redmond, WA 98052",
		},
		{"street address only", Address{StreetAddress: "1 Infinite Loop"}, "1 Infinite Loop"},
		{
			"array",
			[]*Field{
				{Type: FieldTypeString, Value: "a"},
				nil,
				{Type: FieldTypeString, Content: "b"},
			},
			"a; b",
		},
		{
			"object",
			map[string]*Field{
				"Quantity":    {Type: FieldTypeNumber, Value: 2.0},
				"Description": {Type: FieldTypeString, Value: "Widget"},
			},
			"Description: Widget; Quantity: 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Display(tt.value))
		})
	}
}
