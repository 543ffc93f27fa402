package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseSalesDate(t *testing.T) {
	native := time.Date(2025, time.June, 5, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    any
		expected time.Time
		ok       bool
	}{
		{
			name:     "NativeDate",
			input:    native,
			expected: native,
			ok:       true,
		},
		{
			name:     "DriverDate",
			input:    primitive.NewDateTimeFromTime(native),
			expected: native,
			ok:       true,
		},
		{
			name:     "DayFirstString",
			input:    "05/06/2025",
			expected: time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "PaddedString",
			input:    " 31/12/2024 ",
			expected: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:  "MonthFirstStringRejected",
			input: "12/31/2024",
			ok:    false,
		},
		{
			name:  "Garbage",
			input: "soon",
			ok:    false,
		},
		{
			name:  "UnsupportedType",
			input: 20250605,
			ok:    false,
		},
		{
			name:  "Nil",
			input: nil,
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := ParseSalesDate(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.expected.Equal(parsed), "expected %v, got %v", tt.expected, parsed)
			}
		})
	}
}

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
		wantErr  bool
	}{
		{name: "Float", input: 125000.5, expected: 125000.5},
		{name: "Int", input: 42, expected: 42},
		{name: "Int64", input: int64(99), expected: 99},
		{name: "PlainString", input: "125000", expected: 125000},
		{name: "ThousandsSeparators", input: "12,345", expected: 12345},
		{name: "SeparatorsAndDecimals", input: "1,234,567.89", expected: 1234567.89},
		{name: "PaddedString", input: " 500 ", expected: 500},
		{name: "NotANumber", input: "gratis", wantErr: true},
		{name: "UnsupportedType", input: []string{"125000"}, wantErr: true},
		{name: "Nil", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := CoerceAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, amount, 1e-9)
		})
	}
}
