package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceBuiltins(t *testing.T) {
	tests := []struct {
		name     string
		typeName string
		in       Value
		want     Value
		wantOK   bool
	}{
		{"string_identity", TypeString, String("x"), String("x"), true},
		{"string_from_int", TypeString, Int(42), String("42"), true},
		{"string_from_bool", TypeString, Bool(true), String("true"), true},
		{"string_from_array_fails", TypeString, Array(Int(1)), Null(), false},

		{"int64_identity", TypeInt64, Int(42), Int(42), true},
		{"int64_from_string", TypeInt64, String(" 42 "), Int(42), true},
		{"int64_from_integral_float", TypeInt64, Float(42), Int(42), true},
		{"int64_from_fractional_float_fails", TypeInt64, Float(3.5), Null(), false},
		{"int64_from_garbage_fails", TypeInt64, String("forty"), Null(), false},
		{"int32_range_checked", TypeInt32, Int(1 << 40), Null(), false},
		{"int32_in_range", TypeInt32, Int(1000), Int(1000), true},

		{"float64_from_int", TypeFloat64, Int(5), Float(5), true},
		{"float64_from_string", TypeFloat64, String("3.14"), Float(3.14), true},
		{"float64_scientific", TypeFloat64, String("1e3"), Float(1000), true},
		{"float64_from_bool_fails", TypeFloat64, Bool(true), Null(), false},

		{"bool_identity", TypeBool, Bool(false), Bool(false), true},
		{"bool_from_int_one", TypeBool, Int(1), Bool(true), true},
		{"bool_from_int_two_fails", TypeBool, Int(2), Null(), false},

		{"uuid_normalizes_case", TypeUUID, String("123E4567-E89B-12D3-A456-426614174000"), String("123e4567-e89b-12d3-a456-426614174000"), true},
		{"uuid_rejects_short", TypeUUID, String("123e4567"), Null(), false},

		{"time_iso", TypeTime, String("2024-06-01T10:00:00Z"), String("2024-06-01T10:00:00Z"), true},
		{"time_date_only", TypeTime, String("2024-06-01"), String("2024-06-01T00:00:00Z"), true},
		{"time_epoch", TypeDateTime, Int(0), String("1970-01-01T00:00:00Z"), true},
		{"time_garbage_fails", TypeTime, String("yesterday"), Null(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Coerce(tt.typeName, tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want.MustJSON(), got.MustJSON())
			}
		})
	}
}

func TestCoerceBoolVariants(t *testing.T) {
	truthy := []string{"true", "TRUE", "Yes", "on", "1", "Enabled"}
	falsy := []string{"false", "FALSE", "No", "off", "0", "Disabled"}

	for _, s := range truthy {
		got, ok := Coerce(TypeBool, String(s))
		require.True(t, ok, s)
		assert.True(t, got.Equal(Bool(true)), s)
	}
	for _, s := range falsy {
		got, ok := Coerce(TypeBool, String(s))
		require.True(t, ok, s)
		assert.True(t, got.Equal(Bool(false)), s)
	}

	_, ok := Coerce(TypeBool, String("maybe"))
	assert.False(t, ok)
}

func TestCoerceGenericTypes(t *testing.T) {
	t.Run("array_elementwise", func(t *testing.T) {
		got, ok := Coerce("Array<Int64>", Array(String("1"), Int(2), Float(3)))
		require.True(t, ok)
		assert.True(t, got.Equal(Array(Int(1), Int(2), Int(3))))
	})

	t.Run("array_one_bad_element_fails", func(t *testing.T) {
		_, ok := Coerce("Array<Int64>", Array(Int(1), String("x")))
		assert.False(t, ok)
	})

	t.Run("map_values", func(t *testing.T) {
		in := NewObject()
		in.Set("a", String("1"))
		in.Set("b", Int(2))
		got, ok := Coerce("Map<String,Int64>", ObjectVal(in))
		require.True(t, ok)

		obj, _ := got.AsObject()
		a, _ := obj.GetInt("a")
		b, _ := obj.GetInt("b")
		assert.Equal(t, int64(1), a)
		assert.Equal(t, int64(2), b)
	})

	t.Run("non_array_input_fails", func(t *testing.T) {
		_, ok := Coerce("Array<Int64>", Int(1))
		assert.False(t, ok)
	})
}

func TestCoercionRegistryCustomTypes(t *testing.T) {
	reg := NewCoercionRegistry()

	// A "money" type parsing "$19.99" or integer cents to canonical cents.
	reg.Register("Money", func(v Value) (Value, bool) {
		if cents, ok := v.AsInt(); ok {
			return Int(cents), true
		}
		s, ok := v.AsString()
		if !ok {
			return Null(), false
		}
		s = strings.TrimPrefix(s, "$")
		fv, fok := Coerce(TypeFloat64, String(s))
		if !fok {
			return Null(), false
		}
		f, _ := fv.AsFloat()
		return Int(int64(f*100 + 0.5)), true
	})

	t.Run("from_string", func(t *testing.T) {
		got, ok := reg.Coerce("Money", String("$19.99"))
		require.True(t, ok)
		assert.True(t, got.Equal(Int(1999)))
	})

	t.Run("from_cents", func(t *testing.T) {
		got, ok := reg.Coerce("Money", Int(500))
		require.True(t, ok)
		assert.True(t, got.Equal(Int(500)))
	})

	t.Run("unknown_type_fails", func(t *testing.T) {
		_, ok := reg.Coerce("Currency", Int(1))
		assert.False(t, ok)
	})

	t.Run("last_registration_wins", func(t *testing.T) {
		reg.Register("Money", func(Value) (Value, bool) { return Int(-1), true })
		got, _ := reg.Coerce("Money", String("$1.00"))
		assert.True(t, got.Equal(Int(-1)))
	})

	t.Run("custom_shadows_builtin", func(t *testing.T) {
		reg.Register(TypeBool, func(Value) (Value, bool) { return Bool(true), true })
		got, ok := reg.Coerce(TypeBool, String("maybe"))
		require.True(t, ok)
		assert.True(t, got.Equal(Bool(true)))
	})
}

func TestCoercionRegistryKnown(t *testing.T) {
	reg := NewCoercionRegistry()
	assert.True(t, reg.Known(TypeString))
	assert.True(t, reg.Known("Array<Float64>"))
	assert.True(t, reg.Known("Map<String,Bool>"))
	assert.False(t, reg.Known("Money"))
	assert.False(t, reg.Known("Array<Money>"))

	reg.Register("Money", func(v Value) (Value, bool) { return v, true })
	assert.True(t, reg.Known("Money"))
	assert.True(t, reg.Known("Array<Money>"))
}
