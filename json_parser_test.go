package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringObjects(t *testing.T) {
	t.Run("flat_object", func(t *testing.T) {
		obj, err := ParseString(`{"name":"Ada","age":36,"active":true,"score":9.5,"bio":null}`)
		require.NoError(t, err)

		name, _ := obj.GetString("name")
		age, _ := obj.GetInt("age")
		active, _ := obj.GetBool("active")
		score, _ := obj.GetFloat("score")
		bio, _ := obj.Get("bio")

		assert.Equal(t, "Ada", name)
		assert.Equal(t, int64(36), age)
		assert.True(t, active)
		assert.Equal(t, 9.5, score)
		assert.Equal(t, KindNull, bio.Kind())
	})

	t.Run("key_order_preserved", func(t *testing.T) {
		obj, err := ParseString(`{"z":1,"a":2,"m":3}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())
	})

	t.Run("nested", func(t *testing.T) {
		obj, err := ParseString(`{"user":{"tags":["a","b"],"meta":{"depth":2}}}`)
		require.NoError(t, err)

		user, ok := obj.GetObject("user")
		require.True(t, ok)
		tags, ok := user.GetArray("tags")
		require.True(t, ok)
		assert.Len(t, tags, 2)
		meta, ok := user.GetObject("meta")
		require.True(t, ok)
		depth, _ := meta.GetInt("depth")
		assert.Equal(t, int64(2), depth)
	})

	t.Run("integer_vs_float_literals", func(t *testing.T) {
		obj, err := ParseString(`{"n":42,"f":42.0,"e":1e2}`)
		require.NoError(t, err)

		n, _ := obj.Get("n")
		f, _ := obj.Get("f")
		e, _ := obj.Get("e")
		assert.Equal(t, KindInt, n.Kind())
		assert.Equal(t, KindFloat, f.Kind())
		assert.Equal(t, KindFloat, e.Kind())
	})
}

func TestParseStringReparseIdempotent(t *testing.T) {
	inputs := []string{
		`{"a":1,"b":[true,null,"x"],"c":{"d":2.5}}`,
		`{"z":1,"a":2}`,
		`{"nested":{"deep":{"deeper":[1,[2,[3]]]}}}`,
	}
	for _, in := range inputs {
		first, err := ParseString(in)
		require.NoError(t, err)
		second, err := ParseString(ObjectVal(first).MustJSON())
		require.NoError(t, err)
		assert.True(t, ObjectVal(first).Equal(ObjectVal(second)), in)
	}
}

func TestParseStringRootWrapping(t *testing.T) {
	t.Run("root_array", func(t *testing.T) {
		obj, err := ParseString(`[1,2,3]`)
		require.NoError(t, err)

		arr, ok := obj.GetArray(RootArrayKey)
		require.True(t, ok)
		assert.Len(t, arr, 3)
		assert.True(t, arr[0].Equal(Int(1)))
	})

	t.Run("root_scalar", func(t *testing.T) {
		obj, err := ParseString(`"hello"`)
		require.NoError(t, err)

		s, ok := obj.GetString(RootScalarKey)
		require.True(t, ok)
		assert.Equal(t, "hello", s)
	})

	t.Run("root_number", func(t *testing.T) {
		obj, err := ParseString(`7`)
		require.NoError(t, err)

		n, ok := obj.GetInt(RootScalarKey)
		require.True(t, ok)
		assert.Equal(t, int64(7), n)
	})

	t.Run("empty_body", func(t *testing.T) {
		obj, err := ParseString("")
		require.NoError(t, err)
		assert.Equal(t, 0, obj.Len())
	})

	t.Run("whitespace_only", func(t *testing.T) {
		obj, err := ParseString("  \n\t ")
		require.NoError(t, err)
		assert.Equal(t, 0, obj.Len())
	})
}

func TestParseStringMalformed(t *testing.T) {
	for _, bad := range []string{`{"a":`, `{bad}`, `[1,2`, `{"a":1}trailing`} {
		t.Run(bad, func(t *testing.T) {
			obj, err := ParseString(bad)
			assert.Nil(t, obj)
			require.Error(t, err)

			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.Contains(t, se.Error(), "Invalid JSON")
		})
	}

	t.Run("long_payload_truncated_in_message", func(t *testing.T) {
		bad := "{" + strings.Repeat("x", 200)
		_, err := ParseString(bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "...")
		assert.Less(t, len(err.Error()), 120)
	})
}

func TestJSONParserRegistration(t *testing.T) {
	p := NewJSONParser()
	assert.Equal(t, JSONParserName, p.Name())
	assert.Contains(t, p.ContentTypes(), ContentTypeJSON)

	obj, err := p.Parse([]byte(`{"ok":true}`), ContentTypeJSON)
	require.NoError(t, err)
	ok, _ := obj.GetBool("ok")
	assert.True(t, ok)
}
