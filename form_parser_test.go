package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitQuery(t *testing.T) {
	t.Run("preserves_order", func(t *testing.T) {
		pairs := SplitQuery("z=1&a=2&z=3")
		require.Len(t, pairs, 3)
		assert.Equal(t, Pair{Key: "z", Value: "1"}, pairs[0])
		assert.Equal(t, Pair{Key: "a", Value: "2"}, pairs[1])
		assert.Equal(t, Pair{Key: "z", Value: "3"}, pairs[2])
	})

	t.Run("percent_decoding", func(t *testing.T) {
		pairs := SplitQuery("name=John+Doe&city=New%20York")
		require.Len(t, pairs, 2)
		assert.Equal(t, "John Doe", pairs[0].Value)
		assert.Equal(t, "New York", pairs[1].Value)
	})

	t.Run("bad_escape_kept_raw", func(t *testing.T) {
		pairs := SplitQuery("q=%zz")
		require.Len(t, pairs, 1)
		assert.Equal(t, "%zz", pairs[0].Value)
	})

	t.Run("leading_question_mark_stripped", func(t *testing.T) {
		pairs := SplitQuery("?a=1")
		require.Len(t, pairs, 1)
		assert.Equal(t, "a", pairs[0].Key)
	})

	t.Run("valueless_key", func(t *testing.T) {
		pairs := SplitQuery("flag")
		require.Len(t, pairs, 1)
		assert.Equal(t, Pair{Key: "flag", Value: ""}, pairs[0])
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, SplitQuery(""))
		assert.Nil(t, SplitQuery("?"))
	})
}

func TestParseParamsNesting(t *testing.T) {
	t.Run("append_syntax", func(t *testing.T) {
		obj := ParseParams("tags[]=a&tags[]=b")
		tags, ok := obj.GetArray("tags")
		require.True(t, ok)
		require.Len(t, tags, 2)
		assert.True(t, tags[0].Equal(String("a")))
		assert.True(t, tags[1].Equal(String("b")))
	})

	t.Run("indexed_with_gap_backfill", func(t *testing.T) {
		obj := ParseParams("items[0]=a&items[2]=c")
		items, ok := obj.GetArray("items")
		require.True(t, ok)
		require.Len(t, items, 3)
		assert.True(t, items[0].Equal(String("a")))
		assert.Equal(t, KindNull, items[1].Kind())
		assert.True(t, items[2].Equal(String("c")))
	})

	t.Run("bracket_object_path", func(t *testing.T) {
		obj := ParseParams("user[address][city]=NYC")
		user, ok := obj.GetObject("user")
		require.True(t, ok)
		address, ok := user.GetObject("address")
		require.True(t, ok)
		city, _ := address.GetString("city")
		assert.Equal(t, "NYC", city)
	})

	t.Run("dot_path", func(t *testing.T) {
		obj := ParseParams("user.profile.name=Ada")
		user, ok := obj.GetObject("user")
		require.True(t, ok)
		profile, ok := user.GetObject("profile")
		require.True(t, ok)
		name, _ := profile.GetString("name")
		assert.Equal(t, "Ada", name)
	})

	t.Run("plain_key_overwrites", func(t *testing.T) {
		obj := ParseParams("a=1&a=2")
		a, _ := obj.GetInt("a")
		assert.Equal(t, int64(2), a)
	})

	t.Run("collision_with_scalar_is_silent_noop", func(t *testing.T) {
		obj := ParseParams("a=1&a[b]=2")
		a, exists := obj.Get("a")
		require.True(t, exists)
		assert.True(t, a.Equal(Int(1)))
	})

	t.Run("array_collision_is_silent_noop", func(t *testing.T) {
		obj := ParseParams("a=1&a[]=2")
		a, _ := obj.Get("a")
		assert.True(t, a.Equal(Int(1)))
	})

	t.Run("malformed_bracket_degrades_to_plain_key", func(t *testing.T) {
		obj := ParseParams("a%5Bb=1")
		v, exists := obj.Get("a[b")
		require.True(t, exists)
		assert.True(t, v.Equal(Int(1)))
	})
}

func TestCoerceScalar(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"42", Int(42)},
		{"-7", Int(-7)},
		{"3.14", Float(3.14)},
		{"1e3", Float(1000)},
		{"null", Null()},
		{"", Null()},
		{"hello", String("hello")},
		{"True", String("True")}, // only lowercase literals coerce
		{`{"a":1}`, ObjectVal(objectWith("a", Int(1)))},
		{`[1,2]`, Array(Int(1), Int(2))},
		{`{not json`, String(`{not json`)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := coerceScalar(tt.in)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want.MustJSON(), got.MustJSON())
		})
	}
}

func TestParsePairsRawStrings(t *testing.T) {
	obj := ParsePairs(SplitQuery("n=42&b=true&empty="), FormOptions{RawStrings: true})

	n, _ := obj.Get("n")
	b, _ := obj.Get("b")
	empty, _ := obj.Get("empty")
	assert.True(t, n.Equal(String("42")))
	assert.True(t, b.Equal(String("true")))
	assert.True(t, empty.Equal(String("")))
}

func TestFormParserInterface(t *testing.T) {
	p := NewFormParser()
	assert.Equal(t, FormParserName, p.Name())
	assert.Contains(t, p.ContentTypes(), ContentTypeFormURLEncoded)

	obj, err := p.Parse([]byte("user[name]=Ada&user[age]=36"), ContentTypeFormURLEncoded)
	require.NoError(t, err)
	user, ok := obj.GetObject("user")
	require.True(t, ok)
	age, _ := user.GetInt("age")
	assert.Equal(t, int64(36), age)
}

// objectWith builds a one-entry Object for table tests.
func objectWith(key string, v Value) *Object {
	obj := NewObject()
	obj.Set(key, v)
	return obj
}
