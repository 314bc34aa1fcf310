package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userXML = `<user id="7" role="admin">
	<name>Ada</name>
	<address>
		<city>London</city>
	</address>
	<note>first<em>x</em></note>
</user>`

func TestXMLParserFlatten(t *testing.T) {
	obj, err := NewXMLParser().Parse([]byte(userXML), ContentTypeXML)
	require.NoError(t, err)

	t.Run("attributes", func(t *testing.T) {
		id, ok := obj.GetString("user@id")
		require.True(t, ok)
		assert.Equal(t, "7", id)
		role, _ := obj.GetString("user@role")
		assert.Equal(t, "admin", role)
	})

	t.Run("leaf_elements_dot_joined", func(t *testing.T) {
		name, ok := obj.GetString("user.name")
		require.True(t, ok)
		assert.Equal(t, "Ada", name)
		city, _ := obj.GetString("user.address.city")
		assert.Equal(t, "London", city)
	})

	t.Run("mixed_content_text_key", func(t *testing.T) {
		text, ok := obj.GetString("user.note#text")
		require.True(t, ok)
		assert.Equal(t, "first", text)
		em, _ := obj.GetString("user.note.em")
		assert.Equal(t, "x", em)
	})

	t.Run("no_bare_root_key_when_children_exist", func(t *testing.T) {
		assert.False(t, obj.Has("user"))
	})
}

func TestXMLParserLastSiblingWins(t *testing.T) {
	obj, err := NewXMLParser().Parse([]byte(`<r><v>1</v><v>2</v><v>3</v></r>`), ContentTypeXML)
	require.NoError(t, err)

	v, ok := obj.GetString("r.v")
	require.True(t, ok)
	assert.Equal(t, "3", v)
}

func TestXMLParserErrors(t *testing.T) {
	for name, body := range map[string]string{
		"unclosed":       `<a><b></a>`,
		"truncated":      `<a><b>`,
		"multiple_roots": `<a/><b/>`,
		"bare_text":      `not xml at all <`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewXMLParser().Parse([]byte(body), ContentTypeXML)
			var se *SchemaError
			require.ErrorAs(t, err, &se)
		})
	}

	t.Run("empty_body_is_empty_object", func(t *testing.T) {
		obj, err := NewXMLParser().Parse([]byte("  \n"), ContentTypeXML)
		require.NoError(t, err)
		assert.Equal(t, 0, obj.Len())
	})
}

func TestXMLDocumentXPath(t *testing.T) {
	doc, err := ParseXMLDocument([]byte(`<order id="9">
		<items>
			<item sku="A1"><qty>2</qty></item>
			<item sku="B2"><qty>5</qty></item>
		</items>
		<customer><name>Ada</name></customer>
	</order>`))
	require.NoError(t, err)
	require.NotNil(t, doc)

	t.Run("descendant_by_name", func(t *testing.T) {
		v, ok := doc.XPath("//name", nil)
		require.True(t, ok)
		assert.True(t, v.Equal(String("Ada")))
	})

	t.Run("child_step_first_match", func(t *testing.T) {
		v, ok := doc.XPath("//item/qty", nil)
		require.True(t, ok)
		assert.True(t, v.Equal(String("2")))
	})

	t.Run("attribute_step", func(t *testing.T) {
		v, ok := doc.XPath("//item/@sku", nil)
		require.True(t, ok)
		assert.True(t, v.Equal(String("A1")))

		v, ok = doc.XPath("//order/@id", nil)
		require.True(t, ok)
		assert.True(t, v.Equal(String("9")))
	})

	t.Run("namespace_prefix_matches_local_name", func(t *testing.T) {
		nsDoc, err := ParseXMLDocument([]byte(`<s:env xmlns:s="urn:x"><s:body>hi</s:body></s:env>`))
		require.NoError(t, err)
		v, ok := nsDoc.XPath("//ns:body", map[string]string{"ns": "urn:x"})
		require.True(t, ok)
		assert.True(t, v.Equal(String("hi")))
	})

	t.Run("no_match", func(t *testing.T) {
		_, ok := doc.XPath("//missing", nil)
		assert.False(t, ok)
		_, ok = doc.XPath("//item/@missing", nil)
		assert.False(t, ok)
	})

	t.Run("unsupported_expression", func(t *testing.T) {
		_, ok := doc.XPath("name", nil)
		assert.False(t, ok)
		_, ok = doc.XPath("//", nil)
		assert.False(t, ok)
	})
}
