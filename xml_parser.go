package schema

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// XMLParser
///////////////////////////////////////////////////////////////////////////////

// XMLParser converts XML bodies into flat Objects. The element tree is
// flattened into dot-joined keys starting at the root element:
//
//	<user id="7"><name>Ada</name></user>
//
// becomes {"user@id": "7", "user.name": "Ada"}. Attributes append as
// "path@attr"; when an element carries both text and child elements its
// direct text lands under "path#text". All flattened values are strings.
// Duplicate sibling elements overwrite the same flattened key, so the last
// sibling wins.
//
// Fields that declare an xpath option bypass the flattened keys entirely
// and resolve against the retained document (see XMLDocument.XPath).
type XMLParser struct{}

func NewXMLParser() *XMLParser {
	return &XMLParser{}
}

func (xp *XMLParser) Name() string {
	return XMLParserName
}

func (xp *XMLParser) ContentTypes() []string {
	return []string{ContentTypeXML, ContentTypeTextXML}
}

func (xp *XMLParser) Parse(body []byte, _ string) (*Object, error) {
	doc, err := ParseXMLDocument(body)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return NewObject(), nil
	}
	return doc.Flatten(), nil
}

///////////////////////////////////////////////////////////////////////////////
// XMLDocument
///////////////////////////////////////////////////////////////////////////////

// xmlNode is one element of the parsed tree. Only local names are kept;
// namespace handling across this package matches by local name.
type xmlNode struct {
	local    string
	attrs    []xml.Attr
	children []*xmlNode
	text     string
}

// XMLDocument is a parsed XML tree retained alongside the flattened
// Object so xpath-bearing fields can query the original structure.
type XMLDocument struct {
	root *xmlNode
}

// ParseXMLDocument parses a body into a document tree. An empty body
// yields a nil document; malformed XML is fatal.
func ParseXMLDocument(body []byte) (*XMLDocument, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	decoder := xml.NewDecoder(bytes.NewReader(body))
	var stack []*xmlNode
	var root *xmlNode

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewSchemaErrorWrap(err, "Invalid XML")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{local: t.Name.Local, attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if root != nil {
					return nil, NewSchemaError("Invalid XML: multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, NewSchemaError("Invalid XML: unbalanced end element")
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}

	if len(stack) != 0 {
		return nil, NewSchemaError("Invalid XML: unclosed element <%s>", stack[len(stack)-1].local)
	}
	if root == nil {
		return nil, nil
	}
	return &XMLDocument{root: root}, nil
}

// Flatten renders the tree as a flat Object of dot-joined paths.
func (d *XMLDocument) Flatten() *Object {
	out := NewObject()
	if d != nil && d.root != nil {
		flattenNode(out, d.root, d.root.local)
	}
	return out
}

func flattenNode(out *Object, node *xmlNode, path string) {
	for _, attr := range node.attrs {
		out.Set(path+"@"+attr.Name.Local, String(attr.Value))
	}

	text := strings.TrimSpace(node.text)
	if len(node.children) == 0 {
		out.Set(path, String(text))
		return
	}
	if text != "" {
		out.Set(path+"#text", String(text))
	}
	for _, child := range node.children {
		// Same-named siblings land on the same key; the last one wins.
		flattenNode(out, child, path+"."+child.local)
	}
}

///////////////////////////////////////////////////////////////////////////////
// XPath Subset
///////////////////////////////////////////////////////////////////////////////

// XPath evaluates the minimal supported subset against the document:
// "//name", "//a/b", "//a/@attr". Steps may carry a namespace prefix
// ("//ns:a/ns:b"); matching is by local name only, and the namespaces map
// is consulted just to recognize declared prefixes. Returns the first
// match in document order.
func (d *XMLDocument) XPath(expr string, namespaces map[string]string) (Value, bool) {
	if d == nil || d.root == nil {
		return Null(), false
	}
	rest, ok := strings.CutPrefix(expr, "//")
	if !ok || rest == "" {
		return Null(), false
	}

	steps := strings.Split(rest, "/")
	attrName := ""
	if last := steps[len(steps)-1]; strings.HasPrefix(last, "@") {
		attrName = stripPrefix(last[1:], namespaces)
		steps = steps[:len(steps)-1]
	}
	if len(steps) == 0 {
		return Null(), false
	}
	for i, step := range steps {
		steps[i] = stripPrefix(step, namespaces)
		if steps[i] == "" {
			return Null(), false
		}
	}

	// First step matches at any depth, the rest as direct children.
	matches := descendantsByName(d.root, steps[0])
	for _, step := range steps[1:] {
		var next []*xmlNode
		for _, m := range matches {
			for _, child := range m.children {
				if child.local == step {
					next = append(next, child)
				}
			}
		}
		matches = next
	}
	if len(matches) == 0 {
		return Null(), false
	}

	node := matches[0]
	if attrName != "" {
		for _, attr := range node.attrs {
			if attr.Name.Local == attrName {
				return String(attr.Value), true
			}
		}
		return Null(), false
	}
	return String(strings.TrimSpace(node.text)), true
}

// descendantsByName collects node and all descendants with the local name,
// in document order.
func descendantsByName(node *xmlNode, name string) []*xmlNode {
	var out []*xmlNode
	if node.local == name {
		out = append(out, node)
	}
	for _, child := range node.children {
		out = append(out, descendantsByName(child, name)...)
	}
	return out
}

// stripPrefix drops a namespace prefix from a step. An undeclared prefix
// still matches by local name; the namespaces map only documents intent.
func stripPrefix(step string, _ map[string]string) string {
	if _, local, found := strings.Cut(step, ":"); found {
		return local
	}
	return step
}
