package schema

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrNoParserForContentType = errors.New("no parser registered for this content type")
	ErrParserNotFound         = errors.New("specified parser not found")
)

///////////////////////////////////////////////////////////////////////////////
// Parser Interface
///////////////////////////////////////////////////////////////////////////////

// Parser converts a raw request body into a nested *Object of Values.
//
// Parse never fails on an empty body (it returns an empty object) and only
// returns a *SchemaError, for unrecoverable syntax errors. The full
// content-type string is passed through so parsers can read parameters
// such as the multipart boundary.
type Parser interface {
	// Parse converts body into an Object.
	Parse(body []byte, contentType string) (*Object, error)
	// Name returns a unique identifier for this parser.
	Name() string
	// ContentTypes returns the normalized content types this parser claims.
	ContentTypes() []string
}

///////////////////////////////////////////////////////////////////////////////
// FormatRegistry
///////////////////////////////////////////////////////////////////////////////

// FormatRegistry maps normalized content types to parsers and applies the
// fallback rules when the content type is absent or unknown: a body whose
// first non-space byte is '<' is handed to the XML parser, otherwise a
// JSON decode is attempted, otherwise the body is treated as empty.
//
// Registration is expected to complete before concurrent traffic begins;
// the mutex guards the stragglers. Registering a content type that is
// already claimed replaces the previous parser.
type FormatRegistry struct {
	mu     sync.RWMutex
	byType map[string]Parser
	byName map[string]Parser
}

type FormatRegistryOpts struct {
	Parsers         []Parser
	ExcludeDefaults bool
}

func NewFormatRegistry(opts FormatRegistryOpts) *FormatRegistry {
	reg := &FormatRegistry{
		byType: make(map[string]Parser),
		byName: make(map[string]Parser),
	}

	if !opts.ExcludeDefaults {
		for _, parser := range _defaultParsers() {
			reg.Register(parser)
		}
	}
	for _, parser := range opts.Parsers {
		reg.Register(parser)
	}

	return reg
}

func _defaultParsers() []Parser {
	return []Parser{
		NewJSONParser(),
		NewFormParser(),
		NewMultipartParser(),
		NewXMLParser(),
	}
}

// Register claims the parser's content types. Last registration for a
// content type wins.
func (reg *FormatRegistry) Register(parser Parser) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.byName[parser.Name()] = parser
	for _, ct := range parser.ContentTypes() {
		reg.byType[NormalizeContentType(ct)] = parser
	}
}

// ParserFor returns the parser claiming the normalized content type.
func (reg *FormatRegistry) ParserFor(contentType string) (Parser, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	parser, found := reg.byType[NormalizeContentType(contentType)]
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrNoParserForContentType, contentType)
	}
	return parser, nil
}

// ParserByName returns a registered parser by its unique name.
func (reg *FormatRegistry) ParserByName(name string) (Parser, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	parser, found := reg.byName[name]
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrParserNotFound, name)
	}
	return parser, nil
}

// Parse selects a parser by content type and runs it. With no or an
// unknown content type it falls back to auto-detection.
func (reg *FormatRegistry) Parse(body []byte, contentType string) (*Object, error) {
	if parser, err := reg.ParserFor(contentType); err == nil {
		return parser.Parse(body, contentType)
	}

	return reg.parseDetected(body, contentType)
}

func (reg *FormatRegistry) parseDetected(body []byte, contentType string) (*Object, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return NewObject(), nil
	}

	if strings.HasPrefix(trimmed, "<") {
		_logger.Debug().Str("content_type", contentType).Msg("no parser for content type, body looks like XML")
		parser, err := reg.ParserByName(XMLParserName)
		if err != nil {
			return nil, err
		}
		return parser.Parse(body, contentType)
	}

	// Try JSON; if the body is not JSON either, treat it as empty.
	parser, err := reg.ParserByName(JSONParserName)
	if err != nil {
		return nil, err
	}
	obj, err := parser.Parse(body, contentType)
	if err != nil {
		_logger.Debug().Str("content_type", contentType).Msg("no parser for content type and body is not JSON, treating as empty")
		return NewObject(), nil
	}
	return obj, nil
}

// NormalizeContentType lowercases and strips parameters, so
// "Application/JSON; charset=UTF-8" matches "application/json".
func NormalizeContentType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ContentTypeDelimiter)
	return strings.ToLower(strings.TrimSpace(base))
}

///////////////////////////////////////////////////////////////////////////////
// Global Singleton and Package Functions
///////////////////////////////////////////////////////////////////////////////

var _gFormats *FormatRegistry

func init() {
	_gFormats = NewFormatRegistry(FormatRegistryOpts{})
}

// RegisterParser registers a parser with the global format registry.
func RegisterParser(parser Parser) {
	_gFormats.Register(parser)
}

// Parse parses a raw body with the global format registry.
func Parse(body []byte, contentType string) (*Object, error) {
	return _gFormats.Parse(body, contentType)
}
