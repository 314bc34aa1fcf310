package schema

import (
	"github.com/rs/zerolog"
)

// Parser name constants for built-in payload parsers.
const (
	JSONParserName      = "json-parser"
	FormParserName      = "form-parser"
	MultipartParserName = "multipart-parser"
	XMLParserName       = "xml-parser"
)

// Mime type constants for content types handled by the built-in parsers.
const (
	ContentTypeJSON           = "application/json"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
	ContentTypeMultipart      = "multipart/form-data"
	ContentTypeXML            = "application/xml"
	ContentTypeTextXML        = "text/xml"
	ContentTypeDelimiter      = ";"
)

// Reserved keys the JSON parser uses when wrapping non-object roots.
const (
	RootArrayKey  = "data"
	RootScalarKey = "value"
)

// _logger is the package logger, disabled unless swapped in via SetLogger.
// The library only emits debug-level events (parser fallback decisions,
// validation failure summaries); it never logs on the success path.
var _logger = zerolog.Nop()

// SetLogger installs a logger for the package. Call during initialization,
// before concurrent request handling begins.
func SetLogger(logger zerolog.Logger) {
	_logger = logger
}
