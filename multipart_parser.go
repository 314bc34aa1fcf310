package schema

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
)

// FileUpload object keys. A Value lacking the "filename" key is not a
// file; file validators report it with code not_a_file.
const (
	FileKeyFilename    = "filename"
	FileKeyContentType = "content_type"
	FileKeySize        = "size"
	FileKeyContent     = "content"
	FileKeyHeaders     = "headers"
)

// MultipartParser converts multipart/form-data bodies into Objects. Parts
// carrying a filename become FileUpload-shaped Values; plain parts go
// through the same nested-key assignment and scalar coercion as form
// fields, so "photos[]" accumulates an array of uploads.
type MultipartParser struct{}

func NewMultipartParser() *MultipartParser {
	return &MultipartParser{}
}

func (mp *MultipartParser) Name() string {
	return MultipartParserName
}

func (mp *MultipartParser) ContentTypes() []string {
	return []string{ContentTypeMultipart}
}

func (mp *MultipartParser) Parse(body []byte, contentType string) (*Object, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return NewObject(), nil
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, NewSchemaErrorWrap(err, "Invalid multipart content type %q", contentType)
	}
	boundary, found := params["boundary"]
	if !found {
		return nil, NewSchemaError("Invalid multipart content type %q: missing boundary", contentType)
	}

	root := NewObject()
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, NewSchemaErrorWrap(err, "Invalid multipart body")
		}

		name := part.FormName()
		if name == "" {
			continue
		}
		content, err := io.ReadAll(part)
		if err != nil {
			return nil, NewSchemaErrorWrap(err, "Invalid multipart body")
		}

		if filename := part.FileName(); filename != "" {
			upload := NewFileUpload(filename, part.Header.Get("Content-Type"), content, part.Header)
			assignNested(root, name, upload)
		} else {
			assignNested(root, name, coerceScalar(string(content)))
		}
	}

	return root, nil
}

// NewFileUpload builds the FileUpload Value shape: filename, content_type,
// size in bytes, raw content as a string, and the part headers (single
// values as String, repeated headers as Array).
func NewFileUpload(filename, contentType string, content []byte, headers textproto.MIMEHeader) Value {
	upload := NewObject()
	upload.Set(FileKeyFilename, String(filename))
	upload.Set(FileKeyContentType, String(contentType))
	upload.Set(FileKeySize, Int(int64(len(content))))
	upload.Set(FileKeyContent, String(string(content)))

	headerObj := NewObject()
	for name, values := range headers {
		if len(values) == 1 {
			headerObj.Set(name, String(values[0]))
			continue
		}
		elems := make([]Value, len(values))
		for i, v := range values {
			elems[i] = String(v)
		}
		headerObj.Set(name, ArrayOf(elems))
	}
	upload.Set(FileKeyHeaders, ObjectVal(headerObj))

	return ObjectVal(upload)
}
