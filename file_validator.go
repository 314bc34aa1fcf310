package schema

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// ValidateFileUpload checks a FileUpload-shaped Value against upload
// constraints. It is a standalone function rather than a context-bound
// Validator so parsers and custom hooks can call it directly.
//
// A value missing the "filename" key short-circuits with a single
// not_a_file error; otherwise every applicable constraint is checked and
// all violations are returned together. The error return is reserved for
// a broken FilenamePattern, which is a schema-definition fault rather
// than a data error.
func ValidateFileUpload(field string, v Value, opts FileOpts) (ErrorList, error) {
	var filenameRe *regexp.Regexp
	if opts.FilenamePattern != "" {
		re, err := regexp.Compile(opts.FilenamePattern)
		if err != nil {
			return nil, NewSchemaErrorWrap(err, "file validator for %q: invalid filename pattern", field)
		}
		filenameRe = re
	}

	upload, isObject := v.AsObject()
	if !isObject || !upload.Has(FileKeyFilename) {
		return ErrorList{NewFieldError(field, "is not a file upload", CodeNotAFile)}, nil
	}

	var errs ErrorList
	filename, _ := upload.GetString(FileKeyFilename)
	contentType, _ := upload.GetString(FileKeyContentType)
	size, _ := upload.GetInt(FileKeySize)

	if opts.MaxSize != nil && size > *opts.MaxSize {
		errs = append(errs, NewFieldError(
			field,
			fmt.Sprintf("file size %d exceeds maximum %d bytes", size, *opts.MaxSize),
			CodeFileTooLarge,
		))
	}
	if opts.MinSize != nil && size < *opts.MinSize {
		errs = append(errs, NewFieldError(
			field,
			fmt.Sprintf("file size %d is below minimum %d bytes", size, *opts.MinSize),
			CodeFileTooSmall,
		))
	}

	if len(opts.AllowedTypes) > 0 && !lo.Contains(opts.AllowedTypes, contentType) {
		errs = append(errs, NewFieldError(
			field,
			fmt.Sprintf("content type %q is not allowed", contentType),
			CodeInvalidContentType,
		))
	}

	if len(opts.AllowedExts) > 0 {
		ext := strings.ToLower(filepath.Ext(filename))
		allowed := lo.ContainsBy(opts.AllowedExts, func(e string) bool {
			return strings.ToLower(e) == ext
		})
		if !allowed {
			errs = append(errs, NewFieldError(
				field,
				fmt.Sprintf("file extension %q is not allowed", ext),
				CodeInvalidFileExtension,
			))
		}
	}

	if filenameRe != nil && !filenameRe.MatchString(filename) {
		errs = append(errs, NewFieldError(
			field,
			fmt.Sprintf("filename %q is not allowed", filename),
			CodeInvalidFilename,
		))
	}

	return errs, nil
}
