package catalog

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed content/catalog.schema.json
var catalogSchema []byte

var contentIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// contentIDFormatChecker проверяет ID сцен, объектов и диалогов.
type contentIDFormatChecker struct{}

func (contentIDFormatChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	return ok && contentIDPattern.MatchString(s)
}

var registerFormats sync.Once

// Validator проверяет документ контента по JSON Schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator компилирует встроенную схему каталога.
func NewValidator() (*Validator, error) {
	registerFormats.Do(func() {
		gojsonschema.FormatCheckers.Add("content_id", contentIDFormatChecker{})
	})
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(catalogSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate проверяет документ, уже разобранный в map.
func (v *Validator) Validate(doc map[string]interface{}) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(msgs, "; "))
	}
	return nil
}
