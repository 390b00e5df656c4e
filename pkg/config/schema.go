package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// settingsSchema is the JSON schema of the merged settings tree. Scalars
// also accept strings because values set from the environment arrive
// unconverted.
//
//go:embed schema.json
var settingsSchema []byte

// ErrSchemaViolation indicates settings that do not match the schema.
var ErrSchemaViolation = errors.New("settings do not match schema")

// Schema returns the embedded settings schema.
func Schema() []byte {
	return settingsSchema
}

// ValidateSettings checks a raw settings tree, as produced by
// viper.AllSettings, against the embedded schema.
func ValidateSettings(settings map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(settingsSchema),
		gojsonschema.NewGoLoader(settings),
	)
	if err != nil {
		return fmt.Errorf("run schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		problems = append(problems, verr.Field()+": "+verr.Description())
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(problems, "; "))
}
