package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema constrains vocabulary documents before they are decoded.
// Markers, prefixes and codes must be strings: an unquoted YAML 07 would
// otherwise decode as a number and silently lose its leading zero.
const documentSchema = `{
  "type": "object",
  "required": ["version"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "objects": {"type": "array", "items": {"$ref": "#/$defs/token"}},
    "interactions": {"type": "array", "items": {"$ref": "#/$defs/token"}},
    "shortcuts": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["prefix", "label"],
        "additionalProperties": false,
        "properties": {
          "prefix": {"type": "string", "minLength": 1},
          "label": {"type": "string", "minLength": 1},
          "length": {"type": "integer", "minimum": 0}
        }
      }
    },
    "phrases": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "logic_types": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["code", "label"],
        "additionalProperties": false,
        "properties": {
          "code": {"$ref": "#/$defs/code"},
          "label": {"type": "string"},
          "subs": {"type": "array", "items": {"$ref": "#/$defs/code"}}
        }
      }
    },
    "sub_logic_types": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["code", "label"],
        "additionalProperties": false,
        "properties": {
          "code": {"$ref": "#/$defs/code"},
          "label": {"type": "string"}
        }
      }
    }
  },
  "$defs": {
    "code": {"type": "string", "minLength": 2, "maxLength": 2},
    "token": {
      "type": "object",
      "required": ["marker", "label"],
      "additionalProperties": false,
      "properties": {
        "marker": {"type": "string", "minLength": 1, "maxLength": 1},
        "label": {"type": "string", "pattern": "^\\S+$"},
        "length": {"type": "integer", "minimum": 0},
        "coded": {"type": "boolean"}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		url := "schema://vocabulary.json"
		if err := compiler.AddResource(url, strings.NewReader(documentSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(url)
	})
	return compiledSchema, schemaErr
}

// validateSchema validates a decoded YAML value. The value is round-tripped
// through JSON so numbers reach the validator as json.Number.
func validateSchema(raw any) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("document is not representable as JSON: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return fmt.Errorf("decode document for validation: %w", err)
	}
	return schema.Validate(instance)
}
