package client

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Response bodies are untrusted; these schemas gate decoding.
var responseSchemas = map[string]string{
	"gen": `{
		"type": "object",
		"required": ["address", "signatures"],
		"properties": {
			"address": {"type": "string", "minLength": 1},
			"signatures": {
				"type": "object",
				"additionalProperties": {"type": "string"}
			},
			"status": {"type": "string"}
		}
	}`,
	"operations": `{
		"type": "object",
		"properties": {
			"addresses": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["address"],
					"properties": {
						"address": {"type": "string"},
						"signatures": {"type": "object", "additionalProperties": {"type": "string"}}
					}
				}
			},
			"operations": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["operationId", "state"],
					"properties": {
						"operationId": {"type": "string"},
						"state": {"type": "string"}
					}
				}
			}
		}
	}`,
}

var (
	compiledSchemas = make(map[string]*gojsonschema.Schema)
	schemaMutex     sync.RWMutex
)

func compiledSchema(name string) (*gojsonschema.Schema, error) {
	schemaMutex.RLock()
	compiled := compiledSchemas[name]
	schemaMutex.RUnlock()
	if compiled != nil {
		return compiled, nil
	}

	src, ok := responseSchemas[name]
	if !ok {
		return nil, fmt.Errorf("no response schema named %q", name)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema for %s: %w", name, err)
	}

	schemaMutex.Lock()
	compiledSchemas[name] = schema
	schemaMutex.Unlock()
	return schema, nil
}

// validateBody checks body against the named response schema.
func validateBody(name string, body []byte) error {
	schema, err := compiledSchema(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("body is not valid JSON: %w", err)
	}
	if !result.Valid() {
		var b strings.Builder
		for _, e := range result.Errors() {
			if b.Len() > 0 {
				b.WriteString("; ")
			}
			b.WriteString(e.String())
		}
		return fmt.Errorf("schema violation: %s", b.String())
	}
	return nil
}
