package api

import (
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const envelopeSchemaURL = "tada://envelope.json"

// envelopeSchema only pins the wrapper; payload shapes are checked when the
// data member is decoded.
const envelopeSchema = `{
  "type": "object",
  "required": ["status"],
  "properties": {
    "status": {"enum": ["success", "error"]},
    "data": {"type": ["object", "null"]},
    "error": {
      "anyOf": [
        {"type": "null"},
        {
          "type": "object",
          "properties": {
            "code": {"type": "string"},
            "message": {"type": "string"}
          }
        }
      ]
    },
    "metadata": {
      "anyOf": [
        {"type": "null"},
        {
          "type": "object",
          "properties": {"timestamp": {"type": "string"}}
        }
      ]
    }
  }
}`

func compileEnvelopeSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(envelopeSchemaURL, strings.NewReader(envelopeSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(envelopeSchemaURL)
}
