package query

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// analysisSchema gates raw generation output before it reaches callers. The
// service prompt asks for this exact shape; anything else is a malformed
// response, not a partial result.
const analysisSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["risks"],
  "properties": {
    "risks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["quote", "explanation"],
        "properties": {
          "quote": {"type": "string"},
          "explanation": {"type": "string"}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
)

// validateAnalysis checks a decoded generation response against the risk
// report schema.
func validateAnalysis(doc any) error {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("analysis.json", strings.NewReader(analysisSchema)); err != nil {
			panic(err)
		}
		compiledSchema = compiler.MustCompile("analysis.json")
	})
	return compiledSchema.Validate(doc)
}
