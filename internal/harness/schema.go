package harness

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var scenarioSchema string

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
	schemaErr   error
)

// compiledSchema compiles the embedded scenario schema once.
// CUE compilation is not cheap; scenarios are validated in bulk when
// running testdata directories, so the compiled value is cached.
func compiledSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		schemaValue = ctx.CompileString(scenarioSchema)
		if err := schemaValue.Err(); err != nil {
			schemaErr = fmt.Errorf("compile scenario schema: %w", err)
		}
	})
	return schemaValue, schemaErr
}

// validateSchema checks raw scenario YAML against the embedded CUE
// schema. This catches structural mistakes (wrong field names, bad
// opcode strings, malformed positions) before decoding.
func validateSchema(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	return cueyaml.Validate(data, schema)
}
