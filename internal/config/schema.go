// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

const schemaSource = `
#Ext: =~"^\\.[^./\\\\]+$"

#Config: {
	template_ext:     #Ext
	source_exts:      [...#Ext]
	plain_exts:       [...#Ext]
	output_ext:       #Ext
	max_passes:       int & >=1 & <=100
	workers:          int & >=0
	max_output_bytes: int & >=0
	log: {
		level:  "debug" | "info" | "warn" | "error"
		format: "text" | "json"
	}
}
`

// Validate checks cfg against the configuration schema.
func Validate(cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	value := schema.Unify(ctx.Encode(cfg))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid configuration: %s", cueerrors.Details(err, nil))
	}
	return nil
}
