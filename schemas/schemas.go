// Package schemas embeds the JSON Schemas for documents users may supply to the CLI.
package schemas

import _ "embed"

// VariantName labels the variant schema in validation errors.
const VariantName = "variant.schema.json"

// Variant is the JSON Schema for briefing variant definitions.
//
//go:embed variant.schema.json
var Variant []byte
