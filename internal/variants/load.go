package variants

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/briefing-monitor/internal/schemas"
	schemadocs "github.com/jonathan/briefing-monitor/schemas"
)

//go:embed defs/*.yaml
var defs embed.FS

// Parse decodes a YAML variant document, validates it against the variant JSON Schema,
// and then applies struct validation.
func Parse(data []byte) (*Variant, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse variant YAML: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("variant document is empty")
	}
	if err := schemas.ValidateValue(schemadocs.VariantName, schemadocs.Variant, raw); err != nil {
		return nil, err
	}

	var v Variant
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode variant: %w", err)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// LoadFile reads and parses a variant definition from disk.
func LoadFile(filePath string) (*Variant, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read variant file %s: %w", filePath, err)
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("variant file %s: %w", filePath, err)
	}
	return v, nil
}

// Get returns the built-in variant with the given name.
func Get(name string) (*Variant, error) {
	data, err := defs.ReadFile(path.Join("defs", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown variant %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("built-in variant %s: %w", name, err)
	}
	return v, nil
}

// Names lists the built-in variants, sorted.
func Names() []string {
	entries, err := defs.ReadDir("defs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// All loads every built-in variant in name order.
func All() ([]*Variant, error) {
	names := Names()
	out := make([]*Variant, 0, len(names))
	for _, name := range names {
		v, err := Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
