// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"github.com/pelletier/go-toml/v2"

	"github.com/ampel360/utcs/pkg/cueutil"
	"github.com/ampel360/utcs/pkg/utcs"
)

const (
	// DefaultName is the source name reported for the embedded registry.
	DefaultName = "default_registry.cue"

	schemaPath = "#Registry"
)

var (
	//go:embed registry_schema.cue
	schemaBytes []byte

	//go:embed default_registry.cue
	defaultBytes []byte

	loadDefault = sync.OnceValues(func() (*utcs.Registries, error) {
		return LoadCUE(defaultBytes, DefaultName)
	})

	// ErrUnsupportedFormat is returned when a registry file extension is neither .cue nor .toml.
	ErrUnsupportedFormat = errors.New("unsupported registry format")

	// ErrDuplicateKey is returned when a TOML registry repeats a code within one table.
	ErrDuplicateKey = errors.New("duplicate registry key")
)

type (
	// UnsupportedFormatError is returned by LoadFile for an unknown extension.
	// It wraps ErrUnsupportedFormat for errors.Is() compatibility.
	UnsupportedFormatError struct {
		Path string
		Ext  string
	}

	// DuplicateKeyError reports a code that appears twice in one TOML table.
	// It wraps ErrDuplicateKey for errors.Is() compatibility.
	DuplicateKeyError struct {
		Source string
		Table  string
		Key    string
	}

	// tomlRegistry mirrors the TOML layout. Arrays of tables keep file order.
	tomlRegistry struct {
		Domains  []tomlDomain  `toml:"domains"`
		Variants []tomlVariant `toml:"variants"`
		Trigrams []tomlTrigram `toml:"trigrams"`
	}

	tomlDomain struct {
		Code        string `toml:"code"`
		Description string `toml:"description"`
	}

	tomlVariant struct {
		Code           string            `toml:"code"`
		Name           string            `toml:"name"`
		Description    string            `toml:"description"`
		Type           string            `toml:"type"`
		Category       string            `toml:"category"`
		Status         string            `toml:"status"`
		Specifications map[string]string `toml:"specifications"`
		LastModified   string            `toml:"last_modified"`
	}

	tomlTrigram struct {
		Code         string   `toml:"code"`
		Name         string   `toml:"name"`
		Family       string   `toml:"family"`
		Description  string   `toml:"description"`
		Domains      []string `toml:"domains"`
		Common       bool     `toml:"common"`
		Status       string   `toml:"status"`
		Examples     []string `toml:"examples"`
		LastModified string   `toml:"last_modified"`
	}
)

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported registry format %q (use .cue or .toml)", e.Path, e.Ext)
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %s: duplicate code %q", e.Source, e.Table, e.Key)
}

// Unwrap returns ErrDuplicateKey for errors.Is() compatibility.
func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// Default returns the embedded reference registries. The result is parsed once
// and shared; callers must not modify it.
func Default() (*utcs.Registries, error) {
	return loadDefault()
}

// Schema returns the embedded registry schema source.
func Schema() []byte {
	return bytes.Clone(schemaBytes)
}

// DefaultSource returns the embedded default registry source, suitable as a
// starting point for a custom registry file.
func DefaultSource() []byte {
	return bytes.Clone(defaultBytes)
}

// LoadFile reads a registry from path, choosing the format by extension.
// An empty path returns Default.
func LoadFile(path string) (*utcs.Registries, error) {
	if path == "" {
		return Default()
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".cue" && ext != ".toml" {
		return nil, &UnsupportedFormatError{Path: path, Ext: ext}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}

	slog.Debug("loading registry", "path", path, "format", strings.TrimPrefix(ext, "."))
	if ext == ".toml" {
		return LoadTOML(data, path)
	}
	return LoadCUE(data, path)
}

// LoadCUE parses a CUE registry. Entry order follows the source.
func LoadCUE(data []byte, name string) (*utcs.Registries, error) {
	unified, err := cueutil.Unify(schemaBytes, data, schemaPath, cueutil.WithFilename(name))
	if err != nil {
		return nil, err
	}

	var (
		domains  []utcs.Entry[utcs.Domain]
		variants []utcs.Entry[utcs.Variant]
		trigrams []utcs.Entry[utcs.Trigram]
	)

	err = cueutil.Fields(unified.LookupPath(cue.ParsePath("domains")), func(code string, v cue.Value) error {
		desc, err := v.String()
		if err != nil {
			return err
		}
		domains = append(domains, utcs.Entry[utcs.Domain]{Key: code, Value: utcs.Domain{Code: code, Description: desc}})
		return nil
	})
	if err != nil {
		return nil, cueutil.FormatError(err, name)
	}

	err = cueutil.Fields(unified.LookupPath(cue.ParsePath("variants")), func(code string, v cue.Value) error {
		var variant utcs.Variant
		if err := v.Decode(&variant); err != nil {
			return err
		}
		variant.Code = code
		variants = append(variants, utcs.Entry[utcs.Variant]{Key: code, Value: variant})
		return nil
	})
	if err != nil {
		return nil, cueutil.FormatError(err, name)
	}

	err = cueutil.Fields(unified.LookupPath(cue.ParsePath("trigrams")), func(code string, v cue.Value) error {
		var trigram utcs.Trigram
		if err := v.Decode(&trigram); err != nil {
			return err
		}
		trigram.Code = code
		trigrams = append(trigrams, utcs.Entry[utcs.Trigram]{Key: code, Value: trigram})
		return nil
	})
	if err != nil {
		return nil, cueutil.FormatError(err, name)
	}

	return build(domains, variants, trigrams), nil
}

// LoadTOML parses a TOML registry made of [[domains]], [[variants]] and [[trigrams]]
// arrays of tables. The data is validated against the same schema as CUE registries.
func LoadTOML(data []byte, name string) (*utcs.Registries, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, name); err != nil {
		return nil, err
	}

	var doc tomlRegistry
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	asCUE, err := doc.toSchemaShape(name)
	if err != nil {
		return nil, err
	}
	if _, err := cueutil.UnifyGo(schemaBytes, schemaPath, asCUE, cueutil.WithFilename(name)); err != nil {
		return nil, err
	}

	domains := make([]utcs.Entry[utcs.Domain], 0, len(doc.Domains))
	for _, d := range doc.Domains {
		domains = append(domains, utcs.Entry[utcs.Domain]{Key: d.Code, Value: utcs.Domain(d)})
	}
	variants := make([]utcs.Entry[utcs.Variant], 0, len(doc.Variants))
	for _, v := range doc.Variants {
		variants = append(variants, utcs.Entry[utcs.Variant]{Key: v.Code, Value: utcs.Variant(v)})
	}
	trigrams := make([]utcs.Entry[utcs.Trigram], 0, len(doc.Trigrams))
	for _, t := range doc.Trigrams {
		if t.Domains == nil {
			t.Domains = []string{}
		}
		trigrams = append(trigrams, utcs.Entry[utcs.Trigram]{Key: t.Code, Value: utcs.Trigram(t)})
	}

	return build(domains, variants, trigrams), nil
}

// toSchemaShape converts the TOML arrays into the keyed layout of #Registry,
// rejecting repeated codes that a map would silently merge.
func (doc tomlRegistry) toSchemaShape(name string) (map[string]any, error) {
	domains := make(map[string]any, len(doc.Domains))
	for _, d := range doc.Domains {
		if _, dup := domains[d.Code]; dup {
			return nil, &DuplicateKeyError{Source: name, Table: "domains", Key: d.Code}
		}
		domains[d.Code] = d.Description
	}

	variants := make(map[string]any, len(doc.Variants))
	for _, v := range doc.Variants {
		if _, dup := variants[v.Code]; dup {
			return nil, &DuplicateKeyError{Source: name, Table: "variants", Key: v.Code}
		}
		entry := map[string]any{
			"name":        v.Name,
			"description": v.Description,
			"type":        v.Type,
			"category":    v.Category,
			"status":      v.Status,
		}
		if len(v.Specifications) > 0 {
			entry["specifications"] = v.Specifications
		}
		if v.LastModified != "" {
			entry["last_modified"] = v.LastModified
		}
		variants[v.Code] = entry
	}

	trigrams := make(map[string]any, len(doc.Trigrams))
	for _, t := range doc.Trigrams {
		if _, dup := trigrams[t.Code]; dup {
			return nil, &DuplicateKeyError{Source: name, Table: "trigrams", Key: t.Code}
		}
		tags := t.Domains
		if tags == nil {
			tags = []string{}
		}
		entry := map[string]any{
			"name":        t.Name,
			"family":      t.Family,
			"description": t.Description,
			"domains":     tags,
			"common":      t.Common,
			"status":      t.Status,
		}
		if len(t.Examples) > 0 {
			entry["examples"] = t.Examples
		}
		if t.LastModified != "" {
			entry["last_modified"] = t.LastModified
		}
		trigrams[t.Code] = entry
	}

	return map[string]any{
		"domains":  domains,
		"variants": variants,
		"trigrams": trigrams,
	}, nil
}

func build(domains []utcs.Entry[utcs.Domain], variants []utcs.Entry[utcs.Variant], trigrams []utcs.Entry[utcs.Trigram]) *utcs.Registries {
	return &utcs.Registries{
		Domains:  utcs.NewCatalog(domains...),
		Variants: utcs.NewCatalog(variants...),
		Trigrams: utcs.NewCatalog(trigrams...),
	}
}
