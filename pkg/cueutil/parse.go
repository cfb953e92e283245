// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ErrSchema is returned when an embedded schema fails to compile or lacks the
// requested definition. It always indicates a build defect, never bad user input.
var ErrSchema = errors.New("invalid embedded schema")

// ParseResult contains the result of a successful CUE parse operation.
type ParseResult[T any] struct {
	// Value is the decoded Go struct.
	Value *T

	// Unified is the unified CUE value, for callers that need field order or
	// additional lookups.
	Unified cue.Value
}

// Unify compiles schema and data, unifies data with the definition at schemaPath
// (e.g. "#Registry") and validates the result.
func Unify(schema, data []byte, schemaPath string, opts ...Option) (cue.Value, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("%w: %w", ErrSchema, schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), filename)
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return cue.Value{}, fmt.Errorf("%w: definition %s not found: %w", ErrSchema, schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)

	var validateOpts []cue.Option
	if options.concrete {
		validateOpts = append(validateOpts, cue.Concrete(true))
	}
	if err := unified.Validate(validateOpts...); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}

	return unified, nil
}

// ParseAndDecode runs Unify and decodes the result into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	unified, err := Unify(schema, data, schemaPath, opts...)
	if err != nil {
		return nil, err
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filenameOf(opts))
	}

	return &ParseResult[T]{
		Value:   &result,
		Unified: unified,
	}, nil
}

// UnifyGo validates a Go value against the definition at schemaPath. It lets data
// decoded from other formats go through the same schema as CUE files.
func UnifyGo(schema []byte, schemaPath string, v any, opts ...Option) (cue.Value, error) {
	filename := filenameOf(opts)
	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("%w: %w", ErrSchema, schemaValue.Err())
	}
	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return cue.Value{}, fmt.Errorf("%w: definition %s not found: %w", ErrSchema, schemaPath, schemaRoot.Err())
	}

	encoded := ctx.Encode(v)
	if encoded.Err() != nil {
		return cue.Value{}, FormatError(encoded.Err(), filename)
	}

	unified := schemaRoot.Unify(encoded)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}
	return unified, nil
}

// Fields calls fn for each regular field of v in source order and stops at the
// first error.
func Fields(v cue.Value, fn func(label string, field cue.Value) error) error {
	iter, err := v.Fields()
	if err != nil {
		return err
	}
	for iter.Next() {
		if err := fn(iter.Selector().Unquoted(), iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

func filenameOf(opts []Option) string {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.filename == "" {
		return "<input>"
	}
	return options.filename
}
