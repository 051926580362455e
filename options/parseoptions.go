// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package options

import (
	"fmt"
)

// DefaultMaxDepth is the nesting limit used when ParseOptions.MaxDepth is unset.
// The outermost document counts as depth 1.
const DefaultMaxDepth = 200

// ParseOptions represents arguments that can be used to configure reading a
// document from extended JSON or from BSON bytes.
//
// See corresponding setter methods for documentation.
type ParseOptions struct {
	MaxDepth *int
}

// ParseOptionsBuilder contains options to configure document parsing. Each
// option can be set through setter functions. See documentation for each
// setter function for an explanation of the option.
type ParseOptionsBuilder struct {
	Opts []func(*ParseOptions) error
}

// Parse creates a new ParseOptionsBuilder instance.
func Parse() *ParseOptionsBuilder {
	return &ParseOptionsBuilder{}
}

// List returns a list of ParseOptions setter functions.
func (po *ParseOptionsBuilder) List() []func(*ParseOptions) error {
	return po.Opts
}

// SetMaxDepth sets the value for the MaxDepth field. It specifies how deeply
// documents and arrays may nest before reading fails with a too deeply nested
// error. The value must be positive. The default is DefaultMaxDepth.
func (po *ParseOptionsBuilder) SetMaxDepth(depth int) *ParseOptionsBuilder {
	po.Opts = append(po.Opts, func(opts *ParseOptions) error {
		if depth <= 0 {
			return fmt.Errorf("max depth must be positive, got %d", depth)
		}
		opts.MaxDepth = &depth

		return nil
	})

	return po
}

// MaxDepthOrDefault returns MaxDepth, or DefaultMaxDepth when it is unset.
func (po *ParseOptions) MaxDepthOrDefault() int {
	if po == nil || po.MaxDepth == nil {
		return DefaultMaxDepth
	}
	return *po.MaxDepth
}
