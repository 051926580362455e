// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package extjson

import (
	"fmt"

	"github.com/Lumate/mongo-cxx-driver/bson"
	"github.com/Lumate/mongo-cxx-driver/internal/textutil"
)

// ErrTooDeeplyNested is wrapped by the ParseError returned when objects and
// arrays nest deeper than the configured maximum depth.
var ErrTooDeeplyNested = bson.ErrTooDeeplyNested

// maxExcerpt bounds how much of the input a ParseError message repeats.
const maxExcerpt = 100

// ParseError is returned for malformed extended JSON. Offset is the byte
// offset into the input where parsing stopped, between 0 and len(input).
type ParseError struct {
	Offset int
	Msg    string
	Err    error

	excerpt string
}

func newParseError(text string, offset int, msg string, err error) *ParseError {
	return &ParseError{Offset: offset, Msg: msg, Err: err, excerpt: textutil.Excerpt(text, maxExcerpt)}
}

// Error implements the error interface.
func (pe *ParseError) Error() string {
	return fmt.Sprintf("%s: offset:%d of:%s", pe.Msg, pe.Offset, pe.excerpt)
}

// Unwrap returns the underlying error, if any.
func (pe *ParseError) Unwrap() error {
	return pe.Err
}
