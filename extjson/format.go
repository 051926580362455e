// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package extjson

import (
	"fmt"
	"strings"
)

// Format selects how Marshal renders typed values and field names.
type Format int

// The output formats.
const (
	// Strict renders typed values as $-prefixed wrapper objects that Parse reads back.
	Strict Format = iota
	// JS renders typed values with shell constructors such as ObjectId( ... ) and new Date( ... ).
	JS
	// TenGen is JS with Date( ... ) instead of new Date( ... ) and unquoted field names
	// where the name is a valid identifier.
	TenGen
)

// String implements the fmt.Stringer interface.
func (f Format) String() string {
	switch f {
	case Strict:
		return "strict"
	case JS:
		return "js"
	case TenGen:
		return "tengen"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat returns the Format named by s, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "strict":
		return Strict, nil
	case "js":
		return JS, nil
	case "tengen":
		return TenGen, nil
	default:
		return Strict, fmt.Errorf("unknown extended JSON format %q", s)
	}
}
