// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package textutil shortens input text for inclusion in error messages.
package textutil

import "unicode/utf8"

// maxRuneBack is how far Truncate steps back looking for the start of a
// multi-byte UTF-8 sequence.
const maxRuneBack = utf8.UTFMax - 1

// Truncate returns at most width bytes of str. It does not split a
// multi-byte UTF-8 sequence; bytes that are not valid UTF-8 are cut anywhere.
func Truncate(str string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(str) <= width {
		return str
	}

	// str[width] is the first byte dropped. If it continues a sequence that
	// starts within the kept bytes, drop that sequence too.
	for i := width; i >= 0 && width-i <= maxRuneBack; i-- {
		if utf8.RuneStart(str[i]) {
			if i == width || utf8.FullRuneInString(str[i:width]) {
				return str[:width]
			}
			return str[:i]
		}
	}
	return str[:width]
}

// Excerpt is Truncate followed by "..." when str was shortened.
func Excerpt(str string, width int) string {
	if len(str) <= width {
		return str
	}
	return Truncate(str, width) + "..."
}
