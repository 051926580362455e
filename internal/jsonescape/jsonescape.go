// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package jsonescape decodes \uXXXX escapes into UTF-8 and escapes strings
// for extended JSON output.
package jsonescape

import (
	"unicode/utf16"
	"unicode/utf8"
)

const hexChars = "0123456789abcdef"

// DecodeHex4 decodes exactly four hex digits, in either case, at the start of
// s. It returns false if s is shorter or holds a non-hex digit.
func DecodeHex4(s string) (uint16, bool) {
	if len(s) < 4 {
		return 0, false
	}
	var u uint16
	for i := 0; i < 4; i++ {
		c := s[i]
		var d byte
		switch {
		case '0' <= c && c <= '9':
			d = c - '0'
		case 'a' <= c && c <= 'f':
			d = c - 'a' + 10
		case 'A' <= c && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, false
		}
		u = u<<4 | uint16(d)
	}
	return u, true
}

// IsHighSurrogate reports whether u is the first half of a UTF-16 surrogate pair.
func IsHighSurrogate(u uint16) bool { return 0xD800 <= u && u < 0xDC00 }

// IsLowSurrogate reports whether u is the second half of a UTF-16 surrogate pair.
func IsLowSurrogate(u uint16) bool { return 0xDC00 <= u && u < 0xE000 }

// AppendCodeUnit appends the UTF-8 form of a single 16-bit code unit to dst,
// using one to three bytes. A surrogate is written as its own three byte
// sequence even though that is not valid UTF-8.
func AppendCodeUnit(dst []byte, u uint16) []byte {
	switch {
	case u < 0x80:
		return append(dst, byte(u))
	case u < 0x800:
		return append(dst, 0xC0|byte(u>>6), 0x80|byte(u&0x3F))
	default:
		return append(dst, 0xE0|byte(u>>12), 0x80|byte(u>>6&0x3F), 0x80|byte(u&0x3F))
	}
}

// AppendSurrogatePair appends the UTF-8 form of the code point encoded by the
// pair hi, lo. The caller checks IsHighSurrogate(hi) and IsLowSurrogate(lo).
func AppendSurrogatePair(dst []byte, hi, lo uint16) []byte {
	return utf8.AppendRune(dst, utf16.DecodeRune(rune(hi), rune(lo)))
}

// AppendQuoted appends s to dst as a double quoted JSON string. Quotes,
// backslashes and control characters are escaped; every other byte, including
// invalid UTF-8, is copied unchanged.
func AppendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	dst = appendEscaped(dst, s, false)
	return append(dst, '"')
}

// AppendRegex appends a regex pattern for use between slashes. It escapes
// like AppendQuoted and also escapes '/'.
func AppendRegex(dst []byte, pattern string) []byte {
	return appendEscaped(dst, pattern, true)
}

func appendEscaped(dst []byte, s string, slash bool) []byte {
	start := 0
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 0x20 && b != '"' && b != '\\' && (b != '/' || !slash) {
			continue
		}
		dst = append(dst, s[start:i]...)
		switch b {
		case '\\', '"', '/':
			dst = append(dst, '\\', b)
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexChars[b>>4], hexChars[b&0xF])
		}
		start = i + 1
	}
	return append(dst, s[start:]...)
}
