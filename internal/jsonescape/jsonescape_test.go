// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package jsonescape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHex4(t *testing.T) {
	testCases := []struct {
		in   string
		want uint16
		ok   bool
	}{
		{"0041", 0x41, true},
		{"00e9", 0xE9, true},
		{"D83D", 0xD83D, true},
		{"ffffxyz", 0xFFFF, true},
		{"00g1", 0, false},
		{"123", 0, false},
		{"", 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := DecodeHex4(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAppendCodeUnit(t *testing.T) {
	testCases := []struct {
		name string
		u    uint16
		want []byte
	}{
		{"ascii", 0x41, []byte("A")},
		{"nul", 0x00, []byte{0x00}},
		{"two bytes", 0xE9, []byte("é")},
		{"two bytes max", 0x7FF, []byte{0xDF, 0xBF}},
		{"three bytes", 0x20AC, []byte("€")},
		{"lone high surrogate", 0xD800, []byte{0xED, 0xA0, 0x80}},
		{"lone low surrogate", 0xDFFF, []byte{0xED, 0xBF, 0xBF}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AppendCodeUnit(nil, tc.u))
		})
	}
}

func TestSurrogates(t *testing.T) {
	require.True(t, IsHighSurrogate(0xD83D))
	require.False(t, IsHighSurrogate(0xDE00))
	require.True(t, IsLowSurrogate(0xDE00))
	require.False(t, IsLowSurrogate(0xD83D))

	assert.Equal(t, "😀", string(AppendSurrogatePair(nil, 0xD83D, 0xDE00)))
}

func TestAppendQuoted(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "abc", `"abc"`},
		{"empty", "", `""`},
		{"quote and backslash", `a"b\c`, `"a\"b\\c"`},
		{"slash untouched", "a/b", `"a/b"`},
		{"short escapes", "\b\f\n\r\t", `"\b\f\n\r\t"`},
		{"other controls", "\x00\x01\x1f", `"\u0000\u0001\u001f"`},
		{"del untouched", "\x7f", "\"\x7f\""},
		{"utf8 untouched", "héllo 😀", `"héllo 😀"`},
		{"invalid utf8 untouched", "\xff\xfe", "\"\xff\xfe\""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, string(AppendQuoted(nil, tc.in)))
		})
	}
}

func TestAppendRegex(t *testing.T) {
	assert.Equal(t, `a\/b\\d`, string(AppendRegex(nil, `a/b\d`)))
	assert.Equal(t, `x\ny`, string(AppendRegex(nil, "x\ny")))
	assert.Equal(t, `pre:ab*c`, string(AppendRegex([]byte("pre:"), "ab*c")))
}
