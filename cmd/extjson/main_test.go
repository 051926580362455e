// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumate/mongo-cxx-driver/extjson"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := newApp(strings.NewReader(stdin), &stdout, &stderr)
	err := app.Run(append([]string{"extjson"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestConvert(t *testing.T) {
	input := "{a: NumberLong(5), d: {\"$date\": 0}}\n\n  {\"b\": /x\\/y/i}  \n"

	out, _, err := run(t, input, "convert")
	require.NoError(t, err)
	assert.Equal(t,
		"{ \"a\" : { \"$numberLong\" : \"5\" }, \"d\" : { \"$date\" : 0 } }\n"+
			"{ \"b\" : { \"$regex\" : \"x/y\", \"$options\" : \"i\" } }\n",
		out)

	out, _, err = run(t, input, "--format", "js", "convert")
	require.NoError(t, err)
	assert.Equal(t, "{ \"a\" : NumberLong(5), \"d\" : new Date( 0 ) }\n{ \"b\" : /x\\/y/i }\n", out)

	out, _, err = run(t, input, "-f", "tengen", "--pretty", "convert")
	require.NoError(t, err)
	assert.Equal(t, "{\n\ta : NumberLong(5),\n\td : Date( 0 )\n}\n{\n\tb : /x\\/y/i\n}\n", out)
}

func TestConvertFormatFromEnv(t *testing.T) {
	t.Setenv("EXTJSON_FORMAT", "js")

	out, _, err := run(t, `{"n": NumberLong(1)}`, "convert")
	require.NoError(t, err)
	assert.Equal(t, "{ \"n\" : NumberLong(1) }\n", out)
}

func TestConvertErrors(t *testing.T) {
	t.Run("parse error", func(t *testing.T) {
		_, _, err := run(t, "{}\n{\"a\": }\n", "convert")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing -:2")

		var pe *extjson.ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 6, pe.Offset)
	})
	t.Run("verbose logs the failing line", func(t *testing.T) {
		_, stderr, err := run(t, "{\"a\": }\n", "--verbose", "convert")
		require.Error(t, err)
		assert.Contains(t, stderr, "line=1")
		assert.Contains(t, stderr, "offset=6")
	})
	t.Run("max depth", func(t *testing.T) {
		_, _, err := run(t, `{"a": {"b": {}}}`, "--max-depth", "2", "convert")
		require.Error(t, err)
		assert.True(t, errors.Is(err, extjson.ErrTooDeeplyNested))
	})
	t.Run("invalid max depth", func(t *testing.T) {
		_, _, err := run(t, `{}`, "--max-depth", "0", "convert")
		assert.EqualError(t, err, "--max-depth must be positive, got 0")
	})
	t.Run("unknown format", func(t *testing.T) {
		_, _, err := run(t, `{}`, "--format", "xml", "convert")
		assert.EqualError(t, err, `unknown extended JSON format "xml"`)
	})
	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, "", "convert", filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestConvertFiles(t *testing.T) {
	dir := t.TempDir()
	var files []string
	var want strings.Builder
	for i, content := range []string{`{"a": 1}`, "{\"b\": 2}\n{\"c\": 3}", `{"d": 4}`} {
		name := filepath.Join(dir, string(rune('a'+i))+".json")
		require.NoError(t, os.WriteFile(name, []byte(content), 0o600))
		files = append(files, name)
	}
	want.WriteString("{ \"a\" : 1 }\n{ \"b\" : 2 }\n{ \"c\" : 3 }\n{ \"d\" : 4 }\n")

	out, _, err := run(t, "", append([]string{"convert"}, files...)...)
	require.NoError(t, err)
	assert.Equal(t, want.String(), out)
}

func TestBSONRoundTrip(t *testing.T) {
	input := strings.Join([]string{
		`{"_id": {"$oid": "507f1f77bcf86cd799439011"}, "n": 5, "l": NumberLong(6), "f": 1.5}`,
		`{"ts": Timestamp(1000, 1), "r": /ab*c/i, "b": {"$binary": "AQID", "$type": "00"}}`,
		`{"ref": Dbref("c", "507f1f77bcf86cd799439011"), "a": [1, "x", {"y": null}], "k": MinKey}`,
	}, "\n")

	raw, _, err := run(t, input, "tobson")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	out, _, err := run(t, raw, "tojson")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	for i, line := range strings.Split(input, "\n") {
		want, err := extjson.Parse(line)
		require.NoError(t, err)
		got, err := extjson.Parse(lines[i])
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "line %d: %s", i+1, lines[i])
	}
}

func TestToJSONTruncated(t *testing.T) {
	raw, _, err := run(t, `{"a": "hello"}`, "tobson")
	require.NoError(t, err)

	_, _, err = run(t, raw[:len(raw)-3], "tojson")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading document 0 of -")
}
