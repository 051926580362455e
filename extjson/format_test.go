// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package extjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{Strict, JS, TenGen} {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFormat("TenGen")
	require.NoError(t, err)
	assert.Equal(t, TenGen, got)

	_, err = ParseFormat("canonical")
	assert.EqualError(t, err, `unknown extended JSON format "canonical"`)

	assert.Equal(t, "Format(7)", Format(7).String())
}
