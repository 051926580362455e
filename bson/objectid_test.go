// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjectID(t *testing.T) {
	a, b := NewObjectID(), NewObjectID()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsZero())
	assert.True(t, NilObjectID.IsZero())
}

func TestObjectIDString(t *testing.T) {
	id := NewObjectID()
	require.Contains(t, id.String(), id.Hex())
}

func TestObjectIDFromHex(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		before := NewObjectID()
		after, err := ObjectIDFromHex(before.Hex())
		require.NoError(t, err)
		require.Equal(t, before, after)
	})
	t.Run("upper case", func(t *testing.T) {
		id, err := ObjectIDFromHex("507F1F77BCF86CD799439011")
		require.NoError(t, err)
		assert.Equal(t, "507f1f77bcf86cd799439011", id.Hex())
	})
	t.Run("invalid hex", func(t *testing.T) {
		_, err := ObjectIDFromHex("zz7f1f77bcf86cd799439011")
		require.Equal(t, ErrInvalidHex, err)
	})
	t.Run("wrong length", func(t *testing.T) {
		_, err := ObjectIDFromHex("deadbeef")
		require.Equal(t, ErrInvalidHex, err)
	})
}

func TestObjectIDTimestamp(t *testing.T) {
	testCases := []struct {
		Hex      string
		Expected string
	}{
		{"000000001111111111111111", "1970-01-01 00:00:00 +0000 UTC"},
		{"7FFFFFFF1111111111111111", "2038-01-19 03:14:07 +0000 UTC"},
		{"800000001111111111111111", "2038-01-19 03:14:08 +0000 UTC"},
		{"FFFFFFFF1111111111111111", "2106-02-07 06:28:15 +0000 UTC"},
	}

	for _, testcase := range testCases {
		id, err := ObjectIDFromHex(testcase.Hex)
		require.NoError(t, err)
		require.Equal(t, testcase.Expected, id.Timestamp().String())
	}

	ts := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.Equal(t, ts, NewObjectIDFromTimestamp(ts).Timestamp())
}

func TestObjectIDText(t *testing.T) {
	id, err := ObjectIDFromHex("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	text, err := id.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", string(text))

	var got ObjectID
	require.NoError(t, got.UnmarshalText(text))
	assert.Equal(t, id, got)
	require.NoError(t, got.UnmarshalText(nil))
	assert.Equal(t, id, got)
}
