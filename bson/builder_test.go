// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentBuilder(t *testing.T) {
	t.Run("flat", func(t *testing.T) {
		doc, err := NewDocumentBuilder().
			Append("a", Int32(1)).
			Append("b", String("x")).
			Append("a", Int64(2)).
			Finish()
		require.NoError(t, err)

		want := NewDocument(Element{"a", Int32(1)}, Element{"b", String("x")}, Element{"a", Int64(2)})
		assert.True(t, want.Equal(doc), "got %v", doc.Elements())
	})
	t.Run("nested with Start and End", func(t *testing.T) {
		b := NewDocumentBuilder()
		b.Append("before", Null{})
		sub := b.StartDocument("sub")
		sub.Append("x", Boolean(true))
		arr := sub.StartArray("arr")
		arr.Append(Int32(1)).Append(Int32(2))
		arr.End()
		sub.End()
		b.Append("after", Null{})

		doc, err := b.Finish()
		require.NoError(t, err)

		want := NewDocument(
			Element{"before", Null{}},
			Element{"sub", NewDocument(
				Element{"x", Boolean(true)},
				Element{"arr", NewArray(Int32(1), Int32(2))},
			)},
			Element{"after", Null{}},
		)
		assert.True(t, want.Equal(doc))
	})
	t.Run("scoped", func(t *testing.T) {
		b := NewDocumentBuilder()
		err := b.AppendDocument("sub", func(sub *DocumentBuilder) error {
			sub.Append("x", Int32(1))
			return sub.AppendArray("arr", func(arr *ArrayBuilder) error {
				arr.Append(String("a"))
				return arr.AppendDocument(func(d *DocumentBuilder) error {
					d.Append("y", Int32(2))
					return nil
				})
			})
		})
		require.NoError(t, err)

		doc, err := b.Finish()
		require.NoError(t, err)

		want := NewDocument(Element{"sub", NewDocument(
			Element{"x", Int32(1)},
			Element{"arr", NewArray(String("a"), NewDocument(Element{"y", Int32(2)}))},
		)})
		assert.True(t, want.Equal(doc))
	})
	t.Run("scoped error discards the nested scope", func(t *testing.T) {
		errBoom := errors.New("boom")
		b := NewDocumentBuilder()
		err := b.AppendDocument("sub", func(sub *DocumentBuilder) error {
			sub.Append("x", Int32(1))
			return errBoom
		})
		assert.ErrorIs(t, err, errBoom)

		b.Append("ok", Int32(1))
		doc, err := b.Finish()
		require.NoError(t, err)
		assert.Equal(t, []string{"ok"}, doc.Keys())
	})
	t.Run("scoped End inside fn is harmless", func(t *testing.T) {
		b := NewDocumentBuilder()
		require.NoError(t, b.AppendDocument("sub", func(sub *DocumentBuilder) error {
			sub.End()
			return nil
		}))
		doc, err := b.Finish()
		require.NoError(t, err)
		assert.Equal(t, 1, doc.Len())
	})
}

func TestArrayBuilder(t *testing.T) {
	b := NewArrayBuilder()
	b.Append(Int32(1))
	inner := b.StartArray()
	inner.Append(Int32(2))
	inner.End()
	b.Append(Int32(3))

	doc, err := b.Finish()
	require.NoError(t, err)
	assert.True(t, doc.IsArray())
	assert.Equal(t, []string{"0", "1", "2"}, doc.Keys())

	v, ok := doc.Lookup("1")
	require.True(t, ok)
	assert.True(t, Equal(NewArray(Int32(2)), v))

	arr, err := NewArrayBuilder().Append(Null{}).FinishArray()
	require.NoError(t, err)
	assert.Equal(t, 1, arr.Len())
}

func TestBuilderContract(t *testing.T) {
	testCases := []struct {
		name string
		fn   func() error
		op   string
	}{
		{
			"append while nested scope is open",
			func() error {
				b := NewDocumentBuilder()
				b.StartDocument("sub")
				b.Append("a", Int32(1))
				_, err := b.Finish()
				return err
			},
			"Append while a nested scope is open",
		},
		{
			"finish with nested scope open",
			func() error {
				b := NewDocumentBuilder()
				b.StartArray("arr").Append(Int32(1))
				_, err := b.Finish()
				return err
			},
			"Finish while a nested scope is open",
		},
		{
			"end twice",
			func() error {
				b := NewDocumentBuilder()
				sub := b.StartDocument("sub")
				sub.End()
				sub.End()
				_, err := b.Finish()
				return err
			},
			"End called twice",
		},
		{
			"end on root",
			func() error {
				b := NewArrayBuilder()
				b.End()
				_, err := b.Finish()
				return err
			},
			"End on a root builder",
		},
		{
			"end with child open",
			func() error {
				b := NewDocumentBuilder()
				sub := b.StartDocument("sub")
				sub.StartDocument("inner")
				sub.End()
				_, err := b.Finish()
				return err
			},
			"End while a nested scope is open",
		},
		{
			"append after finish",
			func() error {
				b := NewDocumentBuilder()
				_, _ = b.Finish()
				b.Append("a", Int32(1))
				return b.Err()
			},
			"Append after Finish",
		},
		{
			"finish on nested scope",
			func() error {
				b := NewDocumentBuilder()
				_, err := b.StartDocument("sub").Finish()
				return err
			},
			"Finish on a nested scope",
		},
		{
			"append to ended scope",
			func() error {
				b := NewDocumentBuilder()
				sub := b.StartDocument("sub")
				sub.End()
				sub.Append("late", Int32(1))
				_, err := b.Finish()
				return err
			},
			"Append on an ended scope",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fn()
			var bce *BuildContractError
			require.True(t, errors.As(err, &bce), "expected *BuildContractError, got %v", err)
			assert.Equal(t, tc.op, bce.Op)
			assert.NotEmpty(t, bce.Stack)
			assert.Contains(t, bce.ErrorStack(), tc.op)
		})
	}
}

func TestBuilderFirstViolationWins(t *testing.T) {
	b := NewDocumentBuilder()
	sub := b.StartDocument("sub")
	b.Append("a", Int32(1)) // first
	sub.End()
	sub.End() // second
	_, err := b.Finish()

	var bce *BuildContractError
	require.True(t, errors.As(err, &bce))
	assert.Equal(t, "Append while a nested scope is open", bce.Op)
}
