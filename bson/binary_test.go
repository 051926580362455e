// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumate/mongo-cxx-driver/options"
	"github.com/Lumate/mongo-cxx-driver/x/bsonx/bsoncore"
)

var documentComparer = cmp.Comparer(func(a, b *Document) bool { return a.Equal(b) })

func everyValue() *Document {
	oid := ObjectID{0x50, 0x7f, 0x1f, 0x77, 0xbc, 0xf8, 0x6c, 0xd7, 0x99, 0x43, 0x90, 0x11}
	return NewDocument(
		Element{"null", Null{}},
		Element{"undefined", Undefined{}},
		Element{"minKey", MinKey{}},
		Element{"maxKey", MaxKey{}},
		Element{"bool", Boolean(true)},
		Element{"int32", Int32(-5)},
		Element{"int64", Int64(math.MaxInt64)},
		Element{"double", Double(1.25)},
		Element{"nan", Double(math.NaN())},
		Element{"inf", Double(math.Inf(1))},
		Element{"string", String("héllo\x00world")},
		Element{"binary", Binary{Subtype: TypeBinaryUUID, Data: []byte{1, 2, 3}}},
		Element{"binaryOld", Binary{Subtype: TypeBinaryBinaryOld, Data: []byte{4, 5}}},
		Element{"oid", oid},
		Element{"date", DateTime(-1000)},
		Element{"ts", Timestamp{T: math.MaxUint32, I: 1}},
		Element{"regex", Regex{Pattern: "ab*c", Options: "i"}},
		Element{"dbref", DBRef{Ref: "db.coll", ID: oid}},
		Element{"dbrefOther", DBRef{Ref: "db.coll", ID: String("key")}},
		Element{"array", NewArray(Int32(1), NewArray(), NewDocument())},
		Element{"doc", NewDocument(Element{"a", Int32(1)}, Element{"a", Int32(2)})},
	)
}

func TestMarshalBSONRoundTrip(t *testing.T) {
	want := everyValue()

	raw, err := want.MarshalBSON()
	require.NoError(t, err)
	_, err = bsoncore.Document(raw).Elements()
	require.NoError(t, err)

	got, err := ReadDocument(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got, documentComparer); diff != "" {
		t.Errorf("documents differ (-want +got):\n%s", diff)
	}
}

func TestMarshalBSONBuiltArray(t *testing.T) {
	arr, err := NewArrayBuilder().Append(Int32(1)).Finish()
	require.NoError(t, err)
	require.True(t, arr.IsArray())

	b := NewDocumentBuilder()
	b.Append("x", arr)
	built, err := b.Finish()
	require.NoError(t, err)

	for name, want := range map[string]*Document{
		"builder":      built,
		"new document": NewDocument(Element{"x", arr}),
	} {
		t.Run(name, func(t *testing.T) {
			raw, err := want.MarshalBSON()
			require.NoError(t, err)

			elems, err := bsoncore.Document(raw).Elements()
			require.NoError(t, err)
			require.Len(t, elems, 1)
			assert.Equal(t, bsoncore.TypeArray, elems[0].Value().Type)

			got, err := ReadDocument(raw)
			require.NoError(t, err)
			v, ok := got.Lookup("x")
			require.True(t, ok)
			assert.IsType(t, Array{}, v)
			if diff := cmp.Diff(want, got, documentComparer); diff != "" {
				t.Errorf("documents differ (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalBSONWireTypes(t *testing.T) {
	raw, err := everyValue().MarshalBSON()
	require.NoError(t, err)

	elems, err := bsoncore.Document(raw).Elements()
	require.NoError(t, err)

	types := map[string]bsoncore.Type{}
	for _, e := range elems {
		types[e.Key()] = e.Value().Type
	}
	assert.Equal(t, bsoncore.TypeDBPointer, types["dbref"])
	assert.Equal(t, bsoncore.TypeEmbeddedDocument, types["dbrefOther"])
	assert.Equal(t, bsoncore.TypeArray, types["array"])
	assert.Equal(t, bsoncore.TypeTimestamp, types["ts"])
}

func TestMarshalBSONErrors(t *testing.T) {
	testCases := []struct {
		name string
		doc  *Document
		want error
	}{
		{"nil document", nil, ErrNilDocument},
		{"NUL in key", NewDocument(Element{"a\x00b", Int32(1)}), ErrInvalidKey},
		{"nested NUL in key", NewDocument(Element{"sub", NewDocument(Element{"\x00", Null{}})}), ErrInvalidKey},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.doc.MarshalBSON()
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}

	_, err := NewDocument(Element{"r", Regex{Pattern: "a\x00"}}).MarshalBSON()
	assert.Error(t, err)
	_, err = NewDocument(Element{"d", DBRef{Ref: "x"}}).MarshalBSON()
	assert.Error(t, err)
	_, err = NewDocument(Element{"v", nil}).MarshalBSON()
	assert.Error(t, err)
}

func TestReadDocumentErrors(t *testing.T) {
	valid, err := NewDocument(Element{"a", Int32(1)}).MarshalBSON()
	require.NoError(t, err)

	t.Run("short", func(t *testing.T) {
		_, err := ReadDocument(valid[:3])
		assert.True(t, errors.Is(err, ErrInvalidLength))
	})
	t.Run("trailing bytes", func(t *testing.T) {
		_, err := ReadDocument(append(append([]byte{}, valid...), 0x00))
		assert.EqualError(t, err, "1 trailing bytes after document")
	})
	t.Run("missing terminator", func(t *testing.T) {
		bad := append([]byte{}, valid...)
		bad[len(bad)-1] = 0x01
		_, err := ReadDocument(bad)
		assert.True(t, errors.Is(err, ErrInvalidLength))
	})
	t.Run("truncated value", func(t *testing.T) {
		bad := []byte{0x0A, 0x00, 0x00, 0x00, byte(TypeInt32), 'a', 0x00, 0x01, 0x00, 0x00}
		_, err := ReadDocument(bad)
		var ibe bsoncore.InsufficientBytesError
		assert.True(t, errors.As(err, &ibe), "got %v", err)
	})
	t.Run("unsupported type", func(t *testing.T) {
		raw := bsoncore.AppendHeader(nil, bsoncore.TypeJavaScript, "js")
		raw = bsoncore.AppendString(raw, "function(){}")
		idx, doc := bsoncore.AppendDocumentStart(nil)
		doc = append(doc, raw...)
		doc, _ = bsoncore.AppendDocumentEnd(doc, idx)

		_, err := ReadDocument(doc)
		assert.True(t, errors.Is(err, ErrUnsupportedType), "got %v", err)
	})
	t.Run("nested document framing", func(t *testing.T) {
		raw, err := NewDocument(Element{"d", NewDocument(Element{"a", Int32(1)})}).MarshalBSON()
		require.NoError(t, err)
		raw[len(raw)-2] = 0x01

		_, err = ReadDocument(raw)
		assert.EqualError(t, err, `reading elements: invalid embedded document value`)
	})
	t.Run("bad boolean", func(t *testing.T) {
		doc := []byte{0x09, 0x00, 0x00, 0x00, byte(TypeBoolean), 'b', 0x00, 0x02, 0x00}
		_, err := ReadDocument(doc)
		assert.Error(t, err)
	})
}

func TestReadDocumentMaxDepth(t *testing.T) {
	nested := func(depth int) []byte {
		doc := NewDocument()
		for i := 1; i < depth; i++ {
			doc = NewDocument(Element{"d", doc})
		}
		raw, err := doc.MarshalBSON()
		require.NoError(t, err)
		return raw
	}

	_, err := ReadDocument(nested(options.DefaultMaxDepth))
	require.NoError(t, err)

	_, err = ReadDocument(nested(options.DefaultMaxDepth + 1))
	assert.True(t, errors.Is(err, ErrTooDeeplyNested), "got %v", err)

	_, err = ReadDocument(nested(5), options.Parse().SetMaxDepth(4))
	assert.True(t, errors.Is(err, ErrTooDeeplyNested), "got %v", err)

	_, err = ReadDocument(nested(5), options.Parse().SetMaxDepth(0))
	assert.Error(t, err)
}

func TestReadDocumentRegexOptions(t *testing.T) {
	idx, raw := bsoncore.AppendDocumentStart(nil)
	raw = bsoncore.AppendRegexElement(raw, "r", "^a", "xu")
	raw, _ = bsoncore.AppendDocumentEnd(raw, idx)

	doc, err := ReadDocument(raw)
	require.NoError(t, err)
	v, ok := doc.Lookup("r")
	require.True(t, ok)
	assert.Equal(t, Regex{Pattern: "^a", Options: "xu"}, v)
}

func TestReadDocumentArrayKeys(t *testing.T) {
	idx, raw := bsoncore.AppendDocumentStart(nil)
	var aidx int32
	aidx, raw = bsoncore.AppendArrayElementStart(raw, "arr")
	raw = bsoncore.AppendInt32Element(raw, "7", 1)
	raw = bsoncore.AppendInt32Element(raw, "x", 2)
	raw, _ = bsoncore.AppendArrayEnd(raw, aidx)
	raw, _ = bsoncore.AppendDocumentEnd(raw, idx)

	doc, err := ReadDocument(raw)
	require.NoError(t, err)
	v, ok := doc.Lookup("arr")
	require.True(t, ok)
	arr, ok := v.(Array)
	require.True(t, ok)
	assert.Equal(t, []string{"0", "1"}, arr.Document().Keys())
}
