// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Lumate/mongo-cxx-driver/internal/mongoutil"
	"github.com/Lumate/mongo-cxx-driver/options"
	"github.com/Lumate/mongo-cxx-driver/x/bsonx/bsoncore"
)

// ErrTooDeeplyNested is returned when documents and arrays nest deeper than
// the configured maximum depth.
var ErrTooDeeplyNested = stderrors.New("too deeply nested")

// ErrInvalidLength indicates a document length that does not match the bytes.
var ErrInvalidLength = stderrors.New("document length is invalid")

// ErrInvalidKey indicates a key that cannot be written as a BSON cstring.
var ErrInvalidKey = stderrors.New("invalid document key")

// ErrUnsupportedType indicates a BSON type this package has no Value for.
var ErrUnsupportedType = stderrors.New("unsupported BSON type")

// ReadDocument builds a Document from raw BSON bytes. b must hold exactly one
// document. An embedded document made of exactly "$ref" (a string) followed by
// "$id" is read as a DBRef. Nested arrays get index keys regardless of the keys
// on the wire. Regex options are kept as they are on the wire, including
// letters such as "x" or "u" that extended JSON regex literals do not accept.
func ReadDocument(b []byte, opts ...options.Lister[options.ParseOptions]) (*Document, error) {
	args, err := mongoutil.NewOptions(opts...)
	if err != nil {
		return nil, err
	}
	r := &reader{maxDepth: args.MaxDepthOrDefault()}

	raw, rem, ok := bsoncore.ReadDocument(b)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidLength, "reading %d bytes", len(b))
	}
	if len(rem) != 0 {
		return nil, errors.Errorf("%d trailing bytes after document", len(rem))
	}
	return r.document(raw, false, 1)
}

type reader struct {
	maxDepth int
}

func (r *reader) document(raw bsoncore.Document, array bool, depth int) (*Document, error) {
	if depth > r.maxDepth {
		return nil, ErrTooDeeplyNested
	}
	if len(raw) < 5 || raw[len(raw)-1] != 0x00 {
		return nil, ErrInvalidLength
	}

	elems, err := raw.Elements()
	if err != nil {
		return nil, errors.Wrap(err, "reading elements")
	}
	doc := &Document{elems: make([]Element, 0, len(elems)), array: array}
	for _, e := range elems {
		key := e.Key()
		val, err := e.ValueErr()
		if err != nil {
			return nil, errors.Wrapf(err, "reading %q", key)
		}
		v, rem, err := r.value(val, depth)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %q", key)
		}
		if len(rem) != 0 {
			return nil, errors.Wrapf(bsoncore.ErrCorruptedDocument, "reading %q", key)
		}
		if array {
			key = strconv.Itoa(len(doc.elems))
		}
		doc.elems = append(doc.elems, Element{Key: key, Value: v})
	}
	return doc, nil
}

func (r *reader) value(val bsoncore.Value, depth int) (Value, []byte, error) {
	var (
		v  Value
		ok bool
	)
	src, t := val.Data, Type(val.Type)
	rem := src
	switch t {
	case TypeDouble:
		var f float64
		f, rem, ok = bsoncore.ReadDouble(src)
		v = Double(f)
	case TypeString:
		var s string
		s, rem, ok = bsoncore.ReadString(src)
		v = String(s)
	case TypeEmbeddedDocument, TypeArray:
		var raw bsoncore.Document
		if raw, ok = val.DocumentOK(); !ok {
			break
		}
		rem = src[len(raw):]
		doc, err := r.document(raw, t == TypeArray, depth+1)
		if err != nil {
			return nil, src, err
		}
		switch {
		case t == TypeArray:
			v = Array{doc: doc}
		case isDBRef(doc):
			v = DBRef{Ref: string(doc.elems[0].Value.(String)), ID: doc.elems[1].Value}
		default:
			v = doc
		}
	case TypeBinary:
		var (
			subtype byte
			data    []byte
		)
		subtype, data, rem, ok = bsoncore.ReadBinary(src)
		v = Binary{Subtype: subtype, Data: append([]byte(nil), data...)}
	case TypeUndefined:
		v, ok = Undefined{}, true
	case TypeObjectID:
		var oid [12]byte
		oid, rem, ok = bsoncore.ReadObjectID(src)
		v = ObjectID(oid)
	case TypeBoolean:
		if len(src) > 0 && src[0] > 0x01 {
			return nil, src, errors.Errorf("invalid boolean byte 0x%02x", src[0])
		}
		var b bool
		b, rem, ok = bsoncore.ReadBoolean(src)
		v = Boolean(b)
	case TypeDateTime:
		var dt int64
		dt, rem, ok = bsoncore.ReadDateTime(src)
		v = DateTime(dt)
	case TypeNull:
		v, ok = Null{}, true
	case TypeRegex:
		var pattern, opts string
		pattern, opts, rem, ok = bsoncore.ReadRegex(src)
		v = Regex{Pattern: pattern, Options: opts}
	case TypeDBPointer:
		var (
			ns  string
			oid [12]byte
		)
		ns, oid, rem, ok = bsoncore.ReadDBPointer(src)
		v = DBRef{Ref: ns, ID: ObjectID(oid)}
	case TypeInt32:
		var i32 int32
		i32, rem, ok = bsoncore.ReadInt32(src)
		v = Int32(i32)
	case TypeTimestamp:
		var ts, inc uint32
		ts, inc, rem, ok = bsoncore.ReadTimestamp(src)
		v = Timestamp{T: ts, I: inc}
	case TypeInt64:
		var i64 int64
		i64, rem, ok = bsoncore.ReadInt64(src)
		v = Int64(i64)
	case TypeMinKey:
		v, ok = MinKey{}, true
	case TypeMaxKey:
		v, ok = MaxKey{}, true
	default:
		return nil, src, errors.Wrapf(ErrUnsupportedType, "type %s (0x%02x)", t, byte(t))
	}
	if !ok {
		return nil, src, bsoncore.NewInsufficientBytesError(src, src)
	}
	return v, rem, nil
}

func isDBRef(doc *Document) bool {
	if len(doc.elems) != 2 || doc.elems[0].Key != "$ref" || doc.elems[1].Key != "$id" {
		return false
	}
	_, ok := doc.elems[0].Value.(String)
	return ok
}

// MarshalBSON returns the document encoded as BSON bytes.
func (d *Document) MarshalBSON() ([]byte, error) {
	return d.AppendBSON(nil)
}

// AppendBSON appends the document encoded as BSON bytes to dst. It fails if a
// key or a regex contains a NUL byte, or a DBRef has no ID.
func (d *Document) AppendBSON(dst []byte) ([]byte, error) {
	if d == nil {
		return dst, ErrNilDocument
	}
	idx, dst := bsoncore.AppendDocumentStart(dst)
	dst, err := appendElements(dst, d.elems)
	if err != nil {
		return dst, err
	}
	return bsoncore.AppendDocumentEnd(dst, idx)
}

func appendElements(dst []byte, elems []Element) ([]byte, error) {
	var err error
	for _, e := range elems {
		if strings.IndexByte(e.Key, 0x00) >= 0 {
			return dst, errors.Wrapf(ErrInvalidKey, "key %q contains a NUL byte", e.Key)
		}
		dst, err = appendElement(dst, e.Key, e.Value)
		if err != nil {
			return dst, errors.Wrapf(err, "writing %q", e.Key)
		}
	}
	return dst, nil
}

func appendElement(dst []byte, key string, v Value) ([]byte, error) {
	switch tv := v.(type) {
	case Null:
		return bsoncore.AppendNullElement(dst, key), nil
	case Undefined:
		return bsoncore.AppendUndefinedElement(dst, key), nil
	case MinKey:
		return bsoncore.AppendMinKeyElement(dst, key), nil
	case MaxKey:
		return bsoncore.AppendMaxKeyElement(dst, key), nil
	case Boolean:
		return bsoncore.AppendBooleanElement(dst, key, bool(tv)), nil
	case Int32:
		return bsoncore.AppendInt32Element(dst, key, int32(tv)), nil
	case Int64:
		return bsoncore.AppendInt64Element(dst, key, int64(tv)), nil
	case Double:
		return bsoncore.AppendDoubleElement(dst, key, float64(tv)), nil
	case String:
		return bsoncore.AppendStringElement(dst, key, string(tv)), nil
	case Binary:
		return bsoncore.AppendBinaryElement(dst, key, tv.Subtype, tv.Data), nil
	case ObjectID:
		return bsoncore.AppendObjectIDElement(dst, key, tv), nil
	case DateTime:
		return bsoncore.AppendDateTimeElement(dst, key, int64(tv)), nil
	case Timestamp:
		return bsoncore.AppendTimestampElement(dst, key, tv.T, tv.I), nil
	case Regex:
		if strings.IndexByte(tv.Pattern, 0x00) >= 0 || strings.IndexByte(tv.Options, 0x00) >= 0 {
			return dst, errors.New("regex contains a NUL byte")
		}
		return bsoncore.AppendRegexElement(dst, key, tv.Pattern, tv.Options), nil
	case DBRef:
		if tv.ID == nil {
			return dst, errors.New("DBRef has no ID")
		}
		if oid, ok := tv.ID.(ObjectID); ok {
			return bsoncore.AppendDBPointerElement(dst, key, tv.Ref, oid), nil
		}
		idx, dst := bsoncore.AppendDocumentElementStart(dst, key)
		dst = bsoncore.AppendStringElement(dst, "$ref", tv.Ref)
		dst, err := appendElement(dst, "$id", tv.ID)
		if err != nil {
			return dst, err
		}
		return bsoncore.AppendDocumentEnd(dst, idx)
	case Array:
		idx, dst := bsoncore.AppendArrayElementStart(dst, key)
		var err error
		for i, av := range tv.Values() {
			dst, err = appendElement(dst, strconv.Itoa(i), av)
			if err != nil {
				return dst, err
			}
		}
		return bsoncore.AppendArrayEnd(dst, idx)
	case *Document:
		if tv == nil {
			return dst, ErrNilDocument
		}
		idx, dst := bsoncore.AppendDocumentElementStart(dst, key)
		dst, err := appendElements(dst, tv.elems)
		if err != nil {
			return dst, err
		}
		return bsoncore.AppendDocumentEnd(dst, idx)
	default:
		return dst, errors.Errorf("cannot write %T as BSON", v)
	}
}
