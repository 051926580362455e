// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"errors"
	"strconv"
)

// ErrOutOfBounds indicates that an index provided to access something was invalid.
var ErrOutOfBounds = errors.New("out of bounds")

// ErrNilDocument indicates that an operation was attempted on a nil *bson.Document.
var ErrNilDocument = errors.New("document is nil")

// Element is a single key/value pair of a Document.
type Element struct {
	Key   string
	Value Value
}

// Document is an ordered sequence of elements. Keys are not required to be
// unique; duplicates are kept in insertion order. A Document is only built
// through NewDocument, NewArray or a builder and is never mutated afterwards,
// so it can be shared between goroutines for reading.
type Document struct {
	elems []Element
	array bool
}

// NewDocument creates a Document holding copies of elems in order. A value
// that is a *Document built as an array is stored as an Array.
func NewDocument(elems ...Element) *Document {
	doc := &Document{elems: make([]Element, len(elems))}
	for i, e := range elems {
		doc.elems[i] = Element{Key: e.Key, Value: normalize(e.Value)}
	}
	return doc
}

// normalize gives an array-flagged *Document, such as the result of
// ArrayBuilder.Finish, the Array form it is read back as.
func normalize(v Value) Value {
	if d, ok := v.(*Document); ok && d.IsArray() {
		return Array{doc: d}
	}
	return v
}

// Len returns the number of elements in the document.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.elems)
}

// IsArray reports whether the document was built as an array, either by an
// ArrayBuilder or by parsing a top-level array literal.
func (d *Document) IsArray() bool {
	return d != nil && d.array
}

// ElementAt retrieves the element at the given index in a Document.
func (d *Document) ElementAt(index uint) (Element, error) {
	if d == nil {
		return Element{}, ErrNilDocument
	}
	if int(index) >= len(d.elems) {
		return Element{}, ErrOutOfBounds
	}
	return d.elems[index], nil
}

// Lookup returns the value of the first element with the given key.
func (d *Document) Lookup(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	for _, e := range d.elems {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// LookupAll returns the values of every element with the given key, in order.
func (d *Document) LookupAll(key string) []Value {
	if d == nil {
		return nil
	}
	var vals []Value
	for _, e := range d.elems {
		if e.Key == key {
			vals = append(vals, e.Value)
		}
	}
	return vals
}

// Elements returns a copy of the document's elements.
func (d *Document) Elements() []Element {
	if d == nil {
		return nil
	}
	elems := make([]Element, len(d.elems))
	copy(elems, d.elems)
	return elems
}

// Keys returns the keys of the document in order, including duplicates.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.elems))
	for _, e := range d.elems {
		keys = append(keys, e.Key)
	}
	return keys
}

// Values returns the values of the document in order.
func (d *Document) Values() []Value {
	if d == nil {
		return nil
	}
	vals := make([]Value, 0, len(d.elems))
	for _, e := range d.elems {
		vals = append(vals, e.Value)
	}
	return vals
}

// Equal reports whether d and d2 hold structurally equal elements in the same
// order and are both documents or both arrays. See the package level Equal.
func (d *Document) Equal(d2 *Document) bool {
	if d == nil || d2 == nil {
		return d == nil && d2 == nil
	}
	if d.array != d2.array || len(d.elems) != len(d2.elems) {
		return false
	}
	for i := range d.elems {
		if d.elems[i].Key != d2.elems[i].Key {
			return false
		}
		if !Equal(d.elems[i].Value, d2.elems[i].Value) {
			return false
		}
	}
	return true
}

// Array is an ordered list of values. It is stored as a Document whose keys
// are the decimal indexes "0", "1", and so on.
type Array struct {
	doc *Document
}

// NewArray creates an Array holding values in order.
func NewArray(values ...Value) Array {
	doc := &Document{elems: make([]Element, 0, len(values)), array: true}
	for i, v := range values {
		doc.elems = append(doc.elems, Element{Key: strconv.Itoa(i), Value: normalize(v)})
	}
	return Array{doc: doc}
}

// ArrayFromDocument creates an array from a *Document, replacing its keys
// with indexes. It does not modify doc.
func ArrayFromDocument(doc *Document) Array {
	return NewArray(doc.Values()...)
}

// Len returns the number of elements in the array.
func (a Array) Len() int {
	return a.doc.Len()
}

// Index returns the value at position i.
func (a Array) Index(i uint) (Value, error) {
	e, err := a.doc.ElementAt(i)
	if err != nil {
		if errors.Is(err, ErrNilDocument) {
			return nil, ErrOutOfBounds
		}
		return nil, err
	}
	return e.Value, nil
}

// Values returns the array's values in order.
func (a Array) Values() []Value {
	return a.doc.Values()
}

// Document returns the array as a Document with index keys. The result
// reports IsArray.
func (a Array) Document() *Document {
	if a.doc == nil {
		return &Document{array: true}
	}
	return a.doc
}
