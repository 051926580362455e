// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsoncore

import (
	"fmt"
)

// Value represents a BSON value with a type and raw bytes.
type Value struct {
	Type Type
	Data []byte
}

// Validate ensures the value is a valid BSON value.
func (v Value) Validate() error {
	_, _, valid := readValue(v.Data, v.Type)
	if !valid {
		return NewInsufficientBytesError(v.Data, v.Data)
	}
	if !v.validate() {
		return fmt.Errorf("invalid %s value", v.Type)
	}
	return nil
}

func (v Value) validate() bool {
	var ok bool
	switch v.Type {
	case TypeEmbeddedDocument, TypeArray:
		// Nested elements are checked when the document itself is read.
		var doc Document
		doc, _, ok = ReadDocument(v.Data)
		ok = ok && len(doc) >= 5 && doc[len(doc)-1] == 0x00
	case TypeString:
		_, _, ok = ReadString(v.Data)
	case TypeBinary:
		_, _, _, ok = ReadBinary(v.Data)
	case TypeRegex:
		_, _, _, ok = ReadRegex(v.Data)
	case TypeDBPointer:
		_, _, _, ok = ReadDBPointer(v.Data)
	case TypeBoolean:
		_, _, ok = ReadBoolean(v.Data)
	default:
		ok = true
	}
	return ok
}

// DocumentOK returns the embedded document or array the Value holds. It
// returns false if the value is of another type or its length is invalid.
func (v Value) DocumentOK() (Document, bool) {
	if v.Type != TypeEmbeddedDocument && v.Type != TypeArray {
		return nil, false
	}
	doc, _, ok := ReadDocument(v.Data)
	if !ok {
		return nil, false
	}
	return doc, true
}
