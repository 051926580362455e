// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"github.com/Lumate/mongo-cxx-driver/x/bsonx/bsoncore"
)

// Type represents a BSON type.
type Type byte

// String returns the string representation of the BSON type's name.
func (bt Type) String() string {
	return bsoncore.Type(bt).String()
}

// IsValid will return true if the Type is one this package can represent as a Value.
func (bt Type) IsValid() bool {
	switch bt {
	case TypeDouble, TypeString, TypeEmbeddedDocument, TypeArray, TypeBinary,
		TypeUndefined, TypeObjectID, TypeBoolean, TypeDateTime, TypeNull, TypeRegex,
		TypeDBPointer, TypeInt32, TypeTimestamp, TypeInt64, TypeMinKey, TypeMaxKey:
		return true
	default:
		return false
	}
}

// BSON element types as described in https://bsonspec.org/spec.html.
const (
	TypeDouble           = Type(bsoncore.TypeDouble)
	TypeString           = Type(bsoncore.TypeString)
	TypeEmbeddedDocument = Type(bsoncore.TypeEmbeddedDocument)
	TypeArray            = Type(bsoncore.TypeArray)
	TypeBinary           = Type(bsoncore.TypeBinary)
	TypeUndefined        = Type(bsoncore.TypeUndefined)
	TypeObjectID         = Type(bsoncore.TypeObjectID)
	TypeBoolean          = Type(bsoncore.TypeBoolean)
	TypeDateTime         = Type(bsoncore.TypeDateTime)
	TypeNull             = Type(bsoncore.TypeNull)
	TypeRegex            = Type(bsoncore.TypeRegex)
	TypeDBPointer        = Type(bsoncore.TypeDBPointer)
	TypeInt32            = Type(bsoncore.TypeInt32)
	TypeTimestamp        = Type(bsoncore.TypeTimestamp)
	TypeInt64            = Type(bsoncore.TypeInt64)
	TypeMaxKey           = Type(bsoncore.TypeMaxKey)
	TypeMinKey           = Type(bsoncore.TypeMinKey)
)

// BSON binary element subtypes as described in https://bsonspec.org/spec.html.
const (
	TypeBinaryGeneric     byte = 0x00
	TypeBinaryFunction    byte = 0x01
	TypeBinaryBinaryOld   byte = 0x02
	TypeBinaryUUIDOld     byte = 0x03
	TypeBinaryUUID        byte = 0x04
	TypeBinaryMD5         byte = 0x05
	TypeBinaryEncrypted   byte = 0x06
	TypeBinaryUserDefined byte = 0x80
)
