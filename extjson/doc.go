// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package extjson converts between MongoDB extended JSON text and bson
// documents.
//
// # Parsing
//
// Parse accepts the shell dialect of JSON. Field names may be unquoted
// identifiers and strings may use single quotes. Typed values are written
// either as wrapper objects or as constructor calls:
//
//	{ "_id" : { "$oid" : "507f1f77bcf86cd799439011" } }
//	{ _id : ObjectId("507f1f77bcf86cd799439011"), at : new Date(0) }
//	{ "ts" : Timestamp(1000, 1), "re" : /ab*c/i, "n" : NumberLong("5") }
//
// A wrapper object is only recognized when its reserved field ($oid, $date,
// $binary, $timestamp, $regex, $ref, $undefined, $numberLong, $minKey or
// $maxKey) is the first field of a nested object. It must then have exactly
// the documented shape; anything else is a *ParseError. The top-level object
// is always an ordinary document.
//
// Integers parse as bson.Int32 when they fit and bson.Int64 otherwise. A
// fraction or an exponent makes a bson.Double, as do NaN, Infinity and
// -Infinity.
//
// Objects and arrays may nest up to options.DefaultMaxDepth levels. Deeper
// input fails with a *ParseError wrapping ErrTooDeeplyNested; use
// options.Parse().SetMaxDepth to change the limit.
//
// # Serializing
//
// Marshal renders a document in one of three formats. Strict uses only
// wrapper objects and parses back to an equal document. JS and TenGen use
// constructor calls such as ObjectId(...) and NumberLong(...); TenGen also
// leaves identifier field names unquoted.
package extjson
