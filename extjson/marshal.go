// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package extjson

import (
	"encoding/base64"
	"math"
	"strconv"

	"github.com/Lumate/mongo-cxx-driver/bson"
	"github.com/Lumate/mongo-cxx-driver/internal/jsonescape"
)

// maxSafeInteger is the largest integer a JavaScript number holds exactly.
const maxSafeInteger = 1 << 53

// Marshal renders doc as extended JSON in the given format. A document that
// reports IsArray is rendered as an array. pretty puts each member on its own
// line, indented with tabs; it never changes what the output parses to.
//
// Strict output parses back with Parse to a document equal to doc, with two
// exceptions. A nested document whose first key is a wrapper key such as
// "$date" is read back as that wrapper, or rejected when the rest of it does
// not fit the wrapper's shape. A Regex whose options fall outside g, i, m and
// s, as ReadDocument can return, is rejected.
func Marshal(doc *bson.Document, format Format, pretty bool) string {
	m := marshaler{format: format, pretty: pretty}
	return string(m.appendDocument(nil, doc, 0))
}

// MarshalValue renders a single value the way Marshal renders it inside a
// document.
func MarshalValue(v bson.Value, format Format, pretty bool) string {
	m := marshaler{format: format, pretty: pretty}
	return string(m.appendValue(nil, v, 0))
}

type marshaler struct {
	format Format
	pretty bool
}

// separate writes the whitespace between two tokens of a container at depth.
func (m marshaler) separate(dst []byte, depth int) []byte {
	if !m.pretty {
		return append(dst, ' ')
	}
	dst = append(dst, '\n')
	for i := 0; i < depth; i++ {
		dst = append(dst, '\t')
	}
	return dst
}

func (m marshaler) appendDocument(dst []byte, doc *bson.Document, depth int) []byte {
	if doc.IsArray() {
		return m.appendArray(dst, doc.Values(), depth)
	}
	elems := doc.Elements()
	if len(elems) == 0 {
		return append(dst, "{}"...)
	}
	dst = append(dst, '{')
	for i, e := range elems {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = m.separate(dst, depth+1)
		dst = m.appendKey(dst, e.Key)
		dst = append(dst, " : "...)
		dst = m.appendValue(dst, e.Value, depth+1)
	}
	dst = m.separate(dst, depth)
	return append(dst, '}')
}

func (m marshaler) appendArray(dst []byte, values []bson.Value, depth int) []byte {
	if len(values) == 0 {
		return append(dst, "[]"...)
	}
	dst = append(dst, '[')
	for i, v := range values {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = m.separate(dst, depth+1)
		dst = m.appendValue(dst, v, depth+1)
	}
	dst = m.separate(dst, depth)
	return append(dst, ']')
}

// isIdentifier reports whether key can be written without quotes.
func isIdentifier(key string) bool {
	if key == "" || !isFieldStart(key[0]) {
		return false
	}
	for i := 1; i < len(key); i++ {
		if !isFieldChar(key[i]) {
			return false
		}
	}
	return true
}

func (m marshaler) appendKey(dst []byte, key string) []byte {
	if m.format == TenGen && isIdentifier(key) {
		return append(dst, key...)
	}
	return jsonescape.AppendQuoted(dst, key)
}

func appendDouble(dst []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, "NaN"...)
	case math.IsInf(f, 1):
		return append(dst, "Infinity"...)
	case math.IsInf(f, -1):
		return append(dst, "-Infinity"...)
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, 'g', -1, 64)
	for _, c := range dst[start:] {
		if c == '.' || c == 'e' || c == 'E' {
			return dst
		}
	}
	// Keep the value a double when it is parsed back.
	return append(dst, ".0"...)
}

func (m marshaler) appendValue(dst []byte, v bson.Value, depth int) []byte {
	strict := m.format == Strict
	switch tv := v.(type) {
	case nil, bson.Null:
		return append(dst, "null"...)
	case bson.Boolean:
		return strconv.AppendBool(dst, bool(tv))
	case bson.Int32:
		return strconv.AppendInt(dst, int64(tv), 10)
	case bson.Int64:
		n := int64(tv)
		switch {
		case strict:
			dst = append(dst, `{ "$numberLong" : "`...)
			dst = strconv.AppendInt(dst, n, 10)
			return append(dst, `" }`...)
		case n > maxSafeInteger || n < -maxSafeInteger:
			dst = append(dst, `NumberLong("`...)
			dst = strconv.AppendInt(dst, n, 10)
			return append(dst, `")`...)
		default:
			dst = append(dst, "NumberLong("...)
			dst = strconv.AppendInt(dst, n, 10)
			return append(dst, ')')
		}
	case bson.Double:
		return appendDouble(dst, float64(tv))
	case bson.String:
		return jsonescape.AppendQuoted(dst, string(tv))
	case bson.ObjectID:
		if strict {
			dst = append(dst, `{ "$oid" : "`...)
			dst = append(dst, tv.Hex()...)
			return append(dst, `" }`...)
		}
		dst = append(dst, `ObjectId( "`...)
		dst = append(dst, tv.Hex()...)
		return append(dst, `" )`...)
	case bson.DateTime:
		switch m.format {
		case Strict:
			dst = append(dst, `{ "$date" : `...)
			dst = strconv.AppendInt(dst, int64(tv), 10)
			return append(dst, " }"...)
		case JS:
			dst = append(dst, "new Date( "...)
		default:
			dst = append(dst, "Date( "...)
		}
		dst = strconv.AppendInt(dst, int64(tv), 10)
		return append(dst, " )"...)
	case bson.Timestamp:
		if strict {
			dst = append(dst, `{ "$timestamp" : { "t" : `...)
			dst = strconv.AppendUint(dst, uint64(tv.T), 10)
			dst = append(dst, `, "i" : `...)
			dst = strconv.AppendUint(dst, uint64(tv.I), 10)
			return append(dst, " } }"...)
		}
		dst = append(dst, "Timestamp( "...)
		dst = strconv.AppendUint(dst, uint64(tv.T), 10)
		dst = append(dst, ", "...)
		dst = strconv.AppendUint(dst, uint64(tv.I), 10)
		return append(dst, " )"...)
	case bson.Regex:
		if strict {
			dst = append(dst, `{ "$regex" : `...)
			dst = jsonescape.AppendQuoted(dst, tv.Pattern)
			dst = append(dst, `, "$options" : `...)
			dst = jsonescape.AppendQuoted(dst, tv.Options)
			return append(dst, " }"...)
		}
		dst = append(dst, '/')
		dst = jsonescape.AppendRegex(dst, tv.Pattern)
		dst = append(dst, '/')
		return append(dst, tv.Options...)
	case bson.Binary:
		dst = append(dst, `{ "$binary" : "`...)
		dst = base64.StdEncoding.AppendEncode(dst, tv.Data)
		dst = append(dst, `", "$type" : "`...)
		dst = append(dst, hexDigits[tv.Subtype>>4], hexDigits[tv.Subtype&0x0f])
		return append(dst, `" }`...)
	case bson.DBRef:
		if oid, ok := tv.ID.(bson.ObjectID); ok && !strict {
			dst = append(dst, "Dbref( "...)
			dst = jsonescape.AppendQuoted(dst, tv.Ref)
			dst = append(dst, `, "`...)
			dst = append(dst, oid.Hex()...)
			return append(dst, `" )`...)
		}
		dst = append(dst, `{ "$ref" : `...)
		dst = jsonescape.AppendQuoted(dst, tv.Ref)
		dst = append(dst, `, "$id" : `...)
		dst = m.appendValue(dst, tv.ID, depth)
		return append(dst, " }"...)
	case bson.Undefined:
		if strict {
			return append(dst, `{ "$undefined" : true }`...)
		}
		return append(dst, "undefined"...)
	case bson.MinKey:
		if strict {
			return append(dst, `{ "$minKey" : 1 }`...)
		}
		return append(dst, "MinKey"...)
	case bson.MaxKey:
		if strict {
			return append(dst, `{ "$maxKey" : 1 }`...)
		}
		return append(dst, "MaxKey"...)
	case bson.Array:
		return m.appendArray(dst, tv.Values(), depth)
	case *bson.Document:
		return m.appendDocument(dst, tv, depth)
	default:
		// Value is sealed, so this is unreachable.
		panic("extjson: unknown bson.Value " + v.Type().String())
	}
}

const hexDigits = "0123456789abcdef"
