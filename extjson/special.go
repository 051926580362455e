// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package extjson

import (
	"encoding/base64"
	"strconv"
	"time"

	"github.com/Lumate/mongo-cxx-driver/bson"
)

// isReserved reports whether name, as the first field of a nested object,
// makes the object a typed wrapper.
func isReserved(name string) bool {
	switch name {
	case "$oid", "$binary", "$date", "$timestamp", "$regex", "$ref",
		"$undefined", "$numberLong", "$minKey", "$maxKey":
		return true
	default:
		return false
	}
}

// special parses the rest of a wrapper object after its reserved first field
// name, up to but not including the closing brace.
func (p *parser) special(name string) (bson.Value, error) {
	if err := p.expect(":", "Expecting ':'"); err != nil {
		return nil, err
	}
	switch name {
	case "$oid":
		str, err := p.quotedString()
		if err != nil {
			return nil, err
		}
		return p.objectIDFromHex(str)
	case "$binary":
		return p.binary()
	case "$date":
		return p.dateValue()
	case "$timestamp":
		return p.timestampObject()
	case "$regex":
		return p.regexObject()
	case "$ref":
		return p.refObject()
	case "$undefined":
		if err := p.expect("true", "Expecting true"); err != nil {
			return nil, err
		}
		return bson.Undefined{}, nil
	case "$numberLong":
		n, err := p.quotedInt(64, "$numberLong")
		if err != nil {
			return nil, err
		}
		return bson.Int64(n), nil
	case "$minKey":
		if err := p.expect("1", "Expecting 1"); err != nil {
			return nil, err
		}
		return bson.MinKey{}, nil
	default: // $maxKey
		if err := p.expect("1", "Expecting 1"); err != nil {
			return nil, err
		}
		return bson.MaxKey{}, nil
	}
}

func (p *parser) objectIDFromHex(str string) (bson.Value, error) {
	if len(str) != 24 {
		return nil, p.fail("Expecting 24 hex digits: " + str)
	}
	oid, err := bson.ObjectIDFromHex(str)
	if err != nil {
		return nil, p.fail("Expecting hex digits: " + str)
	}
	return oid, nil
}

// quotedInt parses a quoted decimal integer of the given bit size.
func (p *parser) quotedInt(bitSize int, what string) (int64, error) {
	p.skipSpace()
	start := p.pos
	str, err := p.quotedString()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(str, 10, bitSize)
	if err != nil {
		p.pos = start
		return 0, p.fail("Bad " + what + " value: " + str)
	}
	return n, nil
}

func isBase64Char(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z') || ('0' <= c && c <= '9') || c == '+' || c == '/'
}

// binary parses "<base64>" , $type : "<hex byte>".
func (p *parser) binary() (bson.Value, error) {
	p.skipSpace()
	start := p.pos
	encoded, err := p.quotedString()
	if err != nil {
		return nil, err
	}
	if len(encoded)%4 != 0 {
		p.pos = start
		return nil, p.fail("Invalid length base64 encoded string")
	}
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if !isBase64Char(c) && !(c == '=' && i >= len(encoded)-2) {
			p.pos = start
			return nil, p.fail("Invalid character in base64 encoded string")
		}
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		p.pos = start
		return nil, p.fail("Invalid base64 encoded string")
	}

	if err := p.expect(",", "Expecting ','"); err != nil {
		return nil, err
	}
	if !p.readField("$type") {
		return nil, p.expected("Expecting $type")
	}
	if err := p.expect(":", "Expecting ':'"); err != nil {
		return nil, err
	}
	p.skipSpace()
	start = p.pos
	subtype, err := p.quotedString()
	if err != nil {
		return nil, err
	}
	if len(subtype) != 2 {
		p.pos = start
		return nil, p.fail("Argument of $type must be a hex string representation of a single byte")
	}
	st, err := strconv.ParseUint(subtype, 16, 8)
	if err != nil {
		p.pos = start
		return nil, p.fail("Argument of $type must be a hex string representation of a single byte")
	}
	return bson.Binary{Subtype: byte(st), Data: data}, nil
}

var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
}

// dateValue parses the argument of $date: integer milliseconds, a
// { $numberLong : "n" } object, or an ISO-8601 string.
func (p *parser) dateValue() (bson.Value, error) {
	switch {
	case p.readToken("{"):
		if !p.readField("$numberLong") {
			return nil, p.expected("Expecting $numberLong")
		}
		if err := p.expect(":", "Expecting ':'"); err != nil {
			return nil, err
		}
		ms, err := p.quotedInt(64, "$numberLong")
		if err != nil {
			return nil, err
		}
		if err := p.expect("}", "Expecting '}'"); err != nil {
			return nil, err
		}
		return bson.DateTime(ms), nil
	case p.peekToken(`"`), p.peekToken("'"):
		p.skipSpace()
		start := p.pos
		str, err := p.quotedString()
		if err != nil {
			return nil, err
		}
		for _, layout := range isoDateLayouts {
			if t, err := time.Parse(layout, str); err == nil {
				return bson.NewDateTimeFromTime(t), nil
			}
		}
		p.pos = start
		return nil, p.fail("Bad $date string: " + str)
	default:
		ms, err := p.int64Value("$date", true)
		if err != nil {
			return nil, err
		}
		return bson.DateTime(ms), nil
	}
}

// timestampObject parses { t : <uint32>, i : <uint32> }.
func (p *parser) timestampObject() (bson.Value, error) {
	if err := p.expect("{", "Expecting '{' to start $timestamp"); err != nil {
		return nil, err
	}
	if !p.readField("t") {
		return nil, p.expected("Expecting 't' in $timestamp")
	}
	if err := p.expect(":", "Expecting ':'"); err != nil {
		return nil, err
	}
	t, err := p.uint32Value("seconds")
	if err != nil {
		return nil, err
	}
	if err := p.expect(",", "Expecting ','"); err != nil {
		return nil, err
	}
	if !p.readField("i") {
		return nil, p.expected("Expecting 'i' in $timestamp")
	}
	if err := p.expect(":", "Expecting ':'"); err != nil {
		return nil, err
	}
	i, err := p.uint32Value("increment")
	if err != nil {
		return nil, err
	}
	if err := p.expect("}", "Expecting '}'"); err != nil {
		return nil, err
	}
	return bson.Timestamp{T: t, I: i}, nil
}

// regexObject parses "<pattern>" [, $options : "<opts>"].
func (p *parser) regexObject() (bson.Value, error) {
	pattern, err := p.quotedString()
	if err != nil {
		return nil, err
	}
	var opts string
	if p.readToken(",") {
		if !p.readField("$options") {
			return nil, p.expected("Expecting $options")
		}
		if err := p.expect(":", "Expecting ':'"); err != nil {
			return nil, err
		}
		p.skipSpace()
		start := p.pos
		if opts, err = p.quotedString(); err != nil {
			return nil, err
		}
		if c, ok := checkRegexOptions(opts); !ok {
			p.pos = start
			return nil, p.fail("Bad regex option: " + string(c))
		}
	}
	return bson.Regex{Pattern: pattern, Options: opts}, nil
}

// refObject parses "<ns>" , $id : VALUE.
func (p *parser) refObject() (bson.Value, error) {
	ns, err := p.quotedString()
	if err != nil {
		return nil, err
	}
	if err := p.expect(",", "Expecting ','"); err != nil {
		return nil, err
	}
	if !p.readField("$id") {
		return nil, p.expected("Expecting $id")
	}
	if err := p.expect(":", "Expecting ':'"); err != nil {
		return nil, err
	}
	var vs valueSink
	if err := p.value("", &vs); err != nil {
		return nil, err
	}
	return bson.DBRef{Ref: ns, ID: vs.v}, nil
}

// The constructors below are entered with the constructor name consumed.

func (p *parser) date(key string, s sink) error {
	if err := p.expect("(", "Expecting '('"); err != nil {
		return err
	}
	ms, err := p.int64Value("Date", true)
	if err != nil {
		return err
	}
	if err := p.expect(")", "Expecting ')'"); err != nil {
		return err
	}
	s.add(key, bson.DateTime(ms))
	return nil
}

func (p *parser) timestamp(key string, s sink) error {
	if err := p.expect("(", "Expecting '('"); err != nil {
		return err
	}
	t, err := p.uint32Value("seconds")
	if err != nil {
		return err
	}
	if err := p.expect(",", "Expecting ','"); err != nil {
		return err
	}
	i, err := p.uint32Value("increment")
	if err != nil {
		return err
	}
	if err := p.expect(")", "Expecting ')'"); err != nil {
		return err
	}
	s.add(key, bson.Timestamp{T: t, I: i})
	return nil
}

func (p *parser) objectID(key string, s sink) error {
	if err := p.expect("(", "Expecting '('"); err != nil {
		return err
	}
	str, err := p.quotedString()
	if err != nil {
		return err
	}
	oid, err := p.objectIDFromHex(str)
	if err != nil {
		return err
	}
	if err := p.expect(")", "Expecting ')'"); err != nil {
		return err
	}
	s.add(key, oid)
	return nil
}

func (p *parser) numberLong(key string, s sink) error {
	if err := p.expect("(", "Expecting '('"); err != nil {
		return err
	}
	var (
		n   int64
		err error
	)
	if p.peekToken(`"`) || p.peekToken("'") {
		n, err = p.quotedInt(64, "NumberLong")
	} else {
		n, err = p.int64Value("NumberLong", false)
	}
	if err != nil {
		return err
	}
	if err := p.expect(")", "Expecting ')'"); err != nil {
		return err
	}
	s.add(key, bson.Int64(n))
	return nil
}

func (p *parser) numberInt(key string, s sink) error {
	if err := p.expect("(", "Expecting '('"); err != nil {
		return err
	}
	var n int64
	if p.peekToken(`"`) || p.peekToken("'") {
		var err error
		if n, err = p.quotedInt(32, "NumberInt"); err != nil {
			return err
		}
	} else {
		p.skipSpace()
		rest := p.text[p.pos:]
		il := scanInt(rest)
		if il == 0 {
			return p.fail("Expecting integer in NumberInt")
		}
		var err error
		if n, err = strconv.ParseInt(rest[:il], 10, 32); err != nil {
			return p.fail("NumberInt value out of range")
		}
		p.pos += il
	}
	if err := p.expect(")", "Expecting ')'"); err != nil {
		return err
	}
	s.add(key, bson.Int32(n))
	return nil
}

func (p *parser) dbRef(key string, s sink) error {
	if err := p.expect("(", "Expecting '('"); err != nil {
		return err
	}
	ns, err := p.quotedString()
	if err != nil {
		return err
	}
	if err := p.expect(",", "Expecting ','"); err != nil {
		return err
	}
	str, err := p.quotedString()
	if err != nil {
		return err
	}
	oid, err := p.objectIDFromHex(str)
	if err != nil {
		return err
	}
	if err := p.expect(")", "Expecting ')'"); err != nil {
		return err
	}
	s.add(key, bson.DBRef{Ref: ns, ID: oid})
	return nil
}
