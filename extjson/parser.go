// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package extjson

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/Lumate/mongo-cxx-driver/bson"
	"github.com/Lumate/mongo-cxx-driver/internal/jsonescape"
	"github.com/Lumate/mongo-cxx-driver/internal/mongoutil"
	"github.com/Lumate/mongo-cxx-driver/options"
)

// Parse reads an extended JSON object or array from text. An array at the top
// level produces a Document whose IsArray reports true. Empty text produces an
// empty Document. Anything but whitespace after the top-level value is an
// error.
//
// Besides standard JSON, Parse accepts unquoted field names, single quoted
// strings, the $-prefixed wrapper objects ($oid, $date, $binary, ...) as the
// first field of a nested object, and the shell constructors ObjectId(...),
// Date(...), NumberLong(...) and friends. Every error is a *ParseError.
func Parse(text string, opts ...options.Lister[options.ParseOptions]) (*bson.Document, error) {
	doc, _, err := parse(text, false, opts)
	return doc, err
}

// ParseBytes is Parse for a byte slice.
func ParseBytes(b []byte, opts ...options.Lister[options.ParseOptions]) (*bson.Document, error) {
	return Parse(string(b), opts...)
}

// ParsePrefix reads one top-level object or array from the start of text and
// returns it with the number of bytes it used. Text after the value is
// ignored.
func ParsePrefix(text string, opts ...options.Lister[options.ParseOptions]) (*bson.Document, int, error) {
	return parse(text, true, opts)
}

// IsArray reports whether the first non-whitespace character of text opens an
// array. It does not parse the rest of text.
func IsArray(text string) bool {
	p := parser{text: text}
	return p.peekToken("[")
}

func parse(text string, prefix bool, opts []options.Lister[options.ParseOptions]) (*bson.Document, int, error) {
	args, err := mongoutil.NewOptions(opts...)
	if err != nil {
		return nil, 0, err
	}
	if len(text) == 0 {
		return bson.NewDocument(), 0, nil
	}

	p := &parser{text: text, maxDepth: args.MaxDepthOrDefault()}
	var doc *bson.Document
	if p.peekToken("[") {
		doc, err = p.topLevelArray()
	} else {
		doc, err = p.topLevelObject()
	}
	if err != nil {
		return nil, 0, err
	}

	if !prefix {
		p.skipSpace()
		if p.pos != len(p.text) {
			return nil, 0, p.fail("Garbage at end of json string")
		}
	}
	return doc, p.pos, nil
}

// parser is a recursive descent parser over an immutable input. pos only
// moves forward except when a lookahead is abandoned.
type parser struct {
	text     string
	pos      int
	depth    int
	maxDepth int
}

func (p *parser) fail(msg string) error {
	return newParseError(p.text, p.pos, msg, nil)
}

// expected skips whitespace so that the error points at the offending token.
func (p *parser) expected(msg string) error {
	p.skipSpace()
	return p.fail(msg)
}

func (p *parser) expect(token, msg string) error {
	if p.readToken(token) {
		return nil
	}
	return p.expected(msg)
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return newParseError(p.text, p.pos, "Too deeply nested", ErrTooDeeplyNested)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.text) && isSpace(p.text[p.pos]) {
		p.pos++
	}
}

// readTokenImpl reports whether token follows the whitespace at pos. pos
// moves past the token only if advance is set and the token matched.
func (p *parser) readTokenImpl(token string, advance bool) bool {
	i := p.pos
	for i < len(p.text) && isSpace(p.text[i]) {
		i++
	}
	if !strings.HasPrefix(p.text[i:], token) {
		return false
	}
	if advance {
		p.pos = i + len(token)
	}
	return true
}

func (p *parser) peekToken(token string) bool { return p.readTokenImpl(token, false) }

func (p *parser) readToken(token string) bool { return p.readTokenImpl(token, true) }

// readField consumes the next field name if it is name, quoted or not.
func (p *parser) readField(name string) bool {
	save := p.pos
	got, err := p.field()
	if err == nil && got == name {
		return true
	}
	p.pos = save
	return false
}

func (p *parser) topLevelObject() (*bson.Document, error) {
	if !p.readToken("{") {
		return nil, p.expected("Expecting '{'")
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	b := bson.NewDocumentBuilder()
	if err := p.objectBody(b); err != nil {
		return nil, err
	}
	return b.Finish()
}

func (p *parser) topLevelArray() (*bson.Document, error) {
	p.readToken("[")
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	b := bson.NewArrayBuilder()
	if err := p.elements(b); err != nil {
		return nil, err
	}
	return b.Finish()
}

// value parses one VALUE and adds it to s under key.
func (p *parser) value(key string, s sink) error {
	switch {
	case p.peekToken("{"):
		return p.object(key, s)
	case p.peekToken("["):
		return p.array(key, s)
	case p.readToken("new"):
		if !p.readToken("Date") {
			return p.expected(`"new" keyword not followed by Date constructor`)
		}
		return p.date(key, s)
	case p.readToken("Date"):
		return p.date(key, s)
	case p.readToken("Timestamp"):
		return p.timestamp(key, s)
	case p.readToken("ObjectId"):
		return p.objectID(key, s)
	case p.readToken("NumberLong"):
		return p.numberLong(key, s)
	case p.readToken("NumberInt"):
		return p.numberInt(key, s)
	case p.readToken("Dbref"), p.readToken("DBRef"):
		return p.dbRef(key, s)
	case p.readToken("MinKey"):
		s.add(key, bson.MinKey{})
	case p.readToken("MaxKey"):
		s.add(key, bson.MaxKey{})
	case p.peekToken("/"):
		return p.regex(key, s)
	case p.peekToken(`"`), p.peekToken("'"):
		str, err := p.quotedString()
		if err != nil {
			return err
		}
		s.add(key, bson.String(str))
	case p.readToken("true"):
		s.add(key, bson.Boolean(true))
	case p.readToken("false"):
		s.add(key, bson.Boolean(false))
	case p.readToken("null"):
		s.add(key, bson.Null{})
	case p.readToken("undefined"):
		s.add(key, bson.Undefined{})
	case p.readToken("NaN"):
		s.add(key, bson.Double(math.NaN()))
	case p.readToken("Infinity"):
		s.add(key, bson.Double(math.Inf(1)))
	case p.readToken("-Infinity"):
		s.add(key, bson.Double(math.Inf(-1)))
	default:
		return p.number(key, s)
	}
	return nil
}

// object parses a nested OBJECT. A reserved first field name makes it a
// SPECIALOBJECT, which must then have exactly the documented shape.
func (p *parser) object(key string, s sink) error {
	p.readToken("{")
	if err := p.enter(); err != nil {
		return err
	}
	defer p.leave()

	if !p.peekToken("}") {
		save := p.pos
		if name, err := p.field(); err == nil && isReserved(name) {
			v, err := p.special(name)
			if err != nil {
				return err
			}
			if err := p.expect("}", "Expecting '}'"); err != nil {
				return err
			}
			s.add(key, v)
			return nil
		}
		p.pos = save
	}
	return s.document(key, p.objectBody)
}

// objectBody parses MEMBERS and the closing brace; the opening brace has been read.
func (p *parser) objectBody(b *bson.DocumentBuilder) error {
	if p.readToken("}") {
		return nil
	}
	ds := documentSink{b: b}
	for {
		name, err := p.field()
		if err != nil {
			return err
		}
		if err := p.expect(":", "Expecting ':'"); err != nil {
			return err
		}
		if err := p.value(name, ds); err != nil {
			return err
		}
		if p.readToken(",") {
			continue
		}
		if p.readToken("}") {
			return nil
		}
		return p.expected("Expecting '}' or ','")
	}
}

func (p *parser) array(key string, s sink) error {
	p.readToken("[")
	if err := p.enter(); err != nil {
		return err
	}
	defer p.leave()

	return s.array(key, p.elements)
}

// elements parses ELEMENTS and the closing bracket; the opening bracket has been read.
func (p *parser) elements(b *bson.ArrayBuilder) error {
	if p.readToken("]") {
		return nil
	}
	as := arraySink{b: b}
	for {
		if err := p.value("", as); err != nil {
			return err
		}
		if p.readToken(",") {
			continue
		}
		if p.readToken("]") {
			return nil
		}
		return p.expected("Expecting ']' or ','")
	}
}

func isFieldStart(c byte) bool {
	return c == '$' || c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isFieldChar(c byte) bool {
	return isFieldStart(c) || ('0' <= c && c <= '9')
}

// field parses FIELD: a quoted string or [A-Za-z$_][A-Za-z0-9$_]*.
func (p *parser) field() (string, error) {
	p.skipSpace()
	if p.peekToken(`"`) || p.peekToken("'") {
		return p.quotedString()
	}
	if p.pos >= len(p.text) || !isFieldStart(p.text[p.pos]) {
		return "", p.fail("First character in field must be [A-Za-z$_]")
	}
	start := p.pos
	for p.pos < len(p.text) && isFieldChar(p.text[p.pos]) {
		p.pos++
	}
	return p.text[start:p.pos], nil
}

// quotedString parses STRING in either quote style.
func (p *parser) quotedString() (string, error) {
	var quote byte
	switch {
	case p.readToken(`"`):
		quote = '"'
	case p.readToken("'"):
		quote = '\''
	default:
		return "", p.expected(`Expecting '"' or "'"`)
	}
	str, err := p.chars(quote)
	if err != nil {
		return "", err
	}
	p.pos++ // closing quote
	return str, nil
}

// chars reads CHARS up to, not including, term. The input is returned as is
// unless it holds an escape.
func (p *parser) chars(term byte) (string, error) {
	start := p.pos
	var buf []byte
	for p.pos < len(p.text) {
		c := p.text[p.pos]
		switch {
		case c == term:
			if buf == nil {
				return p.text[start:p.pos], nil
			}
			return string(buf), nil
		case c < 0x20:
			return "", p.fail("Invalid control character in string")
		case c == '\\':
			if buf == nil {
				buf = append(make([]byte, 0, p.pos-start+16), p.text[start:p.pos]...)
			}
			var err error
			if buf, err = p.escape(buf); err != nil {
				return "", err
			}
		default:
			if buf != nil {
				buf = append(buf, c)
			}
			p.pos++
		}
	}
	return "", p.fail("Unexpected end of input")
}

// escape decodes the escape sequence at pos, which holds the backslash, and
// appends it to buf.
func (p *parser) escape(buf []byte) ([]byte, error) {
	p.pos++
	if p.pos >= len(p.text) {
		return nil, p.fail("Unexpected end of input")
	}
	c := p.text[p.pos]
	switch c {
	case 'b':
		buf = append(buf, '\b')
	case 'f':
		buf = append(buf, '\f')
	case 'n':
		buf = append(buf, '\n')
	case 'r':
		buf = append(buf, '\r')
	case 't':
		buf = append(buf, '\t')
	case 'v':
		buf = append(buf, '\v')
	case 'x':
		return nil, p.fail("Hex escape not supported")
	case '0', '1', '2', '3', '4', '5', '6', '7':
		return nil, p.fail("Octal escape not supported")
	case 'u':
		u, ok := jsonescape.DecodeHex4(p.text[p.pos+1:])
		if !ok {
			return nil, p.fail("Expecting 4 hex digits")
		}
		p.pos += 5
		if jsonescape.IsHighSurrogate(u) && strings.HasPrefix(p.text[p.pos:], `\u`) {
			if lo, ok := jsonescape.DecodeHex4(p.text[p.pos+2:]); ok && jsonescape.IsLowSurrogate(lo) {
				p.pos += 6
				return jsonescape.AppendSurrogatePair(buf, u, lo), nil
			}
		}
		return jsonescape.AppendCodeUnit(buf, u), nil
	default:
		// \" \' \\ \/ and every other \X stand for X.
		buf = append(buf, c)
	}
	p.pos++
	return buf, nil
}

func isRegexOption(c byte) bool {
	return c == 'g' || c == 'i' || c == 'm' || c == 's'
}

// regex parses / REGEXCHARS / REGEXOPTIONS.
func (p *parser) regex(key string, s sink) error {
	p.readToken("/")
	pattern, err := p.chars('/')
	if err != nil {
		return err
	}
	p.pos++ // closing slash

	start := p.pos
	for p.pos < len(p.text) && isAlpha(p.text[p.pos]) {
		if !isRegexOption(p.text[p.pos]) {
			return p.fail("Bad regex option: " + p.text[p.pos:p.pos+1])
		}
		p.pos++
	}
	s.add(key, bson.Regex{Pattern: pattern, Options: p.text[start:p.pos]})
	return nil
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func checkRegexOptions(opts string) (byte, bool) {
	for i := 0; i < len(opts); i++ {
		if !isRegexOption(opts[i]) {
			return opts[i], false
		}
	}
	return 0, true
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// scanInt returns the length of the optionally signed decimal integer at the
// start of s, or 0.
func scanInt(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == digits {
		return 0
	}
	return i
}

// scanFloat returns the length of the decimal floating point number at the
// start of s, or 0. It accepts what strtod accepts for decimal input.
func scanFloat(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	mantissa := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		mantissa++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			mantissa++
		}
		if mantissa > 0 {
			i = j
		}
	}
	if mantissa == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > exp {
			i = j
		}
	}
	return i
}

// number parses NUMBER. Integers become Int32 when they fit and Int64
// otherwise; a fraction, an exponent or int64 overflow makes a Double.
func (p *parser) number(key string, s sink) error {
	p.skipSpace()
	rest := p.text[p.pos:]
	fl := scanFloat(rest)
	if fl == 0 {
		return p.fail("Bad characters in value")
	}
	if il := scanInt(rest); il == fl {
		if n, err := strconv.ParseInt(rest[:il], 10, 64); err == nil {
			p.pos += il
			if n >= math.MinInt32 && n <= math.MaxInt32 {
				s.add(key, bson.Int32(n))
			} else {
				s.add(key, bson.Int64(n))
			}
			return nil
		}
	}
	f, err := strconv.ParseFloat(rest[:fl], 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return p.fail("Value cannot fit in double")
		}
		return p.fail("Bad characters in value")
	}
	p.pos += fl
	s.add(key, bson.Double(f))
	return nil
}

// int64Value parses a signed 64-bit integer. When allowUnsigned is set a value
// that only fits in uint64 is reinterpreted as int64.
func (p *parser) int64Value(what string, allowUnsigned bool) (int64, error) {
	p.skipSpace()
	rest := p.text[p.pos:]
	il := scanInt(rest)
	if il == 0 {
		return 0, p.fail("Expecting integer in " + what)
	}
	n, err := strconv.ParseInt(rest[:il], 10, 64)
	if err != nil && allowUnsigned {
		var u uint64
		if u, err = strconv.ParseUint(strings.TrimPrefix(rest[:il], "+"), 10, 64); err == nil {
			n = int64(u)
		}
	}
	if err != nil {
		return 0, p.fail(what + " value out of range")
	}
	p.pos += il
	return n, nil
}

// uint32Value parses an unsigned 32-bit integer. A leading '-' is an error.
func (p *parser) uint32Value(what string) (uint32, error) {
	p.skipSpace()
	if p.pos < len(p.text) && p.text[p.pos] == '-' {
		return 0, p.fail("Negative " + what)
	}
	rest := p.text[p.pos:]
	il := scanInt(rest)
	if il == 0 {
		return 0, p.fail("Expecting unsigned integer " + what)
	}
	n, err := strconv.ParseUint(rest[:il], 10, 32)
	if err != nil {
		return 0, p.fail(what + " value out of range")
	}
	p.pos += il
	return uint32(n), nil
}

// sink receives parsed values. It hides whether the enclosing scope is a
// document, an array, or a single value being captured.
type sink interface {
	add(key string, v bson.Value)
	document(key string, fn func(*bson.DocumentBuilder) error) error
	array(key string, fn func(*bson.ArrayBuilder) error) error
}

type documentSink struct {
	b *bson.DocumentBuilder
}

func (ds documentSink) add(key string, v bson.Value) { ds.b.Append(key, v) }

func (ds documentSink) document(key string, fn func(*bson.DocumentBuilder) error) error {
	return ds.b.AppendDocument(key, fn)
}

func (ds documentSink) array(key string, fn func(*bson.ArrayBuilder) error) error {
	return ds.b.AppendArray(key, fn)
}

type arraySink struct {
	b *bson.ArrayBuilder
}

func (as arraySink) add(_ string, v bson.Value) { as.b.Append(v) }

func (as arraySink) document(_ string, fn func(*bson.DocumentBuilder) error) error {
	return as.b.AppendDocument(fn)
}

func (as arraySink) array(_ string, fn func(*bson.ArrayBuilder) error) error {
	return as.b.AppendArray(fn)
}

// valueSink captures a single value, such as the $id of a DBRef.
type valueSink struct {
	v bson.Value
}

func (vs *valueSink) add(_ string, v bson.Value) { vs.v = v }

func (vs *valueSink) document(_ string, fn func(*bson.DocumentBuilder) error) error {
	b := bson.NewDocumentBuilder()
	if err := fn(b); err != nil {
		return err
	}
	doc, err := b.Finish()
	if err != nil {
		return err
	}
	vs.v = doc
	return nil
}

func (vs *valueSink) array(_ string, fn func(*bson.ArrayBuilder) error) error {
	b := bson.NewArrayBuilder()
	if err := fn(b); err != nil {
		return err
	}
	arr, err := b.FinishArray()
	if err != nil {
		return err
	}
	vs.v = arr
	return nil
}
