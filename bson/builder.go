// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-stack/stack"
)

// BuildContractError is returned from Finish when a builder was used out of
// order: appending to a scope while a nested scope is open, ending a scope
// twice, ending the root, or finishing with a nested scope still open. Only
// the first violation is kept. Stack is where it happened.
type BuildContractError struct {
	Op    string
	Stack stack.CallStack
}

func newBuildContractError(op string) *BuildContractError {
	return &BuildContractError{Op: op, Stack: stack.Trace().TrimRuntime()}
}

// Error implements the error interface.
func (e *BuildContractError) Error() string {
	return "builder contract violation: " + e.Op
}

// ErrorStack returns a string representing the stack at the point where the violation occurred.
func (e *BuildContractError) ErrorStack() string {
	s := bytes.NewBufferString(e.Error() + ": [")

	for i, call := range e.Stack {
		if i != 0 {
			s.WriteString(", ")
		}

		// go vet doesn't like %k even though it's part of stack's API, so we move the format
		// string so it doesn't complain.
		callFormat := "%k.%n %v"

		s.WriteString(fmt.Sprintf(callFormat, call, call, call))
	}

	s.WriteRune(']')

	return s.String()
}

// buildState is shared by a root builder and every scope opened under it.
type buildState struct {
	err      *BuildContractError
	finished bool
}

func (bs *buildState) violate(op string) {
	if bs.err == nil {
		bs.err = newBuildContractError(op)
	}
}

// scope is one open document or array. While a child scope is open the parent
// rejects appends; the child adds itself to the parent when it ends.
type scope struct {
	doc    *Document
	state  *buildState
	parent *scope
	key    string
	child  *scope
	ended  bool
}

func newScope(array bool) *scope {
	return &scope{doc: &Document{array: array}, state: new(buildState)}
}

func (s *scope) writable(op string) bool {
	switch {
	case s.state.finished:
		s.state.violate(op + " after Finish")
	case s.ended:
		s.state.violate(op + " on an ended scope")
	case s.child != nil:
		s.state.violate(op + " while a nested scope is open")
	default:
		return true
	}
	return false
}

func (s *scope) nextKey(key string) string {
	if s.doc.array {
		return strconv.Itoa(len(s.doc.elems))
	}
	return key
}

func (s *scope) append(op, key string, v Value) {
	if !s.writable(op) {
		return
	}
	s.doc.elems = append(s.doc.elems, Element{Key: s.nextKey(key), Value: normalize(v)})
}

func (s *scope) open(key string, array bool) *scope {
	child := &scope{doc: &Document{array: array}, state: s.state, parent: s, key: key}
	if !s.writable("Start") {
		// The child is detached so that its own End does not touch s.
		child.parent = nil
		child.ended = true
		return child
	}
	s.child = child
	return child
}

func (s *scope) end() {
	switch {
	case s.parent == nil && !s.ended:
		s.state.violate("End on a root builder")
		return
	case s.ended:
		s.state.violate("End called twice")
		return
	case s.child != nil:
		s.state.violate("End while a nested scope is open")
		return
	}
	s.close(true)
}

// close ends s. When commit is false the scope is dropped without being added
// to its parent.
func (s *scope) close(commit bool) {
	if s.ended || s.parent == nil {
		return
	}
	if s.child != nil {
		if commit {
			s.state.violate("End while a nested scope is open")
		}
		s.child.close(false)
	}
	s.ended = true
	p := s.parent
	p.child = nil
	if !commit {
		return
	}
	p.doc.elems = append(p.doc.elems, Element{Key: p.nextKey(s.key), Value: normalize(s.doc)})
}

func (s *scope) finish() (*Document, error) {
	switch {
	case s.parent != nil:
		s.state.violate("Finish on a nested scope")
	case s.state.finished:
		s.state.violate("Finish called twice")
	case s.child != nil:
		s.state.violate("Finish while a nested scope is open")
	}
	s.state.finished = true
	if s.state.err != nil {
		return nil, s.state.err
	}
	return s.doc, nil
}

// DocumentBuilder appends elements to a document being built. The zero value
// is not usable; use NewDocumentBuilder or StartDocument.
type DocumentBuilder struct {
	s *scope
}

// NewDocumentBuilder creates a builder for a new top-level document.
func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{s: newScope(false)}
}

// Append adds key and v to the end of the document.
func (db *DocumentBuilder) Append(key string, v Value) *DocumentBuilder {
	db.s.append("Append", key, v)
	return db
}

// StartDocument opens a nested document under key. db accepts no appends
// until the returned builder's End is called.
func (db *DocumentBuilder) StartDocument(key string) *DocumentBuilder {
	return &DocumentBuilder{s: db.s.open(key, false)}
}

// StartArray opens a nested array under key. db accepts no appends until the
// returned builder's End is called.
func (db *DocumentBuilder) StartArray(key string) *ArrayBuilder {
	return &ArrayBuilder{s: db.s.open(key, true)}
}

// AppendDocument opens a nested document under key, calls fn with it and ends
// it on every return path. If fn returns an error the nested document is
// discarded and the error is returned.
func (db *DocumentBuilder) AppendDocument(key string, fn func(*DocumentBuilder) error) (err error) {
	sub := db.StartDocument(key)
	defer func() { sub.s.close(err == nil) }()
	return fn(sub)
}

// AppendArray is AppendDocument for a nested array.
func (db *DocumentBuilder) AppendArray(key string, fn func(*ArrayBuilder) error) (err error) {
	sub := db.StartArray(key)
	defer func() { sub.s.close(err == nil) }()
	return fn(sub)
}

// End closes a nested document and adds it to its parent.
func (db *DocumentBuilder) End() {
	db.s.end()
}

// Finish returns the built document. It must be called on the builder made by
// NewDocumentBuilder after every nested scope has ended.
func (db *DocumentBuilder) Finish() (*Document, error) {
	return db.s.finish()
}

// Err returns the first contract violation recorded so far, if any.
func (db *DocumentBuilder) Err() error {
	if db.s.state.err == nil {
		return nil
	}
	return db.s.state.err
}

// ArrayBuilder appends values to an array being built. Keys are assigned as
// "0", "1", and so on.
type ArrayBuilder struct {
	s *scope
}

// NewArrayBuilder creates a builder for a new top-level array.
func NewArrayBuilder() *ArrayBuilder {
	return &ArrayBuilder{s: newScope(true)}
}

// Append adds v to the end of the array.
func (ab *ArrayBuilder) Append(v Value) *ArrayBuilder {
	ab.s.append("Append", "", v)
	return ab
}

// StartDocument opens a nested document as the next array value.
func (ab *ArrayBuilder) StartDocument() *DocumentBuilder {
	return &DocumentBuilder{s: ab.s.open("", false)}
}

// StartArray opens a nested array as the next array value.
func (ab *ArrayBuilder) StartArray() *ArrayBuilder {
	return &ArrayBuilder{s: ab.s.open("", true)}
}

// AppendDocument opens a nested document as the next array value, calls fn
// with it and ends it on every return path. If fn returns an error the nested
// document is discarded and the error is returned.
func (ab *ArrayBuilder) AppendDocument(fn func(*DocumentBuilder) error) (err error) {
	sub := ab.StartDocument()
	defer func() { sub.s.close(err == nil) }()
	return fn(sub)
}

// AppendArray is AppendDocument for a nested array.
func (ab *ArrayBuilder) AppendArray(fn func(*ArrayBuilder) error) (err error) {
	sub := ab.StartArray()
	defer func() { sub.s.close(err == nil) }()
	return fn(sub)
}

// End closes a nested array and adds it to its parent.
func (ab *ArrayBuilder) End() {
	ab.s.end()
}

// Finish returns the built array as a Document that reports IsArray.
func (ab *ArrayBuilder) Finish() (*Document, error) {
	return ab.s.finish()
}

// FinishArray is Finish returning an Array.
func (ab *ArrayBuilder) FinishArray() (Array, error) {
	doc, err := ab.s.finish()
	if err != nil {
		return Array{}, err
	}
	return Array{doc: doc}, nil
}

// Err returns the first contract violation recorded so far, if any.
func (ab *ArrayBuilder) Err() error {
	if ab.s.state.err == nil {
		return nil
	}
	return ab.s.state.err
}
