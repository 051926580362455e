// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Lumate/mongo-cxx-driver/bson"
	"github.com/Lumate/mongo-cxx-driver/extjson"
	"github.com/Lumate/mongo-cxx-driver/options"
	"github.com/Lumate/mongo-cxx-driver/x/bsonx/bsoncore"
)

// maxLineSize bounds a single extended JSON line, matching the largest BSON
// document a server accepts.
const maxLineSize = 16 * 1024 * 1024

// converter holds the settings shared by every command.
type converter struct {
	format    extjson.Format
	pretty    bool
	parseOpts *options.ParseOptionsBuilder
	log       *logrus.Logger
}

// convertFunc reads one input and writes its converted form to w.
type convertFunc func(ctx context.Context, r io.Reader, name string, w io.Writer) error

// run applies fn to each file, or to stdin when there are none. Files are
// converted concurrently; their outputs are written to stdout in argument
// order.
func (c *converter) run(ctx context.Context, files []string, stdin io.Reader, stdout io.Writer, fn convertFunc) error {
	if len(files) == 0 || (len(files) == 1 && files[0] == "-") {
		return fn(ctx, stdin, "-", stdout)
	}

	outputs := make([]bytes.Buffer, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range files {
		g.Go(func() error {
			f, err := os.Open(name)
			if err != nil {
				return errors.Wrapf(err, "cannot open file (%s)", name)
			}
			defer f.Close()

			return fn(ctx, f, name, &outputs[i])
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range outputs {
		if _, err := outputs[i].WriteTo(stdout); err != nil {
			return errors.Wrap(err, "writing output")
		}
	}
	return nil
}

// jsonLines parses every non-blank line of r as an extended JSON document.
func (c *converter) jsonLines(ctx context.Context, r io.Reader, name string, emit func(*bson.Document) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNumber, count := 0, 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNumber++

		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		doc, err := extjson.Parse(line, c.parseOpts)
		if err != nil {
			fields := logrus.Fields{"file": name, "line": lineNumber}
			var pe *extjson.ParseError
			if stderrors.As(err, &pe) {
				fields["offset"] = pe.Offset
			}
			c.log.WithFields(fields).Debug(err)
			return errors.Wrapf(err, "error parsing %s:%d", name, lineNumber)
		}
		if err := emit(doc); err != nil {
			return errors.Wrapf(err, "%s:%d", name, lineNumber)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "reading %s", name)
	}

	c.log.WithFields(logrus.Fields{"file": name, "documents": count}).Debug("converted")
	return nil
}

// convert re-renders extended JSON lines in the configured format.
func (c *converter) convert(ctx context.Context, r io.Reader, name string, w io.Writer) error {
	return c.jsonLines(ctx, r, name, func(doc *bson.Document) error {
		_, err := io.WriteString(w, extjson.Marshal(doc, c.format, c.pretty)+"\n")
		return err
	})
}

// toBSON writes extended JSON lines as a stream of BSON documents.
func (c *converter) toBSON(ctx context.Context, r io.Reader, name string, w io.Writer) error {
	return c.jsonLines(ctx, r, name, func(doc *bson.Document) error {
		b, err := doc.MarshalBSON()
		if err != nil {
			return errors.Wrap(err, "encoding BSON")
		}

		n, err := w.Write(b)
		if err != nil {
			return err
		}
		if n != len(b) {
			return errors.Errorf("error writing bson, only wrote %d of %d bytes", n, len(b))
		}
		return nil
	})
}

// toJSON writes a stream of BSON documents as extended JSON lines.
func (c *converter) toJSON(ctx context.Context, r io.Reader, name string, w io.Writer) error {
	br := bufio.NewReader(r)
	for count := 0; ; count++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := bsoncore.NewDocumentFromReader(br)
		if stderrors.Is(err, io.EOF) {
			c.log.WithFields(logrus.Fields{"file": name, "documents": count}).Debug("converted")
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "reading document %d of %s", count, name)
		}

		doc, err := bson.ReadDocument(raw, c.parseOpts)
		if err != nil {
			return errors.Wrapf(err, "decoding document %d of %s", count, name)
		}
		if _, err := io.WriteString(w, extjson.Marshal(doc, c.format, c.pretty)+"\n"); err != nil {
			return err
		}
	}
}
