// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Command extjson converts MongoDB extended JSON between its output formats
// and to and from BSON.
//
// Every command reads the files named as arguments, or stdin when there are
// none, and writes to stdout. Extended JSON input holds one document per
// line.
//
//	extjson --format js convert docs.json
//	extjson tobson docs.json > docs.bson
//	extjson --pretty tojson docs.bson
package main

import (
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Lumate/mongo-cxx-driver/extjson"
	"github.com/Lumate/mongo-cxx-driver/options"
)

const (
	flagFormat   = "format"
	flagPretty   = "pretty"
	flagMaxDepth = "max-depth"
	flagVerbose  = "verbose"
)

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	c := &converter{log: log}

	// command wraps a convertFunc as a cli action over the remaining arguments.
	command := func(fn func(*converter) convertFunc) cli.ActionFunc {
		return func(ctx *cli.Context) error {
			return c.run(ctx.Context, ctx.Args().Slice(), stdin, stdout, fn(c))
		}
	}

	app := &cli.App{
		Name:      "extjson",
		Usage:     "convert MongoDB extended JSON and BSON",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagFormat,
				Aliases: []string{"f"},
				Value:   extjson.Strict.String(),
				Usage:   "output format: strict, js or tengen",
				EnvVars: []string{"EXTJSON_FORMAT"},
			},
			&cli.BoolFlag{
				Name:  flagPretty,
				Usage: "indent output, one member per line",
			},
			&cli.IntFlag{
				Name:    flagMaxDepth,
				Value:   options.DefaultMaxDepth,
				Usage:   "maximum nesting depth of input documents",
				EnvVars: []string{"EXTJSON_MAX_DEPTH"},
			},
			&cli.BoolFlag{
				Name:    flagVerbose,
				Aliases: []string{"v"},
				Usage:   "log each file converted",
			},
		},
		Before: func(ctx *cli.Context) error {
			format, err := extjson.ParseFormat(ctx.String(flagFormat))
			if err != nil {
				return err
			}
			c.format = format
			c.pretty = ctx.Bool(flagPretty)
			depth := ctx.Int(flagMaxDepth)
			if depth <= 0 {
				return errors.Errorf("--%s must be positive, got %d", flagMaxDepth, depth)
			}
			c.parseOpts = options.Parse().SetMaxDepth(depth)
			if ctx.Bool(flagVerbose) {
				log.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Re-render extended JSON lines in the chosen format.",
				ArgsUsage: "[file...]",
				Action:    command(func(c *converter) convertFunc { return c.convert }),
			},
			{
				Name:      "tobson",
				Usage:     "Write extended JSON lines as a stream of BSON documents.",
				ArgsUsage: "[file...]",
				Action:    command(func(c *converter) convertFunc { return c.toBSON }),
			},
			{
				Name:      "tojson",
				Usage:     "Write a stream of BSON documents as extended JSON lines.",
				ArgsUsage: "[file...]",
				Action:    command(func(c *converter) convertFunc { return c.toJSON }),
			},
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	return app
}

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logrus.WithError(errors.WithStack(err)).Fatal("extjson failed")
	}
}
