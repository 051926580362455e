// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package extjson_test

import (
	"errors"
	"fmt"

	"github.com/Lumate/mongo-cxx-driver/bson"
	"github.com/Lumate/mongo-cxx-driver/extjson"
	"github.com/Lumate/mongo-cxx-driver/options"
)

func ExampleParse() {
	doc, err := extjson.Parse(`{ name : 'x', n : NumberLong(5), at : new Date(0) }`)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(extjson.Marshal(doc, extjson.Strict, false))
	fmt.Println(extjson.Marshal(doc, extjson.TenGen, false))
	// Output:
	// { "name" : "x", "n" : { "$numberLong" : "5" }, "at" : { "$date" : 0 } }
	// { name : "x", n : NumberLong(5), at : Date( 0 ) }
}

func ExampleParse_error() {
	_, err := extjson.Parse(`{"a": }`)

	var pe *extjson.ParseError
	if errors.As(err, &pe) {
		fmt.Println(pe.Offset, pe.Msg)
	}
	// Output: 6 Bad characters in value
}

func ExampleParse_maxDepth() {
	_, err := extjson.Parse(`[[[1]]]`, options.Parse().SetMaxDepth(2))
	fmt.Println(errors.Is(err, extjson.ErrTooDeeplyNested))
	// Output: true
}

func ExampleMarshal() {
	b := bson.NewDocumentBuilder()
	b.Append("_id", bson.Int32(1))
	err := b.AppendArray("tags", func(ab *bson.ArrayBuilder) error {
		ab.Append(bson.String("a")).Append(bson.String("b"))
		return nil
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	doc, err := b.Finish()
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(extjson.Marshal(doc, extjson.JS, false))
	// Output: { "_id" : 1, "tags" : [ "a", "b" ] }
}
