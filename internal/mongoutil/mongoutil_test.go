// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package mongoutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumate/mongo-cxx-driver/options"
)

func intPtr(i int) *int { return &i }

func TestNewOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []options.Lister[options.ParseOptions]
		want options.ParseOptions
	}{
		{
			name: "nil options",
			opts: nil,
			want: options.ParseOptions{},
		},
		{
			name: "one option",
			opts: []options.Lister[options.ParseOptions]{
				options.Parse().SetMaxDepth(10),
			},
			want: options.ParseOptions{MaxDepth: intPtr(10)},
		},
		{
			name: "one nil option",
			opts: []options.Lister[options.ParseOptions]{nil},
			want: options.ParseOptions{},
		},
		{
			name: "typed nil option",
			opts: []options.Lister[options.ParseOptions]{(*options.ParseOptionsBuilder)(nil)},
			want: options.ParseOptions{},
		},
		{
			name: "many different options (last one wins)",
			opts: []options.Lister[options.ParseOptions]{
				options.Parse().SetMaxDepth(10),
				options.Parse().SetMaxDepth(20),
			},
			want: options.ParseOptions{MaxDepth: intPtr(20)},
		},
		{
			name: "many options where last is nil (non-nil wins)",
			opts: []options.Lister[options.ParseOptions]{
				options.Parse().SetMaxDepth(10),
				nil,
			},
			want: options.ParseOptions{MaxDepth: intPtr(10)},
		},
	}

	for _, test := range tests {
		test := test // Capture the range variable

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewOptions(test.opts...)
			require.NoError(t, err)
			assert.Equal(t, test.want, *got)
		})
	}
}

func TestNewOptionsError(t *testing.T) {
	t.Parallel()

	_, err := NewOptions[options.ParseOptions](options.Parse().SetMaxDepth(0))
	assert.EqualError(t, err, "max depth must be positive, got 0")
}
