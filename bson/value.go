// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"fmt"
	"math"
	"time"
)

// Value is a single BSON value. The set of implementations is closed: every
// Value is one of the types declared in this package.
type Value interface {
	Type() Type
	bsonValue()
}

// Null is the BSON null value.
type Null struct{}

// Undefined is the deprecated BSON undefined value.
type Undefined struct{}

// MinKey compares less than every other BSON value.
type MinKey struct{}

// MaxKey compares greater than every other BSON value.
type MaxKey struct{}

// Boolean is a BSON boolean.
type Boolean bool

// Int32 is a 32-bit BSON integer.
type Int32 int32

// Int64 is a 64-bit BSON integer.
type Int64 int64

// Double is a BSON double. NaN and the infinities are valid values.
type Double float64

// String is a UTF-8 BSON string. It is not required to hold valid UTF-8.
type String string

// Binary is BSON binary data with its subtype.
type Binary struct {
	Subtype byte
	Data    []byte
}

// IsZero returns if binary is empty.
func (bp Binary) IsZero() bool {
	return bp.Subtype == 0 && len(bp.Data) == 0
}

// DateTime is a BSON UTC datetime in milliseconds since the Unix epoch.
type DateTime int64

// NewDateTimeFromTime creates a new DateTime from a Time.
func NewDateTimeFromTime(t time.Time) DateTime {
	return DateTime(t.Unix()*1e3 + int64(t.Nanosecond())/1e6)
}

// Time returns the date as a time type.
func (d DateTime) Time() time.Time {
	return time.Unix(int64(d)/1000, int64(d)%1000*1000000)
}

// Timestamp represents a BSON timestamp value.
type Timestamp struct {
	T uint32
	I uint32
}

// After reports whether the time instant tp is after tp2.
func (tp Timestamp) After(tp2 Timestamp) bool {
	return tp.T > tp2.T || (tp.T == tp2.T && tp.I > tp2.I)
}

// Before reports whether the time instant tp is before tp2.
func (tp Timestamp) Before(tp2 Timestamp) bool {
	return tp.T < tp2.T || (tp.T == tp2.T && tp.I < tp2.I)
}

// Equal compares tp to tp2 and returns true if they are equal.
func (tp Timestamp) Equal(tp2 Timestamp) bool {
	return tp.T == tp2.T && tp.I == tp2.I
}

// IsZero returns if tp is the zero Timestamp.
func (tp Timestamp) IsZero() bool {
	return tp.T == 0 && tp.I == 0
}

// Compare compares the time instant tp with tp2. If tp is before tp2, it returns -1; if tp is after
// tp2, it returns +1; if they're the same, it returns 0.
func (tp Timestamp) Compare(tp2 Timestamp) int {
	switch {
	case tp.Equal(tp2):
		return 0
	case tp.Before(tp2):
		return -1
	default:
		return +1
	}
}

// CompareTimestamp compares the time instant tp with tp2. If tp is before tp2, it returns -1; if tp is after
// tp2, it returns +1; if they're the same, it returns 0.
func CompareTimestamp(tp, tp2 Timestamp) int {
	return tp.Compare(tp2)
}

// Regex represents a BSON regex value.
type Regex struct {
	Pattern string
	Options string
}

func (rp Regex) String() string {
	return fmt.Sprintf(`{"pattern": "%s", "options": "%s"}`, rp.Pattern, rp.Options)
}

// IsZero returns if Regex is the empty Regex.
func (rp Regex) IsZero() bool {
	return rp.Pattern == "" && rp.Options == ""
}

// DBRef is a reference to a document in another collection. ID is usually an
// ObjectID but may be any Value.
type DBRef struct {
	Ref string
	ID  Value
}

// IsZero returns if d is the empty DBRef.
func (d DBRef) IsZero() bool {
	return d.Ref == "" && d.ID == nil
}

// Type implements the Value interface.
func (Null) Type() Type { return TypeNull }

// Type implements the Value interface.
func (Undefined) Type() Type { return TypeUndefined }

// Type implements the Value interface.
func (MinKey) Type() Type { return TypeMinKey }

// Type implements the Value interface.
func (MaxKey) Type() Type { return TypeMaxKey }

// Type implements the Value interface.
func (Boolean) Type() Type { return TypeBoolean }

// Type implements the Value interface.
func (Int32) Type() Type { return TypeInt32 }

// Type implements the Value interface.
func (Int64) Type() Type { return TypeInt64 }

// Type implements the Value interface.
func (Double) Type() Type { return TypeDouble }

// Type implements the Value interface.
func (String) Type() Type { return TypeString }

// Type implements the Value interface.
func (Binary) Type() Type { return TypeBinary }

// Type implements the Value interface.
func (ObjectID) Type() Type { return TypeObjectID }

// Type implements the Value interface.
func (DateTime) Type() Type { return TypeDateTime }

// Type implements the Value interface.
func (Timestamp) Type() Type { return TypeTimestamp }

// Type implements the Value interface.
func (Regex) Type() Type { return TypeRegex }

// Type implements the Value interface.
func (DBRef) Type() Type { return TypeDBPointer }

// Type implements the Value interface.
func (Array) Type() Type { return TypeArray }

// Type implements the Value interface.
func (*Document) Type() Type { return TypeEmbeddedDocument }

func (Null) bsonValue()      {}
func (Undefined) bsonValue() {}
func (MinKey) bsonValue()    {}
func (MaxKey) bsonValue()    {}
func (Boolean) bsonValue()   {}
func (Int32) bsonValue()     {}
func (Int64) bsonValue()     {}
func (Double) bsonValue()    {}
func (String) bsonValue()    {}
func (Binary) bsonValue()    {}
func (ObjectID) bsonValue()  {}
func (DateTime) bsonValue()  {}
func (Timestamp) bsonValue() {}
func (Regex) bsonValue()     {}
func (DBRef) bsonValue()     {}
func (Array) bsonValue()     {}
func (*Document) bsonValue() {}

// Equal reports whether a and b are structurally equal: same variant, same
// contents, same field order. Doubles compare by value except that any NaN
// equals any NaN, and 0.0 and -0.0 are distinct.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}

	switch av := a.(type) {
	case Double:
		bv := b.(Double)
		if math.IsNaN(float64(av)) {
			return math.IsNaN(float64(bv))
		}
		return math.Float64bits(float64(av)) == math.Float64bits(float64(bv))
	case Binary:
		bv := b.(Binary)
		if av.Subtype != bv.Subtype || len(av.Data) != len(bv.Data) {
			return false
		}
		for i := range av.Data {
			if av.Data[i] != bv.Data[i] {
				return false
			}
		}
		return true
	case DBRef:
		bv := b.(DBRef)
		return av.Ref == bv.Ref && Equal(av.ID, bv.ID)
	case Array:
		return av.Document().Equal(b.(Array).Document())
	case *Document:
		return av.Equal(b.(*Document))
	default:
		// The remaining variants are comparable scalars.
		return a == b
	}
}
