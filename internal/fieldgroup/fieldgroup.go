// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fieldgroup manages repeatable form rows: an ordered list of
// groups that all share the field names of an initial template. Colors and
// size/price/quantity/discount rows on the product form are built on it.
package fieldgroup

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

var (
	ErrNotNumeric   = errors.New("value is not a number")
	ErrUnknownField = errors.New("unknown field")
	ErrOutOfRange   = errors.New("index out of range")
)

// Value is a scalar field value, either text or a number.
type Value struct {
	text   string
	number float64
	isNum  bool
}

// Text returns a text value.
func Text(s string) Value { return Value{text: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{number: f, isNum: true} }

func (v Value) IsNumber() bool { return v.isNum }

// Float returns the numeric value, or 0 for text.
func (v Value) Float() float64 { return v.number }

// String renders the value the way it is written back into a form input.
func (v Value) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	}
	return v.text
}

// Group is one row of fields.
type Group map[string]Value

// Clone returns a copy of g. Values are immutable so a shallow map copy is
// a deep copy.
func (g Group) Clone() Group {
	out := make(Group, len(g))
	for k, v := range g {
		out[k] = v
	}
	return out
}

// Fields returns the field names in sorted order.
func (g Group) Fields() []string {
	names := make([]string, 0, len(g))
	for k := range g {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Controller edits a list of groups owned by someone else. It reads the
// current list through get and publishes every change through set; the
// slice returned by get is never modified.
type Controller struct {
	get     func() []Group
	set     func([]Group)
	initial Group
}

// New builds a controller over externally owned state. initial is the
// template appended by Add.
func New(get func() []Group, set func([]Group), initial Group) *Controller {
	return &Controller{get: get, set: set, initial: initial.Clone()}
}

// Add appends a copy of the initial template.
func (c *Controller) Add() {
	cur := c.get()
	next := make([]Group, 0, len(cur)+1)
	next = append(next, cur...)
	next = append(next, c.initial.Clone())
	c.set(next)
}

// Remove deletes the group at index. The last remaining group is never
// removed, whatever the index, and out of range indexes are ignored.
func (c *Controller) Remove(index int) {
	cur := c.get()
	if len(cur) <= 1 || index < 0 || index >= len(cur) {
		return
	}
	next := make([]Group, 0, len(cur)-1)
	next = append(next, cur[:index]...)
	next = append(next, cur[index+1:]...)
	c.set(next)
}

// SetField replaces one field of the group at index. Numeric fields only
// accept input that parses as a finite float.
func (c *Controller) SetField(index int, field, raw string) error {
	cur := c.get()
	if index < 0 || index >= len(cur) {
		return fmt.Errorf("set %s at %d: %w", field, index, ErrOutOfRange)
	}
	old, ok := cur[index][field]
	if !ok {
		return fmt.Errorf("set %s at %d: %w", field, index, ErrUnknownField)
	}

	v := Text(raw)
	if old.IsNumber() {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("set %s at %d: %w", field, index, ErrNotNumeric)
		}
		v = Number(f)
	}

	next := make([]Group, len(cur))
	copy(next, cur)
	g := cur[index].Clone()
	g[field] = v
	next[index] = g
	c.set(next)
	return nil
}

// Row actions posted by the "+" and "−" buttons.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Apply dispatches a row action. Unknown actions leave the list alone.
func Apply(c *Controller, action string, index int) error {
	switch action {
	case ActionAdd:
		c.Add()
	case ActionRemove:
		c.Remove(index)
	case "":
	default:
		return fmt.Errorf("unknown row action %q", action)
	}
	return nil
}
