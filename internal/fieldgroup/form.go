// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fieldgroup

import (
	"errors"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// formKey matches inputs named like "sizes[2][price]".
var formKey = regexp.MustCompile(`^([A-Za-z0-9_]+)\[(\d+)\]\[([A-Za-z0-9_]+)\]$`)

// InputName returns the form input name for a field of the group at index.
func InputName(prefix string, index int, field string) string {
	return prefix + "[" + strconv.Itoa(index) + "][" + field + "]"
}

// ParseForm reads prefix[i][field] inputs into groups shaped like initial.
// Submitted indexes are compacted in ascending order, fields the template
// does not know are ignored and missing fields keep the template value.
// Numeric fields that fail to parse become 0. When nothing was submitted
// the result is a single copy of initial.
func ParseForm(values url.Values, prefix string, initial Group) []Group {
	cells := map[int]map[string]string{}
	for key, vals := range values {
		m := formKey.FindStringSubmatch(key)
		if m == nil || m[1] != prefix || len(vals) == 0 {
			continue
		}
		if _, ok := initial[m[3]]; !ok {
			continue
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if cells[idx] == nil {
			cells[idx] = map[string]string{}
		}
		cells[idx][m[3]] = strings.TrimSpace(vals[0])
	}

	if len(cells) == 0 {
		return []Group{initial.Clone()}
	}

	idxs := make([]int, 0, len(cells))
	for i := range cells {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	groups := make([]Group, 0, len(idxs))
	c := New(func() []Group { return groups }, func(next []Group) { groups = next }, initial)
	for row, i := range idxs {
		c.Add()
		for field, raw := range cells[i] {
			if err := c.SetField(row, field, raw); errors.Is(err, ErrNotNumeric) {
				_ = c.SetField(row, field, "0")
			}
		}
	}
	return groups
}

// Encode writes groups back as prefix[i][field] inputs.
func Encode(prefix string, groups []Group) url.Values {
	v := url.Values{}
	for i, g := range groups {
		for field, val := range g {
			v.Set(InputName(prefix, i, field), val.String())
		}
	}
	return v
}
