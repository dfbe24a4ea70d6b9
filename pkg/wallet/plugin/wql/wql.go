/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package wql parses and evaluates wallet query language documents against record tags.
//
//	{"tagName": "value"}                     equality
//	{"tagName": {"$neq": "value"}}           also $gt $gte $lt $lte $like $in
//	{"$and": [q1, q2]}, {"$or": [...]}, {"$not": q}
//
// Several keys in one object are combined with $and. Ordering and $like operators are only allowed on plain
// ('~' prefixed) tags.
package wql

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrQuery is returned for malformed queries.
var ErrQuery = errors.New("invalid wallet query")

// Query is a parsed WQL expression.
type Query interface {
	Match(tags map[string]string) bool
}

type and []Query

func (q and) Match(tags map[string]string) bool {
	for _, sub := range q {
		if !sub.Match(tags) {
			return false
		}
	}

	return true
}

type or []Query

func (q or) Match(tags map[string]string) bool {
	for _, sub := range q {
		if sub.Match(tags) {
			return true
		}
	}

	return false
}

type not struct {
	q Query
}

func (q not) Match(tags map[string]string) bool {
	return !q.q.Match(tags)
}

type cmp struct {
	op     string
	name   string
	value  string
	values []string
	like   *regexp.Regexp
}

func (c *cmp) Match(tags map[string]string) bool {
	v, ok := tags[c.name]

	if c.op == "$neq" {
		return ok && v != c.value
	}

	if !ok {
		return false
	}

	switch c.op {
	case "$eq":
		return v == c.value
	case "$gt":
		return v > c.value
	case "$gte":
		return v >= c.value
	case "$lt":
		return v < c.value
	case "$lte":
		return v <= c.value
	case "$like":
		return c.like.MatchString(v)
	case "$in":
		return slices.Contains(c.values, v)
	}

	return false
}

// Parse parses a WQL document. An empty document matches every record.
func Parse(doc string) (Query, error) {
	if strings.TrimSpace(doc) == "" {
		return and{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrQuery, err)
	}

	return parseObject(raw)
}

func parseObject(raw map[string]json.RawMessage) (Query, error) {
	keys := maps.Keys(raw)
	slices.Sort(keys)

	out := make(and, 0, len(keys))

	for _, key := range keys {
		q, err := parseKey(key, raw[key])
		if err != nil {
			return nil, err
		}

		out = append(out, q)
	}

	if len(out) == 1 {
		return out[0], nil
	}

	return out, nil
}

func parseKey(key string, val json.RawMessage) (Query, error) {
	switch key {
	case "$and", "$or":
		var subs []map[string]json.RawMessage
		if err := json.Unmarshal(val, &subs); err != nil {
			return nil, fmt.Errorf("%w: %s expects an array of queries", ErrQuery, key)
		}

		qs := make([]Query, 0, len(subs))

		for _, s := range subs {
			q, err := parseObject(s)
			if err != nil {
				return nil, err
			}

			qs = append(qs, q)
		}

		if key == "$and" {
			return and(qs), nil
		}

		return or(qs), nil
	case "$not":
		var sub map[string]json.RawMessage
		if err := json.Unmarshal(val, &sub); err != nil {
			return nil, fmt.Errorf("%w: $not expects a query", ErrQuery)
		}

		q, err := parseObject(sub)
		if err != nil {
			return nil, err
		}

		return not{q: q}, nil
	}

	if strings.HasPrefix(key, "$") {
		return nil, fmt.Errorf("%w: unknown operator %s", ErrQuery, key)
	}

	return parseTag(key, val)
}

func parseTag(name string, val json.RawMessage) (Query, error) {
	var s string
	if err := json.Unmarshal(val, &s); err == nil {
		return &cmp{op: "$eq", name: name, value: s}, nil
	}

	var ops map[string]json.RawMessage
	if err := json.Unmarshal(val, &ops); err != nil || len(ops) != 1 {
		return nil, fmt.Errorf("%w: tag %s expects a string or a single operator", ErrQuery, name)
	}

	for op, arg := range ops {
		return parseOp(name, op, arg)
	}

	return nil, ErrQuery
}

func parseOp(name, op string, arg json.RawMessage) (Query, error) {
	c := &cmp{op: op, name: name}

	switch op {
	case "$in":
		if err := json.Unmarshal(arg, &c.values); err != nil {
			return nil, fmt.Errorf("%w: $in on %s expects an array of strings", ErrQuery, name)
		}

		return c, nil
	case "$eq", "$neq", "$gt", "$gte", "$lt", "$lte", "$like":
	default:
		return nil, fmt.Errorf("%w: unknown operator %s", ErrQuery, op)
	}

	if err := json.Unmarshal(arg, &c.value); err != nil {
		return nil, fmt.Errorf("%w: %s on %s expects a string", ErrQuery, op, name)
	}

	switch op {
	case "$gt", "$gte", "$lt", "$lte", "$like":
		if !strings.HasPrefix(name, "~") {
			return nil, fmt.Errorf("%w: %s is only allowed on plain tags, got %s", ErrQuery, op, name)
		}
	}

	if op == "$like" {
		c.like = likePattern(c.value)
	}

	return c, nil
}

// likePattern compiles an SQL LIKE pattern, where % matches any run and _ matches one character.
func likePattern(p string) *regexp.Regexp {
	var sb strings.Builder

	sb.WriteString("^")

	for _, r := range p {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	sb.WriteString("$")

	return regexp.MustCompile("(?s)" + sb.String())
}
