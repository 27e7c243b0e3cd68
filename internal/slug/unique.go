// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

// Kind names the collection a slug must be unique within. Each kind is its
// own namespace.
type Kind string

const (
	KindProduct        Kind = "product"
	KindProductVariant Kind = "productVariant"
)

// Checker reports whether a slug is already taken for a kind.
type Checker interface {
	SlugExists(ctx context.Context, kind Kind, slug string) (bool, error)
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(ctx context.Context, kind Kind, slug string) (bool, error)

// SlugExists calls f.
func (f CheckerFunc) SlugExists(ctx context.Context, kind Kind, slug string) (bool, error) {
	return f(ctx, kind, slug)
}

const (
	tokenAlphabet      = "abcdefghijklmnopqrstuvwxyz0123456789"
	defaultTokenLength = 5
)

type options struct {
	suffixSep string
	tokenLen  int
}

// Option customises Unique.
type Option func(*options)

// WithSuffixSeparator sets the string placed between the candidate and the
// random token. Defaults to "-".
func WithSuffixSeparator(sep string) Option {
	return func(o *options) { o.suffixSep = sep }
}

// WithTokenLength sets the length of the random token. Values below 1 are
// ignored.
func WithTokenLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.tokenLen = n
		}
	}
}

// Unique returns candidate unchanged when no slug of kind uses it. Otherwise
// it appends the suffix separator and a random lowercase alphanumeric token
// to candidate and checks again until a free slug turns up. There is no
// attempt limit; with 36^5 tokens a run of collisions is vanishingly
// unlikely. Unique reserves nothing: the caller's write must still be
// guarded by a unique constraint.
func Unique(ctx context.Context, checker Checker, candidate string, kind Kind, opts ...Option) (string, error) {
	o := options{suffixSep: "-", tokenLen: defaultTokenLength}
	for _, opt := range opts {
		opt(&o)
	}

	slug := candidate
	for {
		taken, err := checker.SlugExists(ctx, kind, slug)
		if err != nil {
			return "", fmt.Errorf("checking %s slug %q: %w", kind, slug, err)
		}
		if !taken {
			return slug, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		token, err := randomToken(o.tokenLen)
		if err != nil {
			return "", fmt.Errorf("generating slug token: %w", err)
		}
		slug = candidate + o.suffixSep + token
	}
}

func randomToken(n int) (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = tokenAlphabet[idx.Int64()]
	}
	return string(b), nil
}
