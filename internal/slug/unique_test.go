package slug

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memChecker is an in-memory slug set per kind that records every lookup.
type memChecker struct {
	taken map[Kind]map[string]bool
	calls []string
}

func newMemChecker() *memChecker {
	return &memChecker{taken: map[Kind]map[string]bool{}}
}

func (m *memChecker) add(kind Kind, slugs ...string) {
	if m.taken[kind] == nil {
		m.taken[kind] = map[string]bool{}
	}
	for _, s := range slugs {
		m.taken[kind][s] = true
	}
}

func (m *memChecker) SlugExists(_ context.Context, kind Kind, slug string) (bool, error) {
	m.calls = append(m.calls, slug)
	return m.taken[kind][slug], nil
}

func TestUnique_FreeCandidateUnchanged(t *testing.T) {
	c := newMemChecker()
	c.add(KindProduct, "red-jacket")

	for _, candidate := range []string{"blue-jacket", "green-shoes", "x"} {
		got, err := Unique(context.Background(), c, candidate, KindProduct)
		require.NoError(t, err)
		assert.Equal(t, candidate, got)
	}
}

func TestUnique_TakenCandidateGetsSuffix(t *testing.T) {
	c := newMemChecker()
	c.add(KindProduct, "blue-jacket")

	for i := 0; i < 50; i++ {
		got, err := Unique(context.Background(), c, "blue-jacket", KindProduct)
		require.NoError(t, err)

		assert.NotEqual(t, "blue-jacket", got)
		assert.True(t, strings.HasPrefix(got, "blue-jacket-"), "got %q", got)
		assert.Regexp(t, regexp.MustCompile(`^blue-jacket-[a-z0-9]{5}$`), got)
		assert.False(t, c.taken[KindProduct][got], "returned a taken slug %q", got)
	}
}

func TestUnique_NamespacePerKind(t *testing.T) {
	c := newMemChecker()
	c.add(KindProduct, "blue-jacket")

	got, err := Unique(context.Background(), c, "blue-jacket", KindProductVariant)
	require.NoError(t, err)
	assert.Equal(t, "blue-jacket", got)
}

func TestUnique_RetriesDeriveFromOriginal(t *testing.T) {
	// The candidate and the next three suffixed slugs are reported taken.
	attempts := 0
	checker := CheckerFunc(func(_ context.Context, _ Kind, s string) (bool, error) {
		attempts++
		return attempts <= 4, nil
	})

	got, err := Unique(context.Background(), checker, "tee", KindProduct, WithTokenLength(4))
	require.NoError(t, err)
	assert.Equal(t, 5, attempts)
	assert.Regexp(t, `^tee-[a-z0-9]{4}$`, got)
}

func TestUnique_Options(t *testing.T) {
	c := newMemChecker()
	c.add(KindProductVariant, "tee")

	got, err := Unique(context.Background(), c, "tee", KindProductVariant,
		WithSuffixSeparator("_"), WithTokenLength(8))
	require.NoError(t, err)
	assert.Regexp(t, `^tee_[a-z0-9]{8}$`, got)

	got, err = Unique(context.Background(), c, "tee", KindProductVariant, WithTokenLength(0))
	require.NoError(t, err)
	assert.Regexp(t, `^tee-[a-z0-9]{5}$`, got, "non-positive length keeps the default")
}

func TestUnique_CheckerError(t *testing.T) {
	boom := errors.New("connection refused")
	checker := CheckerFunc(func(context.Context, Kind, string) (bool, error) {
		return false, boom
	})

	_, err := Unique(context.Background(), checker, "tee", KindProduct)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestUnique_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker := CheckerFunc(func(context.Context, Kind, string) (bool, error) {
		return true, nil
	})

	_, err := Unique(ctx, checker, "tee", KindProduct)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnique_EmptyCandidateNotValidated(t *testing.T) {
	c := newMemChecker()
	got, err := Unique(context.Background(), c, "", KindProduct)
	require.NoError(t, err)
	assert.Equal(t, "", got)
	assert.Equal(t, []string{""}, c.calls)
}
