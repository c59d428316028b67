package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftcheck/driftcheck/internal/domain"
)

func TestTree_PreservesInsertionOrder(t *testing.T) {
	tr := domain.NewTree()
	tr.Set("zulu", 1)
	tr.Set("alpha", 2)
	tr.Set("mike", 3)

	pairs := tr.Pairs()
	require.Len(t, pairs, 3)
	assert.Equal(t, "zulu", pairs[0].Key)
	assert.Equal(t, "alpha", pairs[1].Key)
	assert.Equal(t, "mike", pairs[2].Key)
}

func TestTree_SetReplacesInPlace(t *testing.T) {
	tr := domain.NewTree()
	tr.Set("a", 1)
	tr.Set("b", 2)
	tr.Set("a", 10)

	require.Equal(t, 2, tr.Len())
	v, ok := tr.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, "a", tr.Pairs()[0].Key, "replacing keeps position")
}

func TestTree_GetAbsent(t *testing.T) {
	tr := domain.NewTree()
	_, ok := tr.Get("nope")
	assert.False(t, ok)
}

func TestTree_Merge(t *testing.T) {
	base := domain.NewTree()
	base.Set("a", 1)
	base.Set("b", 2)

	other := domain.NewTree()
	other.Set("b", 20)
	other.Set("c", 3)

	base.Merge(other)

	require.Equal(t, 3, base.Len())
	v, _ := base.Get("b")
	assert.Equal(t, 20, v, "merge overwrites shared keys")
	assert.Equal(t, "c", base.Pairs()[2].Key, "new keys append at the end")
}

func TestTree_NilSafety(t *testing.T) {
	var tr *domain.Tree
	assert.Zero(t, tr.Len())
	assert.Nil(t, tr.Pairs())
}

func TestTreeFromMap_SortsKeysAtEveryLevel(t *testing.T) {
	tr := domain.TreeFromMap(map[string]any{
		"charlie": 1,
		"alpha":   map[string]any{"zulu": 2, "mike": 3},
	})

	pairs := tr.Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, "alpha", pairs[0].Key)

	sub, ok := pairs[0].Value.(*domain.Tree)
	require.True(t, ok)
	assert.Equal(t, "mike", sub.Pairs()[0].Key)
}
