package model_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LIF-Initiative/lif-core/model"
)

func TestEnumCache_IdentityIgnoresOrder(t *testing.T) {
	c := model.NewEnumCache(nil)
	a := c.Make("Gender", []any{"Female", "Male", "non-binary"})
	b := c.Make("Gender", []any{"non-binary", "Female", "Male"})
	assert.Same(t, a, b)

	d := c.Make("Gender", []any{"Female", "Male", "non-binary", "unknown"})
	assert.NotSame(t, a, d)
	e := c.Make("Sex", []any{"Female", "Male", "non-binary"})
	assert.NotSame(t, a, e)
	assert.Equal(t, 3, c.Len())
}

func TestEnumCache_Members(t *testing.T) {
	c := model.NewEnumCache(nil)
	e := c.Make("Level", []any{"non-binary", "2nd grade", "a.b", float64(3)})
	require.Len(t, e.Members, 4)
	assert.Equal(t, model.EnumMember{Name: "NON_BINARY", Value: "non-binary"}, e.Members[0])
	assert.Equal(t, "_2ND_GRADE", e.Members[1].Name)
	assert.Equal(t, "A_B", e.Members[2].Name)
	assert.Equal(t, "_3", e.Members[3].Name)
	assert.Equal(t, float64(3), e.Members[3].Value)
}

func TestEnumCache_MemberCollision(t *testing.T) {
	e := model.NewEnumCache(nil).Make("X", []any{"a-b", "a b"})
	require.Len(t, e.Members, 2)
	assert.Equal(t, "A_B", e.Members[0].Name)
	assert.Equal(t, "A_B_2", e.Members[1].Name)
}

func TestEnum_Lookup(t *testing.T) {
	e := model.NewEnumCache(nil).Make("Gender", []any{"Female", "non-binary", float64(1)})
	m, ok := e.Lookup("non-binary")
	require.True(t, ok)
	assert.Equal(t, "non-binary", m.Value)

	m, ok = e.Lookup("NON_BINARY")
	require.True(t, ok)
	assert.Equal(t, "non-binary", m.Value)

	m, ok = e.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, float64(1), m.Value)

	_, ok = e.Lookup("female")
	assert.False(t, ok)
}

func TestEnumCache_ConcurrentFirstUse(t *testing.T) {
	c := model.NewEnumCache(nil)
	var wg sync.WaitGroup
	got := make([]*model.Enum, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = c.Make("Status", []any{"active", "inactive"})
		}(i)
	}
	wg.Wait()
	for _, e := range got[1:] {
		assert.Same(t, got[0], e)
	}
}

func TestMemberName(t *testing.T) {
	assert.Equal(t, "NON_BINARY", model.MemberName("non-binary"))
	assert.Equal(t, "_1", model.MemberName(1))
	assert.Equal(t, "EMPTY", model.MemberName(""))
	assert.Equal(t, "Gender_a_b", model.EnumKey("Gender", []any{"b", "a"}))
}
