package unit

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type regTestQuery struct {
	name   string
	domain string
}

func (m *regTestQuery) Name() string         { return m.name }
func (m *regTestQuery) Domain() string       { return m.domain }
func (m *regTestQuery) InputSchema() Schema  { return Schema{} }
func (m *regTestQuery) OutputSchema() Schema { return Schema{} }
func (m *regTestQuery) Execute(ctx context.Context, input any) (any, error) {
	return m.name, nil
}
func (m *regTestQuery) Description() string { return "" }
func (m *regTestQuery) Examples() []Example { return nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterQuery(&regTestQuery{name: "catalog.list_models", domain: "catalog"}))

	q := r.GetQuery("catalog.list_models")
	require.NotNil(t, q)
	assert.Equal(t, "catalog", q.Domain())
	assert.Nil(t, r.GetQuery("catalog.unknown"))
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	q := &regTestQuery{name: "launch.generate"}

	require.NoError(t, r.RegisterQuery(q))
	assert.ErrorIs(t, r.RegisterQuery(q), ErrQueryAlreadyRegistered)
}

func TestRegistry_RegisterNil(t *testing.T) {
	r := NewRegistry()
	assert.ErrorIs(t, r.RegisterQuery(nil), ErrQueryNotFound)
}

func TestRegistry_ListQueriesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"launch.recommend", "catalog.list_engines", "launch.generate"} {
		require.NoError(t, r.RegisterQuery(&regTestQuery{name: name}))
	}

	var names []string
	for _, q := range r.ListQueries() {
		names = append(names, q.Name())
	}
	assert.Equal(t, []string{"catalog.list_engines", "launch.generate", "launch.recommend"}, names)
	assert.Equal(t, 3, r.QueryCount())
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterQuery(&regTestQuery{name: "a"}))

	assert.True(t, r.UnregisterQuery("a"))
	assert.False(t, r.UnregisterQuery("a"))
	assert.Equal(t, 0, r.QueryCount())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterQuery(&regTestQuery{name: "shared"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotNil(t, r.GetQuery("shared"))
			_ = r.ListQueries()
		}()
	}
	wg.Wait()
}
