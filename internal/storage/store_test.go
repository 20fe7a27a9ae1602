package storage

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counters struct {
	Values map[string]int `json:"values"`
}

func newCounters() *counters {
	return &counters{Values: map[string]int{}}
}

func (c *counters) Validate() error {
	for k, v := range c.Values {
		if v < 0 {
			return fmt.Errorf("negative counter %s", k)
		}
	}
	return nil
}

func TestViewMissingDocumentKeepsDefault(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	doc := newCounters()
	require.NoError(t, store.View("counters", doc))
	assert.Empty(t, doc.Values)
}

func TestUpdateRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	doc := newCounters()
	require.NoError(t, store.Update("counters", doc, func() error {
		doc.Values["a"] = 2
		return nil
	}))

	fresh := newCounters()
	require.NoError(t, store.View("counters", fresh))
	assert.Equal(t, 2, fresh.Values["a"])
}

func TestUpdateErrorSkipsSave(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	boom := errors.New("boom")
	doc := newCounters()
	err = store.Update("counters", doc, func() error {
		doc.Values["a"] = 1
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, statErr := os.Stat(store.Path("counters"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCorruptDocumentIsFatalAndUntouched(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	garbage := []byte(`{"values": {"a": `)
	require.NoError(t, os.WriteFile(store.Path("counters"), garbage, 0o644))

	err = store.View("counters", newCounters())
	assert.ErrorIs(t, err, ErrCorruptDocument)

	doc := newCounters()
	err = store.Update("counters", doc, func() error {
		doc.Values["b"] = 1
		return nil
	})
	assert.ErrorIs(t, err, ErrCorruptDocument)

	onDisk, err := os.ReadFile(store.Path("counters"))
	require.NoError(t, err)
	assert.Equal(t, garbage, onDisk)
}

func TestValidatorFailureIsCorruption(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path("counters"), []byte(`{"values":{"a":-1}}`), 0o644))

	err = store.View("counters", newCounters())
	assert.ErrorIs(t, err, ErrCorruptDocument)
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc := newCounters()
			assert.NoError(t, store.Update("counters", doc, func() error {
				doc.Values["n"]++
				return nil
			}))
		}()
	}
	wg.Wait()

	doc := newCounters()
	require.NoError(t, store.View("counters", doc))
	assert.Equal(t, 20, doc.Values["n"])
}
