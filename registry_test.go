package rewind_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/rewind"
)

func newCounterRegistry(size int) *rewind.Registry[uint32] {
	return rewind.NewRegistry(size, func(name string) *rewind.Processor[uint32] {
		return rewind.NewCounter(0, rewind.WithName(name))
	})
}

func TestRegistryProcessorsAreIndependent(t *testing.T) {
	reg := newCounterRegistry(8)

	assert.NoError(t, reg.Execute("a", rewind.NewIncrement(2)))
	assert.NoError(t, reg.Execute("b", rewind.NewIncrement(5)))
	assert.NoError(t, reg.Undo("a"))

	assert.Equal(t, uint32(0), reg.Value("a"))
	assert.Equal(t, uint32(5), reg.Value("b"))

	assert.NoError(t, reg.Redo("a"))
	assert.Equal(t, uint32(2), reg.Value("a"))
	assert.ErrorIs(t, reg.Redo("b"), rewind.ErrNothingToRedo)

	err := reg.With("a", func(p *rewind.Processor[uint32]) error {
		assert.Equal(t, "a", p.Name())
		assert.Equal(t, 1, p.Position())
		return nil
	})
	assert.NoError(t, err)
}

func TestRegistrySerializesAccess(t *testing.T) {
	reg := newCounterRegistry(8)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				assert.NoError(t, reg.Execute("shared", rewind.NewIncrement(1)))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint32(1000), reg.Value("shared"))
	_ = reg.With("shared", func(p *rewind.Processor[uint32]) error {
		assert.Equal(t, 1000, p.Len())
		return nil
	})
}

func TestRegistryEviction(t *testing.T) {
	reg := newCounterRegistry(2)

	assert.NoError(t, reg.Execute("a", rewind.NewIncrement(1)))
	assert.NoError(t, reg.Execute("b", rewind.NewIncrement(1)))
	assert.NoError(t, reg.Execute("a", rewind.NewIncrement(1)))
	assert.NoError(t, reg.Execute("c", rewind.NewIncrement(1)))

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"c", "a"}, reg.Names())

	// b was least recently used, so it starts over
	assert.Equal(t, uint32(0), reg.Value("b"))
	assert.Equal(t, []string{"b", "c"}, reg.Names())
}

func TestRegistryKeepsProcessorInUse(t *testing.T) {
	reg := newCounterRegistry(1)

	err := reg.With("a", func(p *rewind.Processor[uint32]) error {
		assert.NoError(t, p.Execute(rewind.NewIncrement(1)))
		assert.NoError(t, reg.Execute("b", rewind.NewIncrement(1)))
		assert.Contains(t, reg.Names(), "a")
		assert.False(t, reg.Forget("a"))
		return nil
	})
	assert.NoError(t, err)

	assert.Equal(t, uint32(1), reg.Value("a"))
	assert.Equal(t, []string{"a"}, reg.Names())
}

func TestRegistryEvictionUnderContention(t *testing.T) {
	reg := newCounterRegistry(1)

	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				assert.NoError(t, reg.Execute(name, rewind.NewIncrement(1)))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, reg.Len())
	_ = reg.With(reg.Names()[0], func(p *rewind.Processor[uint32]) error {
		assert.Equal(t, int(p.Value()), p.Len())
		return nil
	})
}

func TestRegistryForget(t *testing.T) {
	reg := newCounterRegistry(0)

	assert.NoError(t, reg.Execute("a", rewind.NewIncrement(3)))
	assert.True(t, reg.Forget("a"))
	assert.False(t, reg.Forget("a"))
	assert.Equal(t, 0, reg.Len())
	assert.ErrorIs(t, reg.Undo("a"), rewind.ErrNothingToUndo)
}

func TestRegistryText(t *testing.T) {
	reg := rewind.NewRegistry(4, func(name string) *rewind.Processor[string] {
		return rewind.NewText("", rewind.WithName(name))
	})

	assert.NoError(t, reg.Execute("doc", rewind.NewAppend("Hello")))
	assert.ErrorIs(t,
		reg.Execute("doc", rewind.NewIncrement(1)),
		rewind.ErrInvalidOperationTypeOnData,
	)
	assert.Equal(t, "Hello", reg.Value("doc"))
}
