package rewind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/rewind"
)

func TestMakeDispatcher(t *testing.T) {
	t.Run("routes by transition kind", func(t *testing.T) {
		var undos, redos int
		obs := rewind.MakeDispatcher(map[rewind.TransitionKind]rewind.Observer{
			rewind.KindUndo: func(*rewind.Transition) { undos++ },
			rewind.KindRedo: func(*rewind.Transition) { redos++ },
		})

		p := rewind.NewText("a", rewind.WithObserver(obs))
		assert.NoError(t, p.Execute(rewind.NewAppend("b")))
		assert.NoError(t, p.Execute(rewind.NewAppend("c")))
		assert.NoError(t, p.Undo())
		assert.NoError(t, p.Undo())
		assert.NoError(t, p.Redo())

		assert.Equal(t, 2, undos)
		assert.Equal(t, 1, redos)
	})

	t.Run("ignores unregistered kinds", func(t *testing.T) {
		obs := rewind.MakeDispatcher(nil)
		assert.NotPanics(t, func() {
			obs(&rewind.Transition{Kind: rewind.KindExecute})
		})
	})
}

func TestMakeFanout(t *testing.T) {
	var order []string
	obs := rewind.MakeFanout(
		func(*rewind.Transition) { order = append(order, "first") },
		func(*rewind.Transition) { order = append(order, "second") },
	)

	p := rewind.NewCounter(0, rewind.WithObserver(obs))
	assert.NoError(t, p.Execute(rewind.NewIncrement(1)))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestNilOptionsIgnored(t *testing.T) {
	p := rewind.NewCounter(0, rewind.WithObserver(nil), rewind.WithLogger(nil))
	assert.NoError(t, p.Execute(rewind.NewIncrement(1)))
	assert.NoError(t, p.Undo())
}
