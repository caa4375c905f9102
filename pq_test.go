package lpastar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVertex(id int) *vertex {
	return &vertex{Node: Node{ID: id, PID: -1}}
}

func popID(t *testing.T, f *frontier) int {
	t.Helper()
	item, ok := f.popMin()
	require.True(t, ok)
	return item.NodeID
}

func TestFrontier_OrdersByKey(t *testing.T) {
	f := newFrontier()
	for id, key := range []float64{5, 1, 4, 2, 3} {
		f.insertOrUpdate(testVertex(id), key)
	}

	top, ok := f.peekMin()
	require.True(t, ok)
	assert.Equal(t, 1.0, top.Key)
	assert.Equal(t, 5, f.len(), "peek must not remove")

	var order []int
	for f.len() > 0 {
		order = append(order, popID(t, f))
	}
	assert.Equal(t, []int{1, 3, 4, 2, 0}, order)
}

func TestFrontier_EqualKeysAreFIFO(t *testing.T) {
	f := newFrontier()
	vertices := []*vertex{testVertex(7), testVertex(3), testVertex(9), testVertex(1)}
	for _, v := range vertices {
		f.insertOrUpdate(v, 2.5)
	}
	f.insertOrUpdate(testVertex(0), 3)

	assert.Equal(t, []int{7, 3, 9, 1, 0}, []int{popID(t, f), popID(t, f), popID(t, f), popID(t, f), popID(t, f)})
}

func TestFrontier_UpdateMovesEitherWay(t *testing.T) {
	f := newFrontier()
	a, b, c := testVertex(1), testVertex(2), testVertex(3)
	f.insertOrUpdate(a, 5)
	f.insertOrUpdate(b, 3)
	f.insertOrUpdate(c, 4)

	f.insertOrUpdate(a, 1)
	assert.Equal(t, 3, f.len())
	top, _ := f.peekMin()
	assert.Equal(t, 1, top.NodeID)

	f.insertOrUpdate(a, 10)
	assert.Equal(t, []int{2, 3, 1}, []int{popID(t, f), popID(t, f), popID(t, f)})
}

func TestFrontier_ReinsertedTieGoesLast(t *testing.T) {
	f := newFrontier()
	a, b := testVertex(1), testVertex(2)
	f.insertOrUpdate(a, 1)
	f.insertOrUpdate(b, 1)
	f.insertOrUpdate(a, 1)

	assert.Equal(t, []int{2, 1}, []int{popID(t, f), popID(t, f)})
}

func TestFrontier_Remove(t *testing.T) {
	f := newFrontier()
	a, b := testVertex(1), testVertex(2)
	f.insertOrUpdate(a, 1)
	f.insertOrUpdate(b, 2)

	f.remove(a)
	assert.Nil(t, a.handle)
	assert.Equal(t, 1, f.len())

	// absent vertex is a no-op
	f.remove(a)
	f.remove(testVertex(5))
	assert.Equal(t, 1, f.len())
	assert.Equal(t, 2, popID(t, f))
}

func TestFrontier_Empty(t *testing.T) {
	f := newFrontier()
	_, ok := f.peekMin()
	assert.False(t, ok)
	_, ok = f.popMin()
	assert.False(t, ok)
}

func TestFrontier_HandlesTrackHeapSlots(t *testing.T) {
	f := newFrontier()
	vertices := make([]*vertex, 20)
	for i := range vertices {
		vertices[i] = testVertex(i)
		f.insertOrUpdate(vertices[i], float64((i*7)%11))
	}
	for i := 0; i < 20; i += 3 {
		f.remove(vertices[i])
	}
	for _, v := range vertices {
		if v.handle == nil {
			continue
		}
		require.Same(t, v.handle, f.queue[v.handle.IndexInQueue])
	}
}
