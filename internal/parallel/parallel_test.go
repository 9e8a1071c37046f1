package parallel

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	var counter int64
	n := 1000

	err := For(n, func(_ int) error {
		atomic.AddInt64(&counter, 1)
		return nil
	}, WithWorkers(8))

	require.NoError(t, err)
	assert.Equal(t, int64(n), counter)
}

func TestForWritesEveryIndex(t *testing.T) {
	out := make([]int, 37)
	err := For(len(out), func(i int) error {
		out[i] = i * i
		return nil
	}, WithWorkers(4))

	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}
}

func TestForSequential(t *testing.T) {
	var order []int
	err := For(5, func(i int) error {
		order = append(order, i)
		return nil
	}, Config{Workers: 1})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestForSmallChunkRunsSequentially(t *testing.T) {
	var order []int
	err := For(10, func(i int) error {
		order = append(order, i) // no lock: must not run concurrently
		return nil
	}, Config{Workers: 8, MinChunkSize: 64})

	require.NoError(t, err)
	assert.Len(t, order, 10)
}

func TestForReturnsLowestError(t *testing.T) {
	var ran int64
	err := For(100, func(i int) error {
		atomic.AddInt64(&ran, 1)
		if i == 70 || i == 30 {
			return fmt.Errorf("item %d: %w", i, errors.ErrUnsupported)
		}
		return nil
	}, WithWorkers(4))

	require.Error(t, err)
	assert.Equal(t, "item 30: unsupported operation", err.Error())
	assert.Equal(t, int64(100), ran)
}

func TestForEmpty(t *testing.T) {
	assert.NoError(t, For(0, func(int) error { panic("called") }, DefaultConfig()))
}

func TestWithWorkers(t *testing.T) {
	assert.Equal(t, 3, WithWorkers(3).Workers)
	assert.Equal(t, DefaultConfig().Workers, WithWorkers(0).Workers)
}
