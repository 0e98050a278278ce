package utils

const DEFAULT_BATCH_SIZE = 10

// BatchBuffer accumulates items until a fixed capacity is reached. It is
// owned by a single goroutine; hand batches to workers with GetAndClear.
type BatchBuffer[T any] struct {
	size   int
	buffer []T
}

// NewBatchBuffer creates a buffer that reports Full at size items. A
// non-positive size falls back to DEFAULT_BATCH_SIZE.
func NewBatchBuffer[T any](size int) *BatchBuffer[T] {
	if size < 1 {
		size = DEFAULT_BATCH_SIZE
	}
	return &BatchBuffer[T]{
		size:   size,
		buffer: make([]T, 0, size),
	}
}

func (b *BatchBuffer[T]) Add(item T) {
	b.buffer = append(b.buffer, item)
}

// GetAndClear hands the current batch to the caller and starts a new one.
func (b *BatchBuffer[T]) GetAndClear() []T {
	if len(b.buffer) == 0 {
		return nil
	}

	batch := b.buffer
	b.buffer = make([]T, 0, b.size)
	return batch
}

func (b *BatchBuffer[T]) Full() bool {
	return len(b.buffer) >= b.size
}

func (b *BatchBuffer[T]) HasData() bool {
	return len(b.buffer) > 0
}
