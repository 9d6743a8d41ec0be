package queue

import "errors"

var (
	ErrFull    = errors.New("queue is full")
	ErrStopped = errors.New("queue is stopped")
)

type Queue[T any] interface {
	Start()
	Stop()
	Add(item T) error
}
