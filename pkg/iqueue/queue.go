package iqueue

import (
	"container/list"
)

func New[T any]() *Queue[T] {
	return &Queue[T]{
		queue: list.New(),
		send:  make(chan T, 1),
		recv:  make(chan T, 1),
	}
}

// Queue is an unbounded FIFO buffer between a sender and a set of receivers.
// Loop must be running for Send and Receive to make progress.
type Queue[T any] struct {
	queue *list.List
	send  chan T
	recv  chan T
}

func (iq *Queue[T]) Send(v T) {
	iq.send <- v
}

func (iq *Queue[T]) Receive() <-chan T {
	return iq.recv
}

func (iq *Queue[T]) Len() int {
	return iq.queue.Len()
}

func (iq *Queue[T]) Queue() *list.List {
	return iq.queue
}

func (iq *Queue[T]) Close() {
	close(iq.send)
}

func (iq *Queue[T]) Loop() {
	for {
		front := iq.queue.Front()
		if front != nil {
			select {
			case iq.recv <- front.Value.(T):
				iq.queue.Remove(front)
			case value, ok := <-iq.send:
				if ok {
					iq.queue.PushBack(value)
				} else {
					iq.send = nil
				}
			}
			continue
		}

		if iq.send == nil {
			close(iq.recv)
			return
		}
		value, ok := <-iq.send
		if !ok {
			close(iq.recv)
			return
		}
		iq.queue.PushBack(value)
	}
}
