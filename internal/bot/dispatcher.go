package bot

import (
	"sync"

	"github.com/letsssgooo/gateQuiz/internal/telegram"
)

// dispatcher раскладывает обновления по очередям чатов.
// Очередь чата не ограничена, push никогда не ждёт обработчик.
type dispatcher struct {
	mu     sync.Mutex
	queues map[int64]*chatQueue
}

type chatQueue struct {
	pending []telegram.Update
	wake    chan struct{}
}

func newDispatcher() *dispatcher {
	return &dispatcher{queues: make(map[int64]*chatQueue)}
}

// push ставит обновление в очередь чата.
// created сообщает, что очередь новая и для неё нужно запустить обработчик.
func (d *dispatcher) push(chatID int64, update telegram.Update) (q *chatQueue, created bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.queues[chatID]
	if !ok {
		q = &chatQueue{wake: make(chan struct{}, 1)}
		d.queues[chatID] = q
	}

	q.pending = append(q.pending, update)

	select {
	case q.wake <- struct{}{}:
	default:
	}

	return q, !ok
}

// pop достаёт следующее обновление очереди.
func (d *dispatcher) pop(q *chatQueue) (telegram.Update, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(q.pending) == 0 {
		return telegram.Update{}, false
	}

	update := q.pending[0]
	q.pending[0] = telegram.Update{}
	q.pending = q.pending[1:]

	if len(q.pending) == 0 {
		q.pending = nil
	}

	return update, true
}

// release удаляет пустую очередь. Если в неё успело прийти обновление, очередь остаётся
// и обработчик должен продолжить работу.
func (d *dispatcher) release(chatID int64, q *chatQueue) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(q.pending) != 0 {
		return false
	}

	if d.queues[chatID] == q {
		delete(d.queues, chatID)
	}

	return true
}

func (d *dispatcher) size() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.queues)
}
