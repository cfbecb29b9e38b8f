package app

// Level is the severity of a Notice.
type Level int

const (
	Info Level = iota
	Error
)

func (l Level) String() string {
	if l == Error {
		return "error"
	}
	return "info"
}

// Notice is a short message for the user about an operation's outcome.
type Notice struct {
	Level   Level
	Message string
}

// Notifier receives notices.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// NoticeQueue is a Notifier backed by a buffered channel. When the buffer
// is full the oldest notice is dropped.
type NoticeQueue struct {
	ch chan Notice
}

// NewNoticeQueue creates a queue holding up to size notices.
func NewNoticeQueue(size int) *NoticeQueue {
	if size < 1 {
		size = 1
	}
	return &NoticeQueue{ch: make(chan Notice, size)}
}

// Notify implements Notifier.
func (q *NoticeQueue) Notify(n Notice) {
	for {
		select {
		case q.ch <- n:
			return
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

// C returns the receive side of the queue.
func (q *NoticeQueue) C() <-chan Notice {
	return q.ch
}
