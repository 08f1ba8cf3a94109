package notify

import (
	"context"
	"log"
	"time"

	"obradoc/internal/model"
	"obradoc/internal/repository"
)

// Outbox decouples notification creation from the read paths that detect
// status transitions: producers enqueue and move on, a single dispatcher
// goroutine persists and fans out. Delivery is best-effort; a failed or
// dropped notification never blocks a document read.
type Outbox struct {
	queue     chan *model.Notification
	repo      repository.INotificationRepository
	publisher Publisher
	hub       *Hub
}

// Publisher mirrors delivered notifications to an external event stream.
type Publisher interface {
	Publish(ctx context.Context, n *model.Notification) error
}

// NewOutbox creates an outbox with the given queue capacity. publisher and
// hub may be nil.
func NewOutbox(queueSize int, repo repository.INotificationRepository, publisher Publisher, hub *Hub) *Outbox {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Outbox{
		queue:     make(chan *model.Notification, queueSize),
		repo:      repo,
		publisher: publisher,
		hub:       hub,
	}
}

// Enqueue hands a notification to the dispatcher. It never blocks: when the
// queue is full the notification is dropped and logged.
func (o *Outbox) Enqueue(n *model.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	select {
	case o.queue <- n:
	default:
		log.Printf("[notify] queue full, dropping %s notification for user %s", n.Type, n.UserID.Hex())
	}
}

// Start runs the dispatcher until the context is cancelled.
func (o *Outbox) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				o.drain()
				return
			case n := <-o.queue:
				o.deliver(n)
			}
		}
	}()
}

// drain flushes whatever is still queued at shutdown.
func (o *Outbox) drain() {
	for {
		select {
		case n := <-o.queue:
			o.deliver(n)
		default:
			return
		}
	}
}

func (o *Outbox) deliver(n *model.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stored, err := o.repo.Insert(ctx, n)
	if err != nil {
		log.Printf("[notify] insert failed: %v", err)
		return
	}

	if o.publisher != nil {
		if err := o.publisher.Publish(ctx, stored); err != nil {
			log.Printf("[notify] publish failed: %v", err)
		}
	}
	if o.hub != nil {
		o.hub.Push(stored)
	}
}
