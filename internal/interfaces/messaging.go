package interfaces

import "context"

// Notification is the plain event emitted after each state-changing
// operation. The core neither knows nor cares how delivery happens.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type NotificationPublisher interface {
	Publish(ctx context.Context, n Notification) error
}

type NotificationConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type NotificationHandler func(ctx context.Context, body []byte) error
