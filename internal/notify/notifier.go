package notify

import "context"

// Notifier defines the outbound notification channel: a send-message call
// whose failures surface as errors to the delivery worker.
//
//go:generate mockgen -source=notifier.go -destination=../mocks/notifier.go -package=mocks -mock_names=Notifier=MockNotifier
type Notifier interface {
	// Send delivers a Markdown-formatted message to the configured destination
	Send(ctx context.Context, text string) error
}
