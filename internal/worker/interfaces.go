package worker

import (
	"context"

	"aeropulse.app/pulse/internal/queue"
)

// Consumer is the queue surface the worker drives: batch reads plus the
// ack/requeue/DLQ outcomes of processing.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}
