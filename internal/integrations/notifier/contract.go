package notifier

import (
	"context"

	"github.com/hibiken/asynq"
)

// Enqueuer постановка задач в очередь (*asynq.Client)
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskDeleter удаление запланированных задач (*asynq.Inspector)
type TaskDeleter interface {
	DeleteTask(queue, id string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
