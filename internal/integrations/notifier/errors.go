package notifier

import "errors"

var (
	// ErrBuildTask ошибка формирования задачи
	ErrBuildTask = errors.New("notifier: failed to build task")

	// ErrEnqueue ошибка постановки задачи в очередь
	ErrEnqueue = errors.New("notifier: failed to enqueue task")
)
