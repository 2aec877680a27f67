package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
)

// Options параметры публикации
type Options struct {
	Queue          string
	MaxRetry       int
	ReminderBefore time.Duration // 0 = без напоминаний
	Timeout        time.Duration // ограничение на постановку одной задачи
	TimeZone       string
}

// Publisher публикует события бронирований в очередь asynq.
// Доставка уведомлений выполняется внешним воркером и не влияет на бронирование.
type Publisher struct {
	client  Enqueuer
	deleter TaskDeleter
	opts    Options
	now     func() time.Time
	log     Logger
}

// NewPublisher создаёт публикатор. deleter может быть nil, тогда напоминания
// об отменённых бронированиях не снимаются из очереди, а воркер проверяет статус сам.
func NewPublisher(client Enqueuer, deleter TaskDeleter, opts Options, log Logger) *Publisher {
	if opts.Timeout == 0 {
		opts.Timeout = 2 * time.Second
	}
	return &Publisher{
		client:  client,
		deleter: deleter,
		opts:    opts,
		now:     time.Now,
		log:     log,
	}
}

// BookingConfirmed ставит уведомление о подтверждении и планирует напоминание
func (p *Publisher) BookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	payload := p.payload(booking)

	task, err := newTask(TypeBookingConfirmed, payload)
	if err != nil {
		return err
	}
	if err := p.enqueue(ctx, task, p.baseOptions()...); err != nil {
		return err
	}

	if p.opts.ReminderBefore <= 0 {
		return nil
	}

	fireAt := booking.StartAt.Add(-p.opts.ReminderBefore)
	if !fireAt.After(p.now()) {
		p.log.Info("Notifier: reminder for booking %s skipped, start is too close", booking.ID)
		return nil
	}

	reminder, err := newTask(TypeBookingReminder, payload)
	if err != nil {
		return err
	}
	opts := append(p.baseOptions(), asynq.ProcessAt(fireAt), asynq.TaskID(reminderID(booking)))

	return p.enqueue(ctx, reminder, opts...)
}

// BookingCancelled ставит уведомление об отмене и снимает запланированное напоминание
func (p *Publisher) BookingCancelled(ctx context.Context, booking *domain.Booking) error {
	task, err := newTask(TypeBookingCancelled, p.payload(booking))
	if err != nil {
		return err
	}
	if err := p.enqueue(ctx, task, p.baseOptions()...); err != nil {
		return err
	}

	if p.deleter == nil {
		return nil
	}

	err = p.deleter.DeleteTask(p.opts.Queue, reminderID(booking))
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
		p.log.Warn("Notifier: failed to delete reminder for booking %s: %v", booking.ID, err)
	}

	return nil
}

func (p *Publisher) enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) error {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	info, err := p.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEnqueue, task.Type(), err)
	}

	p.log.Info("Notifier: enqueued %s id=%s queue=%s", task.Type(), info.ID, info.Queue)
	return nil
}

func (p *Publisher) baseOptions() []asynq.Option {
	opts := make([]asynq.Option, 0, 4)
	if p.opts.Queue != "" {
		opts = append(opts, asynq.Queue(p.opts.Queue))
	}
	if p.opts.MaxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(p.opts.MaxRetry))
	}
	return opts
}

func (p *Publisher) payload(b *domain.Booking) BookingPayload {
	return BookingPayload{
		BookingID:          b.ID.String(),
		ServiceName:        b.ServiceName,
		AddOnNames:         b.AddOnNames,
		StartAt:            b.StartAt,
		EndAt:              b.EndAt,
		TimeZone:           p.opts.TimeZone,
		PriceCents:         b.PriceCents,
		CustomerName:       b.CustomerName,
		CustomerPhone:      b.CustomerPhone,
		CustomerEmail:      b.CustomerEmail,
		CancellationReason: b.CancellationReason,
	}
}

func newTask(taskType string, payload BookingPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBuildTask, taskType, err)
	}
	return asynq.NewTask(taskType, data), nil
}

func reminderID(b *domain.Booking) string {
	return TypeBookingReminder + ":" + b.ID.String()
}

// Nop ничего не публикует (уведомления выключены)
type Nop struct{}

func (Nop) BookingConfirmed(context.Context, *domain.Booking) error { return nil }

func (Nop) BookingCancelled(context.Context, *domain.Booking) error { return nil }
