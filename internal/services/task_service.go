package services

import (
	"context"
	"time"

	"lifeos-proxy/internal/domain"
	"lifeos-proxy/internal/errors"
	"lifeos-proxy/internal/gateway"
	"lifeos-proxy/internal/logging"
	"lifeos-proxy/internal/normalize"
	"lifeos-proxy/internal/validation"
)

// Options names the sheets read by the service and bounds row parsing
type Options struct {
	TasksSheet string
	StatsSheet string
	MaxRows    int
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	source     TableReader
	forwarder  UpdateForwarder
	normalizer *normalize.Normalizer
	mapper     *domain.Mapper
	validator  *validation.UpdateValidator
	opts       Options
	now        func() time.Time
}

// NewTaskService creates a new TaskService. now supplies the instant used to
// pick the target day.
func NewTaskService(source TableReader, forwarder UpdateForwarder, normalizer *normalize.Normalizer, opts Options, now func() time.Time) TaskService {
	if now == nil {
		now = time.Now
	}
	return &taskServiceImpl{
		source:     source,
		forwarder:  forwarder,
		normalizer: normalizer,
		mapper:     domain.NewMapper(normalizer),
		validator:  validation.NewUpdateValidator(),
		opts:       opts,
		now:        now,
	}
}

// ListTasks returns today's or tomorrow's tasks ordered by start time
func (s *taskServiceImpl) ListTasks(ctx context.Context, query TaskQuery) (*TaskListing, error) {
	snap, err := s.source.FetchTable(ctx, s.opts.TasksSheet)
	if err != nil {
		return nil, err
	}

	records := s.mapper.Task.FromTable(*snap.Table, s.opts.MaxRows)
	targetDay := s.normalizer.TargetDay(s.now(), query.Tomorrow)
	tasks := SelectDay(records, targetDay, s.normalizer)

	logging.Debugf("matched %d of %d tasks for %s", len(tasks), len(records), targetDay)

	return &TaskListing{
		Tasks: tasks,
		Debug: DebugInfo{
			TargetDay:   targetDay,
			Timezone:    s.normalizer.Target.String(),
			Sheet:       snap.Sheet,
			TotalRows:   len(snap.Table.Rows),
			ParsedRows:  len(records),
			MatchedRows: len(tasks),
			Cached:      snap.Cached,
			FetchedAt:   snap.FetchedAt,
		},
	}, nil
}

// ListStats returns every dated row of the statistics sheet
func (s *taskServiceImpl) ListStats(ctx context.Context) ([]domain.StatsRecord, error) {
	snap, err := s.source.FetchTable(ctx, s.opts.StatsSheet)
	if err != nil {
		return nil, err
	}

	return s.mapper.Stats.FromTable(*snap.Table, s.opts.MaxRows), nil
}

// UpdateStatus validates the parameters and forwards them to the write-back endpoint
func (s *taskServiceImpl) UpdateStatus(ctx context.Context, taskKey, status string) (*gateway.RelayedResponse, error) {
	taskKey, status, err := s.validator.ValidateUpdate(taskKey, status)
	if err != nil {
		return nil, errors.NewValidationError("Missing taskKey or status", err)
	}

	logging.Debugf("forwarding status update %s -> %s", taskKey, status)

	return s.forwarder.Forward(ctx, gateway.UpdateRequest{TaskKey: taskKey, Status: status})
}
