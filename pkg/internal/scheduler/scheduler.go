package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type namedJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Scheduler owns every background unit of work in the process: periodic
// entries are driven by cron, one-shot jobs run keyed by name. Submitting a
// job under a name that already has one in flight cancels the old job via
// its context, so there is at most one in-flight job per name.
type Scheduler struct {
	quartz *cron.Cron

	mu   sync.Mutex
	jobs map[string]*namedJob
}

func New() *Scheduler {
	return &Scheduler{
		quartz: cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger))),
		jobs:   map[string]*namedJob{},
	}
}

func (s *Scheduler) Periodic(spec string, fn func()) error {
	_, err := s.quartz.AddFunc(spec, fn)
	return err
}

func (s *Scheduler) Start() {
	s.quartz.Start()
}

func (s *Scheduler) Stop() {
	s.quartz.Stop()

	s.mu.Lock()
	for _, job := range s.jobs {
		job.cancel()
	}
	s.mu.Unlock()
}

// Submit runs fn in the background under the given name, replacing any job
// previously submitted under the same name.
func (s *Scheduler) Submit(name string, fn func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	job := &namedJob{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	if prev, ok := s.jobs[name]; ok {
		prev.cancel()
	}
	s.jobs[name] = job
	s.mu.Unlock()

	go func() {
		defer func() {
			if reason := recover(); reason != nil {
				log.Error().Any("reason", reason).Str("job", name).Msg("Background job panicked...")
			}

			close(job.done)
			s.mu.Lock()
			if s.jobs[name] == job {
				delete(s.jobs, name)
			}
			s.mu.Unlock()
		}()

		fn(ctx)
	}()
}

// Wait blocks until the job currently registered under name finishes.
// Returns immediately when no such job exists.
func (s *Scheduler) Wait(name string) {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if ok {
		<-job.done
	}
}
