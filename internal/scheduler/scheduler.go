package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"propfolio-cloud/internal/billing/application"
)

// runTimeout bounds one scheduled billing run.
const runTimeout = 4 * time.Minute

// Scheduler triggers billing runs on cron schedules, the same work the
// HTTP billing endpoints do on demand.
type Scheduler struct {
	cron     *cron.Cron
	charges  *application.ChargeService
	lateFees *application.LateFeeService
	logger   *log.Logger
}

// New constructs a scheduler. Jobs are registered by Start.
func New(charges *application.ChargeService, lateFees *application.LateFeeService, logger *log.Logger) (*Scheduler, error) {
	if charges == nil || lateFees == nil {
		return nil, errors.New("scheduler: nil service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		charges:  charges,
		lateFees: lateFees,
		logger:   logger,
	}, nil
}

// Start registers the two billing jobs and begins running them.
func (s *Scheduler) Start(chargesSpec, lateFeesSpec string) error {
	_, err := s.cron.AddFunc(chargesSpec, s.runGenerateCharges)
	if err != nil {
		return err
	}
	_, err = s.cron.AddFunc(lateFeesSpec, s.runApplyLateFees)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Printf("scheduler: started charges=%q late_fees=%q", chargesSpec, lateFeesSpec)
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runGenerateCharges() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	result, err := s.charges.Generate(ctx, application.GenerateRequest{})
	if err != nil {
		s.logger.Printf("scheduler: generate charges failed: %v", err)
		return
	}
	s.logger.Printf("scheduler: generate charges period=%s created=%d skipped=%d",
		result.Period, result.ChargesCreated, result.ChargesSkipped)
}

func (s *Scheduler) runApplyLateFees() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	result, err := s.lateFees.Apply(ctx, application.ApplyRequest{})
	if err != nil {
		s.logger.Printf("scheduler: apply late fees failed: %v", err)
		return
	}
	s.logger.Printf("scheduler: apply late fees applied=%d skipped=%d total=%.2f",
		result.LateFeesApplied, result.LateFeesSkipped, result.TotalFeesGenerated)
}
