// Package worker provides background job processing for farescout. Jobs
// arrive as Pub/Sub messages, typically published by Cloud Scheduler.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/digest"
	"github.com/farescout/farescout/internal/pipeline"
)

// DefaultJobTimeout bounds one digest pipeline run. Enrichment fans out
// to several remote providers, so this is generous.
const DefaultJobTimeout = 10 * time.Minute

// PipelineRunner runs one trip discovery pipeline pass.
type PipelineRunner interface {
	Run(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
}

// Mailer delivers rendered digests. Satisfied by delivery.Mailer.
type Mailer interface {
	Configured() bool
	SendHTML(to, subject, htmlBody string) error
}

// DigestJobConfig holds configuration for the digest job.
type DigestJobConfig struct {
	// Pipeline runs the search and enrichment phases (required).
	Pipeline PipelineRunner

	// Renderer renders the digest (required).
	Renderer *digest.Renderer

	// Mailer delivers the HTML digest. May be unconfigured, in which case
	// the job still runs and only logs the outcome.
	Mailer Mailer

	// Recipients receive the digest email.
	Recipients []string

	// Timeout bounds one job run. Default DefaultJobTimeout.
	Timeout time.Duration

	// Logger for job operations.
	Logger zerolog.Logger
}

// DigestResult summarizes one digest job run.
type DigestResult struct {
	// CandidateCount is the size of the full ranked candidate set.
	CandidateCount int

	// TripCount is the number of enriched trips in the digest.
	TripCount int

	// Emailed reports whether the digest was delivered by email.
	Emailed bool

	// Duration is the total job duration.
	Duration time.Duration
}

// DigestJob runs the pipeline and delivers the rendered digest.
type DigestJob struct {
	cfg DigestJobConfig
}

// NewDigestJob creates a digest job.
func NewDigestJob(cfg DigestJobConfig) *DigestJob {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultJobTimeout
	}
	return &DigestJob{cfg: cfg}
}

// Run executes one digest pass. A pipeline failure fails the job; an
// email delivery failure is logged but does not, so a flaky SMTP server
// cannot trigger endless redeliveries of an expensive job.
func (j *DigestJob) Run(ctx context.Context, opts pipeline.Options) (*DigestResult, error) {
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, j.cfg.Timeout)
	defer cancel()

	result, err := j.cfg.Pipeline.Run(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("running pipeline: %w", err)
	}

	out := &DigestResult{
		CandidateCount: result.CandidateCount,
		TripCount:      len(result.Trips),
		Duration:       time.Since(started),
	}

	if j.cfg.Mailer == nil || !j.cfg.Mailer.Configured() || len(j.cfg.Recipients) == 0 {
		j.cfg.Logger.Info().
			Int("trips", out.TripCount).
			Msg("digest rendered, email delivery not configured")
		return out, nil
	}

	html, err := j.cfg.Renderer.HTML(result.Trips)
	if err != nil {
		return nil, fmt.Errorf("rendering digest: %w", err)
	}

	for _, to := range j.cfg.Recipients {
		if sendErr := j.cfg.Mailer.SendHTML(to, "", html); sendErr != nil {
			j.cfg.Logger.Error().Err(sendErr).Str("to", to).Msg("digest email failed")
			continue
		}
		out.Emailed = true
	}

	out.Duration = time.Since(started)
	j.cfg.Logger.Info().
		Int("candidates", out.CandidateCount).
		Int("trips", out.TripCount).
		Bool("emailed", out.Emailed).
		Dur("duration", out.Duration).
		Msg("digest job completed")

	return out, nil
}

// HealthCheck runs a minimal pipeline pass to verify provider
// connectivity: one day of horizon, one candidate, no email.
func (j *DigestJob) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	result, err := j.cfg.Pipeline.Run(ctx, pipeline.Options{
		HorizonDays:   1,
		CheapestTrips: 1,
	})
	if err != nil {
		return fmt.Errorf("health check pipeline: %w", err)
	}

	j.cfg.Logger.Debug().
		Int("candidates", result.CandidateCount).
		Msg("health check passed")
	return nil
}
