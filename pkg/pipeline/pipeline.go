// Package pipeline orchestrates one full safety analysis run: resolve
// the area context, assess it together with the photo, compose the
// report, synthesize speech, and deliver mail plus sidecar. The run is
// strictly sequential and best-effort: provider failures degrade to
// documented fallbacks, they never abort the run.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"safescout/pkg/model"
	"safescout/pkg/notify"
	"safescout/pkg/report"
)

// Locator resolves area news and citations for a coordinate.
type Locator interface {
	Resolve(ctx context.Context, pos model.Coordinates) model.LocationContext
}

// Assessor produces the safety assessment for context plus photo.
type Assessor interface {
	Assess(ctx context.Context, locationText, imagePath string) model.Assessment
}

// Synthesizer renders the summary as speech, returning the audio path
// or an empty string.
type Synthesizer interface {
	Render(ctx context.Context, summary string) string
}

// Mailer delivers the report.
type Mailer interface {
	Send(report string, verdict model.Verdict, att notify.Attachments) error
}

// SidecarWriter persists the machine-readable result.
type SidecarWriter interface {
	Write(verdict, audioPath string) error
}

// Input describes one run.
type Input struct {
	Position  model.Coordinates
	ImagePath string
	VideoPath string
}

// Outcome records every stage result of a run. Delivery errors are
// captured here instead of propagating so callers can observe partial
// failure.
type Outcome struct {
	Location   model.LocationContext
	Assessment model.Assessment
	Report     string
	AudioPath  string
	MailErr    error
	SidecarErr error
}

// Pipeline wires the stages together. The zero value is not usable;
// construct with New.
type Pipeline struct {
	locator     Locator
	assessor    Assessor
	synthesizer Synthesizer
	mailer      Mailer
	sidecar     SidecarWriter
	callTimeout time.Duration

	mu sync.Mutex // one run at a time, the output paths are fixed
}

// New creates a Pipeline. callTimeout bounds each provider stage.
func New(l Locator, a Assessor, s Synthesizer, m Mailer, sw SidecarWriter, callTimeout time.Duration) *Pipeline {
	if callTimeout <= 0 {
		callTimeout = 60 * time.Second
	}
	return &Pipeline{
		locator:     l,
		assessor:    a,
		synthesizer: s,
		mailer:      m,
		sidecar:     sw,
		callTimeout: callTimeout,
	}
}

// Run executes one full analysis for in and returns the outcome.
func (p *Pipeline) Run(ctx context.Context, in Input) *Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := &Outcome{}
	started := time.Now()

	out.Location = p.locate(ctx, in.Position)
	out.Assessment = p.assess(ctx, out.Location.Text, in.ImagePath)
	out.Report = report.Compose(out.Location, out.Assessment.Summary)
	out.AudioPath = p.synthesize(ctx, out.Assessment.Summary)

	if p.mailer != nil {
		out.MailErr = p.mailer.Send(out.Report, out.Assessment.Verdict, notify.Attachments{
			Image: in.ImagePath,
			Audio: out.AudioPath,
			Video: in.VideoPath,
		})
		if out.MailErr != nil {
			slog.Warn("Pipeline: mail delivery failed", "error", out.MailErr)
		}
	}

	if p.sidecar != nil {
		out.SidecarErr = p.sidecar.Write(string(out.Assessment.Verdict), out.AudioPath)
		if out.SidecarErr != nil {
			slog.Warn("Pipeline: sidecar write failed", "error", out.SidecarErr)
		}
	}

	slog.Info("Pipeline: run complete",
		"verdict", out.Assessment.Verdict,
		"sources", len(out.Location.Sources),
		"audio", out.AudioPath != "",
		"elapsed", time.Since(started).Round(time.Millisecond))
	return out
}

func (p *Pipeline) locate(ctx context.Context, pos model.Coordinates) model.LocationContext {
	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()
	return p.locator.Resolve(callCtx, pos)
}

func (p *Pipeline) assess(ctx context.Context, locationText, imagePath string) model.Assessment {
	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()
	return p.assessor.Assess(callCtx, locationText, imagePath)
}

func (p *Pipeline) synthesize(ctx context.Context, summary string) string {
	if p.synthesizer == nil {
		return ""
	}
	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()
	return p.synthesizer.Render(callCtx, summary)
}
