package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/walkmesh/manifold"
)

// phaseOrder fixes the column/log order for the manifold package's phase
// names (§4.9's C9 state machine); telemetry never redefines them, since
// manifold owns the PhaseTimer interface these phase names key into.
var phaseOrder = []string{
	manifold.PhaseCreatePoles,
	manifold.PhaseCreatePartials,
	manifold.PhaseReconstructRings,
	manifold.PhaseConnectEdges,
}

// PhaseTimer times the phases of a single manifold build. Unlike the
// teacher's rolling PerfCollector, a build is a one-shot operation rather
// than a tick loop, so PhaseTimer keeps only the most recent build's
// timings instead of averaging over a window.
type PhaseTimer struct {
	phases     map[string]time.Duration
	phaseStart time.Time
	lastPhase  string
	buildStart time.Time
	total      time.Duration
}

// NewPhaseTimer creates an empty PhaseTimer.
func NewPhaseTimer() *PhaseTimer {
	return &PhaseTimer{phases: make(map[string]time.Duration)}
}

// StartBuild begins timing a new build, discarding any previous phase data.
func (p *PhaseTimer) StartBuild() {
	if p == nil {
		return
	}
	p.buildStart = time.Now()
	p.phases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing the named phase, closing out whichever phase was
// previously open. Durations accumulate across repeated calls to the same
// phase name within one build (until the next StartBuild), so a phase that
// is resumed several times still reports one total.
func (p *PhaseTimer) StartPhase(phase string) {
	if p == nil {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndBuild closes out the last open phase and records total build duration.
func (p *PhaseTimer) EndBuild() {
	if p == nil {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.phases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}
	p.total = now.Sub(p.buildStart)
}

// Phase returns the accumulated duration of the named phase for the last
// (or still-running) build.
func (p *PhaseTimer) Phase(name string) time.Duration {
	if p == nil {
		return 0
	}
	return p.phases[name]
}

// Total returns the total duration of the last (or still-running) build.
func (p *PhaseTimer) Total() time.Duration {
	if p == nil {
		return 0
	}
	return p.total
}

// LogBuild logs the phase breakdown of the last build via slog.
func (p *PhaseTimer) LogBuild(logger *slog.Logger) {
	if p == nil || logger == nil {
		return
	}
	attrs := make([]any, 0, 2*(len(phaseOrder)+1))
	attrs = append(attrs, "total_us", p.total.Microseconds())
	for _, name := range phaseOrder {
		if d, ok := p.phases[name]; ok {
			attrs = append(attrs, name+"_us", d.Microseconds())
		}
	}
	logger.Info("manifold_build", attrs...)
}
