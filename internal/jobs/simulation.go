package jobs

import (
	"time"

	"quantum-pipeline/internal/domain"
)

// Simulation describes how long a job kind pretends to run and what it
// reports when done.
type Simulation struct {
	Duration time.Duration
	Result   func() domain.JobResult
}

const (
	quantumQubits   = 64
	quantumCircuits = 1024
)

// DefaultSimulations returns the fabricated outcomes for every job kind
// with the given run times.
func DefaultSimulations(docking, screening, quantum time.Duration) map[domain.JobKind]Simulation {
	return map[domain.JobKind]Simulation{
		domain.JobKindDocking: {
			Duration: docking,
			Result: func() domain.JobResult {
				return domain.JobResult{Docking: &domain.DockingResult{
					BindingAffinity:  -8.7,
					Confidence:       94.2,
					Conformations:    15,
					BestPose:         "Pose_1",
					InteractionScore: 0.82,
				}}
			},
		},
		domain.JobKindScreening: {
			Duration: screening,
			Result: func() domain.JobResult {
				return domain.JobResult{Screening: &domain.ScreeningResult{
					TotalCompounds: 10000,
					Hits:           45,
					HitRate:        0.45,
					TopCompound:    "ZINC000123456",
					AvgAffinity:    -7.2,
				}}
			},
		},
		domain.JobKindQuantum: {
			Duration: quantum,
			Result: func() domain.JobResult {
				return domain.JobResult{Quantum: &domain.QuantumResult{
					AdvantagePercent: 22,
					Fidelity:         0.94,
				}}
			},
		},
	}
}

// progressAt maps elapsed run time to a percentage. It stays below 100
// until the job is marked completed.
func progressAt(elapsed, total time.Duration) int {
	if total <= 0 {
		return 99
	}
	p := int(elapsed * 100 / total)
	switch {
	case p < 0:
		return 0
	case p > 99:
		return 99
	}
	return p
}
