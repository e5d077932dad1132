package domain

import "time"

type JobKind string

const (
	JobKindDocking   JobKind = "docking"
	JobKindScreening JobKind = "screening"
	JobKindQuantum   JobKind = "quantum"
)

// Prefix returns the short code used in job identifiers.
func (k JobKind) Prefix() string {
	switch k {
	case JobKindDocking:
		return "DK"
	case JobKindScreening:
		return "VS"
	case JobKindQuantum:
		return "QJ"
	default:
		return "JB"
	}
}

// Valid reports whether k is one of the known job kinds.
func (k JobKind) Valid() bool {
	switch k {
	case JobKindDocking, JobKindScreening, JobKindQuantum:
		return true
	}
	return false
}

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Terminal reports whether no further transitions can happen from s.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// Job represents a simulated computation started from a dashboard panel.
type Job struct {
	ID           string
	Owner        string
	Kind         JobKind
	Status       JobStatus
	Progress     int
	Input        string
	Qubits       int
	Circuits     int
	Result       *JobResult
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

// JobResult carries the fabricated outcome of a finished job. Only the
// block matching the job kind is set.
type JobResult struct {
	Docking   *DockingResult   `json:"docking,omitempty"`
	Screening *ScreeningResult `json:"screening,omitempty"`
	Quantum   *QuantumResult   `json:"quantum,omitempty"`
}

type DockingResult struct {
	BindingAffinity  float64 `json:"binding_affinity"`
	Confidence       float64 `json:"confidence"`
	Conformations    int     `json:"conformations"`
	BestPose         string  `json:"best_pose"`
	InteractionScore float64 `json:"interaction_score"`
}

type ScreeningResult struct {
	TotalCompounds int     `json:"total_compounds"`
	Hits           int     `json:"hits"`
	HitRate        float64 `json:"hit_rate"`
	TopCompound    string  `json:"top_compound"`
	AvgAffinity    float64 `json:"avg_affinity"`
}

type QuantumResult struct {
	AdvantagePercent int     `json:"advantage_percent"`
	Fidelity         float64 `json:"fidelity"`
}
