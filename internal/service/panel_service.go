package service

import (
	"context"
	"fmt"
	"time"

	"quantum-pipeline/internal/assistant"
	"quantum-pipeline/internal/catalog"
	"quantum-pipeline/internal/domain"
	"quantum-pipeline/internal/jobs"
	"quantum-pipeline/internal/router"
	"quantum-pipeline/internal/session"
)

// Conversations exposes the assistant history of a session.
type Conversations interface {
	History(owner string) []domain.Message
}

// Panel carries the content of one dashboard panel. Only the fields the
// panel uses are set.
type Panel struct {
	Name           router.Panel
	Overview       *catalog.Overview
	Jobs           []domain.Job
	Screening      []catalog.ScreeningBucket
	QuantumMetrics []catalog.QuantumMetric
	Capabilities   []catalog.Capability
	Molecules      *catalog.MoleculePage
	Reports        []domain.Report
	Conversation   []domain.Message
	QuickQuestions []string
	Identity       *domain.Identity
	Settings       *domain.Settings
}

// PanelService assembles dashboard panels for a session.
type PanelService interface {
	Render(ctx context.Context, owner string, store *session.Store, panel router.Panel) (*Panel, error)
	Molecules(owner string, q catalog.MoleculeQuery) catalog.MoleculePage
	Reports(owner string) []domain.Report
}

type panelService struct {
	jobs  jobs.Manager
	chats Conversations
	now   func() time.Time
}

func NewPanelService(manager jobs.Manager, chats Conversations) PanelService {
	return &panelService{
		jobs:  manager,
		chats: chats,
		now:   time.Now,
	}
}

// Render switches the session to panel. Jobs started from any other panel
// are cancelled first.
func (s *panelService) Render(ctx context.Context, owner string, store *session.Store, panel router.Panel) (*Panel, error) {
	kind := panelKind(panel)
	if err := s.jobs.Leave(ctx, owner, kind); err != nil {
		return nil, fmt.Errorf("leave panels: %w", err)
	}

	out := &Panel{Name: panel}
	if kind != "" {
		list, err := s.jobsOfKind(ctx, owner, kind)
		if err != nil {
			return nil, err
		}
		out.Jobs = list
	}

	switch panel {
	case router.PanelOverview:
		overview := catalog.OverviewPanel()
		out.Overview = &overview
	case router.PanelScreening:
		out.Screening = catalog.ScreeningDistribution()
	case router.PanelQuantum:
		out.QuantumMetrics = catalog.QuantumMetrics()
		out.Capabilities = catalog.QuantumCapabilities()
	case router.PanelDataset:
		page := s.Molecules(owner, catalog.MoleculeQuery{Page: 1})
		out.Molecules = &page
	case router.PanelReports:
		out.Reports = s.Reports(owner)
	case router.PanelChatbot:
		out.Conversation = s.chats.History(owner)
		out.QuickQuestions = assistant.QuickQuestions
	case router.PanelSettings:
		identity, ok := store.Current()
		if !ok {
			return nil, session.ErrNotAuthenticated
		}
		settings, err := store.Settings()
		if err != nil {
			return nil, err
		}
		out.Identity = &identity
		out.Settings = &settings
	}
	return out, nil
}

func (s *panelService) Molecules(owner string, q catalog.MoleculeQuery) catalog.MoleculePage {
	return catalog.QueryMolecules(catalog.Molecules(catalog.SeedFor(owner)), q)
}

func (s *panelService) Reports(owner string) []domain.Report {
	return catalog.Reports(catalog.SeedFor(owner), s.now())
}

func (s *panelService) jobsOfKind(ctx context.Context, owner string, kind domain.JobKind) ([]domain.Job, error) {
	all, err := s.jobs.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	out := make([]domain.Job, 0, len(all))
	for _, job := range all {
		if job.Kind == kind {
			out = append(out, job)
		}
	}
	return out, nil
}

// panelKind names the job kind a panel starts; other panels start none.
func panelKind(panel router.Panel) domain.JobKind {
	switch panel {
	case router.PanelDocking:
		return domain.JobKindDocking
	case router.PanelScreening:
		return domain.JobKindScreening
	case router.PanelQuantum:
		return domain.JobKindQuantum
	}
	return ""
}
