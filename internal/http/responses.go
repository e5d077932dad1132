package http

import (
	"time"

	"quantum-pipeline/internal/catalog"
	"quantum-pipeline/internal/domain"
	"quantum-pipeline/internal/service"
	"quantum-pipeline/internal/storage"
)

type ScreenResponse struct {
	Screen        string            `json:"screen"`
	Title         string            `json:"title"`
	Authenticated bool              `json:"authenticated"`
	Identity      *IdentityResponse `json:"identity,omitempty"`
	Panel         string            `json:"panel,omitempty"`
	Navigation    []NavItem         `json:"navigation,omitempty"`
	Data          *PanelResponse    `json:"data,omitempty"`
}

type NavItem struct {
	Panel  string `json:"panel"`
	Title  string `json:"title"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

type IdentityResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type SessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	Identity      *IdentityResponse `json:"identity,omitempty"`
}

type NotificationsPayload struct {
	JobComplete    bool `json:"job_complete"`
	NewFeatures    bool `json:"new_features"`
	WeeklyReport   bool `json:"weekly_report"`
	SecurityAlerts bool `json:"security_alerts"`
}

type PreferencesPayload struct {
	Theme       string `json:"theme"`
	Language    string `json:"language"`
	Timezone    string `json:"timezone"`
	DefaultView string `json:"default_view"`
}

type SettingsPayload struct {
	Notifications NotificationsPayload `json:"notifications"`
	Preferences   PreferencesPayload   `json:"preferences"`
}

type JobResponse struct {
	ID           string            `json:"id"`
	Kind         domain.JobKind    `json:"kind"`
	Status       domain.JobStatus  `json:"status"`
	Progress     int               `json:"progress"`
	Input        string            `json:"input,omitempty"`
	Qubits       int               `json:"qubits,omitempty"`
	Circuits     int               `json:"circuits,omitempty"`
	Result       *domain.JobResult `json:"result,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at"`
	StartedAt    *string           `json:"started_at,omitempty"`
	FinishedAt   *string           `json:"finished_at,omitempty"`
}

type MoleculeResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Formula         string  `json:"formula"`
	MolecularWeight float64 `json:"molecular_weight"`
	LogP            float64 `json:"log_p"`
	HBondDonors     int     `json:"hbd"`
	HBondAcceptors  int     `json:"hba"`
	PolarSurface    float64 `json:"tpsa"`
	RotatableBonds  int     `json:"rotatable_bonds"`
	Dataset         string  `json:"dataset"`
	Activity        string  `json:"activity"`
	Affinity        float64 `json:"binding_affinity"`
}

type MoleculePageResponse struct {
	Items      []MoleculeResponse     `json:"items"`
	Page       int                    `json:"page"`
	TotalPages int                    `json:"total_pages"`
	Total      int                    `json:"total"`
	Datasets   []catalog.DatasetCount `json:"datasets"`
}

type ReportResponse struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Type       string  `json:"type"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Molecules  int     `json:"molecules"`
	Hits       int     `json:"hits"`
	Accuracy   float64 `json:"accuracy"`
	RuntimeMin int     `json:"runtime_minutes"`
	FileSizeMB float64 `json:"file_size_mb"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type ExportResponse struct {
	JobID        string  `json:"job_id"`
	Key          string  `json:"key"`
	Location     string  `json:"location"`
	URL          string  `json:"url"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

// PanelResponse is the content of one dashboard panel.
type PanelResponse struct {
	Overview       *catalog.Overview         `json:"overview,omitempty"`
	Jobs           []JobResponse             `json:"jobs,omitempty"`
	Screening      []catalog.ScreeningBucket `json:"screening_distribution,omitempty"`
	QuantumMetrics []catalog.QuantumMetric   `json:"quantum_metrics,omitempty"`
	Capabilities   []catalog.Capability      `json:"quantum_capabilities,omitempty"`
	Molecules      *MoleculePageResponse     `json:"molecules,omitempty"`
	Reports        []ReportResponse          `json:"reports,omitempty"`
	Conversation   []MessageResponse         `json:"conversation,omitempty"`
	QuickQuestions []string                  `json:"quick_questions,omitempty"`
	Profile        *IdentityResponse         `json:"profile,omitempty"`
	Settings       *SettingsPayload          `json:"settings,omitempty"`
	Roles          []domain.Role             `json:"roles,omitempty"`
}

func identityToResponse(identity domain.Identity) *IdentityResponse {
	return &IdentityResponse{
		ID:    identity.ID,
		Name:  identity.Name,
		Email: identity.Email,
		Role:  string(identity.Role),
	}
}

func settingsToPayload(s domain.Settings) *SettingsPayload {
	return &SettingsPayload{
		Notifications: NotificationsPayload{
			JobComplete:    s.Notifications.JobComplete,
			NewFeatures:    s.Notifications.NewFeatures,
			WeeklyReport:   s.Notifications.WeeklyReport,
			SecurityAlerts: s.Notifications.SecurityAlerts,
		},
		Preferences: PreferencesPayload{
			Theme:       s.Preferences.Theme,
			Language:    s.Preferences.Language,
			Timezone:    s.Preferences.Timezone,
			DefaultView: s.Preferences.DefaultView,
		},
	}
}

func (p SettingsPayload) toDomain() domain.Settings {
	return domain.Settings{
		Notifications: domain.Notifications{
			JobComplete:    p.Notifications.JobComplete,
			NewFeatures:    p.Notifications.NewFeatures,
			WeeklyReport:   p.Notifications.WeeklyReport,
			SecurityAlerts: p.Notifications.SecurityAlerts,
		},
		Preferences: domain.Preferences{
			Theme:       p.Preferences.Theme,
			Language:    p.Preferences.Language,
			Timezone:    p.Preferences.Timezone,
			DefaultView: p.Preferences.DefaultView,
		},
	}
}

func jobToResponse(job domain.Job) JobResponse {
	resp := JobResponse{
		ID:           job.ID,
		Kind:         job.Kind,
		Status:       job.Status,
		Progress:     job.Progress,
		Input:        job.Input,
		Qubits:       job.Qubits,
		Circuits:     job.Circuits,
		Result:       job.Result,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    job.UpdatedAt.Format(time.RFC3339),
	}
	if job.StartedAt != nil {
		v := job.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &v
	}
	if job.FinishedAt != nil {
		v := job.FinishedAt.Format(time.RFC3339)
		resp.FinishedAt = &v
	}
	return resp
}

func jobsToResponse(list []domain.Job) []JobResponse {
	resp := make([]JobResponse, len(list))
	for i := range list {
		resp[i] = jobToResponse(list[i])
	}
	return resp
}

func moleculePageToResponse(page catalog.MoleculePage) *MoleculePageResponse {
	resp := &MoleculePageResponse{
		Items:      make([]MoleculeResponse, len(page.Items)),
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Total:      page.Total,
		Datasets:   page.Datasets,
	}
	for i, m := range page.Items {
		resp.Items[i] = MoleculeResponse{
			ID:              m.ID,
			Name:            m.Name,
			Formula:         m.Formula,
			MolecularWeight: m.MolecularWeight,
			LogP:            m.LogP,
			HBondDonors:     m.HBondDonors,
			HBondAcceptors:  m.HBondAcceptors,
			PolarSurface:    m.PolarSurface,
			RotatableBonds:  m.RotatableBonds,
			Dataset:         m.Dataset,
			Activity:        m.Activity,
			Affinity:        m.Affinity,
		}
	}
	return resp
}

func reportsToResponse(reports []domain.Report) []ReportResponse {
	resp := make([]ReportResponse, len(reports))
	for i, r := range reports {
		resp[i] = ReportResponse{
			ID:         r.ID,
			Title:      r.Title,
			Type:       r.Type,
			Date:       r.Date.Format(time.DateOnly),
			Status:     r.Status,
			Molecules:  r.Molecules,
			Hits:       r.Hits,
			Accuracy:   r.Accuracy,
			RuntimeMin: r.RuntimeMin,
			FileSizeMB: r.FileSizeMB,
		}
	}
	return resp
}

func messageToResponse(m domain.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Sender:    m.Sender,
		Content:   m.Content,
		Timestamp: m.Timestamp.Format(time.RFC3339),
	}
}

func messagesToResponse(messages []domain.Message) []MessageResponse {
	resp := make([]MessageResponse, len(messages))
	for i := range messages {
		resp[i] = messageToResponse(messages[i])
	}
	return resp
}

func exportToResponse(e storage.Export) ExportResponse {
	resp := ExportResponse{
		JobID:    e.JobID,
		Key:      e.Key,
		Location: e.Location,
		URL:      e.URL,
		Size:     e.Size,
	}
	if e.Modified != nil && !e.Modified.IsZero() {
		v := e.Modified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}

func panelToResponse(p *service.Panel) *PanelResponse {
	resp := &PanelResponse{
		Overview:       p.Overview,
		Screening:      p.Screening,
		QuantumMetrics: p.QuantumMetrics,
		Capabilities:   p.Capabilities,
		QuickQuestions: p.QuickQuestions,
	}
	if p.Jobs != nil {
		resp.Jobs = jobsToResponse(p.Jobs)
	}
	if p.Molecules != nil {
		resp.Molecules = moleculePageToResponse(*p.Molecules)
	}
	if p.Reports != nil {
		resp.Reports = reportsToResponse(p.Reports)
	}
	if p.Conversation != nil {
		resp.Conversation = messagesToResponse(p.Conversation)
	}
	if p.Identity != nil {
		resp.Profile = identityToResponse(*p.Identity)
		resp.Roles = domain.Roles()
	}
	if p.Settings != nil {
		resp.Settings = settingsToPayload(*p.Settings)
	}
	return resp
}
