// Package catalog produces the content shown on the dashboard panels.
package catalog

type Stat struct {
	Title  string `json:"title"`
	Value  string `json:"value"`
	Change string `json:"change"`
}

type ActivityPoint struct {
	Day       string `json:"day"`
	Docking   int    `json:"docking"`
	Screening int    `json:"screening"`
	Quantum   int    `json:"quantum"`
}

type RecentJob struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Time     string `json:"time"`
	Accuracy string `json:"accuracy"`
}

type Overview struct {
	Stats      []Stat          `json:"stats"`
	Activity   []ActivityPoint `json:"activity"`
	RecentJobs []RecentJob     `json:"recent_jobs"`
}

type ScreeningBucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type QuantumMetric struct {
	Day       string `json:"day"`
	Classical int    `json:"classical"`
	Quantum   int    `json:"quantum"`
	Advantage int    `json:"advantage"`
}

type Capability struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func OverviewPanel() Overview {
	return Overview{
		Stats: []Stat{
			{Title: "Molecules Screened", Value: "12,847", Change: "+23%"},
			{Title: "Successful Dockings", Value: "8,432", Change: "+18%"},
			{Title: "Quantum Jobs", Value: "156", Change: "+45%"},
			{Title: "Active Datasets", Value: "24", Change: "+8%"},
		},
		Activity: []ActivityPoint{
			{Day: "Mon", Docking: 120, Screening: 80, Quantum: 10},
			{Day: "Tue", Docking: 140, Screening: 95, Quantum: 15},
			{Day: "Wed", Docking: 160, Screening: 110, Quantum: 12},
			{Day: "Thu", Docking: 180, Screening: 125, Quantum: 18},
			{Day: "Fri", Docking: 200, Screening: 140, Quantum: 22},
			{Day: "Sat", Docking: 90, Screening: 60, Quantum: 8},
			{Day: "Sun", Docking: 75, Screening: 45, Quantum: 5},
		},
		RecentJobs: []RecentJob{
			{ID: "QD-001", Type: "Molecular Docking", Status: "completed", Time: "2 hours ago", Accuracy: "94.2%"},
			{ID: "VS-042", Type: "Virtual Screening", Status: "running", Time: "30 min ago", Accuracy: "87.8%"},
			{ID: "QM-018", Type: "Quantum Enhancement", Status: "pending", Time: "1 hour ago", Accuracy: "91.5%"},
			{ID: "DD-095", Type: "Dataset Analysis", Status: "completed", Time: "3 hours ago", Accuracy: "96.1%"},
		},
	}
}

func ScreeningDistribution() []ScreeningBucket {
	return []ScreeningBucket{
		{Name: "Excellent", Count: 45},
		{Name: "Good", Count: 128},
		{Name: "Average", Count: 234},
		{Name: "Poor", Count: 593},
	}
}

func QuantumMetrics() []QuantumMetric {
	return []QuantumMetric{
		{Day: "Mon", Classical: 65, Quantum: 85, Advantage: 20},
		{Day: "Tue", Classical: 68, Quantum: 89, Advantage: 21},
		{Day: "Wed", Classical: 72, Quantum: 94, Advantage: 22},
		{Day: "Thu", Classical: 70, Quantum: 92, Advantage: 22},
		{Day: "Fri", Classical: 75, Quantum: 98, Advantage: 23},
		{Day: "Sat", Classical: 69, Quantum: 91, Advantage: 22},
		{Day: "Sun", Classical: 71, Quantum: 95, Advantage: 24},
	}
}

func QuantumCapabilities() []Capability {
	return []Capability{
		{Name: "Superposition", Value: 95},
		{Name: "Entanglement", Value: 88},
		{Name: "Coherence", Value: 92},
		{Name: "Error Rate", Value: 85},
		{Name: "Speed", Value: 90},
		{Name: "Accuracy", Value: 94},
	}
}
