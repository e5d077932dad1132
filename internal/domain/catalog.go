package domain

import "time"

// Molecule is a generated entry of the dataset explorer.
type Molecule struct {
	ID              string
	Name            string
	Formula         string
	MolecularWeight float64
	LogP            float64
	HBondDonors     int
	HBondAcceptors  int
	PolarSurface    float64
	RotatableBonds  int
	Dataset         string
	Activity        string
	Affinity        float64
}

// Report is a generated entry of the results panel.
type Report struct {
	ID         string
	Title      string
	Type       string
	Date       time.Time
	Status     string
	Molecules  int
	Hits       int
	Accuracy   float64
	RuntimeMin int
	FileSizeMB float64
}

// Message is one entry of an assistant conversation.
type Message struct {
	ID        string
	Sender    string
	Content   string
	Timestamp time.Time
}

const (
	SenderBot  = "bot"
	SenderUser = "user"
)
