package catalog

import (
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"quantum-pipeline/internal/domain"
)

const (
	moleculeCount = 50
	reportCount   = 15
)

// Datasets are the molecule sources shown in the explorer filter.
var Datasets = []string{"ZINC", "ChEMBL", "PubChem", "DrugBank"}

var (
	activities    = []string{"Active", "Inactive", "Moderate"}
	reportTitles  = []string{"Quantum Enhanced", "Virtual Screening", "Molecular Docking", "Dataset Analysis"}
	reportTypes   = []string{"docking", "screening", "quantum", "analysis"}
	reportStatus  = []string{"completed", "processing", "failed"}
	elementNames  = []string{"Hydrogen", "Carbon", "Nitrogen", "Oxygen", "Fluorine", "Sodium", "Magnesium", "Phosphorus", "Sulfur", "Chlorine", "Potassium", "Calcium", "Iron", "Copper", "Zinc", "Bromine", "Iodine", "Lithium", "Boron", "Selenium"}
	elementSymbol = []string{"H", "C", "N", "O", "F", "Na", "Mg", "P", "S", "Cl", "K", "Ca", "Fe", "Cu", "Zn", "Br", "I", "Li", "B", "Se"}
)

// SeedFor derives a stable generator seed from a session id so that a
// client sees the same dataset while its session lasts.
func SeedFor(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

// Molecules generates the explorer dataset for seed.
func Molecules(seed uint64) []domain.Molecule {
	f := gofakeit.New(seed)
	out := make([]domain.Molecule, moleculeCount)
	for i := range out {
		first := f.IntRange(0, len(elementNames)-1)
		second := f.IntRange(0, len(elementSymbol)-1)
		out[i] = domain.Molecule{
			ID:      fmt.Sprintf("MOL-%04d", i+1),
			Name:    elementNames[first] + elementSymbol[second],
			Formula: fmt.Sprintf("C%dH%dN%dO%d", f.IntRange(5, 20), f.IntRange(8, 30), f.IntRange(1, 5), f.IntRange(1, 8)),

			MolecularWeight: round1(f.Float64Range(150, 500)),
			LogP:            round1(f.Float64Range(-2, 6)),
			HBondDonors:     f.IntRange(0, 5),
			HBondAcceptors:  f.IntRange(1, 10),
			PolarSurface:    round1(f.Float64Range(20, 150)),
			RotatableBonds:  f.IntRange(0, 15),
			Dataset:         f.RandomString(Datasets),
			Activity:        f.RandomString(activities),
			Affinity:        round1(f.Float64Range(-12, -4)),
		}
	}
	return out
}

// Reports generates the results panel listing for seed, dated within the
// thirty days before now.
func Reports(seed uint64, now time.Time) []domain.Report {
	f := gofakeit.New(seed)
	from := now.AddDate(0, 0, -30)
	out := make([]domain.Report, reportCount)
	for i := range out {
		out[i] = domain.Report{
			ID:         fmt.Sprintf("RPT-%04d", i+1),
			Title:      f.RandomString(reportTitles) + " Report",
			Type:       f.RandomString(reportTypes),
			Date:       f.DateRange(from, now).UTC().Truncate(24 * time.Hour),
			Status:     f.RandomString(reportStatus),
			Molecules:  f.IntRange(100, 10000),
			Hits:       f.IntRange(5, 150),
			Accuracy:   round1(f.Float64Range(85, 99)),
			RuntimeMin: f.IntRange(5, 240),
			FileSizeMB: round1(f.Float64Range(1.2, 45.8)),
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
