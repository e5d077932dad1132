package catalog

import (
	"strings"

	"quantum-pipeline/internal/domain"
)

// PageSize is the number of molecules shown per explorer page.
const PageSize = 10

// AllDatasets is the filter value that disables dataset filtering.
const AllDatasets = "all"

type MoleculeQuery struct {
	Search  string
	Dataset string
	Page    int
}

type DatasetCount struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type MoleculePage struct {
	Items      []domain.Molecule
	Page       int
	TotalPages int
	Total      int
	Datasets   []DatasetCount
}

var datasetLabels = map[string]string{
	AllDatasets: "All Datasets",
	"ZINC":      "ZINC Database",
	"ChEMBL":    "ChEMBL",
	"PubChem":   "PubChem",
	"DrugBank":  "DrugBank",
}

// QueryMolecules filters molecules by a case-insensitive search over
// name, formula and id plus an optional dataset, then returns one page.
// The page number is clamped to the available range.
func QueryMolecules(molecules []domain.Molecule, q MoleculeQuery) MoleculePage {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	dataset := strings.TrimSpace(q.Dataset)
	if dataset == "" {
		dataset = AllDatasets
	}

	matched := make([]domain.Molecule, 0, len(molecules))
	for _, m := range molecules {
		if dataset != AllDatasets && m.Dataset != dataset {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(m.Name), search) &&
			!strings.Contains(strings.ToLower(m.Formula), search) &&
			!strings.Contains(strings.ToLower(m.ID), search) {
			continue
		}
		matched = append(matched, m)
	}

	totalPages := (len(matched) + PageSize - 1) / PageSize
	page := q.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * PageSize
	end := min(start+PageSize, len(matched))
	items := []domain.Molecule{}
	if start < end {
		items = matched[start:end]
	}

	return MoleculePage{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		Total:      len(matched),
		Datasets:   CountDatasets(molecules),
	}
}

// CountDatasets tallies molecules per dataset, led by the "all" entry.
func CountDatasets(molecules []domain.Molecule) []DatasetCount {
	counts := map[string]int{}
	for _, m := range molecules {
		counts[m.Dataset]++
	}
	out := []DatasetCount{{Name: AllDatasets, Label: datasetLabels[AllDatasets], Count: len(molecules)}}
	for _, name := range Datasets {
		out = append(out, DatasetCount{Name: name, Label: datasetLabels[name], Count: counts[name]})
	}
	return out
}
