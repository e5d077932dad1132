package catalog

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantum-pipeline/internal/domain"
)

var formulaPattern = regexp.MustCompile(`^C\d+H\d+N\d+O\d+$`)

func TestMolecules_StableAndInRange(t *testing.T) {
	seed := SeedFor("session-1")
	a := Molecules(seed)
	b := Molecules(seed)
	require.Len(t, a, 50)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Molecules(SeedFor("session-2")))

	assert.Equal(t, "MOL-0001", a[0].ID)
	assert.Equal(t, "MOL-0050", a[49].ID)
	for _, m := range a {
		assert.Regexp(t, formulaPattern, m.Formula)
		assert.GreaterOrEqual(t, m.MolecularWeight, 150.0)
		assert.LessOrEqual(t, m.MolecularWeight, 500.0)
		assert.GreaterOrEqual(t, m.Affinity, -12.0)
		assert.LessOrEqual(t, m.Affinity, -4.0)
		assert.Contains(t, Datasets, m.Dataset)
		assert.Contains(t, []string{"Active", "Inactive", "Moderate"}, m.Activity)
	}
}

func TestReports(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	reports := Reports(7, now)
	require.Len(t, reports, 15)
	for _, r := range reports {
		assert.True(t, strings.HasSuffix(r.Title, " Report"))
		assert.False(t, r.Date.After(now))
		assert.False(t, r.Date.Before(now.AddDate(0, 0, -31)))
		assert.Contains(t, []string{"completed", "processing", "failed"}, r.Status)
	}
}

func sampleMolecules() []domain.Molecule {
	var out []domain.Molecule
	for i := 0; i < 23; i++ {
		ds := "ZINC"
		if i%2 == 1 {
			ds = "PubChem"
		}
		out = append(out, domain.Molecule{
			ID:      "MOL-" + string(rune('A'+i)),
			Name:    "Carbon",
			Formula: "C6H12N1O6",
			Dataset: ds,
		})
	}
	out[3].Name = "Zincite"
	return out
}

func TestQueryMolecules(t *testing.T) {
	mols := sampleMolecules()

	t.Run("paginates", func(t *testing.T) {
		page := QueryMolecules(mols, MoleculeQuery{Page: 3})
		assert.Equal(t, 3, page.Page)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 23, page.Total)
		assert.Len(t, page.Items, 3)
	})

	t.Run("clamps page", func(t *testing.T) {
		assert.Equal(t, 3, QueryMolecules(mols, MoleculeQuery{Page: 99}).Page)
		assert.Equal(t, 1, QueryMolecules(mols, MoleculeQuery{Page: -4}).Page)
	})

	t.Run("filters dataset", func(t *testing.T) {
		page := QueryMolecules(mols, MoleculeQuery{Dataset: "PubChem"})
		assert.Equal(t, 11, page.Total)
		for _, m := range page.Items {
			assert.Equal(t, "PubChem", m.Dataset)
		}
	})

	t.Run("search is case-insensitive over name formula and id", func(t *testing.T) {
		assert.Equal(t, 1, QueryMolecules(mols, MoleculeQuery{Search: "zincITE"}).Total)
		assert.Equal(t, 23, QueryMolecules(mols, MoleculeQuery{Search: "c6h12"}).Total)
		assert.Equal(t, 1, QueryMolecules(mols, MoleculeQuery{Search: "mol-b"}).Total)
	})

	t.Run("no matches", func(t *testing.T) {
		page := QueryMolecules(mols, MoleculeQuery{Search: "uranium", Page: 2})
		assert.Equal(t, 0, page.Total)
		assert.Equal(t, 0, page.TotalPages)
		assert.Equal(t, 1, page.Page)
		assert.Empty(t, page.Items)
	})

	t.Run("dataset counts", func(t *testing.T) {
		counts := CountDatasets(mols)
		require.Len(t, counts, 5)
		assert.Equal(t, DatasetCount{Name: "all", Label: "All Datasets", Count: 23}, counts[0])
		assert.Equal(t, 12, counts[1].Count)
		assert.Equal(t, 11, counts[3].Count)
	})
}

func TestStaticPanels(t *testing.T) {
	assert.Len(t, OverviewPanel().Stats, 4)
	assert.Len(t, OverviewPanel().Activity, 7)
	total := 0
	for _, b := range ScreeningDistribution() {
		total += b.Count
	}
	assert.Equal(t, 1000, total)
	assert.Len(t, QuantumMetrics(), 7)
	assert.Len(t, QuantumCapabilities(), 6)
}
