// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package coverage

// Stats summarizes a coverage grid. Value fields are nil when no cell is
// covered, since min/max/mean of an empty set is undefined.
type Stats struct {
	CoveragePercent float64  `json:"coverage_percent"`
	TotalCells      int      `json:"total_cells"`
	CoveredCells    int      `json:"covered_cells"`
	UncoveredCells  int      `json:"uncovered_cells"`
	MinValue        *float64 `json:"min_value,omitempty"`
	MaxValue        *float64 `json:"max_value,omitempty"`
	MeanValue       *float64 `json:"mean_value,omitempty"`
}

// Stats computes cell counts, the area-weighted coverage percentage, and the
// spread of visit values across covered cells.
func (a *Analyzer) Stats(grid [][]float64) (Stats, error) {
	frac, err := a.Fraction(grid)
	if err != nil {
		return Stats{}, err
	}

	s := Stats{
		CoveragePercent: frac * 100.0,
		TotalCells:      a.height * a.width,
	}

	var sum float64
	for r := range grid {
		for _, v := range grid[r] {
			if v == 0 {
				continue
			}
			if s.CoveredCells == 0 {
				minV, maxV := v, v
				s.MinValue, s.MaxValue = &minV, &maxV
			} else {
				if v < *s.MinValue {
					*s.MinValue = v
				}
				if v > *s.MaxValue {
					*s.MaxValue = v
				}
			}
			s.CoveredCells++
			sum += v
		}
	}
	s.UncoveredCells = s.TotalCells - s.CoveredCells
	if s.CoveredCells > 0 {
		mean := sum / float64(s.CoveredCells)
		s.MeanValue = &mean
	}
	return s, nil
}
