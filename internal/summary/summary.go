// Package summary aggregates a student's per-sentence results.
package summary

import (
	"math"

	"sentencescramble/internal/models"
)

// Compute aggregates results. maxAttempts <= 0 means attempts are unlimited,
// so every solved item counts as solved within the limit. The average attempt
// count covers solved items only and is rounded to two decimals.
func Compute(results []models.Result, maxAttempts int) models.Summary {
	s := models.Summary{Total: len(results)}

	solved, attempts := 0, 0
	for _, r := range results {
		if r.Revealed {
			s.Reveals++
		}
		if !r.OK {
			continue
		}

		solved++
		// Older records may lack an attempt count; only the average treats it as one.
		if r.Attempts > 0 {
			attempts += r.Attempts
		} else {
			attempts++
		}

		if maxAttempts <= 0 || r.Attempts <= maxAttempts {
			s.SolvedWithinMax++
		}
		if r.Attempts == 1 {
			s.FirstTry++
		}
	}

	if solved > 0 {
		s.AvgAttempts = round2(float64(attempts) / float64(solved))
	}
	return s
}

// Normalize returns the summary to trust for loaded progress. A stored
// summary that no longer matches the stored results is recomputed.
func Normalize(p models.StudentProgress, maxAttempts int) models.Summary {
	if p.Summary.Total != len(p.Results) {
		return Compute(p.Results, maxAttempts)
	}
	return p.Summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
