package qset

import (
	"time"

	"github.com/vkuzmenko/citescope/internal/model"
)

// ComputeKPIs reduces one platform's observations over a window into the
// three tracked ratios. Share of voice divides by every probe including
// failed ones, so an outage shows up as lost share; coverage and accuracy
// skip failed probes and read as missing data instead.
func ComputeKPIs(platform string, observations []model.CitationObservation, start, end time.Time) model.KPIReport {
	report := model.KPIReport{
		Platform:    platform,
		WindowStart: start,
		WindowEnd:   end,
	}

	var cited, shown, accurate, relevant int
	for _, obs := range observations {
		if obs.Platform != platform {
			continue
		}
		if !obs.ObservedAt.IsZero() && (obs.ObservedAt.Before(start) || obs.ObservedAt.After(end)) {
			continue
		}
		report.TotalProbes++
		if obs.Failed {
			report.FailedProbes++
			continue
		}
		relevant++
		if obs.Cited {
			cited++
		}
		if obs.SourceShown {
			shown++
		}
		if obs.Accurate {
			accurate++
		}
	}

	if report.TotalProbes > 0 {
		report.ShareOfVoice = float64(cited) / float64(report.TotalProbes)
	}
	if relevant > 0 {
		report.AnswerCoverage = float64(shown) / float64(relevant)
	}
	if cited > 0 {
		report.CitationAccuracy = float64(accurate) / float64(cited)
	}
	return report
}

// Compare pairs two windows and lists which questions changed citation
// status between them
func Compare(platform string, entries []model.QSetEntry,
	current, previous []model.CitationObservation,
	currentStart, currentEnd, previousStart, previousEnd time.Time) model.KPIComparison {

	cmp := model.KPIComparison{
		Current:  ComputeKPIs(platform, current, currentStart, currentEnd),
		Previous: ComputeKPIs(platform, previous, previousStart, previousEnd),
	}

	nowCited := citedByEntry(platform, current)
	wasCited := citedByEntry(platform, previous)

	for _, entry := range entries {
		was, now := wasCited[entry.ID], nowCited[entry.ID]
		if was == now {
			continue
		}
		delta := model.EntryDelta{
			EntryID:  entry.ID,
			Question: entry.Question,
			Platform: platform,
			WasCited: was,
			NowCited: now,
		}
		if now {
			cmp.Regained = append(cmp.Regained, delta)
		} else {
			cmp.Lost = append(cmp.Lost, delta)
		}
	}
	return cmp
}

// citedByEntry marks an entry cited if any successful probe in the window
// saw a citation
func citedByEntry(platform string, observations []model.CitationObservation) map[string]bool {
	out := make(map[string]bool)
	for _, obs := range observations {
		if obs.Platform != platform || obs.Failed {
			continue
		}
		if obs.Cited {
			out[obs.EntryID] = true
		}
	}
	return out
}
