package calculator

import "RainSentinel/internal/model"

// SplitWindow partitions the window into consecutive sub-windows of at most one year.
// Each chunk ends the day before the same calendar date one year after it starts, or at
// the window end, whichever comes first; the next chunk starts the following day.
func SplitWindow(w model.ReportWindow) []model.ReportWindow {
	start := model.Day(w.Start)
	end := model.Day(w.End)

	var chunks []model.ReportWindow
	for chunkStart := start; !chunkStart.After(end); {
		chunkEnd := chunkStart.AddDate(1, 0, 0).AddDate(0, 0, -1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		chunks = append(chunks, model.ReportWindow{Start: chunkStart, End: chunkEnd})
		chunkStart = chunkEnd.AddDate(0, 0, 1)
	}
	return chunks
}
