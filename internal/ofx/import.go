package ofx

import (
	"context"
	"log/slog"

	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/service"
)

// Progress receives one tick per processed entry. A
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(n int) error
}

// Failure is an entry the backend rejected.
type Failure struct {
	Err   error
	Entry Entry
}

// Result summarizes an import.
type Result struct {
	Failed     []Failure
	Created    int
	Duplicates int
}

// Dedupe drops entries already present in existing or repeated within the
// statement, matching on the payload hash.
func Dedupe(entries []Entry, existing []model.Transaction) (fresh []Entry, duplicates int) {
	seen := make(map[string]bool, len(existing)+len(entries))
	for _, tx := range existing {
		seen[tx.Payload().Hash()] = true
	}

	fresh = make([]Entry, 0, len(entries))
	for _, e := range entries {
		h := e.Payload.Hash()
		if seen[h] {
			duplicates++
			continue
		}
		seen[h] = true
		fresh = append(fresh, e)
	}
	return fresh, duplicates
}

// Import posts entries one by one. A rejected entry is recorded and the
// import goes on; a cancelled context stops it.
func Import(ctx context.Context, w service.Writer, entries []Entry, progress Progress, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var res Result
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if _, err := w.CreateTransaction(ctx, e.Payload); err != nil {
			logger.Warn("failed to import transaction",
				"fitid", e.FitID,
				"description", e.Payload.Description,
				"error", err)
			res.Failed = append(res.Failed, Failure{Entry: e, Err: err})
		} else {
			res.Created++
		}

		if progress != nil {
			_ = progress.Add(1)
		}
	}
	return res, nil
}
