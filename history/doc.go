// Package history keeps a ledger of pipeline runs in a local SQLite
// database (pure Go driver, no cgo).
//
// Each run gets one row, inserted when the run starts and updated when it
// reaches Done or Failed:
//
//	store, err := history.Open(ctx, cfg, log)
//	defer store.Close()
//	_ = store.Start(ctx, runID, "hearing.wav")
//	_ = store.Finish(ctx, runID, history.Outcome{State: "Done", ReportKey: key})
package history
