// Package trace records and replays touch sessions.
//
// A Recorder sits in front of a pointer tracker and logs every input call
// with its offset from the start of the recording. Traces are saved as YAML
// and can be replayed against a fresh tracker on a manual clock, so hold
// timeouts fire exactly where they fired during the recording.
//
// Basic usage:
//
//	rec := trace.NewRecorder(tracker, l, loop)
//	rec.SetWidth(width)
//	rec.Start()
//	// ... touches flow through rec ...
//	tr := rec.Stop()
//	trace.Save(tr, "session.yaml")
//
// Replay:
//
//	tr, err := trace.Load("session.yaml")
//	clock := timeline.NewManual(time.Now())
//	tracker := pointer.New(d, clock)
//	p := trace.NewPlayer(l)
//	p.SetWidth(width)
//	err = p.Replay(ctx, tr, tracker, clock)
package trace
