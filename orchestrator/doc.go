// Package orchestrator runs one recording through the whole pipeline:
// normalize and validate, segment into chunks, transcribe each chunk,
// diarize, fuse speakers onto the transcript, analyse, retrieve articles,
// compose the report and persist it.
//
// A run is an explicit state machine:
//
//	Idle → Validating → Segmenting → Transcribing → Diarizing → Analyzing
//	     → Retrieving → Composing → Persisting → Done
//
// Any non-terminal state may move to Failed. StateObservers see every
// transition. Collaborators are injected through Dependencies; there are no
// retries, and a failed run persists nothing.
package orchestrator
