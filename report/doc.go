// Package report turns the diarized transcript, the retrieved articles and
// the NLP summary into a generation prompt, and parses the model's free
// text answer into a summary and a list of recommendations.
package report
