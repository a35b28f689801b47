package diarization

import "github.com/kbukum/legalassist/transcription"

// UnknownSpeaker labels transcript segments that no speaker interval overlaps.
const UnknownSpeaker = "inconnu"

// Overlap returns the length of the intersection of [aStart, aEnd) and
// [bStart, bEnd), or 0 when they are disjoint.
func Overlap(aStart, aEnd, bStart, bEnd float64) float64 {
	return max(0, min(aEnd, bEnd)-max(aStart, bStart))
}

// Fuse assigns each transcript segment the speaker whose interval overlaps
// it the most. Intervals are scanned in the given order and only a strictly
// greater overlap replaces the current best, so the first interval wins
// ties. A segment with no positive overlap gets UnknownSpeaker.
func Fuse(transcript []transcription.Segment, speakers []Segment) []SpeakerSegment {
	out := make([]SpeakerSegment, len(transcript))
	for i, seg := range transcript {
		best := -1
		bestOverlap := 0.0
		for j, sp := range speakers {
			if ov := Overlap(seg.Start, seg.End, sp.Start, sp.End); ov > bestOverlap {
				best, bestOverlap = j, ov
			}
		}

		speaker := UnknownSpeaker
		if best >= 0 {
			if label := speakers[best].Label(); label != "" {
				speaker = label
			}
		}
		out[i] = SpeakerSegment{Speaker: speaker, Text: seg.Text, Start: seg.Start, End: seg.End}
	}
	return out
}
