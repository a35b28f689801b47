package diarization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/legalassist/transcription"
)

func TestFuse_LargestOverlapWins(t *testing.T) {
	transcript := []transcription.Segment{{Text: "la séance est ouverte", Start: 2, End: 5}}
	speakers := []Segment{
		{Speaker: "X", Start: 0, End: 3},
		{Speaker: "Y", Start: 3, End: 6},
	}

	got := Fuse(transcript, speakers)
	require.Len(t, got, 1)
	assert.Equal(t, SpeakerSegment{Speaker: "Y", Text: "la séance est ouverte", Start: 2, End: 5}, got[0])
}

func TestFuse_Table(t *testing.T) {
	tests := []struct {
		name     string
		seg      transcription.Segment
		speakers []Segment
		want     string
	}{
		{
			name:     "tie keeps first seen",
			seg:      transcription.Segment{Start: 2, End: 4},
			speakers: []Segment{{Speaker: "A", Start: 1, End: 3}, {Speaker: "B", Start: 3, End: 5}},
			want:     "A",
		},
		{
			name:     "no overlap is unknown",
			seg:      transcription.Segment{Start: 10, End: 12},
			speakers: []Segment{{Speaker: "A", Start: 0, End: 5}},
			want:     UnknownSpeaker,
		},
		{
			name:     "touching boundary is zero overlap",
			seg:      transcription.Segment{Start: 5, End: 8},
			speakers: []Segment{{Speaker: "A", Start: 0, End: 5}},
			want:     UnknownSpeaker,
		},
		{
			name:     "no speakers at all",
			seg:      transcription.Segment{Start: 0, End: 1},
			speakers: nil,
			want:     UnknownSpeaker,
		},
		{
			name:     "track id fallback",
			seg:      transcription.Segment{Start: 0, End: 2},
			speakers: []Segment{{TrackID: "T3", Start: 0, End: 2}},
			want:     "T3",
		},
		{
			name:     "empty label and track is unknown",
			seg:      transcription.Segment{Start: 0, End: 2},
			speakers: []Segment{{Start: 0, End: 2}},
			want:     UnknownSpeaker,
		},
		{
			name: "overlapping intervals pick containing one",
			seg:  transcription.Segment{Start: 4, End: 9},
			speakers: []Segment{
				{Speaker: "JUGE", Start: 0, End: 5},
				{Speaker: "AVOCAT", Start: 3, End: 10},
				{Speaker: "TEMOIN", Start: 8, End: 9},
			},
			want: "AVOCAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fuse([]transcription.Segment{tt.seg}, tt.speakers)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Speaker)
		})
	}
}

func TestFuse_OnePerSegmentInOrder(t *testing.T) {
	transcript := []transcription.Segment{
		{Text: "a", Start: 0, End: 1},
		{Text: "b", Start: 1, End: 2},
		{Text: "c", Start: 50, End: 51},
	}
	speakers := []Segment{{Speaker: "S1", Start: 0, End: 1.2}, {Speaker: "S2", Start: 1.2, End: 3}}

	got := Fuse(transcript, speakers)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"S1", "S2", UnknownSpeaker}, []string{got[0].Speaker, got[1].Speaker, got[2].Speaker})
	assert.Equal(t, "c", got[2].Text)
	assert.Equal(t, 50.0, got[2].Start)
}

func TestOverlap(t *testing.T) {
	assert.Equal(t, 1.0, Overlap(2, 5, 0, 3))
	assert.Equal(t, 2.0, Overlap(2, 5, 3, 6))
	assert.Equal(t, 0.0, Overlap(0, 1, 2, 3))
}
