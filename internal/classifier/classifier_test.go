package classifier_test

import (
	"context"
	"studyMate/internal/classifier"
	"studyMate/internal/models/task"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyword_Classify(t *testing.T) {
	tests := []struct {
		input string
		want  classifier.Suggestion
	}{
		{
			input: "Study Math for 2 hours",
			want:  classifier.Suggestion{Duration: 120, Type: task.TypeStudy, Category: "Math", Priority: task.PriorityMedium},
		},
		{
			input: "Deep work on CS project 30 min",
			want:  classifier.Suggestion{Duration: 30, Type: task.TypeFocus, Category: "CS", Priority: task.PriorityHigh},
		},
		{
			input: "Lunch break maybe",
			want:  classifier.Suggestion{Duration: 60, Type: task.TypeBreak, Category: "General", Priority: task.PriorityLow},
		},
		{
			input: "History essay for exam, 15 min",
			want:  classifier.Suggestion{Duration: 15, Type: task.TypeStudy, Category: "History", Priority: task.PriorityHigh},
		},
		{
			input: "Meet study group for an hour",
			want:  classifier.Suggestion{Duration: 60, Type: task.TypeEvent, Category: "General", Priority: task.PriorityMedium},
		},
		{
			input: "Focus later on calc",
			want:  classifier.Suggestion{Duration: 60, Type: task.TypeFocus, Category: "Math", Priority: task.PriorityHigh},
		},
		{
			input: "READ NOTES",
			want:  classifier.Suggestion{Duration: 60, Type: task.TypeStudy, Category: "General", Priority: task.PriorityMedium},
		},
	}

	k := classifier.NewKeyword()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := k.Classify(context.Background(), tt.input)
			require.NoError(t, err)

			tt.want.Title = tt.input
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestion_Draft(t *testing.T) {
	s := classifier.Suggestion{Title: "x", Duration: 30, Type: task.TypeBreak, Category: "General", Priority: task.PriorityLow}
	d := s.Draft()

	assert.Equal(t, "x", d.Title)
	assert.Equal(t, 30, d.Duration)
	assert.Equal(t, task.TypeBreak, d.Type)
	assert.Empty(t, d.StartTime)
	assert.True(t, d.Date.IsZero())
}

var _ classifier.Classifier = (*classifier.Keyword)(nil)
