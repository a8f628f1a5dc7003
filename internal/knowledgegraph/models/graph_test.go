package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "clms/pkg/domain-errors"
)

func graphWithSkills(skills ...*Skill) *Graph {
	return &Graph{
		ID:   "g1",
		Name: "Science",
		Grades: []*Grade{{ID: "gr1", Subjects: []*Subject{{ID: "sci", Strands: []*Strand{{ID: "s",
			Topics: []*Topic{{ID: "t", LearningOutcomes: []*LearningOutcome{{ID: "lo",
				Subtopics: []*Subtopic{{ID: "st", Skills: skills}}}}}}}}}}}},
	}
}

func TestGraphValidate(t *testing.T) {
	tests := []struct {
		name    string
		graph   *Graph
		wantErr string
	}{
		{"valid", graphWithSkills(&Skill{ID: "A", CognitiveLevel: CognitiveKnowing}), ""},
		{"nil graph", nil, "graph is required"},
		{"missing id", &Graph{Name: "x"}, "graph id is required"},
		{"missing name", &Graph{ID: "x"}, "graph name is required"},
		{"duplicate skill", graphWithSkills(
			&Skill{ID: "A", CognitiveLevel: CognitiveKnowing},
			&Skill{ID: "A", CognitiveLevel: CognitiveApplying},
		), "duplicate skill id A"},
		{"unknown level", graphWithSkills(&Skill{ID: "A", CognitiveLevel: "Guessing"}), "unknown cognitive level"},
		{"blank skill id", graphWithSkills(&Skill{ID: " ", CognitiveLevel: CognitiveKnowing}), "skill id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.graph.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSkillCount(t *testing.T) {
	g := graphWithSkills(&Skill{ID: "A"}, nil, &Skill{ID: "B"})
	assert.Equal(t, 2, g.SkillCount())
	var empty *Graph
	assert.Zero(t, empty.SkillCount())
}
