package models

import (
	"fmt"
	"strings"

	dErrors "clms/pkg/domain-errors"
)

// CognitiveLevel classifies what a skill asks of the learner.
type CognitiveLevel string

const (
	CognitiveKnowing   CognitiveLevel = "Knowing"
	CognitiveApplying  CognitiveLevel = "Applying"
	CognitiveReasoning CognitiveLevel = "Reasoning"
)

func (c CognitiveLevel) IsValid() bool {
	switch c {
	case CognitiveKnowing, CognitiveApplying, CognitiveReasoning:
		return true
	}
	return false
}

// Graph is a curriculum tree. Children keep their authored order at every level.
//
// Invariants:
//   - skill ids are unique within the graph
//   - every skill carries a known cognitive level
type Graph struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Grades []*Grade `json:"grades" yaml:"grades"`
}

type Grade struct {
	ID       string     `json:"id" yaml:"id"`
	Name     string     `json:"name" yaml:"name"`
	Subjects []*Subject `json:"subjects" yaml:"subjects"`
}

type Subject struct {
	ID      string    `json:"id" yaml:"id"`
	Name    string    `json:"name" yaml:"name"`
	Strands []*Strand `json:"strands" yaml:"strands"`
}

type Strand struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Topics []*Topic `json:"topics" yaml:"topics"`
}

type Topic struct {
	ID               string             `json:"id" yaml:"id"`
	Name             string             `json:"name" yaml:"name"`
	LearningOutcomes []*LearningOutcome `json:"learning_outcomes" yaml:"learning_outcomes"`
}

type LearningOutcome struct {
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	Subtopics []*Subtopic `json:"subtopics" yaml:"subtopics"`
}

type Subtopic struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Skills []*Skill `json:"skills" yaml:"skills"`
}

type Skill struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	CognitiveLevel CognitiveLevel `json:"cognitive_level" yaml:"cognitive_level"`
}

// FlattenedSkill is a skill with its full ancestor path. Ancestors missing
// from the source leave their fields empty.
type FlattenedSkill struct {
	SkillID             string         `json:"skill_id"`
	SkillName           string         `json:"skill_name"`
	CognitiveLevel      CognitiveLevel `json:"cognitive_level"`
	GraphID             string         `json:"graph_id"`
	GraphName           string         `json:"graph_name"`
	GradeID             string         `json:"grade_id"`
	GradeName           string         `json:"grade_name"`
	SubjectID           string         `json:"subject_id"`
	SubjectName         string         `json:"subject_name"`
	StrandID            string         `json:"strand_id"`
	StrandName          string         `json:"strand_name"`
	TopicID             string         `json:"topic_id"`
	TopicName           string         `json:"topic_name"`
	LearningOutcomeID   string         `json:"learning_outcome_id"`
	LearningOutcomeName string         `json:"learning_outcome_name"`
	SubtopicID          string         `json:"subtopic_id"`
	SubtopicName        string         `json:"subtopic_name"`
}

// Summary is the listing view of a stored graph.
type Summary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SkillCount int    `json:"skill_count"`
}

// Validate checks the graph's write-time invariants.
func (g *Graph) Validate() error {
	if g == nil {
		return dErrors.New(dErrors.CodeValidation, "graph is required")
	}
	if strings.TrimSpace(g.ID) == "" {
		return dErrors.New(dErrors.CodeValidation, "graph id is required")
	}
	if strings.TrimSpace(g.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "graph name is required")
	}

	seen := make(map[string]struct{})
	var problem error
	g.eachSkill(func(s *Skill) bool {
		switch {
		case strings.TrimSpace(s.ID) == "":
			problem = dErrors.New(dErrors.CodeValidation, "skill id is required")
		case !s.CognitiveLevel.IsValid():
			problem = dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("skill %s has unknown cognitive level %q", s.ID, s.CognitiveLevel))
		default:
			if _, dup := seen[s.ID]; dup {
				problem = dErrors.New(dErrors.CodeValidation, fmt.Sprintf("duplicate skill id %s", s.ID))
			}
			seen[s.ID] = struct{}{}
		}
		return problem == nil
	})
	return problem
}

// SkillCount returns the number of skills in the graph.
func (g *Graph) SkillCount() int {
	n := 0
	g.eachSkill(func(*Skill) bool {
		n++
		return true
	})
	return n
}

// eachSkill visits skills in authored order until fn returns false.
func (g *Graph) eachSkill(fn func(*Skill) bool) {
	if g == nil {
		return
	}
	for _, gr := range g.Grades {
		if gr == nil {
			continue
		}
		for _, su := range gr.Subjects {
			if su == nil {
				continue
			}
			for _, st := range su.Strands {
				if st == nil {
					continue
				}
				for _, tp := range st.Topics {
					if tp == nil {
						continue
					}
					for _, lo := range tp.LearningOutcomes {
						if lo == nil {
							continue
						}
						for _, sub := range lo.Subtopics {
							if sub == nil {
								continue
							}
							for _, sk := range sub.Skills {
								if sk == nil {
									continue
								}
								if !fn(sk) {
									return
								}
							}
						}
					}
				}
			}
		}
	}
}
