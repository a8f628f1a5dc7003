// Package flatten projects knowledge graphs into searchable skill rows.
package flatten

import (
	"strings"

	"clms/internal/knowledgegraph/models"
)

// DefaultSearchLimit caps autocomplete results.
const DefaultSearchLimit = 20

// Flatten walks the graphs depth first and emits one row per skill, keeping
// authored order at every level. Nil nodes are skipped; the input is not
// modified.
func Flatten(graphs ...*models.Graph) []models.FlattenedSkill {
	var out []models.FlattenedSkill
	for _, g := range graphs {
		if g == nil {
			continue
		}
		row := models.FlattenedSkill{GraphID: g.ID, GraphName: g.Name}
		for _, gr := range g.Grades {
			if gr == nil {
				continue
			}
			row.GradeID, row.GradeName = gr.ID, gr.Name
			for _, su := range gr.Subjects {
				if su == nil {
					continue
				}
				row.SubjectID, row.SubjectName = su.ID, su.Name
				for _, st := range su.Strands {
					if st == nil {
						continue
					}
					row.StrandID, row.StrandName = st.ID, st.Name
					for _, tp := range st.Topics {
						if tp == nil {
							continue
						}
						row.TopicID, row.TopicName = tp.ID, tp.Name
						for _, lo := range tp.LearningOutcomes {
							if lo == nil {
								continue
							}
							row.LearningOutcomeID, row.LearningOutcomeName = lo.ID, lo.Name
							for _, sub := range lo.Subtopics {
								if sub == nil {
									continue
								}
								row.SubtopicID, row.SubtopicName = sub.ID, sub.Name
								for _, sk := range sub.Skills {
									if sk == nil {
										continue
									}
									row.SkillID, row.SkillName, row.CognitiveLevel = sk.ID, sk.Name, sk.CognitiveLevel
									out = append(out, row)
								}
							}
						}
					}
				}
			}
		}
	}
	return out
}

// Search returns up to limit skills whose id contains query, ignoring case,
// in traversal order. A limit outside (0, DefaultSearchLimit] uses the default.
// An empty query matches every skill.
func Search(skills []models.FlattenedSkill, query string, limit int) []models.FlattenedSkill {
	if limit <= 0 || limit > DefaultSearchLimit {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(query)

	out := make([]models.FlattenedSkill, 0, min(limit, len(skills)))
	for _, s := range skills {
		if len(out) == limit {
			break
		}
		if q == "" || strings.Contains(strings.ToLower(s.SkillID), q) {
			out = append(out, s)
		}
	}
	return out
}
