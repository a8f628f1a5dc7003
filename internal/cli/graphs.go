// Package cli holds the clmsctl commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"clms/internal/knowledgegraph/flatten"
	"clms/internal/knowledgegraph/loader"
	"clms/internal/knowledgegraph/models"
)

var (
	okColor    = color.New(color.FgHiGreen)
	errColor   = color.New(color.FgRed)
	matchColor = color.New(color.FgHiMagenta, color.Bold)
	dimColor   = color.New(color.FgHiBlack)
)

// loadGraphs reads path and keeps only graphID when it is set.
func loadGraphs(path, graphID string) ([]*models.Graph, error) {
	graphs, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if graphID == "" {
		return graphs, nil
	}
	for _, g := range graphs {
		if g.ID == graphID {
			return []*models.Graph{g}, nil
		}
	}
	return nil, fmt.Errorf("graph %q not found in %s", graphID, path)
}

// FlattenCmd prints every skill of a graph file with its ancestor path.
func FlattenCmd() *cobra.Command {
	var (
		graphID string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "flatten FILE",
		Short: "Flatten knowledge graphs into one row per skill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs, err := loadGraphs(args[0], graphID)
			if err != nil {
				return err
			}
			skills := flatten.Flatten(graphs...)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), skills)
			}
			writeSkills(cmd.OutOrStdout(), skills, "")
			return nil
		},
	}
	cmd.Flags().StringVar(&graphID, "graph", "", "only flatten this graph id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// SearchCmd runs the skill selector search against a graph file.
func SearchCmd() *cobra.Command {
	var (
		graphID string
		limit   int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "search FILE QUERY",
		Short: "Search skills by id, as the skill selector does",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs, err := loadGraphs(args[0], graphID)
			if err != nil {
				return err
			}
			skills := flatten.Search(flatten.Flatten(graphs...), args[1], limit)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), skills)
			}
			if len(skills) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimColor.Sprint("no skills match"))
				return nil
			}
			writeSkills(cmd.OutOrStdout(), skills, args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&graphID, "graph", "", "only search this graph id")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (0 uses the selector default)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// ValidateCmd checks every graph in a file and fails if any is invalid.
func ValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate knowledge graphs before loading them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs, err := loader.ParseFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			invalid := 0
			for _, g := range graphs {
				if err := g.Validate(); err != nil {
					invalid++
					fmt.Fprintf(out, "%s %s: %v\n", errColor.Sprint("FAIL"), g.ID, err)
					continue
				}
				fmt.Fprintf(out, "%s %s (%d skills)\n", okColor.Sprint("OK  "), g.ID, g.SkillCount())
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d graphs invalid", invalid, len(graphs))
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSkills(w io.Writer, skills []models.FlattenedSkill, query string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SKILL\tNAME\tLEVEL\tPATH")
	for _, s := range skills {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			highlight(s.SkillID, query),
			s.SkillName,
			s.CognitiveLevel,
			dimColor.Sprint(strings.Join(path(s), " > ")),
		)
	}
	_ = tw.Flush()
}

// path lists the non-empty ancestor names from graph to subtopic.
func path(s models.FlattenedSkill) []string {
	var out []string
	for _, name := range []string{s.GraphName, s.GradeName, s.SubjectName, s.StrandName, s.TopicName, s.LearningOutcomeName, s.SubtopicName} {
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// highlight colors the first case-insensitive occurrence of query in id.
func highlight(id, query string) string {
	q := strings.ToLower(query)
	if q == "" {
		return id
	}
	i := strings.Index(strings.ToLower(id), q)
	if i < 0 {
		return id
	}
	return id[:i] + matchColor.Sprint(id[i:i+len(q)]) + id[i+len(q):]
}
