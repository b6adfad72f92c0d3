package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alanmcruickshank/sqlfluff/internal/parser"
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
	"github.com/alanmcruickshank/sqlfluff/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.sql>",
	Short: "Print the segment tree of a SQL file",
	Long:  "Parse one SQL file and dump its segment tree with spans, one node per line.",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().Bool("positions", false, "include byte spans and line:col positions")
	parseCmd.Flags().String("types", "", "only show segments of these comma-separated types (e.g. keyword,statement)")
}

// parseTypeFilter резолвит имена тегов из --types. Неизвестное имя — ошибка
// пользователя, а не пустой фильтр.
func parseTypeFilter(value string) ([]segment.Tag, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var tags []segment.Tag
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		tag := segment.ParseTag(name)
		if tag == segment.TagInvalid {
			return nil, fmt.Errorf("unknown segment type %q", name)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	showPositions, err := cmd.Flags().GetBool("positions")
	if err != nil {
		return err
	}
	typesValue, err := cmd.Flags().GetString("types")
	if err != nil {
		return err
	}
	filter, err := parseTypeFilter(typesValue)
	if err != nil {
		return err
	}

	set := source.NewFileSet()
	id, err := set.Load(args[0])
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	tree := parser.Parse(set.Get(id))

	dumpSegment(os.Stdout, tree.Root(), 0, showPositions, filter)
	return nil
}

func dumpSegment(w io.Writer, seg *segment.Segment, depth int, showPositions bool, filter []segment.Tag) {
	if len(filter) == 0 || seg.IsType(filter...) {
		indent := strings.Repeat("  ", depth)
		if showPositions && seg.HasPos() {
			pos := seg.Pos()
			fmt.Fprintf(w, "%s%s @%d:%d [%d-%d]\n",
				indent, seg, pos.Start.Line, pos.Start.Col, pos.Span.Start, pos.Span.End)
		} else {
			fmt.Fprintf(w, "%s%s\n", indent, seg)
		}
	}
	for _, child := range seg.Children() {
		dumpSegment(w, child, depth+1, showPositions, filter)
	}
}
