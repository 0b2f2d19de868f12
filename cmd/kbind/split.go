package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"kbind/internal/interp"
)

var splitCmd = &cobra.Command{
	Use:   "split [flags] [text]",
	Short: "Show how a text node is split into interpolation segments",
	Long: `Split text (or stdin when no argument is given) into literal and
{{ }} / {{{ }}} segments and print the concatenation expression the text
directive is constructed with.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().String("format", "text", "output format (text|json|yaml)")
}

type segmentOut struct {
	Kind  string `json:"kind" yaml:"kind"`
	Delim string `json:"delim,omitempty" yaml:"delim,omitempty"`
	Text  string `json:"text" yaml:"text"`
}

type splitOut struct {
	Input      string       `json:"input" yaml:"input"`
	Segments   []segmentOut `json:"segments" yaml:"segments"`
	Expression string       `json:"expression" yaml:"expression"`
}

func runSplit(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = strings.TrimSuffix(string(data), "\n")
	}

	segs := interp.Split(text)
	out := splitOut{Input: text, Expression: interp.Concat(segs)}
	for _, s := range segs {
		so := segmentOut{Kind: s.Kind.String(), Text: s.Text}
		if s.IsExpr() {
			so.Delim = s.Delim.String()
		}
		out.Segments = append(out.Segments, so)
	}

	w := cmd.OutOrStdout()
	switch format {
	case "text":
		writeSplitText(w, out)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeSplitText(w io.Writer, out splitOut) {
	exprColor := color.New(color.FgCyan)
	litColor := color.New(color.FgHiBlack)
	for i, s := range out.Segments {
		if s.Kind == "expr" {
			fmt.Fprintf(w, "%3d  %-8s %-7s %s\n", i, s.Kind, s.Delim, exprColor.Sprintf("%q", s.Text))
			continue
		}
		fmt.Fprintf(w, "%3d  %-8s %-7s %s\n", i, s.Kind, "", litColor.Sprint(interp.Quote(s.Text)))
	}
	fmt.Fprintf(w, "expression: %s\n", out.Expression)
}
