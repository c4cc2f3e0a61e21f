package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"richtext/pkg/richtext"
)

func newInspectCmd(o *options) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print a document's metadata, paragraphs and attribute runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			env, err := richtext.InspectEnvelope(path)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", path, err)
			}
			doc, err := richtext.LoadWithOptions(path, richtext.LoadOptions{Password: password})
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			return writeReport(cmd.OutOrStdout(), env, doc)
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for encrypted documents")
	return cmd
}

func writeReport(w io.Writer, env richtext.EnvelopeInfo, doc *richtext.Document) error {
	m := doc.Metadata
	t := doc.Text
	fmt.Fprintf(w, "title:      %s\n", m.Title)
	fmt.Fprintf(w, "author:     %s\n", m.Author)
	fmt.Fprintf(w, "created:    %s\n", time.Unix(m.CreatedUnix, 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "modified:   %s\n", time.Unix(m.ModifiedUnix, 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "compressed: %t\n", env.Compressed)
	fmt.Fprintf(w, "encrypted:  %t\n", env.Encrypted)
	fmt.Fprintf(w, "length:     %d\n", t.Len())

	all := richtext.Range{Length: t.Len()}
	paragraphs := t.Paragraphs(all)
	fmt.Fprintf(w, "\nparagraphs (%d):\n", len(paragraphs))
	for _, p := range paragraphs {
		fmt.Fprintf(w, "  %v %q\n", p, t.Substring(t.ContentRange(p)))
	}

	fmt.Fprintln(w, "\nruns:")
	for k := richtext.KeyFont; k <= richtext.KeyAttachment; k++ {
		runs := t.QueryRuns(all, k)
		if len(runs) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s:\n", k)
		for _, r := range runs {
			fmt.Fprintf(w, "    %v %+v\n", r.Range, r.Value)
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
