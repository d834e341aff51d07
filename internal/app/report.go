package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"go.trai.ch/regiontrack/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Format selects how a tracking report is rendered.
type Format string

// Supported report formats.
const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user supplied report format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatYAML:
		return f, nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrUnknownFormat, "unsupported report format"), "format", s)
	}
}

// WriteReport renders summary to w in the given format.
func WriteReport(w io.Writer, summary domain.TrackSummary, format Format) error {
	switch format {
	case FormatYAML:
		return writeYAML(w, summary)
	case FormatText, "":
		return writeText(w, summary)
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownFormat, "unsupported report format"), "format", string(format))
	}
}

func writeYAML(w io.Writer, summary domain.TrackSummary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		return zerr.Wrap(err, "failed to encode report")
	}
	if err := enc.Close(); err != nil {
		return zerr.Wrap(err, "failed to encode report")
	}
	return nil
}

func writeText(w io.Writer, s domain.TrackSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(tw, "series\t%s\n", s.Series)
	_, _ = fmt.Fprintf(tw, "frames\t%d\n", s.Frames)
	_, _ = fmt.Fprintf(tw, "regions\t%d\n", s.Nodes)
	_, _ = fmt.Fprintf(tw, "links\t%d\n", s.Edges)
	_, _ = fmt.Fprintf(tw, "births\t%d\n", s.Births)
	_, _ = fmt.Fprintf(tw, "deaths\t%d\n", s.Deaths)
	_, _ = fmt.Fprintf(tw, "splits\t%d\n", s.Splits)
	_, _ = fmt.Fprintf(tw, "merges\t%d\n", s.Merges)
	_, _ = fmt.Fprintf(tw, "pruned\t%d\n", s.Pruned)
	_, _ = fmt.Fprintf(tw, "cache\t%d hits, %d misses, %d evictions\n", s.Cache.Hits, s.Cache.Misses, s.Cache.Evictions)

	if len(s.Timeline) > 0 {
		_, _ = fmt.Fprintln(tw)
		_, _ = fmt.Fprintln(tw, "FRAME\tREGIONS\tKEPT\tSTATUS")
		for _, r := range s.Timeline {
			_, _ = fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", r.Index, r.Regions, r.Kept, r.Status)
		}
	}

	if err := tw.Flush(); err != nil {
		return zerr.Wrap(err, "failed to write report")
	}
	return nil
}

func formatDone(s domain.TrackSummary) string {
	return fmt.Sprintf("tracked %q: %d regions across %d frames, %d links", s.Series, s.Nodes, s.Frames, s.Edges)
}
