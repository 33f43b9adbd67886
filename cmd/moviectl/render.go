package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Clark-Hu/moviegrid/internal/domain"
)

// render prints one state of a load. An Error state is printed and returned.
func render(out io.Writer, page int, res domain.Resource) error {
	switch res.Status {
	case domain.StatusLoading:
		fmt.Fprintf(out, "loading page %d...\n", page)
		return nil
	case domain.StatusSuccess:
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tRELEASED")
		for _, m := range res.Movies {
			released := m.ReleaseDate
			if released == "" {
				released = "-"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\n", m.ID, m.Title, released)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d movies\n", len(res.Movies))
		return nil
	case domain.StatusError:
		fmt.Fprintf(out, "error: %s\n", res.Message)
		return errors.New(res.Message)
	default:
		return fmt.Errorf("unknown status %v", res.Status)
	}
}
