// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/z5labs/postboard/viewmodel"

	"gopkg.in/yaml.v3"
)

// UnknownFormatError is returned for an unsupported --output value.
type UnknownFormatError struct {
	Format string
}

// Error implements the [builtin.error] interface.
func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown output format: %q", e.Format)
}

func render(w io.Writer, format string, s viewmodel.State) error {
	switch format {
	case "table":
		return renderTable(w, s)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(s)
		if err != nil {
			return err
		}
		return enc.Close()
	default:
		return UnknownFormatError{Format: format}
	}
}

func renderTable(w io.Writer, s viewmodel.State) error {
	if s.Err != nil {
		_, err := fmt.Fprintf(w, "Error: %s\n", s.Err.String())
		if err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER ID\tTITLE\tBODY")
	for _, p := range s.Posts {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", p.ID, p.UserID, p.Title, p.Body)
	}
	return tw.Flush()
}
