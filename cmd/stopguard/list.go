package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/stopguard/stopguard/internal/stopwords"
)

func newListCmd() *cobra.Command {
	var configPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the configured stopword list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			listing := stopwords.List(cmd.Context(), a.source)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(listing)
			}
			return writeListing(cmd.OutOrStdout(), listing)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the listing as JSON")

	return cmd
}

func writeListing(w io.Writer, listing stopwords.Listing) error {
	if _, err := fmt.Fprintf(w, "Stopwords: %d\n", listing.Count); err != nil {
		return err
	}
	if listing.LastModified != nil {
		if _, err := fmt.Fprintf(w, "Last modified: %s\n", listing.LastModified.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	if listing.Truncated {
		_, err := fmt.Fprintf(w, "More than %d terms; not listed.\n", stopwords.MaxListed)
		return err
	}
	for _, term := range listing.Terms {
		if _, err := fmt.Fprintf(w, "- %s\n", term); err != nil {
			return err
		}
	}
	return nil
}
