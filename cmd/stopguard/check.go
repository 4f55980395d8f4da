package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stopguard/stopguard/internal/guard"
	"github.com/stopguard/stopguard/internal/policy"
	"github.com/stopguard/stopguard/internal/scan"
)

type checkOutput struct {
	ID        string           `json:"id"`
	Action    policy.Action    `json:"action"`
	Field     scan.Field       `json:"field,omitempty"`
	Term      string           `json:"term,omitempty"`
	Rejection *guard.Rejection `json:"rejection,omitempty"`
}

func newCheckCmd() *cobra.Command {
	var configPath string
	var sub guard.Submission
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a single submission against the configured list",
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

			outcome, err := a.guard.Check(cmd.Context(), sub)
			if err != nil {
				return err
			}

			out := checkOutput{
				ID:        outcome.ID,
				Action:    outcome.Action,
				Field:     outcome.Result.Field,
				Term:      outcome.Result.Term,
				Rejection: outcome.Rejection,
			}
			if err := writeCheckOutput(cmd.OutOrStdout(), out, asJSON); err != nil {
				return err
			}
			if outcome.Rejected() {
				return errBlocked
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to config file")
	flags.StringVar(&sub.Fields.Content, "content", "", "Comment body")
	flags.StringVar(&sub.Fields.Author, "author", "", "Author display name")
	flags.StringVar(&sub.Fields.AuthorEmail, "email", "", "Author email")
	flags.StringVar(&sub.Fields.AuthorURL, "url", "", "Author website")
	flags.StringVar(&sub.Fields.AuthorIP, "ip", "", "Author IP address")
	flags.StringVar(&sub.Post.ID, "post-id", "", "Post identifier")
	flags.StringVar(&sub.Site, "site", "", "Site identifier for recipient lookup")
	flags.BoolVar(&asJSON, "json", false, "Print the outcome as JSON")

	return cmd
}

func writeCheckOutput(w io.Writer, out checkOutput, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if out.Rejection != nil {
		_, err := fmt.Fprintf(w, "%s: %s (field=%s term=%q)\n", out.Rejection.Title, out.Rejection.Message, out.Field, out.Term)
		return err
	}
	if out.Action == policy.ActionShadow {
		_, err := fmt.Fprintf(w, "shadow: would block (field=%s term=%q)\n", out.Field, out.Term)
		return err
	}
	_, err := fmt.Fprintln(w, "clean")
	return err
}
