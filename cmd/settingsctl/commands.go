package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"bizpos-backend/internal/bootstrap"
	"bizpos-backend/internal/config"
	"bizpos-backend/internal/domain"
	"bizpos-backend/internal/editor"
	"bizpos-backend/internal/service"
	"bizpos-backend/internal/validation"
	"github.com/spf13/cobra"
)

const cliActor = "settingsctl"

// openService loads the configuration, opens and migrates the store and
// returns the settings service on top of it. The caller closes the store.
func openService(ctx context.Context, cmd *cobra.Command) (service.SettingsService, *bootstrap.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return service.SettingsService{}, nil, err
	}
	st, err := bootstrap.OpenStore(ctx, cfg, true)
	if err != nil {
		return service.SettingsService{}, nil, err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return bootstrap.NewSettingsService(cfg, st, logger), st, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending store migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, st, err := openService(ctx, cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			v, err := st.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", v)
			return nil
		},
	}
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the settings document",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(service.SettingsSchema())
		},
	}
}

func sectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sectors [industry]",
		Short: "List the sector sections that apply to an industry type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectors := domain.ActiveSectors(domain.ParseIndustryType(args[0]))
			if len(sectors) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(none)")
				return nil
			}
			for _, s := range sectors {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func getCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get [business-id] [section]",
		Short: "Print the settings of a business, or one section of them",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, st, err := openService(ctx, cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			var v any
			if len(args) == 2 {
				v, err = svc.Section(ctx, args[0], args[1])
			} else {
				var snap *service.Snapshot
				snap, err = svc.Current(ctx, args[0])
				if snap != nil {
					v = snap.Settings
				}
			}
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), v, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", formatJSON, "Output format (json, yaml)")
	return cmd
}

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [business-id] [section] [field] [value]",
		Short: "Set one field; the value is parsed as JSON and falls back to a plain string",
		Long: `Set one field of a section.

The value is parsed as JSON when it is valid JSON (5, true, ["a","b"]).
Anything else, or a JSON value the field cannot hold, is stored as a string,
so both "set biz-1 general.businessProfile phone 5551234" and
"set biz-1 general.currency code EUR" work without quoting.`,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, st, err := openService(ctx, cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := svc.SetField(ctx, cliActor, args[0], args[1], args[2], parseValue(args[3]))
			if errors.Is(err, editor.ErrTypeMismatch) && !isJSONString(args[3]) {
				// 5551234 for a phone field: take the argument literally.
				snap, err = svc.SetField(ctx, cliActor, args[0], args[1], args[2], quoteValue(args[3]))
			}
			if err != nil {
				return describeError(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s.%s\n", args[1], args[2])
			printViolations(cmd.OutOrStdout(), snap.Violations)
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [business-id] [file]",
		Short: "Replace the settings of a business with a JSON or YAML document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := readDocumentFile(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, st, err := openService(ctx, cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := svc.Replace(ctx, cliActor, args[0], settings)
			if err != nil {
				return describeError(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported settings for %s\n", args[0])
			printViolations(cmd.OutOrStdout(), snap.Violations)
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a JSON or YAML settings document without saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := readDocumentFile(args[0])
			if err != nil {
				return err
			}
			violations := service.SettingsService{}.Validate(settings)
			printViolations(cmd.OutOrStdout(), violations)
			if violations.HasErrors() {
				return fmt.Errorf("%s: %d error(s)", args[0], len(violations.Errors()))
			}
			if n := len(violations.Warnings()); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "ok, %d warning(s)\n", n)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export [business-id]",
		Short: "Export the settings of a business as CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, st, err := openService(ctx, cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := svc.Current(ctx, args[0])
			if err != nil {
				return err
			}
			export, err := service.ExportSettings(snap.Settings, format)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(export.Data)
				return err
			}
			if err := os.WriteFile(out, export.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", service.FormatCSV, "Export format (csv, xlsx)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (stdout when empty)")
	return cmd
}

func auditCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit [business-id]",
		Short: "Show the most recent settings changes of a business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, st, err := openService(ctx, cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := svc.AuditLog(ctx, args[0], limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no entries)")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-7s  %-12s  %-16s  %s\n",
					e.LoggedAt.UTC().Format("2006-01-02 15:04:05"), e.Type, e.Actor, e.Operation, e.Path)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries")
	return cmd
}

// parseValue turns a command-line value into JSON for the editor.
func parseValue(raw string) json.RawMessage {
	if json.Valid([]byte(raw)) {
		return json.RawMessage(raw)
	}
	return quoteValue(raw)
}

func quoteValue(raw string) json.RawMessage {
	b, _ := json.Marshal(raw)
	return b
}

func isJSONString(raw string) bool {
	var s string
	return json.Unmarshal([]byte(raw), &s) == nil
}

func printViolations(w io.Writer, vs validation.Violations) {
	for _, v := range vs {
		fmt.Fprintln(w, v.String())
	}
}

func describeError(w io.Writer, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		printViolations(w, verr.Violations)
		return fmt.Errorf("settings rejected: %d error(s)", len(verr.Violations.Errors()))
	}
	return err
}

func isYAMLPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
