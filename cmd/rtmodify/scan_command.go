package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rtmodify/internal/config"
	"rtmodify/internal/field"
	"rtmodify/internal/relocate"
	"rtmodify/internal/sessiondir"
	"rtmodify/internal/sessionfile"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "scan <input-dir>",
		Short: "List the keyed fields of every session file without modifying them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(key) == "" {
				key = cfg.Rewrite.Key
			} else if err := config.ValidateKey(key); err != nil {
				return fmt.Errorf("--key: %w", err)
			}

			dir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve input directory: %w", err)
			}
			matcher, err := sessiondir.NewMatcher(cfg.Rewrite.RewritePatterns...)
			if err != nil {
				return err
			}
			files, err := sessiondir.List(dir, matcher)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if len(files) == 0 {
				fmt.Fprintln(out, renderStatusLine("Scan", statusWarn,
					fmt.Sprintf("no session files matching %v in %s", cfg.Rewrite.RewritePatterns, dir), colorize))
				return nil
			}

			var (
				rows   [][]string
				failed int
			)
			for _, path := range files {
				name := filepath.Base(path)
				content, err := sessionfile.ReadAll(path)
				if err == nil {
					var fields []field.Field
					fields, err = field.Scan(content, key)
					for _, f := range fields {
						rows = append(rows, []string{name, strconv.Itoa(f.Offset), strconv.Itoa(f.Length), string(f.Value)})
					}
				}
				if err != nil {
					failed++
					rows = append(rows, []string{name, "", "", titleLabel(relocate.ErrorKind(err))})
				}
			}

			fmt.Fprintln(out, renderTable(
				[]string{"File", "Offset", "Length", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
			))
			kind := statusOK
			if failed > 0 {
				kind = statusWarn
			}
			fmt.Fprintln(out, renderStatusLine("Scan", kind,
				fmt.Sprintf("%d file(s), %d without a valid %q field", len(files), failed, key), colorize))
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "Field key to list (default from config)")
	return cmd
}
