package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/service"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// analysisReport is what `analyze` prints for one file.
type analysisReport struct {
	Filename         string                 `json:"filename"`
	Status           model.ProcessingStatus `json:"processing_status"`
	Metadata         model.Metadata         `json:"metadata"`
	Insights         *model.Insights        `json:"ai_insights"`
	RiskBreakdown    model.RiskBreakdown    `json:"risk_breakdown"`
	ProcessingErrors []string               `json:"processing_errors"`
	TextLength       int                    `json:"text_length"`
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Classify and score documents without starting the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(os.Stderr)
			if err != nil {
				return err
			}
			lib, err := loadPatterns(cfg)
			if err != nil {
				return err
			}

			engine := service.NewEngine(service.NewDocumentStore(0), nil, lib,
				service.WithMaxFileSize(cfg.MaxFileSize()),
			)

			reports := make([]analysisReport, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				doc, err := engine.Ingest(cmd.Context(), filepath.Base(path), data, "cli")
				if err != nil {
					return err
				}
				_, breakdown, err := engine.Regenerate(cmd.Context(), doc.ID)
				if err != nil {
					return err
				}
				reports = append(reports, analysisReport{
					Filename:         path,
					Status:           doc.Status,
					Metadata:         doc.Metadata,
					Insights:         doc.Insights,
					RiskBreakdown:    breakdown,
					ProcessingErrors: doc.ProcessingErrors,
					TextLength:       len(doc.ExtractedText),
				})
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if len(reports) == 1 {
				return enc.Encode(reports[0])
			}
			return enc.Encode(reports)
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash of a password (read from stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			hash, err := service.HashPassword(password, cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}
