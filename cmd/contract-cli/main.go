// Package main provides the Contract Engine CLI entrypoint.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/clausewise/contract-engine/internal/config"
	"github.com/clausewise/contract-engine/internal/extract"
	"github.com/clausewise/contract-engine/internal/llm"
	"github.com/clausewise/contract-engine/internal/observability"
	"github.com/clausewise/contract-engine/internal/ocr"
	"github.com/clausewise/contract-engine/internal/query"
	"github.com/clausewise/contract-engine/internal/session"
)

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool

	// Configuration and logger
	cfg    *config.Config
	logger *observability.Logger
	ui     *UI
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "contract-cli",
	Short: "Contract Engine CLI for extraction, analysis, and clause rewriting",
	Long: `Contract Engine CLI provides commands for working with contract PDFs.

Use this tool to:
- Extract text from a contract PDF through the layered cascade
- Analyze a contract for its top legal risks
- Ask a grounded question about a contract
- Rewrite a clause in the client's favor

All commands support --json for automation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.Observability.LogLevel
		if !verbose {
			level = "error"
		}

		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      "console",
			ServiceName: "contract-cli",
		})

		ui = NewUI(outputJSON)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newRewriteCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newExtractCmd creates the extract subcommand.
func newExtractCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "extract <contract.pdf>",
		Short: "Extract text from a contract PDF",
		Long: `Extract runs the layered extraction cascade over the PDF. Local layers
run first; the cloud OCR fallback requires OPENROUTER_API_KEY.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read pdf: %w", err)
			}

			stop := ui.Spinner("Extracting text")
			result, err := buildCascade().Extract(ctx, raw)
			stop()
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			if !result.Success {
				return fmt.Errorf("could not extract readable text from %s", args[0])
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(result.Text), 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"sourceLayer": string(result.Layer),
					"textLength":  len(result.Text),
					"output":      output,
				})
			}

			ui.Success("Extraction completed")
			ui.KeyValue("Layer", string(result.Layer))
			ui.KeyValue("Characters", len(result.Text))
			if output == "" {
				fmt.Println()
				fmt.Println(result.Text)
			} else {
				ui.KeyValue("Output", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write extracted text to file instead of stdout")
	return cmd
}

// newAnalyzeCmd creates the analyze subcommand.
func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <contract.pdf>",
		Short: "Identify the top legal risks in a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			queries, sessions, err := buildQueryService()
			if err != nil {
				return err
			}
			defer sessions.Close()

			sessionID, err := ingestFile(ctx, args[0], sessions)
			if err != nil {
				return err
			}

			stop := ui.Spinner("Analyzing contract")
			result, err := queries.Analyze(ctx, sessionID)
			stop()
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			ui.Success("Found %d risk(s)", len(result.Risks))
			for i, risk := range result.Risks {
				fmt.Printf("\n%d. %s\n", i+1, risk.Explanation)
				fmt.Printf("   > %s\n", risk.Quote)
			}
			return nil
		},
	}
	return cmd
}

// newAskCmd creates the ask subcommand.
func newAskCmd() *cobra.Command {
	var question string

	cmd := &cobra.Command{
		Use:   "ask <contract.pdf>",
		Short: "Ask a grounded question about a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			queries, sessions, err := buildQueryService()
			if err != nil {
				return err
			}
			defer sessions.Close()

			sessionID, err := ingestFile(ctx, args[0], sessions)
			if err != nil {
				return err
			}

			stop := ui.Spinner("Answering")
			turn, err := queries.Chat(ctx, sessionID, question)
			stop()
			if err != nil {
				return fmt.Errorf("chat failed: %w", err)
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(turn)
			}

			fmt.Println(turn.Answer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "", "question to answer (required)")
	_ = cmd.MarkFlagRequired("question")
	return cmd
}

// newRewriteCmd creates the rewrite subcommand.
func newRewriteCmd() *cobra.Command {
	var clauseFile string

	cmd := &cobra.Command{
		Use:   "rewrite [clause text]",
		Short: "Rewrite a clause in the client's favor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			clause := ""
			if len(args) == 1 {
				clause = args[0]
			}
			if clauseFile != "" {
				data, err := os.ReadFile(clauseFile)
				if err != nil {
					return fmt.Errorf("read clause file: %w", err)
				}
				clause = string(data)
			}

			queries, sessions, err := buildQueryService()
			if err != nil {
				return err
			}
			defer sessions.Close()

			stop := ui.Spinner("Rewriting clause")
			result, err := queries.Rewrite(ctx, clause)
			stop()
			if err != nil {
				return fmt.Errorf("rewrite failed: %w", err)
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Println(result.RewrittenText)
			return nil
		},
	}

	cmd.Flags().StringVarP(&clauseFile, "file", "f", "", "read the clause from a file")
	return cmd
}

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.Encode(map[string]string{"version": "0.1.0"})
				return
			}
			fmt.Println("contract-cli v0.1.0")
		},
	}
}

// newLLMClient builds the OpenRouter client, or nil when no key is set.
func newLLMClient() *llm.Client {
	if cfg.LLM.APIKey == "" {
		return nil
	}
	client, err := llm.NewClient(llm.Config{
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.LLM.Model,
		BaseURL:    cfg.LLM.BaseURL,
		Timeout:    cfg.LLM.Timeout,
		MaxRetries: cfg.LLM.MaxRetries,
		Logger:     logger,
	})
	if err != nil {
		return nil
	}
	return client
}

// buildCascade wires the extraction cascade. Without an API key the OCR
// fallback is disabled and local layers must carry the document.
func buildCascade() *extract.Cascade {
	client := newLLMClient()

	ocrCfg := ocr.Config{
		Enabled:       cfg.Extraction.OCR.Enabled && client != nil,
		MaxPages:      cfg.Extraction.OCR.MaxPages,
		ImageQuality:  cfg.Extraction.OCR.ImageQuality,
		MinTextLength: cfg.Extraction.MinTextLength,
	}

	var vision ocr.VisionClient
	if client != nil {
		vision = client
	}

	fallback := ocr.NewAdapter(vision, ocrCfg, logger)
	return extract.NewCascade(cfg.Extraction.MinTextLength, fallback, logger)
}

// buildQueryService wires the query service over an in-memory session store.
func buildQueryService() (*query.Service, session.Store, error) {
	client := newLLMClient()
	if client == nil {
		return nil, nil, fmt.Errorf("OPENROUTER_API_KEY is required for this command")
	}

	sessions := session.NewMemoryStore()
	return query.NewService(client, sessions, logger), sessions, nil
}

// ingestFile extracts a PDF and stores the text in a fresh session.
func ingestFile(ctx context.Context, path string, sessions session.Store) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	stop := ui.Spinner("Extracting text")
	result, err := buildCascade().Extract(ctx, raw)
	stop()
	if err != nil {
		return "", fmt.Errorf("extraction failed: %w", err)
	}
	if !result.Success {
		return "", fmt.Errorf("could not extract readable text from %s", path)
	}

	ui.Step("Extracted %d characters via %s", len(result.Text), result.Layer)

	return sessions.Create(ctx, result.Text)
}
