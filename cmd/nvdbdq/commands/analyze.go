package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/wonny/nvdbdq/internal/pipeline"
	"github.com/wonny/nvdbdq/internal/report"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [objekttype]",
	Short: "Measure property completeness of one object type",
	Long: `Fetches up to --antall objects of one type within one county and
reports, per declared property, how many objects lack a value, and per
object, the fraction of selected properties it fills.

Importance filters (--viktighet):
  ALLE, PÅKREVD_ABSOLUTT, PÅKREVD_IKKE_ABSOLUTT, BETINGET, OPSJONELL, MINDRE_VIKTIG

Example:
  go run ./cmd/nvdbdq analyze 79
  go run ./cmd/nvdbdq analyze 79 -i BETINGET -n 800 --fylke 3
  go run ./cmd/nvdbdq analyze 79 --export kulvert.xlsx --preview=false`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	// Analyze flags
	analyzeImportance string
	analyzeLimit      int
	analyzeRegion     int
	analyzeExport     string
	analyzePreview    bool
	analyzeSpinner    bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags
	analyzeCmd.Flags().StringVarP(&analyzeImportance, "viktighet", "i", "ALLE", "importance filter")
	analyzeCmd.Flags().IntVarP(&analyzeLimit, "antall", "n", 0, "objects to fetch, 100-800 (default from NVDB_DEFAULT_OBJECTS)")
	analyzeCmd.Flags().IntVar(&analyzeRegion, "fylke", 0, "county number (default from NVDB_DEFAULT_REGION)")
	analyzeCmd.Flags().StringVar(&analyzeExport, "export", "", "also write the result to this .xlsx file")
	analyzeCmd.Flags().BoolVar(&analyzePreview, "preview", true, "show the first rows of the scored table")
	analyzeCmd.Flags().BoolVar(&analyzeSpinner, "spinner", true, "show a spinner while fetching")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	params := pipeline.Params{
		ObjectType: args[0],
		Importance: analyzeImportance,
		Region:     analyzeRegion,
	}
	if cmd.Flags().Changed("antall") {
		limit := analyzeLimit
		params.Limit = &limit
	}

	// validate before showing any progress
	req, err := pipeline.ParseRequest(params, a.explorer.Limits())
	if err != nil {
		return err
	}

	result, err := withSpinner(cmd.ErrOrStderr(), analyzeSpinner,
		fmt.Sprintf("[cyan][reset] Henter objekttype %d...", req.TypeID),
		func() (*pipeline.Result, error) {
			return a.explorer.Execute(contextOrBackground(cmd.Context()), req)
		})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.WriteText(out, result, report.Options{Preview: analyzePreview}); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if analyzeExport != "" {
		if err := report.SaveXLSX(analyzeExport, result); err != nil {
			return err
		}
		fmt.Fprintln(out)
		printSuccess(out, fmt.Sprintf("Eksportert til %s", analyzeExport))
	}

	a.log.WithField("run_id", result.RunID).Debug("Report written")
	return nil
}

// withSpinner runs fn while an indeterminate progress bar ticks on w
func withSpinner(w io.Writer, enabled bool, description string, fn func() (*pipeline.Result, error)) (*pipeline.Result, error) {
	if !enabled {
		return fn()
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	type outcome struct {
		result *pipeline.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := fn()
		done <- outcome{r, err}
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case o := <-done:
			_ = bar.Finish()
			return o.result, o.err
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

// contextOrBackground guards commands executed without a context
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
