package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/datalens-ai/datalens/internal/agent"
	"github.com/datalens-ai/datalens/internal/cache"
	"github.com/datalens-ai/datalens/internal/dispatch"
	"github.com/datalens-ai/datalens/internal/normalize"
	"github.com/datalens-ai/datalens/internal/render"
	"github.com/datalens-ai/datalens/internal/result"
	"github.com/datalens-ai/datalens/internal/utils"
)

var (
	flagQuery    string
	flagType     string
	flagSheet    string
	flagProvider string
	flagModel    string
	flagAPIKey   string
	flagJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a local file with a natural-language query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if strings.TrimSpace(flagQuery) == "" {
			return &result.ValidationError{Reason: "query is required (-q)"}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}

		kind := flagType
		if kind == "" {
			var ok bool
			if kind, ok = normalize.KindForFile(path); !ok {
				return fmt.Errorf("cannot infer file type of %s, use --type", path)
			}
		}

		var content normalize.Content
		if kind == normalize.KindXLSX && flagSheet != "" {
			content, err = normalize.NormalizeXLSX(data, flagSheet)
		} else {
			content, err = normalize.Normalize(kind, data)
		}
		if err != nil {
			return err
		}

		svc := dispatch.New(nil, cache.New(), nil)
		var res *result.Result
		if content.IsTabular() {
			ag, err := buildAgent()
			if err != nil {
				return err
			}
			svc.Agent = ag
			res, err = svc.AnalyzeFrame(cmd.Context(), content.Frame, flagQuery)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
		} else {
			res, err = svc.AnalyzeText(cmd.Context(), content.Text, flagQuery)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
		}

		if flagJSON {
			b, err := utils.PrettyJSON(res)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		return printResult(res)
	},
}

func buildAgent() (agent.Client, error) {
	provider := flagProvider
	if provider == "" {
		provider = cfg.Provider
	}
	p, err := agent.LookupProvider(provider)
	if err != nil {
		return nil, err
	}
	model := flagModel
	if model == "" {
		model = cfg.Model
	}
	key := flagAPIKey
	if key == "" {
		key = cfg.APIKey
	}
	return agent.NewOpenAIClient(p, model, key)
}

// printResult writes each present section to the terminal: the answer with
// the typing effect, the table as a grid, charts as standalone HTML files.
func printResult(res *result.Result) error {
	if res.Answer != "" {
		delay := render.DefaultDelay
		if cfg.AnswerDelayMs > 0 {
			delay = time.Duration(cfg.AnswerDelayMs) * time.Millisecond
		}
		render.StreamAnswer(res.Answer, delay, func(state string) {
			fmt.Print("\r" + state)
		})
		fmt.Println()
	}
	if res.Table != nil {
		fmt.Println(strings.Join(res.Table.Columns(), "\t"))
		for i := 0; i < res.Table.NumRows(); i++ {
			cells := make([]string, res.Table.NumCols())
			for j := range cells {
				cells[j] = fmt.Sprintf("%v", res.Table.Cell(i, j))
			}
			fmt.Println(strings.Join(cells, "\t"))
		}
	}
	if res.Bar != nil {
		if err := writeChartFile("bar.html", res.Bar, true); err != nil {
			return err
		}
		fmt.Println("✓ bar chart written to bar.html")
	}
	if res.Line != nil {
		if err := writeChartFile("line.html", res.Line, false); err != nil {
			return err
		}
		fmt.Println("✓ line chart written to line.html")
	}
	return nil
}

func writeChartFile(path string, spec *result.ChartSpec, bar bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()
	if bar {
		chart, err := render.Bar(spec)
		if err != nil {
			return err
		}
		return chart.Render(f)
	}
	chart, err := render.Line(spec)
	if err != nil {
		return err
	}
	return chart.Render(f)
}

func init() {
	analyzeCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "natural-language analysis query")
	analyzeCmd.Flags().StringVar(&flagType, "type", "", "input kind: xlsx|csv|docx|html|pdf (default: by extension)")
	analyzeCmd.Flags().StringVar(&flagSheet, "sheet", "", "worksheet name for multi-sheet workbooks")
	analyzeCmd.Flags().StringVar(&flagProvider, "provider", "", "agent provider (overrides config)")
	analyzeCmd.Flags().StringVar(&flagModel, "model", "", "agent model (overrides config)")
	analyzeCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "agent API key (overrides config)")
	analyzeCmd.Flags().BoolVar(&flagJSON, "json", false, "print the raw analysis result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
