package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/config"
	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/store"
)

const rule = "─"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged LLM requests and usage",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withEvents(cmd, func(ctx context.Context, repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(ctx, store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(events) == 0 {
				fmt.Println("No LLM requests logged.")
				return nil
			}

			fmt.Printf("%-5s  %-19s  %-20s  %-26s  %6s  %6s  %7s  %s\n",
				"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
			fmt.Println(strings.Repeat(rule, 104))
			for _, e := range events {
				ok := "✓"
				if !e.Success {
					ok = "✗"
				}
				fmt.Printf("%-5d  %-19s  %-20s  %-26s  %6d  %6d  %7d  %s\n",
					e.ID,
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					truncate(e.Purpose, 20),
					truncate(e.Model, 26),
					e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
			}
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}

		return withEvents(cmd, func(ctx context.Context, repo store.EventRepo) error {
			e, err := repo.GetLLMEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}

			fmt.Printf("ID:        %d\n", e.ID)
			fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("Provider:  %s (%s)\n", e.Provider, e.Model)
			fmt.Printf("Purpose:   %s\n", e.Purpose)
			fmt.Printf("Tokens:    %d in / %d out in %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
			if e.Success {
				fmt.Println("Result:    ok")
			} else {
				fmt.Printf("Result:    failed: %s\n", e.ErrorMessage)
			}
			printSection("REQUEST", e.RequestBody)
			printSection("RESPONSE", e.ResponseBody)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(ctx context.Context, repo store.EventRepo) error {
			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(byPurpose) == 0 {
				fmt.Println("No LLM usage recorded yet.")
				return nil
			}

			fmt.Println("Usage by purpose")
			fmt.Println(strings.Repeat(rule, 76))
			fmt.Printf("%-20s  %6s  %10s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Total", "Avg ms")
			fmt.Println(strings.Repeat(rule, 76))
			var calls, in, out int
			for _, u := range byPurpose {
				fmt.Printf("%-20s  %6d  %10d  %10d  %10d  %8d\n",
					truncate(u.Purpose, 20), u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
				calls += u.Calls
				in += u.InputTokens
				out += u.OutputTokens
			}
			fmt.Println(strings.Repeat(rule, 76))
			fmt.Printf("%-20s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)

			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			printCosts(byModel)
			return nil
		})
	},
}

// withEvents opens only the database, so logged calls can be inspected
// without configuring a provider.
func withEvents(cmd *cobra.Command, fn func(ctx context.Context, repo store.EventRepo) error) error {
	dbPath, err := resolveDBPath(cmd, config.Load())
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, s.EventRepo())
}

func printSection(title, body string) {
	sep := strings.Repeat(rule, 60)
	fmt.Println()
	fmt.Println(sep)
	fmt.Println(title)
	fmt.Println(sep)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Println(body)
}

func printCosts(usage []store.LLMUsage) {
	if len(usage) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Estimated cost (USD)")
	fmt.Println(strings.Repeat(rule, 76))

	var total float64
	var unknown []string
	for _, u := range usage {
		cost := llm.LookupCost(u.Model)
		if cost == nil {
			unknown = append(unknown, u.Model)
			fmt.Printf("%-32s  %6d  %10s\n", truncate(u.Model, 32), u.Calls, "?")
			continue
		}
		c := cost.Cost(u.InputTokens, u.OutputTokens)
		total += c
		fmt.Printf("%-32s  %6d  %10s\n", truncate(u.Model, 32), u.Calls, formatCost(c))
	}
	fmt.Println(strings.Repeat(rule, 76))

	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Printf("%-32s  %6s  %10s\n", label, "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Printf("\nNo pricing for: %s\n", strings.Join(unknown, ", "))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (lesson, vocabulary-list, short-definitions, questions-<kind>)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
