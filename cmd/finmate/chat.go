package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/NamanSoni18/Finmate-Backend/internal/chat"
	"github.com/NamanSoni18/Finmate-Backend/internal/dialogue"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to FinMate from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		comps, err := buildComponents(cfg)
		if err != nil {
			return err
		}

		fmt.Println("FinMate loan assistant. Type 'exit' to quit.")

		var sessionID string
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				break
			}

			result := comps.service.HandleTurn(cmd.Context(), sessionID, line)
			sessionID = result.SessionID

			fmt.Println(result.Message)
			if result.Intent == string(dialogue.IntentShowPreview) {
				fmt.Println(previewTable(result))
			}
		}
		return scanner.Err()
	},
}

var (
	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("99")).
				Bold(true).
				Align(lipgloss.Center).
				Padding(0, 1)
	tableCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("99"))
)

func previewTable(result *chat.Result) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers("Amount", "Tenure", "Rate", "EMI", "Total Interest").
		Row(
			fmt.Sprintf("₹%v", result.Meta["amount"]),
			fmt.Sprintf("%v months", result.Meta["tenureMonths"]),
			fmt.Sprintf("%v%% p.a.", result.Meta["ratePercent"]),
			fmt.Sprintf("₹%v", result.Meta["emi"]),
			fmt.Sprintf("₹%v", result.Meta["totalInterest"]),
		)

	return t.Render()
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
