package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"sms-transaction-extractor/internal/classifier"

	"github.com/spf13/cobra"
)

// categoriesCmd represents the categories command
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the classification rules",
	Long: `Categories prints the keyword rules used to classify transactions, in
the order they are applied. The first matching rule wins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRules(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func printRules(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "DIRECTION KEYWORD\tTYPE")
	for _, rule := range classifier.DirectionRules() {
		fmt.Fprintf(tw, "%s\t%s\n", rule.Keyword, rule.Type)
	}
	fmt.Fprintln(tw, "\t")

	fmt.Fprintln(tw, "MERCHANT KEYWORD\tCATEGORY")
	for _, rule := range classifier.CategoryRules() {
		fmt.Fprintf(tw, "%s\t%s\n", rule.Keyword, rule.Category)
	}
	fmt.Fprintf(tw, "(no match)\t%s\n", classifier.CategoryOthers)
	fmt.Fprintf(tw, "(no merchant)\t%s\n", classifier.CategoryUnknown)

	return tw.Flush()
}
