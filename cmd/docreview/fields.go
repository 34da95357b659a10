package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docreview/internal/pipeline"
)

var (
	fieldsDoc      docFlags
	fieldsType     string
	fieldsFormat   string
	fieldsUnmasked bool
)

var fieldsCmd = &cobra.Command{
	Use:   "fields FILE",
	Short: "Show what is extracted from one document",
	Args:  cobra.ExactArgs(1),
	RunE:  runFields,
}

func init() {
	fieldsDoc.register(fieldsCmd, false)
	fieldsCmd.Flags().StringVar(&fieldsType, "type", "", "document type: term_sheet or investment_agreement")
	fieldsCmd.Flags().StringVarP(&fieldsFormat, "format", "f", formatJSON, "output format: json or yaml")
	fieldsCmd.Flags().BoolVar(&fieldsUnmasked, "unmasked", false, "print raw values instead of masked tokens")
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	fieldsDoc.typeA = fieldsType
	if err := fieldsDoc.validate(); err != nil {
		return err
	}
	session, err := newSession(false)
	if err != nil {
		return err
	}
	res, err := session.Review(cmd.Context(), pipeline.Request{A: fileInput(args[0], fieldsType, fieldsDoc.options())})
	if err != nil {
		return fmt.Errorf("fields: %w", err)
	}
	if !fieldsUnmasked {
		res = res.Masked()
	}
	return writeOutput(cmd.OutOrStdout(), fieldsFormat, res.A)
}
