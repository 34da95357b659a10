package main

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/loader"
)

// docFlags are the per-document options shared by review, fields and watch.
type docFlags struct {
	cmd      *cobra.Command
	ocrMode  string
	budget   int
	strategy string
	typeA    string
	typeB    string
}

func (f *docFlags) register(cmd *cobra.Command, withTypes bool) {
	f.cmd = cmd
	cmd.Flags().StringVar(&f.ocrMode, "ocr", "", "OCR mode: off, auto or force (default from config)")
	cmd.Flags().IntVar(&f.budget, "budget", 0, "maximum pages to OCR per document, 0 or less for every page (default from config)")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "page selection: uniform, front_back or density")
	if withTypes {
		cmd.Flags().StringVar(&f.typeA, "type-a", "", "document type of A: term_sheet or investment_agreement")
		cmd.Flags().StringVar(&f.typeB, "type-b", "", "document type of B: term_sheet or investment_agreement")
	}
}

func (f *docFlags) options() loader.Options {
	o := loader.Options{
		OCRMode:  constants.OCRMode(f.ocrMode),
		Strategy: constants.Strategy(f.strategy),
	}
	if f.cmd != nil && f.cmd.Flags().Changed("budget") {
		o.Budget = loader.Budget(f.budget)
	}
	return o
}

func (f *docFlags) validate() error {
	o := f.options()
	if err := common.ValidateReviewOptions(o.OCRMode, o.Strategy, constants.DocType(f.typeA)); err != nil {
		return err
	}
	return common.ValidateReviewOptions("", "", constants.DocType(f.typeB))
}
