package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clonesieve/clonesieve/domain"
	"github.com/clonesieve/clonesieve/service"
)

// printRecoverySuggestions prints helpful hints for a failed command based on
// the error category. Unknown categories stay silent so cobra's own error
// output is all the user sees.
func printRecoverySuggestions(cmd *cobra.Command, err error) {
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)
	if categorized == nil || categorized.Category == domain.ErrorCategoryUnknown {
		return
	}

	suggestions := categorizer.GetRecoverySuggestions(categorized.Category)
	if len(suggestions) == 0 {
		return
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\n💡 Suggestions:\n")
	for _, suggestion := range suggestions {
		fmt.Fprintf(cmd.ErrOrStderr(), "  • %s\n", suggestion)
	}
}
