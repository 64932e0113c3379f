// =============================================================================
// Invoice Flattener - Main Entry Point
// =============================================================================
//
// USAGE:
//   invoices transform   - Flatten the invoice blob into a CSV report
//   invoices validate    - Report data problems without writing anything
//   invoices version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Loading, transformation and report writers
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/joho/godotenv"

	"github.com/ginjaninja78/invoice-flattener/cmd"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cmd.Execute()
}
