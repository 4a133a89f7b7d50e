package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/wonny/nvdbdq/internal/contracts"
)

// UserMessage turns an analysis error into the line shown to the user
func UserMessage(err error) string {
	var (
		input    *contracts.InputError
		notFound *contracts.NotFoundError
	)

	switch {
	case errors.As(err, &input) && input.Field == "objekttype":
		return "Vennligst oppgi et gyldig objekttypenummer (heltall)."
	case errors.As(err, &input):
		return fmt.Sprintf("Ugyldig %s: %s", input.Field, input.Reason)
	case errors.As(err, &notFound) && errors.Is(err, contracts.ErrSchemaNotFound):
		return fmt.Sprintf("Objekttype %d finnes ikke.", notFound.ObjectTypeID)
	case errors.As(err, &notFound):
		return fmt.Sprintf("Objekttype %d finnes ikke i API-et.", notFound.ObjectTypeID)
	case errors.Is(err, contracts.ErrNoApplicableProperties):
		return "Ingen av de valgte egenskapene finnes i datasettet."
	case errors.Is(err, contracts.ErrUpstream):
		return fmt.Sprintf("Kunne ikke hente data fra NVDB: %v", err)
	default:
		return err.Error()
	}
}

// printDoubleSeparator prints a double-line separator
func printDoubleSeparator(w io.Writer) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
}

// printSuccess prints a success message
func printSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}
