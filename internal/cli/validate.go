package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/cobra"

	"github.com/benchtrack/benchtrack/internal/conf"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Schema string
}

// ValidationError describes one schema violation in a config document.
type ValidationError struct {
	Document int    `json:"document"`
	Message  string `json:"message"`
	Code     string `json:"code"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a config document against a CUE schema",
		Long: `Check a benchmark configuration file (JSON or YAML) against a CUE schema
before it is used to claim or record work. An array document is validated
element by element.

Example:
  benchtrack validate --schema ./schema.cue ./configs/tls.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "path to the CUE schema file (required)")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runValidate(opts *ValidateOptions, configPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	schemaData, err := os.ReadFile(opts.Schema)
	if err != nil {
		return outputValidateError(formatter, ErrCodeInput, fmt.Sprintf("failed to read schema file: %v", err))
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaData, cue.Filename(opts.Schema))
	if schema.Err() != nil {
		return outputValidateError(formatter, ErrCodeSchema, fmt.Sprintf("invalid schema: %v", schema.Err()))
	}

	doc, err := LoadConfigDocument(configPath)
	if err != nil {
		return err
	}

	formatter.VerboseLog("Validating %s against %s", configPath, opts.Schema)

	validationErrors := validateDocument(ctx, schema, doc)
	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}
	return outputValidateSuccess(formatter)
}

// validateDocument unifies each element of the document with the schema. A
// single-object document is treated as a one-element array.
func validateDocument(ctx *cue.Context, schema cue.Value, doc conf.Value) []ValidationError {
	elements := []conf.Value{doc}
	if list, ok := doc.(conf.List); ok {
		elements = list
	}

	var errs []ValidationError
	for i, element := range elements {
		// Canonical JSON is valid CUE, so compile it directly.
		data, err := conf.MarshalCanonical(element)
		if err != nil {
			errs = append(errs, ValidationError{Document: i, Message: err.Error(), Code: ErrCodeGeneric})
			continue
		}
		value := ctx.CompileBytes(data)
		if value.Err() != nil {
			errs = append(errs, ValidationError{Document: i, Message: value.Err().Error(), Code: ErrCodeGeneric})
			continue
		}

		unified := schema.Unify(value)
		if err := unified.Validate(cue.Concrete(true)); err != nil {
			for _, e := range cueerrors.Errors(err) {
				errs = append(errs, ValidationError{Document: i, Message: e.Error(), Code: ErrCodeSchema})
			}
		}
	}
	return errs
}

func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "✓ Config valid")
	return nil
}

// outputValidateError reports a command-level failure (bad schema, missing
// file) as opposed to a validation failure of the document itself.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

func outputValidationErrors(formatter *OutputFormatter, errs []ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  document %d: %s: %s\n", err.Document, err.Code, err.Message)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
