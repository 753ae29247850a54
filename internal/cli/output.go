package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fleetzen/fleetzen/internal/service"
	"github.com/fleetzen/fleetzen/models"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The operation was refused or failed (not found, expired, storage, server)
	ExitCommandError = 2 // Bad input or configuration
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Invalid arguments map to
// ExitCommandError, everything else to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, service.ErrInvalidArgument) {
		return ExitCommandError
	}
	return ExitFailure
}

// errorCodes names the domain errors in JSON output. Order matters: the first
// match wins.
var errorCodes = []struct {
	err  error
	code string
}{
	{service.ErrInvalidArgument, "invalid_argument"},
	{service.ErrNotFound, "not_found"},
	{service.ErrExpired, "expired"},
	{service.ErrLimitExceeded, "limit_exceeded"},
	{service.ErrConflict, "conflict"},
	{service.ErrStorageFailure, "storage_failure"},
	{service.ErrServerUnreachable, "server_unreachable"},
	{service.ErrSubmissionRejected, "submission_rejected"},
}

// ErrorCode returns the stable machine-readable code of err.
func ErrorCode(err error) string {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "error"
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// textRenderer is implemented by results that have a human-readable form.
type textRenderer interface {
	renderText(w io.Writer) error
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}

	if r, ok := data.(textRenderer); ok {
		return r.renderText(f.Writer)
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs err in the configured format.
func (f *OutputFormatter) Error(err error) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: ErrorCode(err), Message: err.Error()},
		})
	}

	_, werr := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", ErrorCode(err), err)
	return werr
}

func (f *OutputFormatter) encode(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ── results ──────────────────────────────────────────────────────────────────

// draftResult renders one draft.
type draftResult struct {
	models.Draft
	// Expired is only set by inspect, which may show lapsed drafts.
	Expired *bool `json:"expired,omitempty"`
}

func (d draftResult) renderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "ID:\t%s\n", d.ID)
	fmt.Fprintf(tw, "Type:\t%s\n", d.Type)
	fmt.Fprintf(tw, "State:\t%s\n", d.SyncState)
	if d.SyncFailureReason != nil {
		fmt.Fprintf(tw, "Failure:\t%s\n", *d.SyncFailureReason)
	}
	if d.AgentID != "" {
		fmt.Fprintf(tw, "Agent:\t%s\n", strings.TrimSpace(d.AgentID+" "+d.AgentName))
	}
	fmt.Fprintf(tw, "Created:\t%s\n", formatTime(d.CreatedAt))
	fmt.Fprintf(tw, "Updated:\t%s\n", formatTime(d.UpdatedAt))
	fmt.Fprintf(tw, "Expires:\t%s\n", formatTime(d.ExpiresAt))
	if d.Expired != nil {
		fmt.Fprintf(tw, "Expired:\t%t\n", *d.Expired)
	}
	for _, ref := range []struct {
		name  string
		value *string
	}{{"Client", d.ClientRef}, {"Site", d.SiteRef}, {"Vehicle", d.VehicleRef}} {
		if ref.value != nil {
			fmt.Fprintf(tw, "%s:\t%s\n", ref.name, *ref.value)
		}
	}

	payload, err := json.Marshal(d.Payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(tw, "Payload:\t%s\n", payload)

	fmt.Fprintf(tw, "Photos:\t%d\n", len(d.PhotoRefs))
	for _, p := range d.PhotoRefs {
		fmt.Fprintf(tw, "\t%s  %dx%d  %d bytes\n", p.ID, p.Width, p.Height, p.Size)
	}

	return tw.Flush()
}

// draftListResult renders drafts as a table.
type draftListResult struct {
	Drafts []models.Draft `json:"drafts"`
	Count  int            `json:"count"`
}

func newDraftListResult(drafts []models.Draft) draftListResult {
	if drafts == nil {
		drafts = []models.Draft{}
	}
	return draftListResult{Drafts: drafts, Count: len(drafts)}
}

func (l draftListResult) renderText(w io.Writer) error {
	if l.Count == 0 {
		_, err := fmt.Fprintln(w, "No drafts.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSTATE\tPHOTOS\tUPDATED\tEXPIRES")
	for _, d := range l.Drafts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			d.ID, d.Type, d.SyncState, len(d.PhotoRefs), formatTime(d.UpdatedAt), formatTime(d.ExpiresAt))
	}
	return tw.Flush()
}

// messageResult is a one-line confirmation with structured fields for JSON.
type messageResult struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func (m messageResult) renderText(w io.Writer) error {
	_, err := fmt.Fprintln(w, m.Message)
	return err
}

type syncResult struct {
	models.SyncReport
}

func (s syncResult) renderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Sync finished: %d submitted, %d failed, %d skipped.\n", s.Submitted, s.Failed, s.Skipped)
	return err
}

type versionResult struct {
	models.AppBuildInfo
}

func (v versionResult) renderText(w io.Writer) error {
	_, err := fmt.Fprint(w, v.AppBuildInfo.String())
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.RFC3339)
}
