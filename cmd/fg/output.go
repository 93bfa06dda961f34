package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/encoded/filegallery/internal/portal"
	"github.com/encoded/filegallery/internal/record"
)

// FileTitleMaxLen bounds the output type column of human file listings.
const FileTitleMaxLen = 40

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitWithPortalError reports a failed portal request and exits.
func exitWithPortalError(err error) {
	switch {
	case portal.IsAuthError(err):
		exitWithError(ExitPortalError, "%v\n\nSet FG_API_KEY and FG_API_SECRET, or api_key and api_secret in the global config.", err)
	case portal.IsRateLimited(err):
		exitWithError(ExitPortalError, "%v\n\nLower rate_limit in the global config and retry.", err)
	default:
		exitWithError(ExitPortalError, "%v", err)
	}
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// printFilesHuman prints one line per file.
func printFilesHuman(files []record.File, indent string) {
	for i := range files {
		f := &files[i]
		title := f.Title
		if title == "" {
			title = record.AccessionFromID(f.ID)
		}
		assembly := f.Assembly
		if assembly == "" {
			assembly = "-"
		}
		fmt.Printf("%s%-14s %-10s %-12s %-40s %s\n",
			indent, title, f.FileFormat, assembly,
			truncateString(f.OutputType, FileTitleMaxLen), f.Status)
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatIDList formats a list of IDs as a comma-separated string.
func formatIDList(ids []string) string {
	return strings.Join(ids, ", ")
}
