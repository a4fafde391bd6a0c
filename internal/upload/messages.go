package upload

// # Error Codes Reference
//
// Failed uploads carry a short code next to the original error message so
// users can quote it to support. Codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds maximum size limit
//	          Action: Split the file into smaller files
//	          Patterns: "file too large"
//
//	FILE002 - Invalid CSV: Rows do not match the header
//	          Action: Ensure every row has no more fields than the header
//	          Patterns: "fields in line", "bare \" in", "extraneous"
//
//	FILE003 - Encoding error: File contains invalid characters
//	          Action: Save the file as UTF-8
//	          Patterns: "invalid utf-8"
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a file to upload
//	          Patterns: "no file part", "no selected file"
//
//	FILE005 - Empty file: The file has no header row
//	          Action: Upload a file whose first row names the columns
//	          Patterns: "no columns to parse"
//
//	FILE006 - Unsupported type: File type is not supported
//	          Action: Upload a .csv, .xlsx or .xls file
//	          Patterns: "file type not allowed", "unsupported file format"
//
//	FILE007 - Unreadable workbook: The spreadsheet could not be opened
//	          Action: Re-save the workbook as .xlsx
//	          Patterns: "zip: not a valid zip file", "unsupported workbook"
//
// # Analysis Errors (ANL001-ANL099)
//
//	ANL001 - Malformed table: Columns have different lengths
//	         Action: Check the file for broken rows
//	         Patterns: "unequal lengths"
//
//	ANL002 - Duplicate column: Two columns have the same name
//	         Action: Rename the duplicate column headers
//	         Patterns: "duplicate column"
//
//	ANL003 - Invalid number: A numeric cell cannot be reported
//	         Action: Replace infinite or NaN values in numeric columns
//	         Patterns: "non-finite"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many uploads in progress
//	UPL004 - Request cancelled: Request was cancelled
//	UPL005 - Request timeout: Request timed out
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the original error.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "fields in line",
		msg: UserMessage{
			Message: "Rows do not match the header",
			Action:  "Ensure every row has no more fields than the header",
			Code:    "FILE002",
		},
	},
	{
		pattern: `bare " in`,
		msg: UserMessage{
			Message: "Rows do not match the header",
			Action:  "Ensure every row has no more fields than the header",
			Code:    "FILE002",
		},
	},
	{
		pattern: "extraneous",
		msg: UserMessage{
			Message: "Rows do not match the header",
			Action:  "Ensure every row has no more fields than the header",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid utf-8",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save the file as UTF-8",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file part",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "no selected file",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "no columns to parse",
		msg: UserMessage{
			Message: "The file has no header row",
			Action:  "Upload a file whose first row names the columns",
			Code:    "FILE005",
		},
	},
	{
		pattern: "file type not allowed",
		msg: UserMessage{
			Message: "File type is not supported",
			Action:  "Upload a .csv, .xlsx or .xls file",
			Code:    "FILE006",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "File type is not supported",
			Action:  "Upload a .csv, .xlsx or .xls file",
			Code:    "FILE006",
		},
	},
	{
		pattern: "not a valid zip file",
		msg: UserMessage{
			Message: "The spreadsheet could not be opened",
			Action:  "Re-save the workbook as .xlsx",
			Code:    "FILE007",
		},
	},
	{
		pattern: "unsupported workbook",
		msg: UserMessage{
			Message: "The spreadsheet could not be opened",
			Action:  "Re-save the workbook as .xlsx",
			Code:    "FILE007",
		},
	},
	// Analysis errors
	{
		pattern: "unequal lengths",
		msg: UserMessage{
			Message: "Columns have different lengths",
			Action:  "Check the file for broken rows",
			Code:    "ANL001",
		},
	},
	{
		pattern: "duplicate column",
		msg: UserMessage{
			Message: "Two columns have the same name",
			Action:  "Rename the duplicate column headers",
			Code:    "ANL002",
		},
	},
	{
		pattern: "non-finite",
		msg: UserMessage{
			Message: "A numeric cell cannot be reported",
			Action:  "Replace infinite or NaN values in numeric columns",
			Code:    "ANL003",
		},
	},
	// Upload errors
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "Too many uploads in progress",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try uploading a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. It returns
// the first pattern match, or the ERR000 fallback.
//
// Example:
//
//	err := errors.New("expected 2 fields in line 3, saw 3")
//	msg := MapError(err)
//	// msg.Code == "FILE002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
