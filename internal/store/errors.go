package store

import (
	"fmt"
	"strings"
)

// UserMessage is the user-facing form of an error.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text to user messages, first match
// wins. Codes are grouped by category so support can triage from the
// code alone:
//
//	DB001-DB099   database connectivity and constraints
//	VAL001-VAL099 row and column validation
//	FILE001-FILE099 file format problems
//	IMP001-IMP099 import pipeline
//	RES001        unknown restaurant
//	RATE001       throttling
//	ERR000        fallback
//
// Order matters: specific pipeline patterns come before the generic
// database ones they may wrap.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Import Pipeline Errors (IMP001-IMP003)
	// Matched first because they wrap lower-level causes.
	// =========================================================================
	{
		pattern: "replace zones for city",
		msg: UserMessage{
			Message: "Delivery zones could not be updated for one of the cities",
			Action:  "Cities earlier in the file were saved. Fix the named city and save again",
			Code:    "IMP001",
		},
	},
	{
		pattern: "no valid rows found",
		msg: UserMessage{
			Message: "No usable rows were found in the file",
			Action:  "Check that data starts on the second row and required columns are filled",
			Code:    "IMP002",
		},
	},
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "The server is busy processing other imports",
			Action:  "Wait a moment and try again",
			Code:    "IMP003",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL006)
	// =========================================================================
	{
		pattern: "missing required columns",
		msg: UserMessage{
			Message: "The file is missing required columns",
			Action:  "Download the template and match its column headers",
			Code:    "VAL001",
		},
	},
	{
		pattern: "name is required",
		msg: UserMessage{
			Message: "A required name is empty",
			Action:  "Fill in the empty name and save again",
			Code:    "VAL002",
		},
	},
	{
		pattern: "must be a number",
		msg: UserMessage{
			Message: "An amount field contains something that is not a number",
			Action:  "Use plain numbers for prices, fees, and minimums",
			Code:    "VAL003",
		},
	},
	{
		pattern: "invalid restaurant id",
		msg: UserMessage{
			Message: "The restaurant reference is not valid",
			Action:  "Reload the page and try again",
			Code:    "VAL004",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Reload the page and try again",
			Code:    "VAL005",
		},
	},
	{
		pattern: "unknown catalog",
		msg: UserMessage{
			Message: "That catalog type does not exist",
			Action:  `Use "menu" or "zones"`,
			Code:    "VAL006",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE007)
	// =========================================================================
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "This file type is not supported",
			Action:  "Upload a .csv or .xlsx file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "file is empty",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Export your data again and retry the upload",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no sheets",
		msg: UserMessage{
			Message: "The workbook contains no sheets",
			Action:  "Save the file again with your data on the first sheet",
			Code:    "FILE003",
		},
	},
	{
		pattern: "has no rows",
		msg: UserMessage{
			Message: "The first sheet of the workbook is empty",
			Action:  "Put the header and data on the first sheet",
			Code:    "FILE003",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "The workbook could not be read",
			Action:  "Re-save the file as .xlsx or export a .csv instead",
			Code:    "FILE004",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The file is too large",
			Action:  "Split the file into smaller uploads",
			Code:    "FILE005",
		},
	},
	{
		pattern: "multipart",
		msg: UserMessage{
			Message: "The upload form was not readable",
			Action:  `Send the file as multipart form data in a field named "file"`,
			Code:    "FILE006",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was attached to the upload",
			Action:  "Choose a file before submitting",
			Code:    "FILE007",
		},
	},

	// =========================================================================
	// Restaurant Errors (RES001)
	// =========================================================================
	{
		pattern: "restaurant not found",
		msg: UserMessage{
			Message: "This restaurant no longer exists",
			Action:  "Go back to the restaurant list and pick another",
			Code:    "RES001",
		},
	},

	// =========================================================================
	// Database Errors (DB001-DB005)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Refresh and check whether the change already applied",
			Code:    "DB001",
		},
	},
	{
		pattern: "foreign key",
		msg: UserMessage{
			Message: "A referenced record does not exist",
			Action:  "The restaurant may have been deleted. Refresh the list",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "The database is not reachable",
			Action:  "Try again in a few moments",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "The database connection was interrupted",
			Action:  "Try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Try again, or upload a smaller file",
			Code:    "DB005",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests in a short time",
			Action:  "Slow down and try again in a minute",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is the fallback when nothing matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Try again, and quote the code if you contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. It
// searches the known patterns case-insensitively and returns the first
// match, or the ERR000 fallback.
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

// FormatUserError renders a mapped error for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
