// Error codes reference.
//
// Every error that reaches a client is mapped to a UserMessage carrying a
// short code. Clients can quote the code to support staff, who find the
// technical error in the logs.
//
// # Exam and schema errors
//
//	EXAM001 - The exam does not exist
//	SCH001  - The exam skeleton has no student reference field
//	SCH002  - The exam skeleton has no classroom reference field
//	SCH003  - The exam skeleton has no sort-key reference field
//
// # File errors
//
//	FILE001 - File exceeds the upload size limit
//	FILE002 - File is not a readable .xls or .xlsx workbook
//	FILE003 - Declared content type is not a workbook type
//	FILE004 - No file was attached to the request
//	FILE005 - Workbook has no worksheet or no header row
//
// # Upload errors
//
//	UPL002 - Too many ingestions are running
//	UPL004 - Upload was cancelled
//	UPL005 - Upload took too long
//
// # Request errors
//
//	REQ001 - Malformed id or form field
//
// # Result errors
//
//	RES001 - The exam result does not exist
//
// # Database errors
//
//	DB001 - Duplicate key
//	DB003 - Referenced record does not exist
//	DB004 - Unable to connect to database
//	DB005 - Database connection was interrupted
//	DB006 - Operation timed out
//	DB007 - Deadlock
//
// ERR000 is the fallback for anything else.

package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/examsheet/internal/spreadsheet"
)

// UserMessage is the client-facing rendering of an error.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgExamNotFound = UserMessage{
		Message: "The exam does not exist",
		Action:  "Check the exam id in the request",
		Code:    "EXAM001",
	}
	msgStudentFieldMissing = UserMessage{
		Message: "The exam skeleton has no student reference field",
		Action:  "Mark one skeleton field as the student number reference",
		Code:    "SCH001",
	}
	msgClassroomFieldMissing = UserMessage{
		Message: "The exam skeleton has no classroom reference field",
		Action:  "Mark one skeleton field as the classroom number reference",
		Code:    "SCH002",
	}
	msgSortKeyFieldMissing = UserMessage{
		Message: "The exam skeleton has no sort-key reference field",
		Action:  "Mark one skeleton field as the sort key reference",
		Code:    "SCH003",
	}
	msgUnreadable = UserMessage{
		Message: "The file is not a readable spreadsheet",
		Action:  "Upload an Excel workbook (.xls or .xlsx)",
		Code:    "FILE002",
	}
	msgEmptyWorkbook = UserMessage{
		Message: "The workbook has no header row",
		Action:  "Put the column headers in the first row of the first sheet",
		Code:    "FILE005",
	}
	msgBusy = UserMessage{
		Message: "The system is busy processing other uploads",
		Action:  "Please try again in a few moments",
		Code:    "UPL002",
	}
	msgResultNotFound = UserMessage{
		Message: "The exam result does not exist",
		Action:  "Check the result id in the request",
		Code:    "RES001",
	}
)

// errorPatterns is searched in order against the lowercased error text.
var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the upload size limit",
			Action:  "Split the results over several files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file",
		msg: UserMessage{
			Message: "No file was attached",
			Action:  "Attach the workbook in the \"file\" form field",
			Code:    "FILE004",
		},
	},
	{
		pattern: "unsupported content type",
		msg: UserMessage{
			Message: "The file type is not supported",
			Action:  "Upload an Excel workbook (.xls or .xlsx)",
			Code:    "FILE003",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request is malformed",
			Action:  "Check the ids and form fields of the request",
			Code:    "REQ001",
		},
	},
	{pattern: "too many uploads", msg: msgBusy},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The upload was cancelled",
			Action:  "Upload the file again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "The upload took too long to process",
			Action:  "Try a smaller file or try again later",
			Code:    "UPL005",
		},
	},
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Please try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Check that the exam still exists",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Typed ingestion errors are mapped by kind and role. Anything else is
// matched case-insensitively against known patterns; the first match wins
// and ERR000 is returned when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if ie, ok := AsIngestError(err); ok {
		switch ie.Kind {
		case KindNotFound:
			return msgExamNotFound
		case KindSchemaIncomplete:
			switch ie.Role {
			case RoleStudentNumber:
				return msgStudentFieldMissing
			case RoleClassroomNumber:
				return msgClassroomFieldMissing
			default:
				return msgSortKeyFieldMissing
			}
		case KindFileUnreadable:
			if errors.Is(ie.Err, spreadsheet.ErrNoSheets) || errors.Is(ie.Err, spreadsheet.ErrEmptyFile) || errors.Is(ie.Err, ErrNoHeaderRow) {
				return msgEmptyWorkbook
			}
			return msgUnreadable
		}
	}

	if errors.Is(err, ErrResultNotFound) {
		return msgResultNotFound
	}
	if errors.Is(err, ErrTooManyUploads) {
		return msgBusy
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

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
