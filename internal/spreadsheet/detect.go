package spreadsheet

import "github.com/gabriel-vasile/mimetype"

// Workbook MIME types accepted for upload.
const (
	MIMETypeXLS  = "application/vnd.ms-excel"
	MIMETypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DetectFormat sniffs the container format from the file content.
// Client-declared content types are not trusted.
func DetectFormat(data []byte) Format {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is(MIMETypeXLS), mt.Is("application/x-ole-storage"):
		return FormatXLS
	case mt.Is(MIMETypeXLSX), mt.Is("application/zip"):
		return FormatXLSX
	default:
		return FormatUnknown
	}
}

// AcceptedContentType reports whether a declared upload content type may
// carry a workbook. Generic binary types are accepted and sniffed later.
func AcceptedContentType(contentType string) bool {
	switch contentType {
	case MIMETypeXLS, MIMETypeXLSX, "application/octet-stream", "application/x-ole-storage", "":
		return true
	default:
		return false
	}
}
