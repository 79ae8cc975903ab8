package content

import (
	"strings"
)

// Category groups attachments by the kind of file they pretend to be
type Category string

const (
	CategoryPDF          Category = "pdf"
	CategoryDocument     Category = "document"
	CategorySpreadsheet  Category = "spreadsheet"
	CategoryPresentation Category = "presentation"
	CategoryOther        Category = "other"
)

// AttachmentSignals are the warning signs derived from an attachment name
type AttachmentSignals struct {
	Category        Category
	DoubleExtension bool
	Macros          bool
	Executable      bool
}

// Suspicious reports whether any warning sign is present
func (s AttachmentSignals) Suspicious() bool {
	return s.DoubleExtension || s.Macros || s.Executable
}

// Warnings returns one line per warning sign
func (s AttachmentSignals) Warnings() []string {
	var out []string
	if s.DoubleExtension {
		out = append(out, "Double file extension hides the real file type")
	}
	if s.Macros {
		out = append(out, "Macro-enabled document can run code when opened")
	}
	if s.Executable {
		out = append(out, "Executable file type")
	}
	return out
}

var (
	doubleExtMarkers = []string{".pdf.", ".docx.", ".doc.", ".xlsx."}
	macroExts        = []string{".docm", ".xlsm", ".pptm"}
	executableExts   = []string{".exe", ".scr", ".bat", ".cmd", ".com", ".js", ".vbs", ".msi", ".jar", ".ps1"}

	categoryExts = []struct {
		category Category
		exts     []string
	}{
		{CategoryPDF, []string{".pdf"}},
		{CategoryDocument, []string{".docx", ".doc", ".docm"}},
		{CategorySpreadsheet, []string{".xlsx", ".xls", ".xlsm"}},
		{CategoryPresentation, []string{".pptx", ".ppt", ".pptm"}},
	}
)

// InspectAttachment derives warning signs from a file name. A disguised
// file like "invoice.pdf.exe" is categorized by the extension it shows off.
func InspectAttachment(name string) AttachmentSignals {
	lower := strings.ToLower(strings.TrimSpace(name))

	var s AttachmentSignals
	for _, m := range doubleExtMarkers {
		if strings.Contains(lower, m) {
			s.DoubleExtension = true
			break
		}
	}
	s.Macros = hasAnySuffix(lower, macroExts)
	s.Executable = hasAnySuffix(lower, executableExts)

	s.Category = CategoryOther
	for _, c := range categoryExts {
		if hasAnySuffix(lower, c.exts) || containsAnyInner(lower, c.exts) {
			s.Category = c.category
			break
		}
	}
	return s
}

func hasAnySuffix(name string, exts []string) bool {
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

func containsAnyInner(name string, exts []string) bool {
	for _, e := range exts {
		if strings.Contains(name, e+".") {
			return true
		}
	}
	return false
}
