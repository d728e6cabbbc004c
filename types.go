package audit2pdf

import (
	"github.com/alnah/go-audit2pdf/internal/browser"
	"github.com/alnah/go-audit2pdf/internal/report"
)

// Report is a parsed audit report.
type Report = report.AuditReport

// ReportView is a report rendered in the export browser. Sections register
// themselves when the view opens; the view is owned by whoever opened it.
type ReportView = browser.View

// Section identifiers, in report order.
const (
	SectionSummary                  = report.SectionSummary
	SectionOverallPotential         = report.SectionOverallPotential
	SectionWebsiteUX                = report.SectionWebsiteUX
	SectionSEO                      = report.SectionSEO
	SectionDigitalMarketingPresence = report.SectionDigitalMarketingPresence
	SectionContentCommunication     = report.SectionContentCommunication
	SectionAIAutomation             = report.SectionAIAutomation
	SectionAdvertisingOptimization  = report.SectionAdvertisingOptimization
	SectionGoogleMyBusiness         = report.SectionGoogleMyBusiness
	SectionPitch                    = report.SectionPitch
	SectionCallNotes                = report.SectionCallNotes
)

// DefaultSections returns every section except the sales pitch and call
// notes.
func DefaultSections() []string {
	return report.DefaultSelection()
}

// SectionIDs returns every known section id in report order.
func SectionIDs() []string {
	return report.IDs()
}

// DecodeReport parses a YAML or JSON audit report.
func DecodeReport(data []byte) (*Report, error) {
	return report.Decode(data)
}

// LoadReport reads and parses an audit report file.
func LoadReport(path string) (*Report, error) {
	return report.LoadFile(path)
}

// ExportOptions selects content and branding for one export.
type ExportOptions struct {
	// SelectedSections lists the section ids to keep. Unknown ids are
	// ignored. An empty selection exports a single page with branding and
	// no body content.
	SelectedSections []string
	HeaderText       string
	FooterText       string
	Logo             *Logo // optional
}

// ReportOptions controls how a report is rendered before export.
type ReportOptions struct {
	Title string // heading; "Website Audit" when empty
	Date  string // shown under the domain when set
	Theme string // theme the view starts in, as a viewer would have it; "" follows the system
}

// Artifact is a finished export.
type Artifact struct {
	Name      string // Website-Audit-{domain}.{ext}
	MediaType string
	Data      []byte
	PageCount int
	ExportID  string
}

// State is a step of the export state machine.
type State int32

// Export states, in order. Every export ends in Done or Failed and then
// returns to Idle.
const (
	StateIdle State = iota
	StatePreparing
	StateCapturing
	StatePaginating
	StateSerializing
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StatePreparing:   "preparing",
	StateCapturing:   "capturing",
	StatePaginating:  "paginating",
	StateSerializing: "serializing",
	StateDone:        "done",
	StateFailed:      "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Busy reports whether the state is one of the slow steps during which a
// caller should show a busy indicator.
func (s State) Busy() bool {
	return s == StateCapturing || s == StateSerializing
}

// Progress is reported to the WithProgress callback on every transition.
type Progress struct {
	ExportID string
	State    State
	Err      error // set with StateFailed
}

// SectionInfo describes one exportable section.
type SectionInfo = report.SectionInfo

// Sections returns every known section with its label, in report order.
func Sections() []SectionInfo {
	return report.Catalog()
}
