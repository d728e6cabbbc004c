package report

// Stable section ids. They appear as data-section-id in the report view and
// are what users select for export.
const (
	SectionSummary                  = "summary"
	SectionOverallPotential         = "overallPotential"
	SectionWebsiteUX                = "websiteUx"
	SectionSEO                      = "seo"
	SectionDigitalMarketingPresence = "digitalMarketingPresence"
	SectionContentCommunication     = "contentCommunication"
	SectionAIAutomation             = "aiAutomation"
	SectionAdvertisingOptimization  = "advertisingOptimization"
	SectionGoogleMyBusiness         = "googleMyBusiness"
	SectionPitch                    = "pitchGenerator"
	SectionCallNotes                = "callNotes"
)

// SectionInfo describes one exportable section.
type SectionInfo struct {
	ID      string
	Label   string
	Default bool // selected unless the user says otherwise
}

var catalog = []SectionInfo{
	{ID: SectionSummary, Label: "Executive Summary", Default: true},
	{ID: SectionOverallPotential, Label: "Overall Potential", Default: true},
	{ID: SectionWebsiteUX, Label: "Website & UX", Default: true},
	{ID: SectionSEO, Label: "SEO", Default: true},
	{ID: SectionDigitalMarketingPresence, Label: "Digital Marketing", Default: true},
	{ID: SectionContentCommunication, Label: "Content & Communication", Default: true},
	{ID: SectionAIAutomation, Label: "AI & Automation", Default: true},
	{ID: SectionAdvertisingOptimization, Label: "Advertising & Optimization", Default: true},
	{ID: SectionGoogleMyBusiness, Label: "Google My Business", Default: true},
	{ID: SectionPitch, Label: "Sales Pitch"},
	{ID: SectionCallNotes, Label: "Call Notes"},
}

// Catalog returns every known section in display order.
func Catalog() []SectionInfo {
	return append([]SectionInfo(nil), catalog...)
}

// IDs returns every known section id in display order.
func IDs() []string {
	ids := make([]string, len(catalog))
	for i, s := range catalog {
		ids[i] = s.ID
	}
	return ids
}

// DefaultSelection returns the ids selected when the user picks none:
// everything except the sales pitch and call notes.
func DefaultSelection() []string {
	var ids []string
	for _, s := range catalog {
		if s.Default {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Lookup returns the catalogue entry for id.
func Lookup(id string) (SectionInfo, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return SectionInfo{}, false
}
