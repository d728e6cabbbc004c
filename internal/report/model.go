// Package report holds the audit report data model and renders it into the
// HTML view that an export captures.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-audit2pdf/internal/yamlutil"
)

// Sentinel errors for report decoding.
var (
	ErrInvalidReport = errors.New("invalid audit report")
	ErrMissingURL    = errors.New("audit report has no url")
)

// ScoredSection is an audit area rated from 0 to 100.
type ScoredSection struct {
	Score   int    `yaml:"score"`
	Comment string `yaml:"comment"`
}

// SocialMediaStat is the follower count on one platform.
type SocialMediaStat struct {
	Platform  string `yaml:"platform"`
	Followers string `yaml:"followers"`
}

// ReviewStats summarizes reviews on one platform.
type ReviewStats struct {
	Score       string `yaml:"score"`
	ReviewCount string `yaml:"reviewCount"`
}

// DigitalMarketingSection is a scored section with social and review figures.
type DigitalMarketingSection struct {
	ScoredSection    `yaml:",inline"`
	SocialMediaStats []SocialMediaStat `yaml:"socialMediaStats"`
	Trustpilot       *ReviewStats      `yaml:"trustpilot,omitempty"`
	GoogleReviews    *ReviewStats      `yaml:"googleReviews,omitempty"`
}

// AnalysisSection is an unscored commentary section.
type AnalysisSection struct {
	Comment string `yaml:"comment"`
}

// AuditReport is a generated marketing audit of one website.
// Field names follow the generator's JSON output, so JSON reports decode
// through the YAML decoder unchanged.
type AuditReport struct {
	URL                      string                  `yaml:"url"`
	Summary                  string                  `yaml:"summary"`
	OverallPotential         ScoredSection           `yaml:"overallPotential"`
	WebsiteUX                ScoredSection           `yaml:"websiteUx"`
	SEO                      ScoredSection           `yaml:"seo"`
	DigitalMarketingPresence DigitalMarketingSection `yaml:"digitalMarketingPresence"`
	ContentCommunication     ScoredSection           `yaml:"contentCommunication"`
	AIAutomation             ScoredSection           `yaml:"aiAutomation"`
	AdvertisingOptimization  AnalysisSection         `yaml:"advertisingOptimization"`
	GoogleMyBusiness         AnalysisSection         `yaml:"googleMyBusiness"`
	Pitch                    string                  `yaml:"pitch,omitempty"`
	CallNotes                string                  `yaml:"callNotes,omitempty"`
}

// Decode parses a YAML or JSON audit report and validates it.
// Unknown fields are ignored; generators add fields between versions.
func Decode(data []byte) (*AuditReport, error) {
	var r AuditReport
	if err := yamlutil.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadFile reads and decodes a report file.
func LoadFile(path string) (*AuditReport, error) {
	data, err := yamlutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}
	return Decode(data)
}

// Validate checks the URL is present and every score is within 0..100.
func (r *AuditReport) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidReport, ErrMissingURL)
	}

	scores := map[string]int{
		SectionOverallPotential:         r.OverallPotential.Score,
		SectionWebsiteUX:                r.WebsiteUX.Score,
		SectionSEO:                      r.SEO.Score,
		SectionDigitalMarketingPresence: r.DigitalMarketingPresence.Score,
		SectionContentCommunication:     r.ContentCommunication.Score,
		SectionAIAutomation:             r.AIAutomation.Score,
	}
	for _, id := range IDs() {
		score, ok := scores[id]
		if ok && (score < 0 || score > 100) {
			return fmt.Errorf("%w: %s score %d outside 0..100", ErrInvalidReport, id, score)
		}
	}
	return nil
}

// ScoreBand classifies a score for display: good (80+), fair (50+) or poor.
func ScoreBand(score int) string {
	switch {
	case score >= 80:
		return "good"
	case score >= 50:
		return "fair"
	default:
		return "poor"
	}
}
