package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/alnah/go-audit2pdf/internal/assets"
)

// Markers shared with the browser view: the capture region and the
// attribute naming each exportable section.
const (
	ContentID        = "report-content"
	SectionAttribute = "data-section-id"
)

// DefaultTitle heads the report when RenderOptions.Title is empty.
const DefaultTitle = "Website Audit"

// Sentinel errors for rendering.
var (
	ErrTemplateParse = errors.New("report template parsing failed")
	ErrRender        = errors.New("report rendering failed")
)

// RenderOptions controls the report view.
type RenderOptions struct {
	Title string // heading; DefaultTitle when empty
	Date  string // shown under the domain when set
	Theme string // initial explicit theme; empty leaves the viewer's preference
}

// Renderer turns an AuditReport into a standalone HTML document.
// Safe for concurrent use.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
	css  template.CSS
}

// NewRenderer parses the report template of ts and embeds css in every
// rendered document.
func NewRenderer(ts *assets.TemplateSet, css string) (*Renderer, error) {
	if ts == nil {
		return nil, fmt.Errorf("%w: nil template set", ErrTemplateParse)
	}
	tmpl, err := template.New("report").Parse(ts.Report)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, ts.Name, err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &Renderer{
		md:   md,
		tmpl: tmpl,
		css:  template.CSS(sanitizeCSS(css)), // #nosec G203 -- closing tags escaped
	}, nil
}

type viewData struct {
	Title    string
	Domain   string
	Date     string
	Theme    string
	CSS      template.CSS
	Sections []sectionView
}

type sectionView struct {
	ID      string
	Label   string
	Scored  bool
	Score   int
	Band    string
	Prose   bool
	Body    template.HTML
	Social  []SocialMediaStat
	Reviews []reviewView
}

type reviewView struct {
	Source string
	Score  string
	Count  string
}

// Render produces the report document. Every section is a region marked
// with SectionAttribute inside the element with id ContentID. The pitch and
// call notes regions are omitted when empty.
func (r *Renderer) Render(ctx context.Context, rep *AuditReport, opts RenderOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if rep == nil {
		return "", fmt.Errorf("%w: nil report", ErrRender)
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	sections, err := r.sections(rep)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	data := viewData{
		Title:    title,
		Domain:   DisplayDomain(rep.URL),
		Date:     opts.Date,
		Theme:    opts.Theme,
		CSS:      r.css,
		Sections: sections,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.String(), nil
}

func (r *Renderer) sections(rep *AuditReport) ([]sectionView, error) {
	var views []sectionView
	for _, info := range catalog {
		v := sectionView{ID: info.ID, Label: info.Label}
		var text string

		switch info.ID {
		case SectionSummary:
			text = rep.Summary
		case SectionOverallPotential:
			v.scored(rep.OverallPotential)
			text = rep.OverallPotential.Comment
		case SectionWebsiteUX:
			v.scored(rep.WebsiteUX)
			text = rep.WebsiteUX.Comment
		case SectionSEO:
			v.scored(rep.SEO)
			text = rep.SEO.Comment
		case SectionDigitalMarketingPresence:
			dm := rep.DigitalMarketingPresence
			v.scored(dm.ScoredSection)
			text = dm.Comment
			v.Social = dm.SocialMediaStats
			v.Reviews = reviews(dm)
		case SectionContentCommunication:
			v.scored(rep.ContentCommunication)
			text = rep.ContentCommunication.Comment
		case SectionAIAutomation:
			v.scored(rep.AIAutomation)
			text = rep.AIAutomation.Comment
		case SectionAdvertisingOptimization:
			text = rep.AdvertisingOptimization.Comment
		case SectionGoogleMyBusiness:
			text = rep.GoogleMyBusiness.Comment
		case SectionPitch:
			if strings.TrimSpace(rep.Pitch) == "" {
				continue
			}
			text = rep.Pitch
		case SectionCallNotes:
			if strings.TrimSpace(rep.CallNotes) == "" {
				continue
			}
			// Notes are typed by hand; keep them verbatim.
			v.Prose = true
			v.Body = template.HTML(template.HTMLEscapeString(rep.CallNotes)) // #nosec G203 -- escaped
			views = append(views, v)
			continue
		}

		body, err := r.markdown(text)
		if err != nil {
			return nil, fmt.Errorf("%w: section %s: %v", ErrRender, info.ID, err)
		}
		v.Body = body
		views = append(views, v)
	}
	return views, nil
}

func (v *sectionView) scored(s ScoredSection) {
	v.Scored = true
	v.Score = s.Score
	v.Band = ScoreBand(s.Score)
}

func reviews(dm DigitalMarketingSection) []reviewView {
	var out []reviewView
	if dm.Trustpilot != nil {
		out = append(out, reviewView{Source: "Trustpilot", Score: dm.Trustpilot.Score, Count: dm.Trustpilot.ReviewCount})
	}
	if dm.GoogleReviews != nil {
		out = append(out, reviewView{Source: "Google Reviews", Score: dm.GoogleReviews.Score, Count: dm.GoogleReviews.ReviewCount})
	}
	return out
}

// markdown renders a generator comment. Raw HTML in the input is dropped.
func (r *Renderer) markdown(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- goldmark output without WithUnsafe
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// DisplayDomain strips the scheme and trailing slashes from a report URL.
func DisplayDomain(url string) string {
	d := strings.TrimSpace(url)
	lower := strings.ToLower(d)
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(lower, scheme) {
			d = d[len(scheme):]
			break
		}
	}
	return strings.TrimRight(d, "/")
}
