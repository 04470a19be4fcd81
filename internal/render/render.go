package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"

	"cv-builder/internal/models"
	apperrors "cv-builder/pkg/errors"
)

//go:embed templates/*.html.tmpl
var layoutFS embed.FS

// TemplateID is the closed set of visual layouts. Adding a layout means
// adding a constant, a name, and a template file; the compiler and the
// registry check point at anything missed.
type TemplateID int

const (
	TemplateProfessional TemplateID = iota
	TemplateModern
	TemplateMinimal
	TemplateCreative
	TemplateAcademic
)

var templateNames = map[TemplateID]string{
	TemplateProfessional: "professional",
	TemplateModern:       "modern",
	TemplateMinimal:      "minimal",
	TemplateCreative:     "creative",
	TemplateAcademic:     "academic",
}

func (t TemplateID) String() string {
	if name, ok := templateNames[t]; ok {
		return name
	}
	return templateNames[TemplateProfessional]
}

// ParseTemplateID resolves a template name. Unknown values, including the
// empty string, resolve to the professional layout; selection never fails.
func ParseTemplateID(s string) TemplateID {
	for id, name := range templateNames {
		if name == s {
			return id
		}
	}
	return TemplateProfessional
}

// TemplateIDs lists every selectable layout in display order.
func TemplateIDs() []TemplateID {
	return []TemplateID{
		TemplateProfessional,
		TemplateModern,
		TemplateMinimal,
		TemplateCreative,
		TemplateAcademic,
	}
}

// VisualDocument is the rendered representation of a CV prior to export.
type VisualDocument struct {
	TemplateID TemplateID
	HTML       string
}

// State of an in-flight render while its layout is being materialized.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
)

type Result struct {
	State State
	Doc   *VisualDocument
	Err   error
}

// Pending is a render whose layout may still be loading. Placeholder is a
// deterministic stand-in shown until Done delivers the ready document.
type Pending struct {
	Placeholder *VisualDocument
	Done        <-chan Result
}

type lazyLayout struct {
	once sync.Once
	tpl  *template.Template
	err  error
}

// Renderer maps a CVRecord, a template id and a theme onto a visual
// document. It is stateless apart from the lazily parsed layout cache.
type Renderer struct {
	layouts map[TemplateID]*lazyLayout
}

func NewRenderer() *Renderer {
	layouts := make(map[TemplateID]*lazyLayout, len(templateNames))
	for id := range templateNames {
		layouts[id] = &lazyLayout{}
	}
	return &Renderer{layouts: layouts}
}

type layoutData struct {
	CV    *models.CVRecord
	Theme models.ThemeSpec
	Name  string
}

// Render produces the ready document synchronously. Unknown templateId
// values have already collapsed to a member of the closed set by the time a
// TemplateID exists, so this only fails when a layout cannot be materialized.
func (r *Renderer) Render(cv *models.CVRecord, id TemplateID, theme models.ThemeSpec) (*VisualDocument, error) {
	layout := r.layouts[id]
	if layout == nil {
		id = TemplateProfessional
		layout = r.layouts[id]
	}

	layout.once.Do(func() {
		layout.tpl, layout.err = template.ParseFS(layoutFS,
			fmt.Sprintf("templates/%s.html.tmpl", id.String()))
	})
	if layout.err != nil {
		return nil, apperrors.Wrap(apperrors.KindRenderFailure,
			fmt.Sprintf("failed to load %s layout", id.String()), layout.err)
	}

	name := cv.PersonalInfo.FirstName
	if cv.PersonalInfo.LastName != "" {
		if name != "" {
			name += " "
		}
		name += cv.PersonalInfo.LastName
	}

	var buf bytes.Buffer
	err := layout.tpl.Execute(&buf, layoutData{CV: cv, Theme: theme, Name: name})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindRenderFailure,
			fmt.Sprintf("failed to render %s layout", id.String()), err)
	}

	return &VisualDocument{TemplateID: id, HTML: buf.String()}, nil
}

// StartRender begins a render and returns immediately with the loading
// placeholder. Done delivers exactly one Result: the ready document or the
// render error. There is no intermediate content, so the placeholder can
// never flash a wrong layout.
func (r *Renderer) StartRender(cv *models.CVRecord, id TemplateID, theme models.ThemeSpec) *Pending {
	done := make(chan Result, 1)

	go func() {
		doc, err := r.Render(cv, id, theme)
		if err != nil {
			done <- Result{State: StateReady, Err: err}
			return
		}
		done <- Result{State: StateReady, Doc: doc}
	}()

	return &Pending{
		Placeholder: Placeholder(),
		Done:        done,
	}
}

// Placeholder is the deterministic visual state shown while a layout loads.
func Placeholder() *VisualDocument {
	return &VisualDocument{
		TemplateID: TemplateProfessional,
		HTML: `<!DOCTYPE html>
<html><body data-layout="placeholder"><div class="loading">Preparing document…</div></body></html>`,
	}
}
