package pipeline

import (
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/goliatone/go-craftadmin/pkg/dom"
	"github.com/goliatone/go-craftadmin/pkg/render"
)

// progress mirrors a run onto the page. Without a page every method is a
// no-op.
type progress struct {
	page      *dom.Page
	container *goquery.Selection
	trigger   *goquery.Selection
	classes   render.Classes
	logger    *zap.Logger
}

func newProgress(opts Options) *progress {
	p := &progress{page: opts.Page, classes: opts.Classes, logger: opts.Logger}
	if p.page == nil {
		return p
	}
	p.container = p.page.Find(opts.ContainerSelector).First()
	p.trigger = p.page.Find(opts.TriggerSelector).First()
	return p
}

func (p *progress) enabled() bool {
	return p.page != nil && p.container.Length() > 0
}

func (p *progress) begin(clear bool) {
	if p.page == nil {
		return
	}
	if clear && p.container.Length() > 0 {
		p.container.Empty()
	}
	dom.SetDisabled(p.trigger, true)
	dom.SetClass(p.trigger, p.classes.InProgress, true)
	p.trigger.SetText(LabelInProgress)
}

func (p *progress) finish() {
	if p.page == nil {
		return
	}
	dom.SetDisabled(p.trigger, false)
	dom.SetClass(p.trigger, p.classes.InProgress, false)
	p.trigger.SetText(LabelRestart)
}

func (p *progress) started(step Step) {
	p.write(render.ProgressItem{ID: step.ID, Label: step.ProgressName, Class: p.classes.InProgress})
}

func (p *progress) succeeded(step Step, message string) {
	p.write(render.ProgressItem{ID: step.ID, Label: message, Class: p.classes.Success})
}

func (p *progress) failed(step Step) {
	p.write(render.ProgressItem{
		ID:           step.ID,
		Label:        step.ErrorName,
		Class:        p.classes.Error,
		RestartLabel: LabelRestartRun,
	})
}

// write creates the item for step or replaces the existing one.
func (p *progress) write(item render.ProgressItem) {
	if !p.enabled() {
		return
	}
	markup, err := render.Progress(item)
	if err != nil {
		p.logger.Error("render progress item", zap.String("step", item.ID), zap.Error(err))
		return
	}
	if existing := p.page.ByID(item.ID); existing.Length() > 0 {
		existing.ReplaceWithHtml(markup)
		return
	}
	p.container.AppendHtml(markup)
}
