package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/pkg/logger"
)

func testOrchestrator(t *testing.T, client *stubClient, console *scriptConsole) (*Orchestrator, *recordRenderer) {
	t.Helper()
	renderer := &recordRenderer{}
	o := &Orchestrator{
		Client:   client,
		Manager:  readyManager(t, client),
		Renderer: renderer,
		Console:  console,
		Lookup:   &stubLookup{},
		Exporter: &stubExporter{},
		History:  &memHistory{},
		Logger:   logger.NewStd(),
		app:      testApp(),
	}
	return o, renderer
}

func TestGenerateMergesFirstOptionIntoAccumulator(t *testing.T) {
	client := &stubClient{authenticated: true}
	client.script = []domain.SessionEvent{
		{Kind: domain.EventMessageDelta, Text: "## Options\n1. Snap & Track (12/30 chars)\n2. MealLens\n"},
		{Kind: domain.EventIdle},
	}
	o, renderer := testOrchestrator(t, client, &scriptConsole{})

	if err := o.handleGenerate(context.Background(), domain.KindTitle); err != nil {
		t.Fatalf("handleGenerate: %v", err)
	}
	if o.meta.Title != "Snap & Track" {
		t.Fatalf("accumulator title = %q, want first option", o.meta.Title)
	}
	if o.last == nil || o.last.Kind != domain.KindTitle {
		t.Fatalf("last content = %+v, want title", o.last)
	}
	if len(renderer.panels) != 1 {
		t.Fatalf("panels rendered = %d, want 1", len(renderer.panels))
	}
}

func TestGenerateCachedKindAsksBeforeRegenerating(t *testing.T) {
	client := &stubClient{authenticated: true}
	client.script = []domain.SessionEvent{
		{Kind: domain.EventMessageDelta, Text: "1. First"},
		{Kind: domain.EventIdle},
	}
	console := &scriptConsole{lines: []string{"n"}}
	o, _ := testOrchestrator(t, client, console)

	if err := o.handleGenerate(context.Background(), domain.KindTitle); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if err := o.handleGenerate(context.Background(), domain.KindTitle); err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if console.reads != 1 {
		t.Fatalf("confirmation prompts = %d, want 1", console.reads)
	}
	if client.session.sends != 1 {
		t.Fatalf("backend requests = %d, want 1 (declined regenerate serves cache)", client.session.sends)
	}
}

func TestChatWithoutPriorContentFails(t *testing.T) {
	client := &stubClient{authenticated: true}
	o, _ := testOrchestrator(t, client, &scriptConsole{})

	err := o.handleChat(context.Background(), "make it snappier")
	if !errors.Is(err, domain.ErrNoContentToRefine) {
		t.Fatalf("err = %v, want ErrNoContentToRefine", err)
	}
}

func TestChatRefinesLastContentAndRemerges(t *testing.T) {
	client := &stubClient{authenticated: true}
	client.script = []domain.SessionEvent{
		{Kind: domain.EventMessageDelta, Text: "1. Long Title Here"},
		{Kind: domain.EventIdle},
	}
	o, _ := testOrchestrator(t, client, &scriptConsole{})

	if err := o.handleGenerate(context.Background(), domain.KindTitle); err != nil {
		t.Fatalf("generate: %v", err)
	}
	client.script = []domain.SessionEvent{
		{Kind: domain.EventMessageDelta, Text: "1. Snappy"},
		{Kind: domain.EventIdle},
	}
	if err := o.handleChat(context.Background(), "shorter"); err != nil {
		t.Fatalf("handleChat: %v", err)
	}
	if o.meta.Title != "Snappy" {
		t.Fatalf("title after refinement = %q, want overwritten", o.meta.Title)
	}
}

func TestFullPackageParsesIndividualFields(t *testing.T) {
	client := &stubClient{authenticated: true}
	client.script = []domain.SessionEvent{
		{Kind: domain.EventMessageDelta, Text: "## Title\n1. Snap & Track\n\n## Description\nTrack every meal with a single photo and stay on top of your goals.\n\n## Keywords\n`calorie,tracker,diet,food`\n"},
		{Kind: domain.EventIdle},
	}
	o, _ := testOrchestrator(t, client, &scriptConsole{})

	if err := o.handleGenerate(context.Background(), domain.KindFull); err != nil {
		t.Fatalf("handleGenerate: %v", err)
	}
	if o.meta.Title != "Snap & Track" {
		t.Fatalf("title = %q", o.meta.Title)
	}
	if o.meta.Description == "" {
		t.Fatal("description not parsed from full package")
	}
	want := []string{"calorie", "tracker", "diet", "food"}
	if diff := cmp.Diff(want, o.meta.Keywords); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestImportCompetitorOnlyOnce(t *testing.T) {
	client := &stubClient{authenticated: true}
	console := &scriptConsole{lines: []string{"https://apps.apple.com/us/app/myfitnesspal/id341232718"}}
	o, _ := testOrchestrator(t, client, console)

	if err := o.handleImport(context.Background()); err != nil {
		t.Fatalf("handleImport: %v", err)
	}
	if o.app.Competitor == nil || o.app.Competitor.Name != "MyFitnessPal" {
		t.Fatalf("competitor = %+v, want looked-up app", o.app.Competitor)
	}

	if err := o.handleImport(context.Background()); err == nil {
		t.Fatal("second import must be refused")
	}
}

func TestExportRequiresContent(t *testing.T) {
	client := &stubClient{authenticated: true}
	o, _ := testOrchestrator(t, client, &scriptConsole{})

	if err := o.handleExport(); !errors.Is(err, domain.ErrNothingToExport) {
		t.Fatalf("err = %v, want ErrNothingToExport", err)
	}

	o.meta.Title = "Snap & Track"
	if err := o.handleExport(); err != nil {
		t.Fatalf("export with content: %v", err)
	}
}

func TestModelCatalogMemoSkipsFailedFetch(t *testing.T) {
	client := &stubClient{authenticated: true}
	client.listErr = errors.New("catalog down")
	o, _ := testOrchestrator(t, client, &scriptConsole{})

	models := o.fetchModelsOnce(context.Background())
	if diff := cmp.Diff(domain.FallbackModels(), models); diff != "" {
		t.Fatalf("fallback mismatch (-want +got):\n%s", diff)
	}
	if o.models != nil {
		t.Fatal("failed fetch must not populate the memo")
	}

	client.listErr = nil
	o.fetchModelsOnce(context.Background())
	if o.models == nil {
		t.Fatal("successful fetch must populate the memo")
	}
}

func TestSelectModelHonoursConfiguredDefault(t *testing.T) {
	client := &stubClient{authenticated: true}
	console := &scriptConsole{lines: []string{""}}
	o, _ := testOrchestrator(t, client, console)
	o.DefaultModel = "claude-sonnet-4"

	model, err := o.selectModel(context.Background())
	if err != nil {
		t.Fatalf("selectModel: %v", err)
	}
	if model.ID != "claude-sonnet-4" {
		t.Fatalf("default selection = %q, want configured model", model.ID)
	}
}

func TestSelectModelUnknownDefaultFallsBackToFirst(t *testing.T) {
	client := &stubClient{authenticated: true}
	console := &scriptConsole{lines: []string{""}}
	o, _ := testOrchestrator(t, client, console)
	o.DefaultModel = "retired-model"

	model, err := o.selectModel(context.Background())
	if err != nil {
		t.Fatalf("selectModel: %v", err)
	}
	if model.ID != domain.FallbackModels()[0].ID {
		t.Fatalf("selection = %q, want first catalog entry", model.ID)
	}
}

func TestScoreRecordsHistory(t *testing.T) {
	client := &stubClient{authenticated: true}
	client.script = []domain.SessionEvent{
		{Kind: domain.EventMessageDelta, Text: "traffic 8, difficulty 4"},
		{Kind: domain.EventIdle},
	}
	o, _ := testOrchestrator(t, client, &scriptConsole{})
	history := o.History.(*memHistory)

	if err := o.handleScore(context.Background(), "fitness"); err != nil {
		t.Fatalf("handleScore: %v", err)
	}
	if len(history.records) != 1 {
		t.Fatalf("history records = %d, want 1", len(history.records))
	}
	if history.records[0].Kind != "score:fitness" {
		t.Fatalf("record kind = %q", history.records[0].Kind)
	}
}

// ------------------------------------------------------------------
// stubs

type scriptConsole struct {
	lines []string
	errs  []error
	reads int
}

func (c *scriptConsole) ReadLine(context.Context, string) (string, error) {
	c.reads++
	if len(c.errs) > 0 {
		err := c.errs[0]
		c.errs = c.errs[1:]
		if err != nil {
			return "", err
		}
	}
	if len(c.lines) == 0 {
		return "", nil
	}
	line := c.lines[0]
	c.lines = c.lines[1:]
	return line, nil
}

type recordRenderer struct {
	panels []string
	errors []string
}

func (r *recordRenderer) Header()                          {}
func (r *recordRenderer) Status(string, *domain.QuotaInfo) {}
func (r *recordRenderer) Panel(title, _ string)            { r.panels = append(r.panels, title) }
func (r *recordRenderer) NumberedList(string, []string)    {}
func (r *recordRenderer) Info(string)                      {}
func (r *recordRenderer) Success(string)                   {}
func (r *recordRenderer) Error(msg string)                 { r.errors = append(r.errors, msg) }
func (r *recordRenderer) Hint(string)                      {}
func (r *recordRenderer) Clear()                           {}
func (r *recordRenderer) Artifact(domain.ImageArtifact)    {}

type stubLookup struct{}

func (l *stubLookup) Lookup(_ context.Context, appID string) (domain.CompetitorApp, error) {
	if appID != "341232718" {
		return domain.CompetitorApp{}, errors.New("unknown app id")
	}
	return domain.CompetitorApp{Name: "MyFitnessPal", Category: "Health & Fitness"}, nil
}

type stubExporter struct{ path string }

func (e *stubExporter) Export(domain.GeneratedMetadata, string) (string, error) {
	e.path = "/tmp/store-config.json"
	return e.path, nil
}

type memHistory struct {
	records []domain.GenerationRecord
}

func (h *memHistory) Save(record domain.GenerationRecord) error {
	h.records = append(h.records, record)
	return nil
}

func (h *memHistory) Records(int, string) ([]domain.GenerationRecord, error) {
	return h.records, nil
}

func (h *memHistory) Clear() error            { h.records = nil; return nil }
func (h *memHistory) Path() string            { return "memory" }
func (h *memHistory) ExportJSON(string) error { return nil }
