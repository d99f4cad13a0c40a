package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/ports"
)

// Orchestrator drives the interactive studio: it collects app info, owns the
// generated-metadata accumulator and the model catalog memo, and runs the
// read-parse-dispatch loop. It is the single thread of control; every shared
// structure (session handle, accumulator, model memo) is mutated only here.
type Orchestrator struct {
	Client    ports.BackendClient
	Manager   *SessionManager
	Renderer  ports.Renderer
	Console   ports.Console
	Clipboard ports.Clipboard
	Lookup    ports.CompetitorLookup
	Images    ports.ImageService
	Exporter  ports.Exporter
	History   ports.HistoryRepository
	Progress  ports.ProgressIndicator
	Logger    ports.Logger

	// DefaultModel is the configured preference; when it matches a catalog
	// entry that entry is preselected, otherwise the first model is.
	DefaultModel string

	app    domain.AppInfo
	meta   domain.GeneratedMetadata
	last   *domain.LastContent
	models []domain.AvailableModel // one-time-write memo, populated on first successful fetch
}

// Run walks the UI phases: Boot, Authenticating, ModelSelection,
// AppInfoCollection, SessionInit, InteractiveLoop. Startup failures are fatal
// and propagate; once the loop is reached, handler failures are rendered and
// swallowed.
func (o *Orchestrator) Run(ctx context.Context) error {
	if err := o.checkDeps(); err != nil {
		return err
	}

	o.Renderer.Header()

	if err := o.authenticate(ctx); err != nil {
		if errors.Is(err, domain.ErrInterrupted) {
			return nil
		}
		o.Renderer.Error(err.Error())
		return err
	}

	model, err := o.selectModel(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrInterrupted) || errors.Is(err, io.EOF) {
			return nil
		}
		o.Renderer.Error(err.Error())
		return err
	}

	if err := o.collectAppInfo(ctx); err != nil {
		if errors.Is(err, domain.ErrInterrupted) || errors.Is(err, io.EOF) {
			return nil
		}
		o.Renderer.Error(err.Error())
		return err
	}

	if err := o.Manager.Initialize(ctx, model.ID); err != nil {
		o.Renderer.Error(fmt.Sprintf("session setup failed: %v", err))
		return err
	}
	defer o.Manager.Cleanup()

	o.Renderer.Success(fmt.Sprintf("Session ready on %s. Type /help for commands.", model.Name))
	return o.loop(ctx)
}

func (o *Orchestrator) checkDeps() error {
	if o.Client == nil || o.Manager == nil || o.Renderer == nil || o.Console == nil || o.Logger == nil {
		return errors.New("services.Orchestrator dependencies not satisfied")
	}
	return nil
}

// ------------------------------------------------------------------
// startup phases

func (o *Orchestrator) authenticate(ctx context.Context) error {
	status, err := o.Client.AuthStatus(ctx)
	if err != nil {
		return &domain.ConnectionError{Op: "auth check", Err: err}
	}
	for !status.Authenticated {
		o.Renderer.Error("Backend is not authenticated.")
		o.Renderer.Info("Complete the backend login in another terminal, then press Enter to retry (Ctrl+C aborts).")
		if _, err := o.Console.ReadLine(ctx, ""); err != nil {
			return err
		}
		status, err = o.Client.AuthStatus(ctx)
		if err != nil {
			return &domain.ConnectionError{Op: "auth check", Err: err}
		}
	}
	if status.Login != "" {
		o.Renderer.Info(fmt.Sprintf("Authenticated as %s", status.Login))
	}
	return nil
}

// fetchModelsOnce is the one-time-write model memo: the catalog is stored on
// the first successful fetch and read-only afterwards. A failed fetch falls
// back to the hard-coded list without populating the memo, so a later call
// may still succeed.
func (o *Orchestrator) fetchModelsOnce(ctx context.Context) []domain.AvailableModel {
	if o.models != nil {
		return o.models
	}
	models, err := o.Client.ListModels(ctx)
	if err != nil || len(models) == 0 {
		o.Logger.Warn("model catalog fetch failed, using fallback list", map[string]interface{}{"error": fmt.Sprint(err)})
		return domain.FallbackModels()
	}
	o.models = models
	return o.models
}

func (o *Orchestrator) selectModel(ctx context.Context) (domain.AvailableModel, error) {
	models := o.fetchModelsOnce(ctx)
	o.Renderer.NumberedList("Available models", modelLabels(models))

	def := 1
	for i, m := range models {
		if o.DefaultModel != "" && strings.EqualFold(m.ID, o.DefaultModel) {
			def = i + 1
			break
		}
	}

	for {
		line, err := o.Console.ReadLine(ctx, fmt.Sprintf("Select model [1-%d, default %d]: ", len(models), def))
		if err != nil {
			return domain.AvailableModel{}, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return models[def-1], nil
		}
		idx, err := strconv.Atoi(line)
		if err != nil || idx < 1 || idx > len(models) {
			o.Renderer.Error(fmt.Sprintf("Enter a number between 1 and %d.", len(models)))
			continue
		}
		return models[idx-1], nil
	}
}

func (o *Orchestrator) collectAppInfo(ctx context.Context) error {
	for {
		name, err := o.Console.ReadLine(ctx, "App name: ")
		if err != nil {
			return err
		}
		if err := domain.ValidateAppName(name); err != nil {
			o.Renderer.Error(err.Error())
			continue
		}
		o.app.Name = strings.TrimSpace(name)
		break
	}
	for {
		desc, err := o.Console.ReadLine(ctx, "App description (min 20 chars): ")
		if err != nil {
			return err
		}
		if err := domain.ValidateAppDescription(desc); err != nil {
			o.Renderer.Error(err.Error())
			continue
		}
		o.app.Description = strings.TrimSpace(desc)
		break
	}
	return nil
}

// ------------------------------------------------------------------
// interactive loop

func (o *Orchestrator) loop(ctx context.Context) error {
	guard := newInterruptGuard()
	for {
		o.Renderer.Status(o.Manager.Model(), o.Manager.Quota())
		line, err := o.Console.ReadLine(ctx, "> ")
		switch {
		case errors.Is(err, domain.ErrInterrupted):
			if guard.ShouldExit() {
				o.Renderer.Info("Goodbye!")
				return nil
			}
			o.Renderer.Hint("Press Ctrl+C again within a second to exit.")
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		cmd := domain.ParseCommand(line)
		if cmd.Kind == domain.CmdQuit {
			o.Renderer.Info("Goodbye!")
			return nil
		}
		o.dispatch(ctx, cmd)
	}
}

// dispatch routes one command to its handler. Handler failures are rendered
// at this boundary and never escape to crash the loop; an interrupted
// sub-prompt is navigation, not an error.
func (o *Orchestrator) dispatch(ctx context.Context, cmd domain.Command) {
	var err error
	switch cmd.Kind {
	case domain.CmdHelp:
		o.renderHelp()
	case domain.CmdClear:
		o.Renderer.Clear()
	case domain.CmdShowLast:
		err = o.handleShowLast()
	case domain.CmdCopy:
		err = o.handleCopy()
	case domain.CmdModel:
		err = o.handleModelSwitch(ctx)
	case domain.CmdGenerate:
		err = o.handleGenerate(ctx, cmd.Content)
	case domain.CmdScore:
		err = o.handleScore(ctx, cmd.Payload)
	case domain.CmdImportURL:
		err = o.handleImport(ctx)
	case domain.CmdIcon:
		err = o.handleImage(ctx, cmd.Payload, true)
	case domain.CmdFeature:
		err = o.handleImage(ctx, cmd.Payload, false)
	case domain.CmdExport:
		err = o.handleExport()
	case domain.CmdChat:
		err = o.handleChat(ctx, cmd.Payload)
	}

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInterrupted):
		o.Renderer.Hint("Cancelled.")
	default:
		o.Renderer.Error(err.Error())
	}
}

// ------------------------------------------------------------------
// handlers

func (o *Orchestrator) handleGenerate(ctx context.Context, kind domain.ContentKind) error {
	regenerate := false
	if o.Manager.HasCached(kind) {
		answer, err := o.Console.ReadLine(ctx, fmt.Sprintf("%s already generated. Regenerate? [y/N]: ", kind.DisplayName()))
		if err != nil {
			return err
		}
		regenerate = isYes(answer)
	}

	started := time.Now()
	o.startProgress()
	text, err := o.Manager.Generate(ctx, kind, o.app, regenerate)
	o.stopProgress()
	if err != nil {
		return err
	}

	o.storeResult(kind, text, false, started)
	o.Renderer.Panel(kind.DisplayName(), text)
	return nil
}

func (o *Orchestrator) handleChat(ctx context.Context, message string) error {
	if message == "" {
		return nil
	}
	if o.last == nil {
		return domain.ErrNoContentToRefine
	}

	started := time.Now()
	o.startProgress()
	text, err := o.Manager.RefineContent(ctx, o.last.Kind, o.last.Text, message, o.app)
	o.stopProgress()
	if err != nil {
		return err
	}

	o.storeResult(o.last.Kind, text, true, started)
	o.Renderer.Panel(o.last.Kind.DisplayName()+" (refined)", text)
	return nil
}

func (o *Orchestrator) handleScore(ctx context.Context, keyword string) error {
	if keyword == "" {
		line, err := o.Console.ReadLine(ctx, "Keyword to score: ")
		if err != nil {
			return err
		}
		keyword = strings.TrimSpace(line)
		if keyword == "" {
			return errors.New("no keyword given")
		}
	}

	started := time.Now()
	o.startProgress()
	text, err := o.Manager.ScoreKeyword(ctx, keyword)
	o.stopProgress()
	if err != nil {
		return err
	}

	o.recordHistory("score:"+keyword, len(keyword), len(text), false, started)
	o.Renderer.Panel(fmt.Sprintf("Keyword score: %s", keyword), text)
	return nil
}

func (o *Orchestrator) handleModelSwitch(ctx context.Context) error {
	models := o.fetchModelsOnce(ctx)
	o.Renderer.NumberedList("Available models", modelLabels(models))

	line, err := o.Console.ReadLine(ctx, fmt.Sprintf("Switch to [1-%d, Enter keeps %s]: ", len(models), o.Manager.Model()))
	if err != nil {
		return err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	idx, err := strconv.Atoi(line)
	if err != nil || idx < 1 || idx > len(models) {
		return fmt.Errorf("enter a number between 1 and %d", len(models))
	}

	target := models[idx-1]
	if err := o.Manager.SwitchModel(ctx, target.ID); err != nil {
		return err
	}
	o.Renderer.Success(fmt.Sprintf("Switched to %s", target.Name))
	return nil
}

func (o *Orchestrator) handleImport(ctx context.Context) error {
	if o.app.Competitor != nil {
		return fmt.Errorf("competitor already imported (%s); it can only be set once per run", o.app.Competitor.Name)
	}

	line, err := o.Console.ReadLine(ctx, "Competitor App Store URL or numeric id: ")
	if err != nil {
		return err
	}
	id, ok := domain.ExtractAppStoreID(line)
	if !ok {
		return errors.New("could not find a store id in that input; paste a URL containing /id<digits> or a bare 9-10 digit id")
	}

	if o.Lookup == nil {
		return errors.New("competitor lookup is not available")
	}
	competitor, err := o.Lookup.Lookup(ctx, id)
	if err != nil {
		return fmt.Errorf("competitor lookup failed: %w", err)
	}

	o.app.CompetitorURL = strings.TrimSpace(line)
	o.app.Competitor = &competitor
	o.Renderer.Success(fmt.Sprintf("Imported competitor %s (%s). Future prompts include its context.", competitor.Name, competitor.Category))
	return nil
}

func (o *Orchestrator) handleImage(ctx context.Context, subject string, icon bool) error {
	if o.Images == nil || !o.Images.Available() {
		return domain.ErrNoImageProvider
	}
	if subject == "" {
		line, err := o.Console.ReadLine(ctx, "Describe the image subject (Enter uses the app description): ")
		if err != nil {
			return err
		}
		subject = strings.TrimSpace(line)
	}

	o.startProgress()
	var artifact domain.ImageArtifact
	var err error
	if icon {
		artifact, err = o.Images.GenerateIcon(ctx, o.app, subject)
	} else {
		artifact, err = o.Images.GenerateFeatureGraphic(ctx, o.app, subject)
	}
	o.stopProgress()
	if err != nil {
		return fmt.Errorf("image generation failed: %w", err)
	}

	if icon {
		o.meta.IconPath = artifact.Path
	} else {
		o.meta.FeatureGraphicPath = artifact.Path
	}
	o.Renderer.Artifact(artifact)
	return nil
}

func (o *Orchestrator) handleExport() error {
	if o.meta.Empty() {
		return domain.ErrNothingToExport
	}
	if o.Exporter == nil {
		return errors.New("exporter is not available")
	}
	path, err := o.Exporter.Export(o.meta, o.app.Name)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	o.Renderer.Success("Exported " + path)
	return nil
}

func (o *Orchestrator) handleCopy() error {
	if o.last == nil {
		return errors.New("nothing to copy yet")
	}
	if o.Clipboard == nil || !o.Clipboard.Enabled() {
		return errors.New("clipboard is not available on this platform")
	}
	if err := o.Clipboard.Copy(o.last.Text); err != nil {
		return fmt.Errorf("clipboard copy failed: %w", err)
	}
	o.Renderer.Success("Copied to clipboard.")
	return nil
}

func (o *Orchestrator) handleShowLast() error {
	if o.last == nil {
		o.Renderer.Info("Nothing generated yet.")
		return nil
	}
	o.Renderer.Panel(o.last.Kind.DisplayName(), o.last.Text)
	return nil
}

func (o *Orchestrator) renderHelp() {
	o.Renderer.Panel("Commands", strings.Join([]string{
		"/title /subtitle /description /keywords /release /promo  generate one field",
		"/full             generate the complete metadata package",
		"/score <keyword>  score a keyword via the scoring tool",
		"/icon [subject]   generate a 1024x1024 app icon",
		"/feature [subject] generate a 1024x500 feature graphic",
		"/url              import competitor context from an App Store URL",
		"/model            switch the backend model",
		"/copy /last /clear /export /quit",
		"Anything else refines the last generated content.",
	}, "\n"))
}

// ------------------------------------------------------------------
// accumulator

// storeResult updates LastContent, merges extracted fields into the
// accumulator (last write wins per field), and appends a history record.
func (o *Orchestrator) storeResult(kind domain.ContentKind, text string, refinement bool, started time.Time) {
	o.last = &domain.LastContent{Kind: kind, Text: text}
	o.mergeMetadata(kind, text)
	o.recordHistory(string(kind), 0, len(text), refinement, started)
}

func (o *Orchestrator) mergeMetadata(kind domain.ContentKind, text string) {
	switch kind {
	case domain.KindTitle:
		if title, ok := domain.ExtractFirstOption(text); ok {
			o.meta.Title = title
		}
	case domain.KindSubtitle:
		if subtitle, ok := domain.ExtractFirstOption(text); ok {
			o.meta.Subtitle = subtitle
		}
	case domain.KindPromoText:
		if promo, ok := domain.ExtractFirstOption(text); ok {
			o.meta.PromoText = promo
		}
	case domain.KindKeywords:
		if keywords := domain.ParseKeywordsFromContent(text); len(keywords) > 0 {
			o.meta.Keywords = keywords
		}
	case domain.KindDescription:
		if desc, ok := domain.ExtractDescription(text); ok {
			o.meta.Description = desc
		}
	case domain.KindReleaseNotes:
		o.meta.ReleaseNotes = text
	case domain.KindFull:
		// The full package is cached under its own key and additionally
		// parsed for individual fields; a later standalone generation
		// overwrites these per field.
		if title, ok := domain.ExtractFirstOption(text); ok {
			o.meta.Title = title
		}
		if desc, ok := domain.ExtractDescription(text); ok {
			o.meta.Description = desc
		}
		if keywords := domain.ParseKeywordsFromContent(text); len(keywords) > 0 {
			o.meta.Keywords = keywords
		}
	}
}

func (o *Orchestrator) recordHistory(kind string, promptChars, outputChars int, refinement bool, started time.Time) {
	if o.History == nil {
		return
	}
	record := domain.GenerationRecord{
		Timestamp:   time.Now(),
		Kind:        kind,
		Model:       o.Manager.Model(),
		PromptChars: promptChars,
		OutputChars: outputChars,
		DurationMS:  time.Since(started).Milliseconds(),
		Refinement:  refinement,
	}
	if err := o.History.Save(record); err != nil {
		o.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}

// ------------------------------------------------------------------
// helpers

func (o *Orchestrator) startProgress() {
	if o.Progress != nil {
		o.Progress.Start()
	}
}

func (o *Orchestrator) stopProgress() {
	if o.Progress != nil {
		o.Progress.Stop()
	}
}

func modelLabels(models []domain.AvailableModel) []string {
	labels := make([]string, 0, len(models))
	for _, m := range models {
		label := m.Name
		if m.Premium {
			label += " (premium)"
		}
		labels = append(labels, label)
	}
	return labels
}

func isYes(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
