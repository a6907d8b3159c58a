package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/ankidict/internal"
	"codeberg.org/snonux/ankidict/internal/anki"
	"codeberg.org/snonux/ankidict/internal/batch"
	"codeberg.org/snonux/ankidict/internal/failure"
	"codeberg.org/snonux/ankidict/internal/lookup"
	"codeberg.org/snonux/ankidict/internal/word"
)

// Actions select what happens to a looked-up word besides printing it.
type Actions struct {
	Export   bool // add the card to Anki through the bridge
	SaveNote bool // write the markdown note
	Source   string
	Options  ExportOptions
}

// CollectPackage makes subsequent words go into an offline package for
// deckName as well.
func (p *Processor) CollectPackage(deckName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pkgDeck = firstNonEmpty(deckName, p.settings.Deck)
	p.pkg = anki.NewPackage(p.pkgDeck, p.settings.AudioDir)
}

// AddToPackage adds rec to the offline package using the built-in field
// list of the note type.
func (p *Processor) AddToPackage(ctx context.Context, s *Session, rec *word.Record, opts ExportOptions) error {
	p.mu.Lock()
	pkg := p.pkg
	p.mu.Unlock()
	if pkg == nil {
		return fmt.Errorf("no package is being collected")
	}

	note, err := p.buildNote(ctx, s, rec, opts, func(_ context.Context, noteType string) []string {
		return anki.DefaultFields(noteType)
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return pkg.Add(note)
}

// WritePackage writes the collected package to outputDir as .apkg, or as CSV
// when asCSV is set, and returns the file path.
func (p *Processor) WritePackage(outputDir string, asCSV bool) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pkg == nil || p.pkg.Len() == 0 {
		return "", fmt.Errorf("no cards to write")
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := internal.SanitizeFilename(p.pkgDeck)
	if asCSV {
		path := filepath.Join(outputDir, name+".csv")
		return path, p.pkg.WriteCSV(path, true)
	}
	path := filepath.Join(outputDir, name+".apkg")
	return path, p.pkg.WriteAPKG(path)
}

// ProcessWord looks up one term, prints it and carries out actions.
func (p *Processor) ProcessWord(ctx context.Context, s *Session, entry batch.WordEntry, actions Actions) error {
	p.printf("\nProcessing: %s\n", entry.Term)
	return p.processWord(ctx, s, entry, actions)
}

func (p *Processor) processWord(ctx context.Context, s *Session, entry batch.WordEntry, actions Actions) error {
	rec, err := p.Lookup(ctx, s, lookup.Request{Term: entry.Term, Context: entry.Context, Source: actions.Source})
	if err != nil {
		return err
	}
	p.printRecord(rec)

	if actions.SaveNote {
		p.printf("  Saving note...\n")
		path, err := p.SaveNote(ctx, s, rec)
		if err != nil {
			return err
		}
		p.printf("  Saved note: %s\n", path)
	}

	if actions.Export {
		p.printf("  Adding card to Anki...\n")
		id, err := p.ExportCard(ctx, s, rec, actions.Options)
		if err != nil {
			return err
		}
		p.printf("  Added note %s\n", id)
	}

	p.mu.Lock()
	collecting := p.pkg != nil
	p.mu.Unlock()
	if collecting {
		if err := p.AddToPackage(ctx, s, rec, actions.Options); err != nil {
			return err
		}
	}
	return nil
}

// ProcessBatch processes every term of a batch file in order. A failing term
// is reported and skipped.
func (p *Processor) ProcessBatch(ctx context.Context, path string, actions Actions) error {
	entries, err := batch.ReadBatchFile(path)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no terms found in batch file: %s", path)
	}

	s := p.NewSession()
	processedCount := 0
	errorCount := 0

	for i, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.printf("\nProcessing %d/%d: %s\n", i+1, len(entries), entry.Term)
		if err := p.processWord(ctx, s, entry, actions); err != nil {
			p.printf("  Error: %s\n", failure.UserMessage(err))
			errorCount++
			continue
		}
		processedCount++
	}

	p.printf("\n=== Batch Processing Summary ===\n")
	p.printf("Total words: %d\n", len(entries))
	p.printf("Processed: %d\n", processedCount)
	if errorCount > 0 {
		p.printf("Errors: %d\n", errorCount)
	}
	p.printf("================================\n")
	return nil
}

func (p *Processor) printRecord(rec *word.Record) {
	p.printf("  %s %s (%s)\n", rec.Term, rec.Phonetic, rec.PartOfSpeech)
	p.printf("  Definition: %s\n", rec.Definition)
	p.printf("  Translation: %s\n", rec.Translation)
	for i, ex := range rec.Examples {
		p.printf("  %d. %s\n", i+1, word.StripBold(ex))
	}
	if len(rec.Synonyms) > 0 {
		p.printf("  Synonyms: %s\n", strings.Join(rec.Synonyms, ", "))
	}
	if len(rec.Antonyms) > 0 {
		p.printf("  Antonyms: %s\n", strings.Join(rec.Antonyms, ", "))
	}
}
