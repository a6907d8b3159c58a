package artifact

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"codeberg.org/snonux/ankidict/internal"
	"codeberg.org/snonux/ankidict/internal/audio"
	"codeberg.org/snonux/ankidict/internal/logging"
	"codeberg.org/snonux/ankidict/internal/word"
)

// filenameTextLen caps the text part of an artifact filename.
const filenameTextLen = 15

// Config tunes a Cache.
type Config struct {
	Options audio.Options
	Workers int // concurrent example syntheses; 1 or less means sequential
}

// Cache generates artifact sets and remembers them per record.
type Cache struct {
	synth   audio.Synthesizer
	store   Store
	index   Index
	config  Config
	log     *zap.Logger
	now     func() time.Time
	flights singleflight.Group
}

// NewCache creates a cache. A nil index means an in-memory one.
func NewCache(synth audio.Synthesizer, store Store, index Index, config Config, log *zap.Logger) *Cache {
	if index == nil {
		index = NewMemoryIndex()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Cache{
		synth:  synth,
		store:  store,
		index:  index,
		config: config,
		log:    logging.OrNop(log),
		now:    time.Now,
	}
}

// Remembered returns the set already generated for rec, if any.
func (c *Cache) Remembered(ctx context.Context, rec *word.Record) (word.Artifacts, bool) {
	set, ok, err := c.index.Get(ctx, rec.Key())
	if err != nil {
		c.log.Warn("artifact index lookup failed", zap.String("key", rec.Key()), zap.Error(err))
		return nil, false
	}
	return set, ok
}

// EnsureArtifacts returns the artifact set of rec, synthesizing it on first
// use. It never fails: an unavailable synthesizer yields an empty set, and a
// clip that fails is logged and left out.
func (c *Cache) EnsureArtifacts(ctx context.Context, rec *word.Record) word.Artifacts {
	key := rec.Key()
	v, _, _ := c.flights.Do(key, func() (interface{}, error) {
		if set, ok := c.Remembered(ctx, rec); ok {
			return set, nil
		}

		if !c.synth.Probe(ctx) {
			c.log.Warn("synthesizer unavailable, skipping audio", zap.String("synthesizer", c.synth.Name()))
			return word.Artifacts{}, nil
		}

		set := c.generate(ctx, rec)
		if len(set) == 0 {
			return set, nil
		}
		if err := c.index.Put(ctx, key, set); err != nil {
			c.log.Warn("failed to remember artifacts", zap.String("key", key), zap.Error(err))
		}
		return set, nil
	})
	return v.(word.Artifacts)
}

type job struct {
	text string
	role word.Role
}

func jobsFor(rec *word.Record) []job {
	jobs := []job{{text: rec.Term, role: word.PronunciationRole()}}
	for i, ex := range rec.Examples {
		jobs = append(jobs, job{text: word.StripBold(ex), role: word.ExampleRole(i + 1)})
	}
	return jobs
}

// generate synthesizes every job. Results keep job order whatever the
// worker count.
func (c *Cache) generate(ctx context.Context, rec *word.Record) word.Artifacts {
	jobs := jobsFor(rec)
	results := make([]*word.Artifact, len(jobs))

	if c.config.Workers == 1 {
		for i, j := range jobs {
			results[i] = c.synthesize(ctx, j)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.config.Workers)
		for i, j := range jobs {
			g.Go(func() error {
				results[i] = c.synthesize(gctx, j)
				return nil
			})
		}
		_ = g.Wait()
	}

	set := word.Artifacts{}
	for _, a := range results {
		if a != nil {
			set = append(set, *a)
		}
	}

	c.log.Info("generated audio",
		zap.String("term", rec.Term),
		zap.Int("artifacts", len(set)),
		zap.Int("requested", len(jobs)))
	return set
}

// synthesize produces one artifact, or nil when that clip failed.
func (c *Cache) synthesize(ctx context.Context, j job) *word.Artifact {
	data, err := c.synth.Synthesize(ctx, j.text, c.config.Options)
	if err != nil {
		c.log.Warn("audio synthesis failed",
			zap.Stringer("role", j.role),
			zap.String("text", j.text),
			zap.Error(err))
		return nil
	}

	filename := Filename(j.role, j.text, c.now())
	if err := c.store.Put(ctx, filename, data); err != nil {
		c.log.Warn("failed to store audio", zap.String("filename", filename), zap.Error(err))
		return nil
	}

	return &word.Artifact{
		SourceText: j.text,
		Role:       j.role,
		Filename:   filename,
		SizeBytes:  len(data),
	}
}

// Filename derives an artifact filename from its role, text and creation time.
func Filename(role word.Role, text string, at time.Time) string {
	return fmt.Sprintf("audio_%s_%s_%d.mp3", role.Tag(), internal.CompactText(text, filenameTextLen), at.UnixMilli())
}
