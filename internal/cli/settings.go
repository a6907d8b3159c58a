package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/ankidict/internal/anki"
	"codeberg.org/snonux/ankidict/internal/audio"
	"codeberg.org/snonux/ankidict/internal/completion"
	"codeberg.org/snonux/ankidict/internal/phonetic"
	"codeberg.org/snonux/ankidict/internal/vault"
)

// DefaultServerAddr is where HTTP mode listens unless configured otherwise.
const DefaultServerAddr = "127.0.0.1:6790"

// DefaultAllowedOrigins are the CORS origins of the note-taking app.
var DefaultAllowedOrigins = []string{"app://obsidian.md", "capacitor://localhost", "http://localhost"}

// DefaultTags are attached to every exported note.
var DefaultTags = []string{"obsidian", "llm-dictionary"}

// Settings is the resolved configuration of one run.
type Settings struct {
	Debug bool

	// Completion
	Completion completion.Config
	APIKey     string

	// Lookup
	Language    string
	Source      string
	PhoneticURL string

	// Speech
	TTSEnabled bool
	TTS        *audio.Config
	TTSWorkers int
	AudioDir   string
	RedisURL   string

	// Anki
	AnkiURL     string
	AnkiTimeout time.Duration
	Deck        string
	NoteType    string
	AutoAudio   bool
	Tags        []string
	RenderHTML  bool

	// Notes
	NotesDir string

	// Server
	ServerAddr     string
	AllowedOrigins []string
}

// SetDefaults registers the default value of every configuration key.
func SetDefaults() {
	tts := audio.DefaultConfig()

	viper.SetDefault("llm.provider", "groq")
	viper.SetDefault("llm.timeout", completion.DefaultTimeout)
	viper.SetDefault("lookup.language", "English")
	viper.SetDefault("lookup.source", "ankidict")
	viper.SetDefault("phonetic.url", phonetic.DefaultURL)

	viper.SetDefault("tts.enabled", true)
	viper.SetDefault("tts.voice", tts.Voice)
	viper.SetDefault("tts.quality", tts.Quality)
	viper.SetDefault("tts.url", tts.URL)
	viper.SetDefault("tts.min_bytes", tts.MinBytes)
	viper.SetDefault("tts.workers", 1)
	viper.SetDefault("tts.probe_timeout", tts.ProbeTimeout)
	viper.SetDefault("tts.synthesize_timeout", tts.SynthesizeTimeout)
	viper.SetDefault("tts.openai_model", tts.OpenAIModel)
	viper.SetDefault("tts.openai_voice", tts.OpenAIVoice)
	viper.SetDefault("tts.openai_speed", tts.OpenAISpeed)
	viper.SetDefault("audio.dir", "Audio")

	viper.SetDefault("anki.url", anki.DefaultBridgeURL)
	viper.SetDefault("anki.timeout", anki.DefaultTimeout)
	viper.SetDefault("anki.deck", "Default")
	viper.SetDefault("anki.note_type", "Basic")
	viper.SetDefault("anki.auto_audio", true)
	viper.SetDefault("anki.tags", DefaultTags)
	viper.SetDefault("notes.dir", vault.DefaultDir)

	viper.SetDefault("server.addr", DefaultServerAddr)
	viper.SetDefault("server.allowed_origins", DefaultAllowedOrigins)
}

// LoadSettings resolves flags, config file and environment into Settings.
// Flags given on the command line win over everything else.
func LoadSettings(flags *Flags) (*Settings, error) {
	SetDefaults()

	s := &Settings{
		Debug: flags.Debug || viper.GetBool("debug"),
		Completion: completion.Config{
			Provider: viper.GetString("llm.provider"),
			BaseURL:  viper.GetString("llm.base_url"),
			Model:    viper.GetString("llm.model"),
			Timeout:  viper.GetDuration("llm.timeout"),
		},
		Language:    viper.GetString("lookup.language"),
		Source:      viper.GetString("lookup.source"),
		PhoneticURL: viper.GetString("phonetic.url"),

		TTSEnabled: viper.GetBool("tts.enabled"),
		TTS: &audio.Config{
			URL:               viper.GetString("tts.url"),
			Voice:             viper.GetString("tts.voice"),
			Quality:           viper.GetString("tts.quality"),
			MinBytes:          viper.GetInt("tts.min_bytes"),
			ProbeTimeout:      viper.GetDuration("tts.probe_timeout"),
			SynthesizeTimeout: viper.GetDuration("tts.synthesize_timeout"),
			Fallback:          strings.ToLower(viper.GetString("tts.fallback")),
			OpenAIKey:         GetOpenAIKey(),
			OpenAIModel:       viper.GetString("tts.openai_model"),
			OpenAIVoice:       viper.GetString("tts.openai_voice"),
			OpenAISpeed:       viper.GetFloat64("tts.openai_speed"),
		},
		TTSWorkers: viper.GetInt("tts.workers"),
		AudioDir:   viper.GetString("audio.dir"),
		RedisURL:   viper.GetString("cache.redis_url"),

		AnkiURL:     viper.GetString("anki.url"),
		AnkiTimeout: viper.GetDuration("anki.timeout"),
		Deck:        viper.GetString("anki.deck"),
		NoteType:    viper.GetString("anki.note_type"),
		AutoAudio:   viper.GetBool("anki.auto_audio"),
		Tags:        viper.GetStringSlice("anki.tags"),
		RenderHTML:  viper.GetBool("anki.render_html"),

		NotesDir: viper.GetString("notes.dir"),

		ServerAddr:     viper.GetString("server.addr"),
		AllowedOrigins: viper.GetStringSlice("server.allowed_origins"),
	}

	if flags.NoAudio {
		s.TTSEnabled = false
		s.AutoAudio = false
	}

	s.APIKey = flags.APIKey
	if s.APIKey == "" {
		s.APIKey = GetAPIKey(s.Completion.Provider)
	}

	if s.TTSWorkers < 1 {
		s.TTSWorkers = 1
	}
	if s.TTS.MinBytes < 0 {
		return nil, fmt.Errorf("tts.min_bytes must not be negative: %d", s.TTS.MinBytes)
	}
	if s.Deck == "" || s.NoteType == "" {
		return nil, fmt.Errorf("anki.deck and anki.note_type must not be empty")
	}
	return s, nil
}

// GetAPIKey retrieves the completion API key for provider from the
// environment or the config file.
func GetAPIKey(provider string) string {
	var env string
	switch strings.ToLower(provider) {
	case "", "groq":
		env = "GROQ_API_KEY"
	case "openai", "openai-compatible", "openai_compatible":
		env = "OPENAI_API_KEY"
	case "gemini":
		env = "GEMINI_API_KEY"
	}

	// First check environment variable
	if env != "" {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}

	// Then check config file
	return viper.GetString("llm.api_key")
}

// GetOpenAIKey retrieves the OpenAI API key used by the hosted speech
// fallback and the model lister.
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("tts.openai_key")
}
