package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/ankidict/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ankidict [term]",
		Short: "LLM Dictionary to Anki Flashcards",
		Long: `ankidict looks up a term with a large language model, resolves its
phonetic transcription, synthesizes pronunciation audio and turns the
result into an Anki flashcard.

Examples:
  ankidict run                          # Look up "run" and print the entry
  ankidict run --context "run a shop"   # Disambiguate with a context sentence
  ankidict run --export                 # Add the card to Anki via the bridge
  ankidict run --save-note              # Write Vocabulary/Dictionary - run.md
  ankidict --batch words.txt --anki     # Build an .apkg from a word list
  ankidict serve                        # Serve the HTTP API for the plugin`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// CreateServeCommand creates the command running the HTTP API.
func CreateServeCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lookup and export HTTP API",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&flags.Addr, "addr", flags.Addr, "Listen address")
	viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.ankidict.yaml)")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.Provider, "provider", flags.Provider, "Completion provider: groq, openai, openai-compatible, gemini")
	cmd.PersistentFlags().StringVar(&flags.APIKey, "api-key", "", "Completion API key (default: provider environment variable or llm.api_key)")
	cmd.PersistentFlags().StringVar(&flags.Model, "model", "", "Completion model (default depends on provider)")
	cmd.PersistentFlags().StringVar(&flags.Language, "language", flags.Language, "Target definition language")
	cmd.PersistentFlags().BoolVar(&flags.NoAudio, "no-audio", false, "Skip audio synthesis")

	// Local flags
	cmd.Flags().StringVarP(&flags.Context, "context", "c", "", "Sentence the term appeared in")
	cmd.Flags().StringVar(&flags.Source, "source", "", "Source reference stored with the entry")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Process terms from file (one per line, optionally 'term | context')")
	cmd.Flags().BoolVar(&flags.Export, "export", false, "Add the card to Anki through the bridge")
	cmd.Flags().BoolVar(&flags.SaveNote, "save-note", false, "Save the entry as a markdown note")
	cmd.Flags().StringVar(&flags.DeckName, "deck", flags.DeckName, "Anki deck")
	cmd.Flags().StringVar(&flags.NoteType, "note-type", flags.NoteType, "Anki note type")
	cmd.Flags().BoolVar(&flags.GenerateAnki, "anki", false, "Generate Anki import file (APKG format by default, use --anki-csv for CSV)")
	cmd.Flags().BoolVar(&flags.AnkiCSV, "anki-csv", false, "Generate CSV format instead of APKG when using --anki")
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", ".", "Output directory for --anki files")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List chat models of the completion endpoint")
	cmd.Flags().BoolVar(&flags.ArchiveAudio, "archive-audio", false, "Move the audio directory to a timestamped archive")
	cmd.Flags().BoolVar(&flags.CheckOnly, "check", false, "Test the synthesizer and Anki bridge connections")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	persistent := cmd.PersistentFlags()
	local := cmd.Flags()

	bindings := map[string]*pflag.Flag{
		"debug":           persistent.Lookup("debug"),
		"llm.provider":    persistent.Lookup("provider"),
		"llm.model":       persistent.Lookup("model"),
		"lookup.language": persistent.Lookup("language"),
		"lookup.source":   local.Lookup("source"),
		"anki.deck":       local.Lookup("deck"),
		"anki.note_type":  local.Lookup("note-type"),
	}
	for key, flag := range bindings {
		viper.BindPFlag(key, flag)
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".ankidict" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ankidict")
	}

	// Environment variables, e.g. ANKIDICT_TTS_URL for tts.url
	viper.SetEnvPrefix("ANKIDICT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
