package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/ankidict/internal/archive"
	"codeberg.org/snonux/ankidict/internal/batch"
	"codeberg.org/snonux/ankidict/internal/cli"
	"codeberg.org/snonux/ankidict/internal/failure"
	"codeberg.org/snonux/ankidict/internal/logging"
	"codeberg.org/snonux/ankidict/internal/models"
	"codeberg.org/snonux/ankidict/internal/processor"
	"codeberg.org/snonux/ankidict/internal/server"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create commands
	rootCmd := cli.CreateRootCommand(flags)
	serveCmd := cli.CreateServeCommand(flags)
	rootCmd.AddCommand(serveCmd)
	rootCmd.SilenceUsage = true

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run functions
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return userError(runCommand(cmd, args, flags))
	}
	serveCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return userError(runServe(cmd.Context(), flags))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := cmd.Context()

	settings, err := cli.LoadSettings(flags)
	if err != nil {
		return err
	}

	log, err := logging.New(settings.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	// Handle --archive-audio flag
	if flags.ArchiveAudio {
		path, err := archive.ArchiveAudio(settings.AudioDir)
		if err != nil {
			return fmt.Errorf("failed to archive audio: %w", err)
		}
		fmt.Printf("Audio directory archived to: %s\n", path)
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		baseURL := settings.Completion.ChatBaseURL()
		if baseURL == "" {
			return fmt.Errorf("model listing needs an OpenAI-compatible provider, not %s", settings.Completion.Provider)
		}
		return models.NewLister(settings.APIKey, baseURL).PrintModels(ctx, os.Stdout)
	}

	proc, err := processor.NewProcessor(ctx, settings, log)
	if err != nil {
		return err
	}
	defer proc.Close()

	// Handle --check flag
	if flags.CheckOnly {
		return printConnections(proc.CheckConnections(ctx))
	}

	if flags.BatchFile == "" && len(args) == 0 {
		return cmd.Help()
	}

	if flags.GenerateAnki {
		proc.CollectPackage(settings.Deck)
	}

	actions := processor.Actions{
		Export:   flags.Export,
		SaveNote: flags.SaveNote,
		Source:   flags.Source,
	}

	if flags.BatchFile != "" {
		// Process batch file
		if err := proc.ProcessBatch(ctx, flags.BatchFile, actions); err != nil {
			return err
		}
	} else {
		// Process single term
		entry := batch.WordEntry{Term: args[0], Context: flags.Context}
		if err := proc.ProcessWord(ctx, proc.NewSession(), entry, actions); err != nil {
			return err
		}
	}

	// Generate Anki file if requested
	if flags.GenerateAnki {
		fmt.Printf("\nGenerating Anki import file...\n")
		outputPath, err := proc.WritePackage(flags.OutputDir, flags.AnkiCSV)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to generate Anki file: %v\n", err)
		} else {
			fmt.Printf("Anki package created: %s\n", outputPath)
		}
	}

	fmt.Printf("\nDone!\n")
	return nil
}

func runServe(ctx context.Context, flags *cli.Flags) error {
	settings, err := cli.LoadSettings(flags)
	if err != nil {
		return err
	}

	log, err := logging.New(settings.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	proc, err := processor.NewProcessor(ctx, settings, log)
	if err != nil {
		return err
	}
	defer proc.Close()

	srv := server.New(proc, settings.AllowedOrigins, log)
	fmt.Printf("Serving on http://%s\n", settings.ServerAddr)
	return srv.Run(ctx, settings.ServerAddr)
}

func printConnections(status processor.ConnectionStatus) error {
	switch {
	case status.SynthesizerName == "":
		fmt.Println("Synthesizer: disabled")
	case status.Synthesizer:
		fmt.Printf("Synthesizer: ok (%s)\n", status.SynthesizerName)
	default:
		fmt.Printf("Synthesizer: unavailable (%s)\n", status.SynthesizerName)
	}

	if status.Bridge != nil {
		fmt.Printf("Anki bridge: unavailable (%v)\n", status.Bridge)
		return errors.New("bridge connection test failed")
	}
	fmt.Println("Anki bridge: ok")
	return nil
}

// userError renders classified failures with their remediation hint.
func userError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(failure.UserMessage(err))
}
