package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swibrow/intent/internal/config"
	"github.com/swibrow/intent/internal/history"
	"github.com/swibrow/intent/internal/server"
	"github.com/swibrow/intent/internal/session"
	"github.com/swibrow/intent/internal/ui"
)

var (
	flagQuiet         bool
	flagVerbose       bool
	flagGreetingScope string
	flagHistoryLimit  int
	flagAddr          string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "intent [phrase]",
		Short:         "Suggest a career track for what you tell it",
		Long:          "Describe what you are interested in and get a suggestion for which track fits. Run without arguments for an interactive session.",
		Args:          cobra.ArbitraryArgs,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log keyword matches to stderr")
	rootCmd.PersistentFlags().StringVar(&flagGreetingScope, "greeting-scope", "", "Tokens checked for greetings: all or last (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Plain output only (for piping)")

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return chat(cmd.Context())
		},
	}

	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories and their keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ui.CategoryTable(os.Stdout, a.classifier.Categories())
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := config.Show()
			if err != nil {
				return err
			}
			fmt.Println(output)
			return nil
		},
	}

	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Println("Default config created at ~/.config/intent/config.yaml")
			fmt.Println("Set classifier.catalog_file to use your own categories.")
			return nil
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Manage classification history",
	}

	historyListCmd := &cobra.Command{
		Use:   "list",
		Short: "List recently classified phrases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(store *history.Store) error {
				entries, err := store.List(cmd.Context(), flagHistoryLimit)
				if err != nil {
					return fmt.Errorf("listing history: %w", err)
				}
				return showEntries(entries)
			})
		},
	}

	historySearchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find past phrases sharing words with the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(store *history.Store) error {
				entries, err := store.Search(cmd.Context(), strings.Join(args, " "), flagHistoryLimit)
				if err != nil {
					return fmt.Errorf("searching history: %w", err)
				}
				return showEntries(entries)
			})
		},
	}

	historyClearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all recorded phrases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(store *history.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("clearing history: %w", err)
				}
				fmt.Println("History cleared.")
				return nil
			})
		},
	}

	historyCmd.PersistentFlags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Maximum number of entries to show")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the classifier as an HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Address to listen on (default from config)")

	historyCmd.AddCommand(historyListCmd, historySearchCmd, historyClearCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(chatCmd, categoriesCmd, configCmd, historyCmd, serveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.DisplayError(err.Error())
		stop()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return chat(cmd.Context())
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	phrase := strings.Join(args, " ")
	res := a.classifier.ClassifyRaw(phrase)
	if flagQuiet {
		ui.DisplayQuiet(os.Stdout, res)
	} else {
		ui.Display(os.Stdout, res)
	}
	a.record(cmd.Context(), "", phrase, res)
	return nil
}

func chat(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var in session.LineReader
	if ui.IsTerminal(os.Stdin) && ui.IsTerminal(os.Stdout) {
		in = session.NewPromptReader(a.catalog.Vocabulary())
	} else {
		in = session.NewBufferedReader(os.Stdin, os.Stdout)
	}

	s := session.New(a.classifier, in, os.Stdout,
		session.WithRecorder(a.record),
		session.WithQuiet(flagQuiet),
	)
	return s.Run(ctx)
}

func serve(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	addr := a.cfg.Server.Addr
	if flagAddr != "" {
		addr = flagAddr
	}

	var rec server.Recorder
	if a.store != nil {
		rec = a.store
	}
	router := server.NewRouter(server.NewHandler(a.classifier, rec, a.logger))
	return server.Serve(ctx, addr, router, a.logger)
}

func withHistory(fn func(*history.Store) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.store == nil {
		return fmt.Errorf("history is disabled or unavailable")
	}
	return fn(a.store)
}

func showEntries(entries []history.Entry) error {
	if len(entries) == 0 {
		fmt.Println("No history yet.")
		return nil
	}
	ui.HistoryTable(os.Stdout, entries)
	return nil
}
