package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashcards/internal/config"
	"github.com/conorfennell/flashcards/internal/deck"
	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/logger"
	"github.com/conorfennell/flashcards/internal/storage"
)

func main() {
	rootCmd, a := newRootCmd()
	if err := execute(rootCmd, a); err != nil {
		os.Exit(1)
	}
}

// execute runs the command line and always releases the store and flushes
// the logger afterwards, including when the command failed.
func execute(rootCmd *cobra.Command, a *app) error {
	err := rootCmd.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

// app carries what every command needs once flags and config are parsed.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	store storage.Store
	deck  *deck.Deck
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:          "flashcards",
		Short:        "Spaced-repetition flashcards with search and auto-tagging",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.showCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.retagCmd(),
		a.clearTagsCmd(),
		a.searchCmd(),
		a.dueCmd(),
		a.tagsCmd(),
		a.reviewCmd(),
		a.studyCmd(),
		a.historyCmd(),
		a.importCmd(),
		a.exportCmd(),
		a.scanCmd(),
		a.seedCmd(),
		a.serveCmd(),
	)
	return rootCmd, a
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	a.log = log

	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path, log)
	if err != nil {
		return err
	}
	a.store = store

	opts := []deck.Option{
		deck.WithLogger(log),
		deck.WithSkipDuplicates(cfg.Import.SkipDuplicates),
	}
	if rec, ok := store.(storage.HistoryRecorder); ok {
		opts = append(opts, deck.WithReviewHook(func(l domain.ReviewLog) {
			if err := rec.RecordReviews([]domain.ReviewLog{l}); err != nil {
				log.Warn("recording review failed", "card_id", l.CardID, "error", err)
			}
		}))
	}
	a.deck = deck.Load(store, opts...)
	return nil
}

// close is safe to call when open failed part way or never ran.
func (a *app) close() error {
	if a.log != nil {
		a.log.Sync()
	}
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func (a *app) save() error {
	if err := a.deck.Save(a.store); err != nil {
		return err
	}
	a.log.Debug("deck saved", "cards", a.deck.Len())
	return nil
}

// resolve finds a card by full id or by a unique id prefix.
func (a *app) resolve(prefix string) (*domain.Card, error) {
	if c, err := a.deck.Get(prefix); err == nil {
		return c, nil
	}
	var found *domain.Card
	for _, c := range a.deck.Cards() {
		if !strings.HasPrefix(c.ID, prefix) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("id prefix %q is ambiguous", prefix)
		}
		found = c
	}
	if found == nil || prefix == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, prefix)
	}
	return found, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

var errNothingToDo = errors.New("nothing to do")
