package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashcards/internal/deck"
	"github.com/conorfennell/flashcards/internal/storage"
)

func (a *app) reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <id> <quality>",
		Short: "Grade a card from 0 (blackout) to 5 (perfect) and reschedule it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quality, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quality must be a number from 0 to 5: %w", err)
			}
			c, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if _, err := a.deck.Review(c.ID, quality); err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Next review in %d day(s), on %s (EF %.2f)\n",
				c.IntervalDays, c.Due.Format("2006-01-02"), c.EF)
			return nil
		},
	}
}

func (a *app) studyCmd() *cobra.Command {
	var tag string
	var all bool

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Study cards interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := deck.Query{Tag: tag, OnlyDue: a.cfg.Study.OnlyDue && !all}
			s := a.deck.NewSession(q)
			reviewed, err := study(s, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if reviewed == 0 {
				return nil
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reviewed %d card(s).\n", reviewed)
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "only cards with this tag")
	cmd.Flags().BoolVar(&all, "all", false, "include cards that are not due yet")
	return cmd
}

// study runs the question/answer/grade loop until the queue is exhausted,
// the user quits or in reaches EOF. It returns the number of graded cards.
func study(s *deck.Session, in io.Reader, out io.Writer) (int, error) {
	if s.Len() == 0 {
		fmt.Fprintln(out, "Nothing to study.")
		return 0, nil
	}
	scanner := bufio.NewScanner(in)
	readLine := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	reviewed := 0
	for {
		c := s.Current()
		fmt.Fprintf(out, "\n[%d/%d] %s\n", s.Position()+1, s.Len(), c.Front)
		fmt.Fprint(out, "(press Enter to show the answer) ")
		if _, ok := readLine(); !ok {
			return reviewed, scanner.Err()
		}
		fmt.Fprintf(out, "%s\n", c.Back)
		if c.Notes != "" {
			fmt.Fprintf(out, "  %s\n", c.Notes)
		}

		last := s.Done()
	grade:
		for {
			fmt.Fprint(out, "Quality 0-5 (s = skip, q = quit): ")
			line, ok := readLine()
			if !ok {
				return reviewed, scanner.Err()
			}
			switch line {
			case "q":
				return reviewed, nil
			case "s":
				if !s.Next() {
					return reviewed, nil
				}
				break grade
			}
			quality, err := strconv.Atoi(line)
			if err != nil {
				fmt.Fprintln(out, "Enter a number from 0 to 5.")
				continue
			}
			graded, err := s.Grade(quality)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			reviewed++
			fmt.Fprintf(out, "Next review in %d day(s).\n", graded.IntervalDays)
			if last {
				return reviewed, nil
			}
			break grade
		}
	}
}

func (a *app) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the review history of a card (sqlite storage only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, ok := a.store.(storage.HistoryRecorder)
			if !ok {
				return errors.New("review history needs the sqlite storage backend")
			}
			c, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			logs, err := rec.History(c.ID)
			if err != nil {
				return err
			}
			if len(logs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reviews yet.")
				return nil
			}
			for _, l := range logs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  quality %d  interval %d  ef %.2f\n",
					l.Timestamp.Format("2006-01-02 15:04"), l.Quality, l.IntervalDays, l.EF)
			}
			return nil
		},
	}
}
