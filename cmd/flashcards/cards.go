package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashcards/internal/deck"
	"github.com/conorfennell/flashcards/internal/domain"
)

func printCards(w io.Writer, cards []*domain.Card, empty string) {
	if len(cards) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, c := range cards {
		fmt.Fprintf(w, "%s  %s", shortID(c.ID), truncate(c.Front, 60))
		if len(c.Tags) > 0 {
			fmt.Fprintf(w, "  [%s]", strings.Join(c.Tags, ", "))
		}
		fmt.Fprintln(w)
	}
}

func printCard(w io.Writer, c *domain.Card) {
	fmt.Fprintf(w, "ID:       %s\n", c.ID)
	fmt.Fprintf(w, "Front:    %s\n", c.Front)
	fmt.Fprintf(w, "Back:     %s\n", c.Back)
	if c.Notes != "" {
		fmt.Fprintf(w, "Notes:    %s\n", c.Notes)
	}
	fmt.Fprintf(w, "Tags:     %s\n", strings.Join(c.Tags, ", "))
	fmt.Fprintf(w, "EF:       %.2f\n", c.EF)
	fmt.Fprintf(w, "Reps:     %d\n", c.Reps)
	fmt.Fprintf(w, "Interval: %d day(s)\n", c.IntervalDays)
	fmt.Fprintf(w, "Due:      %s\n", c.Due.Format("2006-01-02 15:04"))
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <front> <back> [notes]",
		Short: "Add a new card",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes := ""
			if len(args) == 3 {
				notes = args[2]
			}
			c, err := a.deck.CreateCard(args[0], args[1], notes)
			if err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added card %s\n", shortID(c.ID))
			if len(c.Tags) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Tags: %s\n", strings.Join(c.Tags, ", "))
			}
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var q deck.Query
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cards := a.deck.Select(q)
			if limit > 0 && len(cards) > limit {
				cards = cards[:limit]
			}
			printCards(cmd.OutOrStdout(), cards, "No cards yet. Use 'flashcards add' or 'flashcards import' to create some.")
			return nil
		},
	}

	cmd.Flags().StringVar(&q.Tag, "tag", "", "only cards with this tag")
	cmd.Flags().BoolVar(&q.OnlyDue, "due", false, "only cards due now")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of cards to show (0 = all)")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show card details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			printCard(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	var front, back, notes string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit the front, back or notes of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u deck.CardUpdate
			if cmd.Flags().Changed("front") {
				u.Front = &front
			}
			if cmd.Flags().Changed("back") {
				u.Back = &back
			}
			if cmd.Flags().Changed("notes") {
				u.Notes = &notes
			}
			if u.Front == nil && u.Back == nil && u.Notes == nil {
				return fmt.Errorf("%w: pass --front, --back or --notes", errNothingToDo)
			}

			c, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if _, err := a.deck.UpdateCard(c.ID, u); err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			printCard(cmd.OutOrStdout(), c)
			return nil
		},
	}

	cmd.Flags().StringVar(&front, "front", "", "new front text")
	cmd.Flags().StringVar(&back, "back", "", "new back text")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.deck.DeleteCard(c.ID); err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %s\n", shortID(c.ID))
			return nil
		},
	}
}

func (a *app) retagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retag <id>",
		Short: "Recompute a card's tags from its text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if _, err := a.deck.Retag(c.ID); err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tags: %s\n", strings.Join(c.Tags, ", "))
			return nil
		},
	}
}

func (a *app) clearTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleartags <id>",
		Short: "Remove every tag from a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if _, err := a.deck.ClearTags(c.ID); err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared tags of card %s\n", shortID(c.ID))
			return nil
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	var q deck.Query

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Rank cards by similarity to a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Text = strings.Join(args, " ")
			printCards(cmd.OutOrStdout(), a.deck.Select(q), "No matching cards found.")
			return nil
		},
	}

	cmd.Flags().StringVar(&q.Tag, "tag", "", "only cards with this tag")
	cmd.Flags().BoolVar(&q.OnlyDue, "due", false, "only cards due now")
	return cmd
}

func (a *app) dueCmd() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List cards due for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cards := a.deck.Select(deck.Query{Tag: tag, OnlyDue: true})
			printCards(cmd.OutOrStdout(), cards, "No cards due.")
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "only cards with this tag")
	return cmd
}

func (a *app) tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List all tags with their card counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags := a.deck.Tags()
			if len(tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags yet.")
				return nil
			}
			cards := a.deck.Cards()
			for _, t := range tags {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", t, len(deck.FilterByTag(cards, t)))
			}
			return nil
		},
	}
}
