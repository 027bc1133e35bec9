package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/domain/srs"
	"github.com/phrazzld/studydeck/internal/service/card_review"
	"github.com/spf13/cobra"
)

func parseCardID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid card ID %q", raw)
	}
	return id, nil
}

func newDueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List cards due for review, most overdue first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			return withSession(cmd, func(ctx context.Context, s *session) error {
				cards, err := s.reviews.ListDue(ctx, s.learner, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(cards) == 0 {
					fmt.Fprintln(out, "no cards due")
					return nil
				}

				now := s.clock.Now()
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDUE\tQUESTION")
				for _, c := range cards {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, srs.NextReviewText(c.Review.DueDate, now), c.Question)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%d due\n", len(cards))
				return nil
			})
		},
	}
	cmd.Flags().Int("limit", 0, "Show at most this many cards (0 means all)")
	return cmd
}

func newReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <card-id> <quality>",
		Short: "Record a review answer (quality 0-5)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quality %q: must be an integer between 0 and 5", args[1])
			}

			return withSession(cmd, func(ctx context.Context, s *session) error {
				card, err := s.reviews.SubmitAnswer(ctx, s.learner, cardID, card_review.ReviewAnswer{Quality: domain.Quality(q)})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "interval %d days, ease %.2f, repetitions %d: %s\n",
					card.Review.Interval, card.Review.EaseFactor, card.Review.Repetitions,
					srs.NextReviewText(card.Review.DueDate, s.clock.Now()))
				return nil
			})
		},
	}
}

func newPostponeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "postpone <card-id> <days>",
		Short: "Push a card's next review back by whole days",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			days, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid days %q", args[1])
			}

			return withSession(cmd, func(ctx context.Context, s *session) error {
				card, err := s.reviews.PostponeCard(ctx, s.learner, cardID, days)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "postponed: %s\n", srs.NextReviewText(card.Review.DueDate, s.clock.Now()))
				return nil
			})
		},
	}
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show study progress per document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				progress, err := s.reviews.GetProgress(ctx, s.learner)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(progress) == 0 {
					fmt.Fprintln(out, "no study progress yet")
					return nil
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "DOCUMENT\tREVIEWED\tRETENTION\tLAST STUDIED")
				for _, p := range progress {
					doc := "-"
					if p.DocumentID != uuid.Nil {
						doc = p.DocumentID.String()
					}
					last := "never"
					if !p.LastStudiedAt.IsZero() {
						last = p.LastStudiedAt.Format("2006-01-02 15:04")
					}
					fmt.Fprintf(tw, "%s\t%d\t%.0f%%\t%s\n", doc, p.FlashcardsReviewed, p.RetentionRate, last)
				}
				return tw.Flush()
			})
		},
	}
}

func newQualitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qualities",
		Short: "Explain the 0-5 answer quality scale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, q := range domain.Qualities() {
				mark := " "
				if q.Passing() {
					mark = "+"
				}
				fmt.Fprintf(out, "%d %s %s\n", q, mark, q.Description())
			}
			fmt.Fprintln(out, strings.Repeat("-", 40))
			fmt.Fprintln(out, "+ counts as a successful recall")
			return nil
		},
	}
}

