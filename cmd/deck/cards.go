package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/importer"
	"github.com/spf13/cobra"
)

// documentFlag parses the optional --document flag.
func documentFlag(cmd *cobra.Command) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString("document")
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid document ID %q", raw)
	}
	return id, nil
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a flashcard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			question, _ := cmd.Flags().GetString("question")
			answer, _ := cmd.Flags().GetString("answer")
			category, _ := cmd.Flags().GetString("category")
			rawDifficulty, _ := cmd.Flags().GetString("difficulty")

			difficulty, err := domain.ParseDifficulty(rawDifficulty)
			if err != nil {
				return err
			}
			documentID, err := documentFlag(cmd)
			if err != nil {
				return err
			}

			return withSession(cmd, func(ctx context.Context, s *session) error {
				cards, err := s.cards.CreateCards(ctx, s.learner, documentID, []domain.CardContent{{
					Question:   question,
					Answer:     answer,
					Category:   category,
					Difficulty: difficulty,
				}})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added card %s\n", cards[0].ID)
				return nil
			})
		},
	}

	cmd.Flags().StringP("question", "q", "", "Question side of the card")
	cmd.Flags().StringP("answer", "a", "", "Answer side of the card")
	cmd.Flags().String("category", "", "Free-form category")
	cmd.Flags().String("difficulty", "", "easy, medium or hard (default medium)")
	cmd.Flags().String("document", "", "Document ID the card belongs to")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")
	return cmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import flashcards from a spreadsheet",
		Long: "Import flashcards from a spreadsheet whose columns are question, answer,\n" +
			"category and difficulty. Rows that cannot be imported are reported and skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, _ := cmd.Flags().GetString("sheet")
			startRow, _ := cmd.Flags().GetInt("start-row")
			documentID, err := documentFlag(cmd)
			if err != nil {
				return err
			}

			result, err := importer.Import(args[0], importer.Options{SheetName: sheet, StartRow: startRow})
			if err != nil {
				return err
			}
			for _, rowErr := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %v\n", rowErr)
			}
			if len(result.Cards) == 0 {
				return errors.New("no cards to import")
			}

			return withSession(cmd, func(ctx context.Context, s *session) error {
				cards, err := s.cards.CreateCards(ctx, s.learner, documentID, result.Cards)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d cards (%d rows processed, %d skipped)\n",
					len(cards), result.Processed, len(result.Errors))
				return nil
			})
		},
	}

	cmd.Flags().String("sheet", "", "Sheet to read from an .xlsx file (default first sheet)")
	cmd.Flags().Int("start-row", 2, "First data row, 1-based")
	cmd.Flags().String("document", "", "Document ID the cards belong to")
	return cmd
}
