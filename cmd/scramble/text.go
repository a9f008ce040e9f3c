package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sentencescramble/internal/chunking"
	"sentencescramble/internal/models"
	"sentencescramble/internal/prng"
	"sentencescramble/internal/sentences"
	"sentencescramble/internal/tokenize"
)

// readText joins the arguments, or reads stdin when there are none
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.New("no text given")
	}
	return text, nil
}

func printLines(cmd *cobra.Command, lines []string) {
	out := cmd.OutOrStdout()
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}

func tokenizeCmd() *cobra.Command {
	var locked []string

	cmd := &cobra.Command{
		Use:   "tokenize [sentence]",
		Short: "Split a sentence into tokens, keeping locked phrases together",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			printLines(cmd, tokenize.Tokenize(text, locked))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&locked, "lock", nil, "Extra phrase to keep as one token (repeatable)")
	return cmd
}

func chunkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chunk [sentence]",
		Short: "Break a long sentence into phrase chunks",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			printLines(cmd, chunking.Chunk(text))
			return nil
		},
	}
}

func splitCmd() *cobra.Command {
	var teacher bool

	cmd := &cobra.Command{
		Use:   "split [text]",
		Short: "Split a paragraph into sentences",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			if !teacher {
				printLines(cmd, sentences.Split(text))
				return nil
			}

			for _, item := range sentences.ParseTeacherInput(text) {
				line := item.Text
				if len(item.Chunks) > 0 {
					line += "  [" + strings.Join(item.Chunks, " / ") + "]"
				}
				if len(item.Alts) > 0 {
					line += "  alts: " + strings.Join(item.Alts, "; ")
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&teacher, "teacher", false, "Parse teacher input, with chunk and alternative syntax")
	return cmd
}

func shuffleCmd() *cobra.Command {
	var (
		seed   string
		index  int
		locked []string
	)

	cmd := &cobra.Command{
		Use:   "shuffle [sentence]",
		Short: "Show the scrambled units a student would see",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}

			plan := chunking.Plan(models.SentenceWithOptions{Text: text, Lock: locked})
			unitSeed := prng.TimeSeed()
			if seed != "" {
				unitSeed = prng.SentenceSeed(seed, index)
			}

			units := prng.Shuffle(plan.Units(), unitSeed)
			texts := make([]string, len(units))
			for i, u := range units {
				texts[i] = u.Text
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", plan.Mode, strings.Join(texts, " | "))
			return nil
		},
	}

	cmd.Flags().StringVar(&seed, "seed", "", "Assignment seed; random when empty")
	cmd.Flags().IntVar(&index, "index", 0, "Sentence index within the assignment")
	cmd.Flags().StringSliceVar(&locked, "lock", nil, "Extra phrase to keep as one token (repeatable)")
	return cmd
}
