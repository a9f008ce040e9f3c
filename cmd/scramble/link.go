package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sentencescramble/internal/encoding"
	"sentencescramble/internal/models"
	"sentencescramble/internal/service"
)

func encodeCmd() *cobra.Command {
	var (
		file    string
		baseURL string
		legacy  bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode an assignment JSON document as a share link",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("failed to open assignment: %w", err)
				}
				defer f.Close()
				in = f
			}

			var a models.Assignment
			if err := json.NewDecoder(in).Decode(&a); err != nil {
				return fmt.Errorf("failed to parse assignment: %w", err)
			}

			var fragment string
			if legacy {
				payload, err := encoding.EncodeLegacy(a)
				if err != nil {
					return err
				}
				fragment = "#A=" + payload
			} else {
				fragment = encoding.EncodeFragment(a)
			}
			if fragment == "" {
				return service.ErrEncodingFailed
			}

			if baseURL != "" {
				if i := strings.IndexByte(baseURL, '#'); i >= 0 {
					baseURL = baseURL[:i]
				}
				fragment = baseURL + fragment
			}
			fmt.Fprintln(cmd.OutOrStdout(), fragment)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Assignment JSON file (default: stdin)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Page the link should open; prints just the fragment when empty")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "Use the older A= format")
	return cmd
}

type decodeOutput struct {
	Format     encoding.Format    `json:"format"`
	Assignment *models.Assignment `json:"assignment"`
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <link-or-fragment>",
		Short: "Decode the assignment inside a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, format := encoding.DecodeFragment(args[0])
			if a == nil {
				return errors.New("link does not contain a valid assignment")
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(decodeOutput{Format: format, Assignment: a})
		},
	}
}
