package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maltedev/listing-extractor/internal/scraper"
	"github.com/spf13/cobra"
)

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Extract every URL in a file and print one JSON result per line",
		Long: `Reads product URLs from --file (or stdin when the file is "-"), one per line.
Blank lines and lines starting with # are skipped. Results keep input order.`,
		Args: cobra.NoArgs,
		RunE: runBatchCmd,
	}
	cmd.Flags().StringP("file", "f", "-", "File with one product URL per line")
	cmd.Flags().StringP("market", "m", "US", "Target market recorded on each product")
	cmd.Flags().Int("concurrency", 2, "Maximum pages fetched at once")
	return cmd
}

func runBatchCmd(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	market, _ := cmd.Flags().GetString("market")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	var in io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open URL file: %w", err)
		}
		defer f.Close()
		in = f
	}

	urls, err := readURLs(in)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return errors.New("no URLs to extract")
	}

	a, err := newApp(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	results, runErr := scraper.NewBatchScraper(a.service, concurrency, a.logger).Run(cmd.Context(), urls, market)

	enc := json.NewEncoder(cmd.OutOrStdout())
	failed := 0
	for _, result := range results {
		if result.URL == "" {
			// not reached before cancellation
			continue
		}
		if result.Error != "" {
			failed++
		}
		if err := enc.Encode(result); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("batch finished", "total", len(urls), "failed", failed)
	return nil
}

func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URLs: %w", err)
	}
	return urls, nil
}
