package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// GENCODE FTP URLs
const (
	gencodeBaseURL = "https://ftp.ebi.ac.uk/pub/databases/gencode/Gencode_human/release_46"
	gencodeVersion = "v46"
)

// gencodeGTFURL returns the comprehensive annotation GTF URL for the given
// assembly. Unknown assemblies fall back to GRCh38.
func gencodeGTFURL(assembly string) string {
	if strings.EqualFold(assembly, "GRCh37") {
		return fmt.Sprintf("%s/GRCh37_mapping/gencode.%slift37.annotation.gtf.gz", gencodeBaseURL, gencodeVersion)
	}
	return fmt.Sprintf("%s/gencode.%s.annotation.gtf.gz", gencodeBaseURL, gencodeVersion)
}

func newDownloadCmd() *cobra.Command {
	var (
		assembly  string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the GENCODE gene annotation",
		Long: `Download the GENCODE comprehensive gene annotation GTF.

Files are stored under ~/.vibe-splice/<assembly>/ unless --output is given.
"vibe-splice detect" without an input file uses the downloaded annotation.`,
		Example: `  vibe-splice download
  vibe-splice download --assembly GRCh37
  vibe-splice download --output /data/gencode`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir == "" {
				outputDir = defaultDataDir()
				if outputDir == "" {
					return fmt.Errorf("cannot determine home directory")
				}
			}
			destDir := filepath.Join(outputDir, strings.ToLower(assembly))
			if err := os.MkdirAll(destDir, 0o755); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", destDir, err)
			}

			out := cmd.OutOrStdout()
			url := gencodeGTFURL(assembly)
			fmt.Fprintf(out, "Downloading GENCODE %s annotation for %s...\n", gencodeVersion, assembly)
			fmt.Fprintf(out, "Destination: %s\n\n", destDir)

			gtfFile := filepath.Join(destDir, filepath.Base(url))
			if err := downloadFile(out, url, gtfFile); err != nil {
				return fmt.Errorf("downloading GTF: %w", err)
			}

			fmt.Fprintf(out, "\nDownload complete!\n")
			fmt.Fprintf(out, "To detect splicing events, run:\n")
			fmt.Fprintf(out, "  vibe-splice detect --assembly %s\n", assembly)
			return nil
		},
	}

	cmd.Flags().StringVar(&assembly, "assembly", "GRCh38", "Genome assembly: GRCh37 or GRCh38")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: ~/.vibe-splice/)")

	return cmd
}

// downloadFile downloads a file from URL to the destination path with progress.
func downloadFile(out io.Writer, url, destPath string) error {
	if info, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(out, "  %s already exists (%s), skipping\n", filepath.Base(destPath), formatSize(info.Size()))
		return nil
	}

	fmt.Fprintf(out, "  Downloading %s...\n", filepath.Base(destPath))

	client := &http.Client{Timeout: 30 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %s", resp.Status)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	pw := &progressWriter{out: out, total: resp.ContentLength, lastPrint: time.Now()}
	_, err = io.Copy(f, io.TeeReader(resp.Body, pw))
	f.Close()
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download failed: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}

	fmt.Fprintf(out, "    Done: %s\n", formatSize(pw.downloaded))
	return nil
}

// progressWriter reports download progress at most once per second.
type progressWriter struct {
	out        io.Writer
	total      int64
	downloaded int64
	lastPrint  time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.downloaded += int64(n)

	if time.Since(pw.lastPrint) > time.Second {
		if pw.total > 0 {
			pct := float64(pw.downloaded) / float64(pw.total) * 100
			fmt.Fprintf(pw.out, "\r    Progress: %s / %s (%.1f%%)  ",
				formatSize(pw.downloaded), formatSize(pw.total), pct)
		} else {
			fmt.Fprintf(pw.out, "\r    Progress: %s  ", formatSize(pw.downloaded))
		}
		pw.lastPrint = time.Now()
	}

	return n, nil
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// defaultDataDir returns ~/.vibe-splice, or "" without a home directory.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vibe-splice")
}

// findGENCODEGTF looks for a downloaded GENCODE annotation of assembly in
// dir/<assembly>.
func findGENCODEGTF(dir, assembly string) (string, bool) {
	if dir == "" {
		return "", false
	}
	pattern := "gencode.v*.annotation.gtf.gz"
	if strings.EqualFold(assembly, "GRCh37") {
		pattern = "gencode.v*lift37.annotation.gtf.gz"
	}

	matches, err := filepath.Glob(filepath.Join(dir, strings.ToLower(assembly), pattern))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1], true
}
