// Package audio invokes the external converter that turns chat voice files
// into WAV waveforms the recognition backends accept.
package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Converter decodes downloaded voice files with ffmpeg. Conversion is
// synchronous within the caller's turn: the call returns only once the
// converter process has exited and the output file exists, bounded by the
// configured timeout.
type Converter struct {
	ffmpegPath string
	workDir    string
	timeout    time.Duration
}

// NewConverter creates a converter writing into workDir.
func NewConverter(ffmpegPath, workDir string, timeout time.Duration) *Converter {
	return &Converter{ffmpegPath: ffmpegPath, workDir: workDir, timeout: timeout}
}

// SourcePath returns the download path for a named voice message.
func (c *Converter) SourcePath(name string) string {
	return filepath.Join(c.workDir, name+".ogg")
}

// WavPath returns the decoded output path for a named voice message.
func (c *Converter) WavPath(name string) string {
	return filepath.Join(c.workDir, name+".wav")
}

// Convert decodes name.ogg into name.wav and returns the output path.
// Re-converting an already decoded message is a no-op.
func (c *Converter) Convert(ctx context.Context, name string) (string, error) {
	src := c.SourcePath(name)
	dst := c.WavPath(name)

	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("voice file missing: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.ffmpegPath, "-i", src, "-loglevel", "quiet", dst)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("convert %s: %w", name, err)
	}
	if _, err := os.Stat(dst); err != nil {
		return "", fmt.Errorf("converter produced no output for %s: %w", name, err)
	}
	return dst, nil
}

// Remove deletes both the source and converted artifacts of a voice
// message. Missing files are ignored.
func (c *Converter) Remove(name string) {
	os.Remove(c.SourcePath(name))
	os.Remove(c.WavPath(name))
}
