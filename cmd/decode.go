package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/llehouerou/undertow/internal/app"
	"github.com/llehouerou/undertow/internal/config"
	"github.com/llehouerou/undertow/internal/errmsg"
	"github.com/llehouerou/undertow/internal/imagedata"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
)

// DecodeCmd decodes image files through the decode worker.
type DecodeCmd struct {
	Files   []string `arg:"" name:"files" help:"Image files to decode" type:"existingfile"`
	Layout  string   `help:"Channel order of the bitmaps (${enum})" enum:"rgb,bgr" default:"rgb"`
	MaxSize int      `help:"Longest bitmap edge in pixels, 0 for none (default: decode.max_size)" default:"-1"`
	Hash    bool     `help:"Print the average hash of each bitmap"`
	Out     string   `help:"Write decoded bitmaps as PNG to this folder" type:"existingdir"`
}

// Run decodes every file and reports the results in argument order.
func (c *DecodeCmd) Run() error {
	var (
		cfg     *config.Config
		logger  *zap.Logger
		decoder *imagedata.Handle
	)
	return run(newApp(&cfg, &logger, &decoder), func() error {
		maxSize := c.MaxSize
		if maxSize < 0 {
			maxSize = cfg.GetDecodeConfig().MaxSize
		}
		logger.Info("batch decode", zap.Int("files", len(c.Files)), zap.Int("max_size", maxSize))
		return c.decode(decoder, maxSize, os.Stdout)
	})
}

type decodeJob struct {
	file string
	id   imagedata.RequestID
}

// decode queues every file before waiting for the first event; results
// come back in the order the files were queued.
func (c *DecodeCmd) decode(d app.Decoder, maxSize int, w io.Writer) error {
	layout := imagedata.RGB
	if c.Layout == "bgr" {
		layout = imagedata.BGR
	}

	var (
		lines  []string
		failed int
		read   int64
	)
	jobs := make([]decodeJob, 0, len(c.Files))
	for _, file := range c.Files {
		data, err := os.ReadFile(file)
		if err != nil {
			failed++
			lines = append(lines, errorStyle.Render(errmsg.FormatWith(errmsg.OpFileLoad, file, err)))
			continue
		}
		read += int64(len(data))
		jobs = append(jobs, decodeJob{file: file, id: d.DecodeScaled(data, imagedata.Thumbnail, layout, maxSize)})
	}

	bar := progressbar.NewOptions(len(jobs),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("decoding"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	for _, job := range jobs {
		ev, ok := d.Wait()
		if !ok {
			return errors.New("decode worker stopped")
		}
		if id, _ := ev.Request(); id != job.id {
			return fmt.Errorf("decode event %d out of order, want %d", id, job.id)
		}
		_ = bar.Add(1)

		switch ev := ev.(type) {
		case imagedata.ImageDecoded:
			line, err := c.report(job.file, ev.Bitmap, layout)
			if err != nil {
				failed++
				lines = append(lines, errorStyle.Render(err.Error()))
				continue
			}
			lines = append(lines, line)
		case imagedata.DecodeError:
			failed++
			lines = append(lines, errorStyle.Render(errmsg.FormatWith(errmsg.OpImageDecode, job.file, imagedata.ErrDecode)))
		}
	}
	_ = bar.Finish()

	lines = append(lines, fmt.Sprintf("%d of %d images decoded, %s read",
		len(c.Files)-failed, len(c.Files), humanize.Bytes(uint64(read)))) //nolint:gosec // sum of file sizes
	fmt.Fprintln(w, strings.Join(lines, "\n"))

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(c.Files))
	}
	return nil
}

// report describes one decoded bitmap, hashing and saving it as asked.
func (c *DecodeCmd) report(file string, bm *imagedata.Bitmap, layout imagedata.Layout) (string, error) {
	parts := []string{fmt.Sprintf("%s: %dx%d %s", file, bm.Width, bm.Height, layout)}

	if c.Hash || c.Out != "" {
		img := bm.Image()
		if layout == imagedata.BGR {
			img.Pix = slices.Clone(img.Pix)
			imagedata.SwapRedBlue(img.Pix)
		}

		if c.Hash {
			hash, err := goimagehash.AverageHash(img)
			if err != nil {
				return "", fmt.Errorf("hash %s: %w", file, err)
			}
			parts = append(parts, hash.ToString())
		}
		if c.Out != "" {
			out := filepath.Join(c.Out, strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))+".png")
			if err := imaging.Save(img, out); err != nil {
				return "", errors.New(errmsg.FormatWith(errmsg.OpImageWrite, out, err))
			}
			parts = append(parts, "-> "+out)
		}
	}
	return successStyle.Render(strings.Join(parts, "  ")), nil
}
