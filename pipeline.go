package phc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	phcimage "github.com/bodgit/phc/image"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const maxFileSize = 64 << (10 * 2)

// DefaultWorkers is the number of images converted in parallel by Scan
const DefaultWorkers = 4

func isImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".bmp", ".gif", ".jpeg", ".jpg", ".png":
		return true
	default:
		return false
	}
}

func (c *Converter) findImages(ctx context.Context, base string, out chan<- string) error {
	defer close(out)
	return filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
		if info.Name()[0] == '.' && file != base {
			if info.Mode().IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Ignore anything that isn't a normal file
		if !info.Mode().IsRegular() {
			return nil
		}

		if info.Size() > maxFileSize || !isImage(file) {
			return nil
		}

		select {
		case out <- file:
		case <-ctx.Done():
			return ctx.Err()
		}

		return nil
	})
}

func (c *Converter) imageWorker(ctx context.Context, in <-chan string, o *phcimage.Options, run uuid.UUID) error {
	for file := range in {
		r, err := c.convert(file, OutputFile(file), o, run)
		switch {
		case errors.Is(err, ErrUndecodable):
			c.logger.Println(err)
			continue
		case err != nil:
			return err
		}

		if r.Cached {
			c.logger.Printf("Reused \"%s\" from catalog\n", r.Output)
		} else {
			c.logger.Printf("Converted \"%s\", %d bytes, %.1f%% reduction\n", r.Output, r.FileBytes, r.Reduction())
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Scan walks the directory tree at path and converts every image found to a
// PHC file alongside it. Files that cannot be decoded are logged and skipped.
func (c *Converter) Scan(path string, o *phcimage.Options, workers int) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	run, err := uuid.NewRandom()
	if err != nil {
		return err
	}
	c.logger.Printf("Starting run %s in \"%s\"\n", run, dir)

	if workers < 1 {
		workers = DefaultWorkers
	}

	group, groupCtx := errgroup.WithContext(context.Background())

	files := make(chan string)
	group.Go(func() error {
		return c.findImages(groupCtx, dir, files)
	})

	for i := 0; i < workers; i++ {
		group.Go(func() error {
			return c.imageWorker(groupCtx, files, o, run)
		})
	}

	return group.Wait()
}
