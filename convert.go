package phc

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/phc/format"
	phcimage "github.com/bodgit/phc/image"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
)

// Extension is the file extension used for converted images
const Extension = ".PHC"

// OutputFile returns the PHC file written next to the source file
func OutputFile(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + Extension
}

// ConvertFile converts the image in file to PHC, writes it to out and
// records it in the catalog. If the catalog already holds a conversion of
// identical source data with the same options that is written instead.
func (c *Converter) ConvertFile(file, out string, o *phcimage.Options) (*Report, error) {
	run, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	return c.convert(file, out, o, run)
}

func (c *Converter) convert(file, out string, o *phcimage.Options, run uuid.UUID) (*Report, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	sha := fmt.Sprintf("%X", sha1.Sum(b))
	key := optionsKey(o)

	cached, err := c.catalog.Find(sha, key)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		if err := os.WriteFile(out, cached, 0o644); err != nil {
			return nil, err
		}
		r := &Report{
			Source:      file,
			Output:      out,
			Cached:      true,
			SourceBytes: len(b),
			FileBytes:   len(cached),
		}
		observe(outcomeCached, r)
		return r, nil
	}

	m, name, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		observe(outcomeFailed, nil)
		return nil, fmt.Errorf("%w: %s: %v", ErrUndecodable, file, err)
	}

	conv, err := phcimage.Convert(m, o)
	if err != nil {
		return nil, err
	}

	data, err := conv.File.MarshalBinary()
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return nil, err
	}

	if err := c.catalog.Add(sha, len(b), file, run, key, data); err != nil {
		return nil, err
	}

	r, err := newReport(conv, len(data))
	if err != nil {
		return nil, err
	}
	r.Source, r.Output, r.Format, r.SourceBytes = file, out, name, len(b)

	observe(outcomeConverted, r)

	return r, nil
}

// DecodeFile decodes the PHC file and writes it as a PNG to out
func DecodeFile(file, out string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := phcimage.Decode(f)
	if err != nil {
		return err
	}

	w, err := os.Create(out)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := png.Encode(w, m); err != nil {
		return err
	}

	return w.Close()
}

// ReadFile reads and parses the PHC file without decoding the pixels
func ReadFile(file string) (*format.File, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	f := new(format.File)
	if err := f.UnmarshalBinary(b); err != nil {
		return nil, err
	}

	return f, nil
}
