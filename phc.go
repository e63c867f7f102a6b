/*
Package phc is a library for converting images to the PHC format used to
store bitmaps for small RGB565 TFT displays, and for keeping a catalog of
what has been converted so unchanged sources are not converted twice.
*/
package phc

import (
	"errors"
	"log"
)

// ErrUndecodable is returned when a source file is not an image in any of
// the supported formats
var ErrUndecodable = errors.New("phc: unable to decode image")

// Converter converts images and records the results in a Catalog
type Converter struct {
	catalog *Catalog
	logger  *log.Logger
}

// New returns a Converter using the catalog database at dbFile
func New(dbFile string, logger *log.Logger) (*Converter, error) {
	catalog, err := NewCatalog(dbFile)
	if err != nil {
		return nil, err
	}

	registerMetrics()

	return &Converter{
		catalog: catalog,
		logger:  logger,
	}, nil
}

// Catalog returns the catalog the Converter records conversions in
func (c *Converter) Catalog() *Catalog {
	return c.catalog
}

// Close closes the catalog
func (c *Converter) Close() error {
	return c.catalog.Close()
}
