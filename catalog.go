package phc

import (
	"database/sql"
	"fmt"
	"image/color"

	"github.com/bodgit/phc/codec"
	"github.com/bodgit/phc/format"
	phcimage "github.com/bodgit/phc/image"
	"github.com/bodgit/phc/rgb565"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Catalog is a sqlite database of source images, keyed by SHA-1, and the PHC
// files produced from them
type Catalog struct {
	db *sql.DB
}

// Conversion is a single catalog entry
type Conversion struct {
	ID         int64
	SHA1       string
	Path       string
	Run        uuid.UUID
	Options    string
	Width      int
	Height     int
	BitDepth   int
	Compressed bool
	Parameters codec.Parameters
	Size       int
}

// NewCatalog opens the catalog at file, creating it if necessary
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	// Workers share the one connection rather than contend for the lock
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS source (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, size INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (id INTEGER PRIMARY KEY NOT NULL, source_id INTEGER NOT NULL, path TEXT NOT NULL, run TEXT NOT NULL, options TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, bit_depth INTEGER NOT NULL, compressed INTEGER NOT NULL, bits_repeats INTEGER NOT NULL, bits_offset INTEGER NOT NULL, phc BLOB NOT NULL, UNIQUE(source_id, options), FOREIGN KEY(source_id) REFERENCES source(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the database
func (c *Catalog) Close() error {
	return c.db.Close()
}

// optionsKey returns a canonical string for the options that affect the
// output, so a source converted with different options gets its own entry
func optionsKey(o *phcimage.Options) string {
	var (
		background color.Color = rgb565.White
		compress               = true
		colors                 = 0
	)
	if o != nil {
		if o.Background != nil {
			background = o.Background
		}
		compress = !o.DisableCompression
		colors = o.MaxColors
	}
	r, g, b, a := background.RGBA()
	return fmt.Sprintf("background=%04x%04x%04x%04x,compress=%t,colors=%d", r, g, b, a, compress, colors)
}

func (c *Catalog) addSource(sha string, size int) (int64, error) {
	// Two workers can find the same source at once, so insert first and
	// look the row up afterwards
	if _, err := c.db.Exec("INSERT OR IGNORE INTO source (sha1, size) VALUES (?, ?)", sha, size); err != nil {
		return 0, err
	}

	var id int64
	if err := c.db.QueryRow("SELECT id FROM source WHERE sha1 = ?", sha).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Find returns the PHC file previously produced from the source with the
// given SHA-1 and options, or nil if there isn't one
func (c *Catalog) Find(sha, options string) ([]byte, error) {
	var b []byte
	switch err := c.db.QueryRow("SELECT c.phc FROM conversion AS c JOIN source AS s ON c.source_id = s.id WHERE s.sha1 = ? AND c.options = ?", sha, options).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return b, nil
	default:
		return nil, err
	}
}

// Add records the PHC file b produced from the source with the given SHA-1
// and size, replacing any previous entry for the same options
func (c *Catalog) Add(sha string, size int, path string, run uuid.UUID, options string, b []byte) error {
	var f format.File
	if err := f.UnmarshalBinary(b); err != nil {
		return err
	}

	source, err := c.addSource(sha, size)
	if err != nil {
		return err
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO conversion (source_id, path, run, options, width, height, bit_depth, compressed, bits_repeats, bits_offset, phc) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", source, path, run.String(), options, f.Width, f.Height, f.BitDepth, f.Compressed, f.Parameters.BitsRepeats, f.Parameters.BitsOffset, b); err != nil {
		return err
	}

	return nil
}

// Conversions returns every catalog entry, oldest first
func (c *Catalog) Conversions() ([]Conversion, error) {
	rows, err := c.db.Query("SELECT c.id, s.sha1, c.path, c.run, c.options, c.width, c.height, c.bit_depth, c.compressed, c.bits_repeats, c.bits_offset, length(c.phc) FROM conversion AS c JOIN source AS s ON c.source_id = s.id ORDER BY c.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversions []Conversion
	for rows.Next() {
		var (
			conv Conversion
			run  string
		)
		if err := rows.Scan(&conv.ID, &conv.SHA1, &conv.Path, &run, &conv.Options, &conv.Width, &conv.Height, &conv.BitDepth, &conv.Compressed, &conv.Parameters.BitsRepeats, &conv.Parameters.BitsOffset, &conv.Size); err != nil {
			return nil, err
		}
		if conv.Run, err = uuid.Parse(run); err != nil {
			return nil, err
		}
		conversions = append(conversions, conv)
	}

	return conversions, rows.Err()
}
