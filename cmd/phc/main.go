package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/bodgit/phc"
	phcimage "github.com/bodgit/phc/image"
	"github.com/bodgit/phc/rgb565"
	"github.com/urfave/cli/v2"
)

const defaultDB = "phc.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

var encodeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "background",
		Value: "#ffffff",
		Usage: "colour to blend transparent pixels with",
	},
	&cli.BoolFlag{
		Name:  "disable-compression",
		Usage: "always store packed pixels",
	},
	&cli.IntFlag{
		Name:  "max-colors",
		Usage: "quantize images with more colours down to this many, 0 to disable",
	},
	&cli.BoolFlag{
		Name:  "report",
		Usage: "print a compression report for each converted image",
	},
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func options(c *cli.Context) (*phcimage.Options, error) {
	background, err := rgb565.ParseHex(c.String("background"))
	if err != nil {
		return nil, err
	}
	return &phcimage.Options{
		Background:         background,
		DisableCompression: c.Bool("disable-compression"),
		MaxColors:          c.Int("max-colors"),
	}, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "phc"
	app.Usage = "PHC image conversion utility for RGB565 displays"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PHC_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "encode",
			Usage:       "Convert an image to PHC",
			Description: "Converts a GIF, PNG, JPEG or BMP image to a PHC file alongside it.",
			ArgsUsage:   "FILE",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "write to `FILE` instead",
				},
			}, encodeFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				o, err := options(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				p, err := phc.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer p.Close()

				file := c.Args().First()
				out := c.String("output")
				if out == "" {
					out = phc.OutputFile(file)
				}

				r, err := p.ConvertFile(file, out, o)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if c.Bool("report") {
					if _, err := r.WriteTo(os.Stdout); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:        "decode",
			Usage:       "Convert a PHC file to PNG",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "write to `FILE` instead",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				file := c.Args().First()
				out := c.String("output")
				if out == "" {
					out = strings.TrimSuffix(file, filepath.Ext(file)) + ".png"
				}

				if err := phc.DecodeFile(file, out); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Show the header of a PHC file",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := phc.ReadFile(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
				fmt.Fprintf(w, "Dimensions:\t%d x %d\n", f.Width, f.Height)
				fmt.Fprintf(w, "Bit depth:\t%d\n", f.BitDepth)
				fmt.Fprintf(w, "Palette:\t%d entries\n", len(f.Palette))
				if f.Compressed {
					fmt.Fprintf(w, "Compressed:\tyes, parameters %s\n", f.Parameters)
				} else {
					fmt.Fprintf(w, "Compressed:\tno\n")
				}
				fmt.Fprintf(w, "Pixel data:\t%d bytes at offset %d\n", len(f.Payload), f.PaletteOffset)

				return w.Flush()
			},
		},
		{
			Name:        "scan",
			Usage:       "Convert every image below a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Value: phc.DefaultWorkers,
					Usage: "number of images to convert in parallel",
				},
				&cli.StringFlag{
					Name:  "metrics",
					Usage: "write Prometheus metrics to `FILE` afterwards",
				},
			}, encodeFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				o, err := options(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				p, err := phc.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer p.Close()

				err = p.Scan(c.Args().First(), o, c.Int("workers"))

				if file := c.String("metrics"); file != "" {
					if err := phc.WriteMetrics(file); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				if err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List the conversions in the database",
			Description: "",
			Action: func(c *cli.Context) error {
				p, err := phc.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer p.Close()

				conversions, err := p.Catalog().Conversions()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
				fmt.Fprintf(w, "SHA1\tSIZE\tDEPTH\tPARAMETERS\tBYTES\tPATH\n")
				for _, conv := range conversions {
					params := "-"
					if conv.Compressed {
						params = conv.Parameters.String()
					}
					fmt.Fprintf(w, "%s\t%dx%d\t%d\t%s\t%d\t%s\n", conv.SHA1[:12], conv.Width, conv.Height, conv.BitDepth, params, conv.Size, conv.Path)
				}

				return w.Flush()
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
