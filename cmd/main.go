// Copyright (c) 2025 George Theodorakis. All Rights Reserved

package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	cvec "github.com/gthe0/cvec"

	"github.com/urfave/cli/v2"
)

const wordSize = 8

func loadSnapshot(path string) (*cvec.Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var v cvec.Raw
	if _, err := v.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("can't read snapshot %s: %w", path, err)
	}
	return &v, nil
}

func storeSnapshot(v *cvec.Raw, path string) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return v.WriteTo(f)
}

func main() {
	app := &cli.App{
		Name:  "cvec",
		Usage: "pack, inspect and edit fixed-width vector snapshots",
		Commands: []*cli.Command{
			{
				Name:  "pack",
				Usage: "pack a list of unsigned integers (one per line) into a vector snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"out", "o"},
						Value:   "vec.bin",
						Usage:   "name of the file to write the snapshot to",
					},
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"in", "i"},
						Usage:   "file to read from (default is stdin)",
					},
					&cli.StringFlag{
						Name:    "compress",
						Aliases: []string{"c"},
						Value:   "none",
						Usage:   "payload compression: none, lz4 or zstd",
					},
				},
				Action: func(c *cli.Context) error {
					output := c.String("output")
					if _, err := os.Stat(output); !os.IsNotExist(err) {
						return fmt.Errorf("refusing to over-write existing file: %s", output)
					}
					if c.NArg() > 0 {
						return fmt.Errorf("unexpected command line arguments: %q", c.Args().Slice())
					}
					compression, err := cvec.ParseCompression(c.String("compress"))
					if err != nil {
						return err
					}

					var reader io.Reader
					if c.IsSet("input") {
						f, err := os.Open(c.String("input"))
						if err != nil {
							return err
						}
						reader = f
						defer f.Close()
					} else {
						reader = os.Stdin
					}

					v, err := cvec.NewRawWithConfig(cvec.RawConfig{
						ElemSize:    wordSize,
						Compression: compression,
					})
					if err != nil {
						return err
					}
					rdr := bufio.NewReader(reader)
					start := time.Now()
					var elem [wordSize]byte
					for {
						l, _, err := rdr.ReadLine()
						if err != nil {
							if err == io.EOF {
								break
							}
							return err
						}
						s := strings.TrimSpace(string(l))
						if s == "" {
							continue
						}
						val, err := strconv.ParseUint(s, 10, 64)
						if err != nil {
							return fmt.Errorf("pack: %q is not an unsigned integer: %w", s, err)
						}
						binary.LittleEndian.PutUint64(elem[:], val)
						if err := v.PushBack(elem[:]); err != nil {
							return err
						}
					}
					slog.Info("packed vector in memory",
						"elements", v.Len(), "capacity", v.Cap(), "took", time.Since(start))
					n, err := storeSnapshot(v, output)
					if err != nil {
						return fmt.Errorf("error writing snapshot: %w", err)
					}
					slog.Info("wrote snapshot", "bytes", n, "path", output)
					return nil
				},
			},
			{
				Name:  "describe",
				Usage: "read the header from a vector snapshot and describe it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"in", "i"},
						Usage:   "file containing the snapshot",
					},
				},
				Action: func(c *cli.Context) error {
					h, err := cvec.ReadHeaderFromPath(c.String("i"))
					if err != nil {
						return fmt.Errorf("describe: can't read input file: %w", err)
					}
					h.Explain()
					return nil
				},
			},
			{
				Name:  "get",
				Usage: "print one element of a vector snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"in", "i"},
						Usage:   "file containing the snapshot",
					},
					&cli.Uint64Flag{
						Name:    "index",
						Aliases: []string{"ix"},
						Usage:   "index of the element to print",
					},
				},
				Action: func(c *cli.Context) error {
					v, err := loadSnapshot(c.String("i"))
					if err != nil {
						return err
					}
					ix := c.Uint64("index")
					elem, ok := v.At(ix)
					if !ok {
						return fmt.Errorf("get: index %d out of range, vector holds %d elements",
							ix, v.Len())
					}
					fmt.Printf("[%d] %x", ix, elem)
					if v.ElementSize() == wordSize {
						fmt.Printf(" (%d)", binary.LittleEndian.Uint64(elem))
					}
					fmt.Printf("\n")
					return nil
				},
			},
			{
				Name:  "erase",
				Usage: "erase one element from a vector snapshot and rewrite it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"in", "i"},
						Usage:   "file containing the snapshot",
					},
					&cli.Uint64Flag{
						Name:    "index",
						Aliases: []string{"ix"},
						Usage:   "index of the element to erase",
					},
				},
				Action: func(c *cli.Context) error {
					input := c.String("i")
					v, err := loadSnapshot(input)
					if err != nil {
						return err
					}
					ix := c.Uint64("index")
					before := v.Len()
					// out of range is a defined no-op; the file is
					// rewritten either way
					v.Erase(ix)
					if v.Len() == before {
						slog.Warn("index out of range, nothing erased",
							"index", ix, "elements", before)
					}
					n, err := storeSnapshot(v, input)
					if err != nil {
						return fmt.Errorf("error rewriting snapshot: %w", err)
					}
					slog.Info("rewrote snapshot",
						"bytes", n, "path", input, "elements", v.Len())
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
