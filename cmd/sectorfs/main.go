package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/infinivision/sectorfs/fs"
	"github.com/urfave/cli/v2"
)

func main() {
	config, err := LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	app := cli.App{
		Name:        appName,
		Description: "operate on a sector image holding a teaching file system",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "image",
				Usage: "path of the sector image",
				Value: config.Image,
			},
			&cli.IntFlag{
				Name:  "cache-size",
				Usage: "number of sectors held in memory",
				Value: config.CacheSize,
			},
			&cli.BoolFlag{
				Name:  "sync",
				Usage: "push every write to the platter",
				Value: config.SyncWrites,
			},
		},
		Commands: []*cli.Command{{
			Name:        "format",
			Description: "initialize an empty file system on the image",
			Action: withFS(true, func(f fs.FileSystem, ctx *cli.Context) error {
				return nil
			}),
		}, {
			Name:        "create",
			Description: "create a fixed-size file",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "size",
					Usage:    "file size in bytes",
					Required: true,
				},
			},
			Action: withFS(false, func(f fs.FileSystem, ctx *cli.Context) error {
				return f.Create(ctx.Args().First(), int32(ctx.Int("size")))
			}),
		}, {
			Name:        "mkdir",
			Description: "create a directory",
			Action: withFS(false, func(f fs.FileSystem, ctx *cli.Context) error {
				return f.CreateDirectory(ctx.Args().First())
			}),
		}, {
			Name:        "ls",
			Description: "list a directory",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "recursive",
					Aliases: []string{"r"},
					Usage:   "descend into subdirectories",
				},
			},
			Action: withFS(false, func(f fs.FileSystem, ctx *cli.Context) error {
				name := ctx.Args().First()
				if name == "" {
					name = "/"
				}
				es, err := f.List(name, ctx.Bool("recursive"))
				if err != nil {
					return err
				}
				for _, e := range es {
					kind := "[F]"
					if e.IsDirectory {
						kind = "[D]"
					}
					fmt.Printf("%s%s %s\n", strings.Repeat("  ", e.Depth), kind, e.Name)
				}
				return nil
			}),
		}, {
			Name:        "rm",
			Description: "remove a file, or a whole directory with -r",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "recursive",
					Aliases: []string{"r"},
					Usage:   "remove directories and their contents",
				},
			},
			Action: withFS(false, func(f fs.FileSystem, ctx *cli.Context) error {
				if ctx.Bool("recursive") {
					return f.RemoveRecursively(ctx.Args().First())
				}
				return f.Remove(ctx.Args().First())
			}),
		}, {
			Name:        "cat",
			Description: "copy a file's contents to stdout",
			Action: withFS(false, func(f fs.FileSystem, ctx *cli.Context) error {
				id, err := f.OpenFile(ctx.Args().First())
				if err != nil {
					return err
				}
				defer f.CloseFile(id)
				buf := make([]byte, 4096)
				for {
					n, err := f.ReadFile(id, buf)
					if n > 0 {
						if _, err := os.Stdout.Write(buf[:n]); err != nil {
							return err
						}
					}
					if err == io.EOF {
						return nil
					}
					if err != nil {
						return err
					}
				}
			}),
		}, {
			Name:        "put",
			Description: "copy a local file into the image",
			Action: withFS(false, func(f fs.FileSystem, ctx *cli.Context) error {
				data, err := os.ReadFile(ctx.Args().Get(0))
				if err != nil {
					return err
				}
				dst := ctx.Args().Get(1)
				if err := f.Create(dst, int32(len(data))); err != nil {
					return err
				}
				id, err := f.OpenFile(dst)
				if err != nil {
					return err
				}
				defer f.CloseFile(id)
				if _, err := f.WriteFile(id, data); err != nil && err != io.EOF {
					return err
				}
				return nil
			}),
		}, {
			Name:        "info",
			Description: "print the image's records, bitmap and tree",
			Action: withFS(false, func(f fs.FileSystem, ctx *cli.Context) error {
				return f.Print(os.Stdout)
			}),
		}},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func withFS(format bool, fn func(fs.FileSystem, *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		cfg := fs.DefaultConfig()
		cfg.Path = ctx.String("image")
		cfg.CacheSize = ctx.Int("cache-size")
		cfg.SyncWrites = ctx.Bool("sync")
		cfg.Format = format
		f, err := fs.Open(cfg)
		if err != nil {
			return err
		}
		defer f.Close()
		return fn(f, ctx)
	}
}
