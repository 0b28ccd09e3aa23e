package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"sumii-mobile-api/internal/config"

	"github.com/urfave/cli/v2"
)

var libraryIDFlag = &cli.StringFlag{
	Name:    "library",
	Aliases: []string{"l"},
	Usage:   "Library ID (defaults to MISTRAL_LIBRARY_ID)",
}

func libraryID(c *cli.Context, cfg *config.Config) (string, error) {
	if id := c.String("library"); id != "" {
		return id, nil
	}
	if cfg.Mistral.LibraryID != "" {
		return cfg.Mistral.LibraryID, nil
	}
	return "", fmt.Errorf("no library given; pass --library or set MISTRAL_LIBRARY_ID")
}

var libraryCommand = &cli.Command{
	Name:  "library",
	Usage: "Manage the legal document library the agents search",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "Create a new document library",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Value: "Sumii Legal Library"},
				&cli.StringFlag{Name: "description", Value: "German tenancy and employment law references"},
			},
			Action: func(c *cli.Context) error {
				cfg := config.Load()
				client, err := mistralClient(c, cfg)
				if err != nil {
					return err
				}
				lib, err := client.CreateLibrary(context.Background(), c.String("name"), c.String("description"))
				if err != nil {
					return err
				}
				success.Printf("✓ Library created: %s\n", lib.ID)
				info.Println("Add to your .env:")
				fmt.Printf("MISTRAL_LIBRARY_ID=%s\n", lib.ID)
				return nil
			},
		},
		{
			Name:      "upload",
			Usage:     "Upload files into the library",
			ArgsUsage: "<file> [file...]",
			Flags:     []cli.Flag{libraryIDFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() == 0 {
					return fmt.Errorf("no files given")
				}
				cfg := config.Load()
				client, err := mistralClient(c, cfg)
				if err != nil {
					return err
				}
				id, err := libraryID(c, cfg)
				if err != nil {
					return err
				}

				failed := 0
				for _, path := range c.Args().Slice() {
					f, err := os.Open(path)
					if err != nil {
						failure.Printf("✗ %s: %v\n", path, err)
						failed++
						continue
					}
					doc, err := client.UploadDocument(context.Background(), id, filepath.Base(path), f)
					f.Close()
					if err != nil {
						failure.Printf("✗ %s: %v\n", path, err)
						failed++
						continue
					}
					success.Printf("✓ %s", filepath.Base(path))
					fmt.Printf(" → %s (%s)\n", doc.ID, doc.ProcessingStatus)
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d uploads failed", failed, c.NArg())
				}
				return nil
			},
		},
		{
			Name:  "info",
			Usage: "Show library details",
			Flags: []cli.Flag{libraryIDFlag},
			Action: func(c *cli.Context) error {
				cfg := config.Load()
				client, err := mistralClient(c, cfg)
				if err != nil {
					return err
				}
				id, err := libraryID(c, cfg)
				if err != nil {
					return err
				}
				lib, err := client.GetLibrary(context.Background(), id)
				if err != nil {
					return err
				}
				info.Printf("%s\n", lib.Name)
				fmt.Printf("  id:          %s\n", lib.ID)
				fmt.Printf("  description: %s\n", lib.Description)
				fmt.Printf("  documents:   %d\n", lib.NbDocuments)
				fmt.Printf("  total size:  %d bytes\n", lib.TotalSize)
				fmt.Printf("  created:     %s\n", lib.CreatedAt)
				return nil
			},
		},
	},
}
