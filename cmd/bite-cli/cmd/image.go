package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bite/internal/adapters/scanner"
	"bite/internal/adapters/viewer"
	"bite/internal/application/commands"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage image records",
	Long:  `Add, remove, rate, thumbnail and inspect images. Images are identified by the MD5 hash of their content.`,
}

var imageAddCmd = &cobra.Command{
	Use:   "add <hash> [location]",
	Short: "Add an image by hash",
	Long: `Add an image record. Adding a known hash only records the new location.

Examples:
  bite-cli image add 5d41402abc4b2a76b9719d911017c592
  bite-cli image add 5d41402abc4b2a76b9719d911017c592 /pictures/cat.jpg`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		location := ""
		if len(args) == 2 {
			location = args[1]
		}

		result, err := commands.NewAddImageCommand(GetSession(), args[0], location).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

var imageAddFileCmd = &cobra.Command{
	Use:   "add-file <file>...",
	Short: "Hash image files and add them with their location",
	Long: `Compute the content hash of each file and add it with its absolute path.

Example:
  bite-cli image add-file cat.jpg dog.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		for _, file := range args {
			abs, err := filepath.Abs(file)
			if err != nil {
				return err
			}
			hash, err := scanner.HashFile(abs)
			if err != nil {
				return err
			}

			result, err := commands.NewAddImageCommand(GetSession(), hash, abs).Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Println(result.Message)
		}
		return nil
	},
}

var imageRmCmd = &cobra.Command{
	Use:   "rm <hash>",
	Short: "Delete an image record",
	Long: `Delete an image record and unlink it from its tags. Tags left without
images are pruned. The image file itself is not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDeleteImageCommand(GetSession(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

var imageRateCmd = &cobra.Command{
	Use:   "rate <hash> <rating>",
	Short: "Set the rating of an image (0-5)",
	Long: `Set the rating of an image. Values outside 0-5 are clamped.

Example:
  bite-cli image rate 5d41402abc4b2a76b9719d911017c592 4`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid rating %q: %w", args[1], err)
		}

		result, err := commands.NewRateImageCommand(GetSession(), args[0], rating).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

var imageThumbCmd = &cobra.Command{
	Use:   "thumb <hash> [ref]",
	Short: "Set or clear the thumbnail of an image",
	Long: `Set the thumbnail reference of an image. Without a reference the
thumbnail is cleared. References may not contain whitespace.

Example:
  bite-cli image thumb 5d41402abc4b2a76b9719d911017c592 thumbs/5d41.jpg`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ref string
		if len(args) == 2 {
			ref = args[1]
		}

		result, err := commands.NewSetThumbnailCommand(GetSession(), args[0], ref).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

var imageShowCmd = &cobra.Command{
	Use:   "show <hash>",
	Short: "Show the record of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := commands.NewShowImageCommand(GetSession(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("Hash:      %s\n", d.Hash)
		fmt.Printf("Rating:    %d\n", d.Rating)
		if d.Thumbnail != "" {
			fmt.Printf("Thumbnail: %s\n", d.Thumbnail)
		}
		fmt.Printf("Locations: %s\n", strings.Join(d.Locations, " "))
		fmt.Printf("Tags:      %s\n", strings.Join(d.Tags, " "))

		interactions := make([]string, 0, len(d.Interactions))
		for path := range d.Interactions {
			interactions = append(interactions, path)
		}
		sort.Strings(interactions)
		for _, path := range interactions {
			fmt.Printf("  %s -> %s\n", path, strings.Join(d.Interactions[path], " "))
		}
		return nil
	},
}

var imageLocateCmd = &cobra.Command{
	Use:   "locate <hash>",
	Short: "Print the known locations of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := commands.NewShowImageCommand(GetSession(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}

		for _, loc := range d.Locations {
			fmt.Println(loc)
		}
		return nil
	},
}

var imageOpenCmd = &cobra.Command{
	Use:   "open <hash>",
	Short: "Open an image in the viewer",
	Long: `Open the first known location of an image in the external viewer.
The viewer is $` + viewer.EnvViewer + ` or the platform default.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := commands.NewShowImageCommand(GetSession(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		if len(d.Locations) == 0 {
			return fmt.Errorf("image %s has no known location", d.Hash)
		}

		return viewer.NewOpener().Open(d.Locations[0])
	},
}

var imageListCmd = &cobra.Command{
	Use:   "list [tag]",
	Short: "List image hashes, optionally only those bearing a tag",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag := ""
		if len(args) == 1 {
			tag = args[0]
		}

		hashes, err := commands.NewListImagesCommand(GetSession(), tag).Execute(context.Background())
		if err != nil {
			return err
		}

		for _, hash := range hashes {
			fmt.Println(hash)
		}
		return nil
	},
}

func init() {
	imageCmd.AddCommand(imageAddCmd, imageAddFileCmd, imageRmCmd, imageRateCmd,
		imageThumbCmd, imageShowCmd, imageLocateCmd, imageOpenCmd, imageListCmd)
	rootCmd.AddCommand(imageCmd)
}
