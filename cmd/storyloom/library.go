package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gosimple/slug"
	"github.com/spf13/cobra"
	"github.com/storyloomhq/storyloom/internal/api"
	"github.com/storyloomhq/storyloom/internal/auth"
	"github.com/storyloomhq/storyloom/internal/config"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List and manage your finished videos",
	Long: `Print the finished videos in your library.

Use the download and delete subcommands to manage videos by id, or open
the library from the welcome screen of 'storyloom create' for an
interactive view.`,
	RunE: runLibraryList,
}

func init() {
	libraryCmd.AddCommand(libraryDownloadCmd)
	libraryCmd.AddCommand(libraryDeleteCmd)
	libraryCmd.AddCommand(libraryStreamCmd)
}

// libraryClient builds an authenticated API client for library subcommands.
func libraryClient() (*api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return newClient(cfg, auth.NewStore(cfg.DataDir))
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := libraryClient()
	if err != nil {
		return err
	}

	videos, err := client.ListVideos(ctx)
	if err != nil {
		return fmt.Errorf("listing videos: %w", err)
	}
	if len(videos) == 0 {
		fmt.Println("No videos yet. Run `storyloom create` to make one.")
		return nil
	}

	for _, v := range videos {
		mark := ""
		if v.Watermarked {
			mark = " [watermarked]"
		}
		fmt.Printf("%-36s  %-30s %8s  %s%s\n",
			v.ID, v.Title, humanize.Bytes(uint64(v.SizeBytes)), humanize.Time(v.CreatedAt), mark)
	}
	return nil
}

var libraryDownloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download a video to the current directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id := args[0]

		client, err := libraryClient()
		if err != nil {
			return err
		}

		videos, err := client.ListVideos(ctx)
		if err != nil {
			return fmt.Errorf("listing videos: %w", err)
		}
		name := id
		for _, v := range videos {
			if v.ID == id && slug.Make(v.Title) != "" {
				name = slug.Make(v.Title)
				break
			}
		}
		path := name + ".mp4"

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()

		n, err := client.DownloadVideo(ctx, id, f)
		if err != nil {
			_ = os.Remove(path)
			return fmt.Errorf("downloading video: %w", err)
		}

		fmt.Printf("Saved %s (%s)\n", path, humanize.Bytes(uint64(n)))
		return nil
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a video from your library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		client, err := libraryClient()
		if err != nil {
			return err
		}

		if err := client.DeleteVideo(ctx, args[0]); err != nil {
			return fmt.Errorf("deleting video: %w", err)
		}

		fmt.Println("Deleted")
		return nil
	},
}

var libraryStreamCmd = &cobra.Command{
	Use:   "stream <id>",
	Short: "Print the streaming URL for a video",
	Long:  `Print the streaming URL for a video, suitable for piping into a player.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := libraryClient()
		if err != nil {
			return err
		}

		fmt.Println(client.StreamURL(args[0]))
		return nil
	},
}
