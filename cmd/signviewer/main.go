package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/signviewer/assets/icon"
	"github.com/depeter/signviewer/internal/app"
	"github.com/depeter/signviewer/internal/config"
	"github.com/depeter/signviewer/internal/dataset"
	"github.com/depeter/signviewer/internal/jellyfin"
	"github.com/depeter/signviewer/internal/ui"
)

// passwordEnv holds the Jellyfin password when no token is configured.
const passwordEnv = "SIGNVIEWER_JELLYFIN_PASSWORD"

func main() {
	configPath := flag.String("config", "", "config file (default: $XDG_CONFIG_HOME/signviewer/config.toml)")
	item := flag.String("item", "", "Jellyfin item ID to stream instead of the dataset's video")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [dataset-folder]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Load config
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if flag.NArg() > 0 {
		cfg.Source.Dataset = flag.Arg(0)
	}
	if *item != "" {
		cfg.Source.JellyfinItem = *item
	}
	if cfg.Source.Dataset == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if err := ui.InitFonts(nil); err != nil {
		log.Fatalf("Failed to init fonts: %v", err)
	}

	folder, err := dataset.OpenFolder(cfg.Source.Dataset)
	if err != nil {
		log.Fatalf("Failed to open dataset: %v", err)
	}

	var client *jellyfin.Client
	var video *dataset.VideoFile
	mediaURL := folder.VideoPath()
	if cfg.Source.JellyfinItem != "" {
		client, err = connect(cfg, *configPath == "")
		if err != nil {
			log.Fatalf("Jellyfin: %v", err)
		}
		it, err := client.GetItem(cfg.Source.JellyfinItem)
		if err != nil {
			log.Fatalf("Jellyfin: %v", err)
		}
		v, err := it.VideoFile()
		if err != nil {
			log.Fatalf("Jellyfin: %v", err)
		}
		video = &v
		mediaURL = client.GetStreamURL(it.ID)
		log.Printf("Streaming %q from %s", it.Name, client.ServerURL())
	}

	ds, err := folder.Load(video)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	game := app.NewGame(cfg, ds, folder)
	if client != nil {
		game.UseJellyfin(client, cfg.Source.JellyfinItem)
	}
	if err := game.Start(mediaURL); err != nil {
		log.Fatalf("Failed to start player: %v", err)
	}
	defer game.Close()

	// Configure window
	ebiten.SetWindowSize(cfg.UI.Width, cfg.UI.Height)
	ebiten.SetWindowTitle("SignViewer")
	ebiten.SetWindowIcon(icon.Generate())
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(game); err != nil {
		log.Print(err)
	}
}

// connect builds a Jellyfin client from the config, logging in with the
// password from the environment when no token is stored. With persist set the
// new token is written back to the user config.
func connect(cfg *config.Config, persist bool) (*jellyfin.Client, error) {
	client := jellyfin.NewClient(cfg.Jellyfin.URL)
	if cfg.Jellyfin.Token != "" {
		client.SetToken(cfg.Jellyfin.Token, cfg.Jellyfin.UserID)
		return client, nil
	}
	password := os.Getenv(passwordEnv)
	if cfg.Jellyfin.Username == "" || password == "" {
		return nil, fmt.Errorf("no token configured; set jellyfin.username and %s", passwordEnv)
	}
	if err := client.Authenticate(cfg.Jellyfin.Username, password); err != nil {
		return nil, err
	}
	cfg.Jellyfin.Token = client.Token()
	cfg.Jellyfin.UserID = client.UserID()
	if persist {
		// Reload so command-line overrides are not written back.
		saved, err := config.Load()
		if err == nil {
			saved.Jellyfin.Token = cfg.Jellyfin.Token
			saved.Jellyfin.UserID = cfg.Jellyfin.UserID
			err = saved.Save()
		}
		if err != nil {
			log.Printf("Failed to save token: %v", err)
		}
	}
	return client, nil
}
