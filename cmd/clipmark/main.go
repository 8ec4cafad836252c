package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"clipmark/internal/capture"
	"clipmark/internal/config"
	"clipmark/internal/oracle"
	"clipmark/internal/pipeline"
	"clipmark/internal/vault"
	"clipmark/internal/watch"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "clipmark",
		Short: "Enrich captured web articles with authors, tags and cross-links",
	}
	configPath string
	force      bool
	enrichAll  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "clipmark.yaml", "Path to the config file")

	enrichCmd.Flags().BoolVarP(&force, "force", "f", false, "Re-enrich documents already marked processed")
	enrichCmd.Flags().BoolVar(&enrichAll, "all", false, "Enrich every unprocessed document in the inbox and articles folders")

	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(watchCmd)
}

func initVault(cfg *config.Config) vault.Store {
	return vault.NewFSStore(cfg.Vault.Root)
}

// initOracle builds the configured text-generation client. Enrichment still
// runs without one; the oracle-backed steps just degrade to their defaults.
func initOracle(ctx context.Context, cfg *config.Config) oracle.TextOracle {
	if cfg.AI.APIKey == "" && cfg.AI.BaseURL == "" {
		fmt.Println("⚠️  No AI credentials configured; tag and bio generation disabled.")
		return nil
	}
	o, err := oracle.New(ctx, oracle.Options{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to create oracle: %v", err)
	}
	return o
}

var captureCmd = &cobra.Command{
	Use:   "capture <url>",
	Short: "Download a web article into the vault inbox",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		store := initVault(cfg)
		capturer := capture.NewCapturer(store, cfg.Vault.InboxDir)

		fmt.Printf("🌐 Capturing %s...\n", args[0])
		path, err := capturer.Capture(cmd.Context(), args[0])
		if err != nil {
			log.Fatalf("Capture failed: %v", err)
		}
		fmt.Printf("✅ Saved to %s\n", path)
	},
}

var enrichCmd = &cobra.Command{
	Use:   "enrich [path]",
	Short: "Enrich one document, or all unprocessed documents with --all",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if len(args) == 0 && !enrichAll {
			log.Fatalf("Provide a document path or --all")
		}

		store := initVault(cfg)
		enricher := pipeline.NewEnricher(cfg, store, initOracle(cmd.Context(), cfg), nil)

		paths := args
		if enrichAll {
			paths, err = unprocessedPaths(store, cfg)
			if err != nil {
				log.Fatalf("Failed to list documents: %v", err)
			}
			if len(paths) == 0 {
				fmt.Println("✅ Nothing to enrich.")
				return
			}
		}

		failed := 0
		for _, p := range paths {
			res, err := enricher.Run(cmd.Context(), p, force)
			fmt.Println(res.Summary())
			if err != nil {
				failed++
			}
		}
		if failed > 0 {
			log.Fatalf("%d document(s) failed", failed)
		}
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the inbox and enrich new captures as they arrive",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		store := initVault(cfg)
		enricher := pipeline.NewEnricher(cfg, store, initOracle(cmd.Context(), cfg), nil)

		inboxOnDisk := filepath.Join(cfg.Vault.Root, filepath.FromSlash(cfg.Vault.InboxDir))
		watcher := watch.NewWatcher(inboxOnDisk, func(relPath string) {
			docPath := cfg.Vault.InboxDir + "/" + relPath
			res, err := enricher.Run(context.Background(), docPath, false)
			if err != nil {
				fmt.Printf("❌ %s: %v\n", docPath, err)
				return
			}
			fmt.Println(res.Summary())
		})

		if err := watcher.Run(cmd.Context()); err != nil && err != context.Canceled {
			log.Fatalf("Watcher stopped: %v", err)
		}
	},
}

// unprocessedPaths lists inbox and articles documents that have not been
// enriched yet.
func unprocessedPaths(store vault.Store, cfg *config.Config) ([]string, error) {
	var paths []string
	for _, prefix := range []string{cfg.Vault.InboxDir, cfg.Vault.ArticlesDir} {
		docs, err := store.ListDocuments(prefix)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			if doc.Header.GetBool("dr-processed") && !force {
				continue
			}
			paths = append(paths, doc.Path)
		}
	}
	return paths, nil
}
