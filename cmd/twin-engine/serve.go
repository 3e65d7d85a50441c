// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sciencetwins/twin-engine/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis pipeline over HTTP",
	Long: `Serve starts an HTTP server exposing the two analysis modes at
POST /api/analyze and the run journal at GET /api/history. Analyze accepts
a JSON body with "mode" and "text" fields, or a multipart form with a PDF
upload.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")

	engine := buildEngine(cfg)
	store := openHistory(cfg)
	if store != nil {
		defer store.Close()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(engine, store, os.Stderr).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(os.Stderr, "twin-engine listening on %s\n", addr)
	return srv.ListenAndServe()
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
