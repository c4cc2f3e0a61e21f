// Package main is the entry point for the richtext editor.
package main

import (
	"os"

	"richtext/internal/app"
	"richtext/internal/cli"
	"richtext/internal/config"
)

// Build information injected via ldflags at build time.
var version = "dev"

func main() {
	root := cli.NewRootCmd(version, func(cfg config.Config, path, password string) error {
		a, err := app.New(app.Options{Config: cfg, Path: path, Password: password})
		if err != nil {
			return err
		}
		return a.Run()
	})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
