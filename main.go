package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

var version = "0.1.0"

const notice = `
keypresenter  Copyright (C) 2020  https://www.hypothermic.nl
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under
certain conditions which are described in the GNU GPL v3 license.
`

var debug bool

// dbg logs only when debugging is enabled.
func dbg(format string, args ...any) {
	if debug {
		log.Printf("debug: "+format, args...)
	}
}

func configDir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "keypresenter")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "keypresenter")
}

// setup loads the config and turns on debug logging if asked to.
func setup() (*AppConfig, Backend, error) {
	cfg, err := LoadAppConfig(configDir())
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	debug = cfg.Debug || os.Getenv("KEYPRESENTER_DEBUG") == "1"

	backend, err := SelectBackend(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("select backend: %w", err)
	}
	return cfg, backend, nil
}

func run() error {
	fmt.Print(notice)

	cfg, backend, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Clean shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Println()
			log.Printf("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	app := NewApp(cfg, backend, os.Stdout)
	if err := watchConfig(ctx, configDir(), app.ApplyConfig); err != nil {
		log.Printf("config live reload disabled: %v", err)
	}
	app.Run(ctx)
	return nil
}

// listKeys prints the catalog the board would show.
func listKeys() error {
	cfg, backend, err := setup()
	if err != nil {
		return err
	}
	devices := backend.OpenDevices()
	defer closeDevices(devices)

	for _, k := range EnumerateKeys(devices, cfg.AllowList()) {
		fmt.Printf("  %-8s %#x\n", k.Label, uint32(k.Code))
	}
	return nil
}

// listDevices prints every source the backend could open and subscribe.
func listDevices() error {
	_, backend, err := setup()
	if err != nil {
		return err
	}
	devices := backend.OpenDevices()
	defer closeDevices(devices)

	fmt.Printf("keypresenter: %s backend, %d source(s)\n", backend.Name(), len(devices))
	for _, d := range devices {
		fmt.Printf("  %s (%d keycodes)\n", d.Name(), len(d.Keymap()))
	}
	return nil
}

func closeDevices(devices []Device) {
	for _, d := range devices {
		d.Close()
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("keypresenter: ")

	if len(os.Args) > 1 {
		var err error
		switch os.Args[1] {
		case "init":
			dir := configDir()
			fmt.Printf("keypresenter: initializing config in %s\n", dir)
			err = initConfig(dir)
			if err == nil {
				fmt.Println("keypresenter: config initialized")
			}
		case "migrate":
			err = migrateConfig(configDir())
		case "keys":
			err = listKeys()
		case "devices":
			err = listDevices()
		case "version":
			fmt.Printf("keypresenter %s\n", version)
			return
		default:
			fmt.Fprintf(os.Stderr, "usage: keypresenter [init|migrate|keys|devices|version]\n")
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "keypresenter: %v\n", err)
		os.Exit(1)
	}
}
