package main

import (
	"context"
	"io"
	"log"
	"os"

	"golang.org/x/term"
)

// App ties the pieces together: the chosen backend's devices, the key
// catalog, the board and the UI loop that owns it.
type App struct {
	cfg     *AppConfig
	backend Backend
	devices []Device
	keys    []Key
	board   *Board
	loop    *MainLoop
	out     io.Writer
}

// NewApp opens the backend's devices, builds the catalog and lays out the
// board. It never fails for lack of devices: the board is then static.
func NewApp(cfg *AppConfig, backend Backend, out *os.File) *App {
	devices := backend.OpenDevices()
	log.Printf("%s backend: %d input source(s)", backend.Name(), len(devices))

	keys := EnumerateKeys(devices, cfg.AllowList())
	if len(keys) == 0 {
		log.Printf("no allowed keys found on any input source")
	}

	a := &App{
		cfg:     cfg,
		backend: backend,
		devices: devices,
		keys:    keys,
		loop:    NewMainLoop(),
		out:     out,
	}
	a.board = NewBoard(keys, boardOptions(cfg, out), a.loop, out)
	return a
}

// boardOptions derives the presentation settings, clamping the row width to
// the terminal when out is one.
func boardOptions(cfg *AppConfig, out *os.File) BoardOptions {
	opts := BoardOptions{
		Pulse:   cfg.Pulse(),
		Columns: cfg.Columns,
		Colour:  useColour(cfg.Colour, out),
	}
	if out == nil || !term.IsTerminal(int(out.Fd())) {
		return opts
	}
	opts.Redraw = os.Getenv("TERM") != "dumb"
	if width, _, err := term.GetSize(int(out.Fd())); err == nil {
		// Each cell is the label plus two spaces; most labels are one rune.
		if fit := width / 3; fit > 0 && fit < opts.Columns {
			opts.Columns = fit
		}
	}
	return opts
}

// useColour resolves the colour setting. auto means colour on a terminal
// that is not "dumb".
func useColour(setting string, out *os.File) bool {
	switch setting {
	case "always":
		return true
	case "never":
		return false
	}
	if out == nil || !term.IsTerminal(int(out.Fd())) {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// Keys returns the catalog the board was built from.
func (a *App) Keys() []Key {
	return a.keys
}

// Run shows the board and polls until ctx is cancelled. When there is
// nothing to poll the board stays up without highlighting.
func (a *App) Run(ctx context.Context) {
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		a.loop.Run()
	}()
	a.loop.Invoke(a.board.Render)

	status := Run(ctx, PollContext{
		Devices:         a.devices,
		Dispatcher:      a.loop,
		ShutdownTimeout: a.cfg.ShutdownTimeout(),
	}, a.onEvent)
	log.Printf("polling stopped: %s", status)

	if status == StatusNoSources {
		<-ctx.Done()
	}
	a.loop.Quit()
	<-loopDone
}

func (a *App) onEvent(ev KeyEvent) {
	dbg("%s", ev)
	a.board.HandleEvent(ev)
}

// ApplyConfig re-applies the presentation settings of a reloaded config on
// the UI loop.
func (a *App) ApplyConfig(cfg *AppConfig) {
	f, _ := a.out.(*os.File)
	opts := boardOptions(cfg, f)
	a.loop.Invoke(func() { a.board.Apply(opts) })
}
