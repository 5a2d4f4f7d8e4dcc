// Command fontcheck registers every font of a Valewind configuration file
// against the host font subsystem and reports which ones load.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"valewind/engine/fonts"
	"valewind/hal"
	"valewind/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file.")
		sample     = flag.String("sample", "Hello, Valewind", "Text measured with each font.")
	)
	flag.Parse()

	if *configPath == "" {
		fatalf("usage: fontcheck -config valewind.toml [-sample text]")
	}
	f, err := config.Load(*configPath)
	if err != nil {
		fatalf("%v", err)
	}

	h := hal.New()
	if err := h.Init(); err != nil {
		fatalf("init: %v", err)
	}
	defer h.Close()
	sys, err := h.Fonts()
	if err != nil {
		fatalf("fonts: %v", err)
	}
	defer sys.Close()

	if failed := check(os.Stdout, fonts.NewCache(f.Assets.Path), sys, f.Fonts, *sample); failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d fonts failed\n", failed, len(f.Fonts))
		_ = sys.Close()
		_ = h.Close()
		os.Exit(1)
	}
}

// check registers and measures each font, printing one line per font.
// It returns the number of failures.
func check(w io.Writer, c *fonts.Cache, sys hal.FontSystem, list []config.Font, sample string) int {
	failed := 0
	for _, fn := range list {
		style, err := fonts.ParseStyle(fn.Style)
		if err == nil {
			err = c.Register(sys, fn.Name, fn.Path, fn.Size, style)
		}
		if err != nil {
			fmt.Fprintf(w, "FAIL %-12s %v\n", fn.Name, err)
			failed++
			continue
		}

		hd, err := c.Resolve(sys, fn.Name, "", 0)
		if err != nil {
			fmt.Fprintf(w, "FAIL %-12s %v\n", fn.Name, err)
			failed++
			continue
		}
		tw, th, err := hd.SizeOf(sample)
		_ = hd.Close()
		if err != nil {
			fmt.Fprintf(w, "FAIL %-12s measure: %v\n", fn.Name, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "ok   %-12s %s size=%d style=%s sample=%dx%d\n", fn.Name, fn.Path, fn.Size, style, tw, th)
	}
	return failed
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
