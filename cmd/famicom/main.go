// Command famicom runs the NES emulator core under an Ebitengine
// window.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"famicom/internal/app"
	"famicom/internal/console"
)

var buildVersion = "dev"

func main() {
	var (
		romPath    = flag.String("rom", "", "path to an iNES (.nes) ROM file")
		configPath = flag.String("config", "famicom.json", "path to the JSON config file")
		scale      = flag.Int("scale", 0, "window scale override (0 keeps the config value)")
		showVer    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Println("famicom", buildVersion)
		return
	}

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("famicom: loading config: %v", err)
	}
	if *scale > 0 {
		cfg.Window.Scale = *scale
	}

	emu := console.New()
	if *romPath != "" {
		if err := emu.InsertROM(*romPath); err != nil {
			// Fall through with no cartridge inserted: the window still
			// opens and renders static, matching the reference
			// implementation's behavior on a failed ROM load.
			log.Printf("famicom: loading rom %q: %v", *romPath, err)
		}
	} else {
		fmt.Println("No game rom detected!")
		fmt.Println("syntax: famicom -rom <rom filename>")
	}

	game := app.NewGame(emu, cfg)
	if err := app.Run(game, "famicom"); err != nil {
		os.Exit(1)
	}
}
