package main

import (
	"github.com/alecthomas/kong"

	"github.com/llehouerou/undertow/cmd"
)

var Version = "dev"

type CLI struct {
	Play    cmd.PlayCmd      `cmd:"" default:"withargs" help:"Play audio files and folders"`
	Decode  cmd.DecodeCmd    `cmd:"" help:"Decode images through the decode worker"`
	Version kong.VersionFlag `help:"Print version and exit"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("undertow"),
		kong.Description("Terminal music player with background audio and image workers."),
		kong.Vars{"version": Version},
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
