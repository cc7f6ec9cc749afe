package main

import (
	"github.com/Laisky/laisky-media-bot/cmd"
)

func main() {
	cmd.Execute()
}
