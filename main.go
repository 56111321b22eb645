package main

import (
	"github.com/jdomian/obd-gauge/cmd"
)

func main() {
	cmd.Execute()
}
