package main

import (
	"os"

	"github.com/gastonglz/portfolio-engine/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
