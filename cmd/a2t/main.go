package main

import (
	"a2t/cmd/a2t/cmd"
)

// @title           a2t API
// @version         1.0
// @description     Upload an audio file and get back a speaker-labelled transcript.
// @BasePath        /api/v1
func main() {
	// Execute the CLI command
	cmd.Execute()
}
