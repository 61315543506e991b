package main

import "github.com/petrarca/dependency-detector/internal/cmd"

func main() {
	cmd.Execute()
}
