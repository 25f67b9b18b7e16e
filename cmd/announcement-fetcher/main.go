package main

import cmd "github.com/rohmanhakim/announcement-fetcher/internal/cli"

func main() {
	cmd.Execute()
}
