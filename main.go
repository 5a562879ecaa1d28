package main

import "github.com/pagepulse/pagepulse/cmd"

func main() {
	cmd.Execute()
}
