package main

import "github.com/hosgoru/handsync/internal/cli"

func main() {
	cli.Execute()
}
