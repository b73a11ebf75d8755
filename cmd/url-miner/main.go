package main

import "github.com/ChristoGH/url-miner/internal/cli"

func main() {
	cli.Execute()
}
