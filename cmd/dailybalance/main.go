package main

import "dailybalance/internal/cli"

func main() {
	cli.Execute()
}
