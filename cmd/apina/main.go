// Package main is the entry point for the apina CLI.
package main

import "github.com/getmockd/apina/pkg/cli"

func main() {
	cli.Execute()
}
