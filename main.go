package main

import "github.com/theirongolddev/walletmom/cmd"

func main() {
	cmd.Execute()
}
