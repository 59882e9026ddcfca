package main

import "sheet-recon/cmd"

func main() {
	cmd.Execute()
}
