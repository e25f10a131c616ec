package main

import "github.com/OpenTraceLab/regdesc/cmd/regdesc/cmd"

func main() {
	cmd.Execute()
}
