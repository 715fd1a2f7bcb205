package main

import "github.com/LegacyCodeHQ/runconvert/cmd"

func main() {
	cmd.Execute()
}
