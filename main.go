package main

import (
	"github.com/munishbansal2000/layla-sub008/frontend/cli/cmd"
)

func main() {
	cmd.Execute()
}
