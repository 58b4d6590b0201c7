package main

import (
	"github.com/moontv/moonProxy/cmd"
	"github.com/moontv/moonProxy/util"
)

func init() {
	util.LoadConfig()
}

func main() {
	cmd.Execute()
}
