package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"aeropulse.app/pulse/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
