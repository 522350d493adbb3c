package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"worksearch.app/aggregator/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
