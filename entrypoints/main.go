package main

import (
	"github.com/Laisky/movie-analytics/cmd"
)

func main() {
	cmd.Execute()
}
