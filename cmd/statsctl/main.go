// Package main provides statsctl, a command-line client for the crawl statistics API.
package main

func main() {
	Execute()
}
