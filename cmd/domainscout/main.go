// Package main provides the domainscout CLI for discovering available
// domain names.
package main

func main() {
	Execute()
}
