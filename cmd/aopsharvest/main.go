// Package main provides the entry point for the aopsharvest CLI.
//
// aopsharvest downloads competition problems from the Art of Problem Solving
// wiki and assembles them into a problem document and a solution document.
//
// Usage:
//
//	aopsharvest harvest --variant AMC_8 --years 2003-2005 --problems 21-25
//	aopsharvest history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
