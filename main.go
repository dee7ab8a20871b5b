/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/daffahilmyf/mdd-seed/cmd"

func main() {
	cmd.Execute()
}
