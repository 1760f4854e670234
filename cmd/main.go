package main

import (
	"fmt"
	"os"

	"github.com/ostafen/seginfo/cmd/cmd"
	"github.com/ostafen/seginfo/internal/env"
)

func main() {
	PrintLogo()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func PrintLogo() {
	fmt.Println("                 _        __      ")
	fmt.Println(" ___  ___  __ _ (_)_ __  / _| ___ ")
	fmt.Println("/ __|/ _ \\/ _` || | '_ \\| |_ / _ \\")
	fmt.Println("\\__ \\  __/ (_| || | | | |  _| (_) |")
	fmt.Println("|___/\\___|\\__, ||_|_| |_|_|  \\___/")
	fmt.Println("          |___/                   ")
	fmt.Println()
	fmt.Println("Seismic trace dump statistics scanner")
	fmt.Println()
	fmt.Printf("Version:   %s\n", env.Version)
	fmt.Printf("Commit:    %s\n", env.CommitHash)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Println(" ")
}
