// Package main provides the entry point for vfpsim.
// vfpsim translates AArch32 VFP scalar floating-point instructions
// into register-transfer programs and evaluates them.
//
// For the full CLI, use: go run ./cmd/vfpsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("vfpsim - VFP Instruction Translator")
	fmt.Println("")
	fmt.Println("Usage: vfpsim [options] <words.hex | word...>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -isa     Instruction set: vfp or riscv")
	fmt.Println("  -run     Execute the translated programs")
	fmt.Println("  -print   Print the translated programs")
	fmt.Println("  -cache   Cache translations and report statistics")
	fmt.Println("  -v       Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/vfpsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/vfpsim' instead.")
	}
}
