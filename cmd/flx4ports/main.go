// Command flx4ports lists the available MIDI input and output ports, to
// help diagnose why the controller is not being found.
package main

import (
	"fmt"

	"github.com/TRC-Loop/flx4go/midiport"
)

func main() {
	defer midiport.CloseDriver()

	fmt.Println("MIDI Input Devices:")
	for _, name := range midiport.InputNames() {
		fmt.Printf("  - %s\n", name)
	}

	fmt.Println()
	fmt.Println("MIDI Output Devices:")
	for _, name := range midiport.OutputNames() {
		fmt.Printf("  - %s\n", name)
	}
}
