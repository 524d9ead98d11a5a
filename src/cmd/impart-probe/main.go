// impart-probe sends a focus command to a resident plugin instance and
// reports whether one answered. Useful for checking cross-process focus
// forwarding by hand.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"kicad-impart/src/singleinstance"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var port int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "impart-probe",
		Short: "Probe for a resident import plugin instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				log.SetOutput(io.Discard)
			}
			if singleinstance.Probe(port) {
				fmt.Printf("resident found on 127.0.0.1:%d, focus forwarded\n", port)
				return nil
			}
			fmt.Printf("no resident on 127.0.0.1:%d\n", port)
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", singleinstance.GetPort(), "coordination port to probe")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log probe details to stderr")
	return cmd.Execute()
}
