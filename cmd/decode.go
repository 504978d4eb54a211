package cmd

import (
	"fmt"

	"github.com/Norgate-AV/icp/internal/classpath"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:          "decode <marked entries...>",
	Short:        "Decode a marker-encoded transform output",
	Long:         `Decode a marker-encoded transform output sequence back into a classpath and print each original entry with its instrumented counterpart.`,
	RunE:         runDecode,
	SilenceUsage: true,
}

func runDecode(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires at least one entry")
	}

	cp, err := classpath.FromInstrumentingTransformOutput(args)
	if err != nil {
		return err
	}

	transformed, ok := cp.(*classpath.TransformedClassPath)
	if !ok {
		for _, file := range cp.AsFiles() {
			fmt.Println(file)
		}

		return nil
	}

	for _, original := range transformed.AsFiles() {
		if instrumented, ok := transformed.FindTransformedEntryFor(original); ok {
			fmt.Printf("%s -> %s\n", original, instrumented)
		} else {
			fmt.Println(original)
		}
	}

	return nil
}
