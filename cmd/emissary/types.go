package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evergrid/emissary/internal/cli"
)

func typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered document types and their field schemas",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			fmt.Println(cli.TitleStyle.Render("Registered document types"))
			for _, typeID := range app.registry.Types() {
				spec, err := app.registry.Resolve(typeID)
				if err != nil {
					return err
				}
				fmt.Printf("%s  %s\n", cli.BoldStyle.Render(string(spec.TypeID)), cli.SubtleStyle.Render("calculator: "+spec.CalculatorID))
				for _, f := range spec.Fields {
					marker := "optional"
					if f.Required {
						marker = "required"
					}
					fmt.Printf("  %-20s %-8s %s\n", f.Name, f.Kind, marker)
				}
				fmt.Println()
			}
			return nil
		},
	}
}
