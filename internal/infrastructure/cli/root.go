package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/asoforge/internal/app"
)

// NewRootCmd wires the cobra root command. Running the bare binary starts
// the interactive studio. The terminal adapters are built here and injected
// into the container, which depends only on their port interfaces.
func NewRootCmd(ctx context.Context) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, app.Terminal{
		Renderer:  NewRenderer(),
		Console:   NewConsole(),
		Clipboard: NewClipboard(),
		Progress:  NewSpinner(),
	})
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   "asoforge",
		Short: "Interactive App Store metadata studio",
		Long:  "asoforge generates App Store titles, descriptions, keywords and promotional images through a conversational AI backend.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return container.Orchestrator.Run(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newModelsCommand(container))
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newCacheCommand(container))
	root.AddCommand(newDoctorCommand(container))
	return root, nil
}
