package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/asoforge/internal/app"
	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/infrastructure/config"
)

func newModelsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available backend models",
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := container.Client.ListModels(cmd.Context())
			if err != nil || len(models) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog unavailable, showing fallback list:")
				models = domain.FallbackModels()
			}
			for _, m := range models {
				marker := " "
				if m.Premium {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-24s %s\n", marker, m.ID, m.Name)
			}
			return nil
		},
	}
}

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.DoctorService.Run(cmd.Context())
			renderDoctorReport(cmd.OutOrStdout(), report)
			return err
		},
	}
}

func renderDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n", strings.ToUpper(string(check.Status)), check.Name, check.Details)
	}
}

func newConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect asoforge configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show full configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}

	var key string
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Get a specific configuration value",
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return fmt.Errorf("--key is required")
			}
			return runConfigGet(cmd.Context(), cmd.OutOrStdout(), container, key)
		},
	}
	getCmd.Flags().StringVar(&key, "key", "", "Key path (e.g., preferences.default_model)")

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value (value accepts YAML syntax)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := strings.Join(args[1:], " ")
			return runConfigSet(cmd.Context(), container, key, value)
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigEdit(container.ConfigLoader)
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := container.ConfigProvider.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigLoader.Reset()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration reset at %s\n", container.ConfigLoader.Path())
			data, _ := yaml.Marshal(cfg)
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	configCmd.AddCommand(showCmd, getCmd, setCmd, editCmd, validateCmd, resetCmd)
	return configCmd
}

func runConfigShow(ctx context.Context, out io.Writer, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigGet(ctx context.Context, out io.Writer, container *app.Container, key string) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var generic map[string]interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return err
	}
	value, ok := traverseKey(generic, strings.Split(key, "."))
	if !ok {
		return fmt.Errorf("key %s not found", key)
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(data))
	return nil
}

func traverseKey(data interface{}, path []string) (interface{}, bool) {
	if len(path) == 0 {
		return data, true
	}
	switch node := data.(type) {
	case map[string]interface{}:
		next, ok := node[path[0]]
		if !ok {
			return nil, false
		}
		return traverseKey(next, path[1:])
	default:
		return nil, false
	}
}

func runConfigSet(ctx context.Context, container *app.Container, key, value string) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return err
	}
	cfgMap := map[string]interface{}{}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, &cfgMap); err != nil {
		return err
	}

	parsedValue, err := parseValue(value)
	if err != nil {
		return err
	}
	if !setMapValue(cfgMap, strings.Split(key, "."), parsedValue) {
		return fmt.Errorf("unable to set key %s", key)
	}

	updatedRaw, err := yaml.Marshal(cfgMap)
	if err != nil {
		return err
	}

	var updated domain.Config
	if err := yaml.Unmarshal(updatedRaw, &updated); err != nil {
		return err
	}

	return container.ConfigLoader.Save(updated)
}

func runConfigEdit(loader *config.FileLoader) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	cmd := exec.Command(editor, loader.Path())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func parseValue(input string) (interface{}, error) {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil {
		return input, nil
	}
	return parsed, nil
}

func setMapValue(root map[string]interface{}, path []string, value interface{}) bool {
	if len(path) == 0 {
		return false
	}
	current := root
	for i := 0; i < len(path)-1; i++ {
		key := path[i]
		next, ok := current[key]
		if !ok {
			newChild := map[string]interface{}{}
			current[key] = newChild
			current = newChild
			continue
		}
		child, ok := next.(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			current[key] = child
		}
		current = child
	}
	current[path[len(path)-1]] = value
	return true
}

func newHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect generation history",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent generations",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := container.HistoryStore.Records(limit, "")
			if err != nil {
				return err
			}
			printRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Max entries to show")

	var query string
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search history by kind or model",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return fmt.Errorf("--query required")
			}
			records, err := container.HistoryStore.Records(0, query)
			if err != nil {
				return err
			}
			printRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
	searchCmd.Flags().StringVar(&query, "query", "", "Search keyword")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear generation history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return container.HistoryStore.Clear()
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export history as jsonl",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return container.HistoryStore.ExportJSON(args[0])
		},
	}

	historyCmd.AddCommand(listCmd, searchCmd, clearCmd, exportCmd)
	return historyCmd
}

func printRecords(out io.Writer, records []domain.GenerationRecord) {
	for _, rec := range records {
		kind := rec.Kind
		if rec.Refinement {
			kind += " (refined)"
		}
		fmt.Fprintf(out, "%s | %-20s | %-18s | %4d chars | %5d ms\n",
			rec.Timestamp.Format(time.RFC3339), kind, rec.Model, rec.OutputChars, rec.DurationMS)
	}
}

func newCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the competitor lookup cache",
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached competitor lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return container.LookupCache.Clear()
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.LookupCache.Dir())
			return nil
		},
	}

	cacheCmd.AddCommand(clearCmd, pathCmd)
	return cacheCmd
}
