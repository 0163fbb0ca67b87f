package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"blueprint/preset"
	"blueprint/structure"
	"blueprint/tree"
)

func newPresetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "presets",
		Aliases: []string{"preset"},
		Short:   "Manage presets",
	}
	cmd.AddCommand(
		newPresetsListCmd(a),
		newPresetsShowCmd(a),
		newPresetsAddCmd(a),
		newPresetsDeleteCmd(a),
		newPresetsExportCmd(a),
		newPresetsImportCmd(a),
	)
	return cmd
}

func newPresetsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List all presets",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tITEMS\tDESCRIPTION")
			for _, s := range a.presets.List() {
				fmt.Fprintf(w, "%s\t%d\t%s\n", s.Name, s.Items, s.Description)
			}
			return w.Flush()
		},
	}
}

func newPresetsShowCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		asTree bool
	)
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Preview a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, ok := a.presets.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", preset.ErrNotFound, args[0])
			}
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return writeIndented(out, n)
			case asTree:
				return writeIndented(out, tree.FromModel(n))
			}
			fmt.Fprintf(out, "%s\n%s\n\n%s\n", args[0], preset.Description(args[0]), tree.Render(n))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the structure as JSON")
	cmd.Flags().BoolVar(&asTree, "tree", false, "Print the editable tree as JSON")
	return cmd
}

func newPresetsAddCmd(a *app) *cobra.Command {
	var (
		jsonFile string
		textFile string
		treeFile string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or overwrite a preset",
		Long: `Add or overwrite a preset from one of:
  --json FILE   a structure object ({"src": {"main.go": null}})
  --text FILE   tree(1)-style text
  --tree FILE   an editable tree ({"name": ..., "kind": "folder", "children": [...]})
Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				n   *structure.Node
				err error
			)
			switch {
			case jsonFile != "":
				err = readInput(cmd, jsonFile, func(r io.Reader) (err error) {
					n, err = structure.Decode(r)
					return err
				})
			case textFile != "":
				err = readInput(cmd, textFile, func(r io.Reader) (err error) {
					_, n, err = tree.Parse(r)
					return err
				})
			case treeFile != "":
				err = readInput(cmd, treeFile, func(r io.Reader) error {
					var root tree.Item
					if err := json.NewDecoder(r).Decode(&root); err != nil {
						return err
					}
					n = tree.ToModel(&root)
					return nil
				})
			default:
				return errors.New("one of --json, --text or --tree is required")
			}
			if err != nil {
				return err
			}

			if err := a.presets.Add(args[0], n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preset '%s' saved (%d items)\n", args[0], structure.CountItems(n))
			return nil
		},
	}
	cmd.Flags().StringVar(&jsonFile, "json", "", "Structure JSON file")
	cmd.Flags().StringVar(&textFile, "text", "", "Tree text file")
	cmd.Flags().StringVar(&treeFile, "tree", "", "Editable tree JSON file")
	cmd.MarkFlagsMutuallyExclusive("json", "text", "tree")
	return cmd
}

func newPresetsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a preset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := a.presets.Delete(args[0])
			if !removed {
				return fmt.Errorf("%w: %s", preset.ErrNotFound, args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preset '%s' deleted successfully!\n", args[0])
			return nil
		},
	}
}

func newPresetsExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Export a preset to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.presets.Export(args[0])
			if err != nil {
				return fmt.Errorf("failed to export preset: %w", err)
			}
			data = append(data, '\n')
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if output == "" {
				output = args[0] + ".json"
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to export preset: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preset exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default <name>.json, - for stdout)")
	return cmd
}

func newPresetsImportCmd(a *app) *cobra.Command {
	var skipExisting bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import presets from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []preset.ImportOption
			if skipExisting {
				opts = append(opts, preset.SkipExisting())
			}
			var n int
			err := readInput(cmd, args[0], func(r io.Reader) (err error) {
				n, err = a.presets.Import(r, opts...)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to import preset: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully imported %d preset(s)!\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Keep presets that already exist instead of overwriting them")
	return cmd
}

// readInput opens path, or the command's stdin for "-", and hands it to fn.
func readInput(cmd *cobra.Command, path string, fn func(io.Reader) error) error {
	if path == "-" {
		return fn(cmd.InOrStdin())
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}

func writeIndented(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
