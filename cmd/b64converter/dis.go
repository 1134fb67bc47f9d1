package main

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/b64converter/bytecode"
	"github.com/deepnoodle-ai/b64converter/dis"
	"github.com/deepnoodle-ai/b64converter/errz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newDisCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis <path-to-module-image>",
		Short: "Disassemble the method bodies of a module image",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errz.Usagef("expected exactly one module path, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return disHandler(cmd, v, args[0])
		},
	}
	cmd.Flags().String("method", "", "only disassemble this method (Namespace.Type::Method)")
	return cmd
}

func disHandler(cmd *cobra.Command, v *viper.Viper, path string) error {
	m, err := loadModule(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	// If a method name was provided, disassemble its code only
	if name := v.GetString("method"); name != "" {
		md, ok := m.FindMethod(name)
		if !ok {
			if hint := errz.DidYouMean(errz.Suggest(name, methodNames(m))); hint != "" {
				return errz.Usagef("method %q not found; %s", name, hint)
			}
			return errz.Usagef("method %q not found", name)
		}
		return dis.PrintMethod(md, out)
	}
	return dis.PrintModule(m, out)
}

func methodNames(m *bytecode.Module) []string {
	var names []string
	for _, t := range m.GetTypes() {
		for _, md := range t.Methods {
			names = append(names, md.FullName())
		}
	}
	return names
}

func loadModule(path string) (*bytecode.Module, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, errz.Usagef("%s: not an existing file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errz.Load(path, err)
	}
	m, err := bytecode.Unmarshal(data)
	if err != nil {
		return nil, errz.Load(path, fmt.Errorf("decode module: %w", err))
	}
	return m, nil
}
